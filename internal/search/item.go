// Package search wraps the Serper and SerpAPI web search APIs.
package search

import (
	"fmt"
	"strconv"
	"strings"
)

// Item is one result record exactly as the upstream returned it, plus any enrichment.
type Item map[string]any

func (it Item) String(key string) string {
	switch v := it[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func (it Item) Clone() Item {
	out := make(Item, len(it))
	for k, v := range it {
		out[k] = v
	}
	return out
}

// Price keeps every digit and dot in the price string and parses the result,
// so "$1,299.00" is 1299 and "₹ 499" is 499. A range like "$10 - $20" runs
// together as 1020.
func (it Item) Price() (float64, bool) {
	raw := it.String("price")
	if raw == "" {
		return 0, false
	}
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	f, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// FilterByPrice keeps items whose parsed price is within [lo, hi]. Items without a price are dropped.
func FilterByPrice(items []Item, lo, hi float64) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if p, ok := it.Price(); ok && p >= lo && p <= hi {
			out = append(out, it)
		}
	}
	return out
}
