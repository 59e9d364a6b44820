// Package memory keeps per-user conversation memories for the chat assistants.
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/yungbote/sutra-starters/internal/llm"
)

var ErrMissingUser = errors.New("memory: user id required")

type Entry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type Store interface {
	Add(ctx context.Context, userID string, msgs []llm.Message) error
	// Search ranks entries by word overlap with query. An empty or "*" query
	// returns the most recent entries.
	Search(ctx context.Context, userID, query string, limit int) ([]Entry, error)
	// Recent returns entries created after since, oldest first.
	Recent(ctx context.Context, userID string, since time.Time) ([]Entry, error)
	Close() error
}

func words(s string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, w := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len([]rune(w)) > 2 {
			out[w] = struct{}{}
		}
	}
	return out
}

func overlap(q map[string]struct{}, content string) int {
	n := 0
	for w := range words(content) {
		if _, ok := q[w]; ok {
			n++
		}
	}
	return n
}

// rank is shared by the backends so they order results identically.
func rank(entries []Entry, query string, limit int) []Entry {
	query = strings.TrimSpace(query)
	if query == "" || query == "*" {
		out := append([]Entry(nil), entries...)
		sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
		return capN(out, limit)
	}
	q := words(query)
	type scored struct {
		e     Entry
		score int
	}
	var hits []scored
	for _, e := range entries {
		if s := overlap(q, e.Content); s > 0 {
			hits = append(hits, scored{e, s})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].e.CreatedAt.After(hits[j].e.CreatedAt)
	})
	out := make([]Entry, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.e)
	}
	return capN(out, limit)
}

func since(entries []Entry, t time.Time) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.CreatedAt.After(t) {
			out = append(out, e)
		}
	}
	return out
}

func capN(es []Entry, n int) []Entry {
	if n > 0 && len(es) > n {
		return es[:n]
	}
	return es
}

// Context joins entries into the "Role: content" lines placed in prompts.
func Context(entries []Entry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		role := e.Role
		if role != "" {
			role = strings.ToUpper(role[:1]) + role[1:]
		}
		b.WriteString(role)
		b.WriteString(": ")
		b.WriteString(e.Content)
	}
	return b.String()
}
