package search

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/sutra-starters/internal/platform/logger"
)

type ImageFinder interface {
	FirstImage(ctx context.Context, q string) (string, error)
}

// Enrichment says which query to look up for an item and where to store the image URL.
type Enrichment struct {
	Query func(Item) string
	Field string
}

// NewsImages and ShoppingImages search by title and set imageUrl.
var (
	NewsImages     = Enrichment{Query: func(it Item) string { return it.String("title") }, Field: "imageUrl"}
	ShoppingImages = NewsImages
	// JobLogos looks up "<company> company logo" and sets thumbnail.
	JobLogos = Enrichment{
		Query: func(it Item) string {
			if c := strings.TrimSpace(it.String("company_name")); c != "" {
				return c + " company logo"
			}
			return ""
		},
		Field: "thumbnail",
	}
)

// EnrichImages fills in image URLs with at most workers lookups in flight.
// A failed or empty lookup leaves that item as it was.
func EnrichImages(ctx context.Context, items []Item, finder ImageFinder, e Enrichment, workers int, log *logger.Logger) []Item {
	if log == nil {
		log = logger.Nop()
	}
	if workers < 1 {
		workers = 1
	}
	out := make([]Item, len(items))
	var eg errgroup.Group
	eg.SetLimit(workers)
	for i, it := range items {
		i, it := i, it
		out[i] = it
		q := strings.TrimSpace(e.Query(it))
		if q == "" {
			continue
		}
		eg.Go(func() error {
			url, err := finder.FirstImage(ctx, q)
			if err != nil {
				log.Warn("image lookup failed", "query", q, "error", err)
				return nil
			}
			if url == "" {
				return nil
			}
			cp := it.Clone()
			cp[e.Field] = url
			out[i] = cp
			return nil
		})
	}
	_ = eg.Wait()
	return out
}
