package document

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/yungbote/sutra-starters/internal/llm"
	"github.com/yungbote/sutra-starters/internal/textsplit"
)

type Passage struct {
	Index int     `json:"index"`
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// Index keeps embedded passages in memory for similarity search.
type Index struct {
	embedder llm.Embedder

	mu       sync.RWMutex
	passages []string
	vectors  [][]float32
}

func NewIndex(embedder llm.Embedder) *Index {
	return &Index{embedder: embedder}
}

// Add splits text into passages of chunkSize runes and embeds them.
func (ix *Index) Add(ctx context.Context, text string, chunkSize, overlap int) (int, error) {
	passages := textsplit.Split(strings.TrimSpace(text), chunkSize, overlap)
	if len(passages) == 0 {
		return 0, ErrNoText
	}
	vecs, err := ix.embedder.Embed(ctx, passages)
	if err != nil {
		return 0, fmt.Errorf("embed passages: %w", err)
	}
	if len(vecs) != len(passages) {
		return 0, fmt.Errorf("embed passages: got %d vectors for %d passages", len(vecs), len(passages))
	}
	ix.mu.Lock()
	ix.passages = append(ix.passages, passages...)
	ix.vectors = append(ix.vectors, vecs...)
	ix.mu.Unlock()
	return len(passages), nil
}

func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.passages)
}

// Search returns up to k passages ordered by cosine similarity to query.
func (ix *Index) Search(ctx context.Context, query string, k int) ([]Passage, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("document: empty query")
	}
	vecs, err := ix.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vecs) != 1 {
		return nil, errors.New("embed query: no vector returned")
	}
	q := vecs[0]

	ix.mu.RLock()
	out := make([]Passage, 0, len(ix.passages))
	for i, v := range ix.vectors {
		out = append(out, Passage{Index: i, Text: ix.passages[i], Score: cosine(q, v)})
	}
	ix.mu.RUnlock()

	sort.SliceStable(out, func(a, b int) bool { return out[a].Score > out[b].Score })
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out, nil
}

func cosine(a, b []float32) float64 {
	n := min(len(a), len(b))
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
