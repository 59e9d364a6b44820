package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/sutra-starters/internal/llm"
)

type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[string][]Entry
	now     func() time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: map[string][]Entry{}, now: time.Now}
}

func (s *InMemoryStore) Add(ctx context.Context, userID string, msgs []llm.Message) error {
	if userID == "" {
		return ErrMissingUser
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	now := s.now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range msgs {
		s.entries[userID] = append(s.entries[userID], Entry{
			ID:        uuid.NewString(),
			UserID:    userID,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: now,
		})
	}
	return nil
}

func (s *InMemoryStore) Search(ctx context.Context, userID, query string, limit int) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return rank(s.entries[userID], query, limit), nil
}

func (s *InMemoryStore) Recent(ctx context.Context, userID string, t time.Time) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return since(s.entries[userID], t), nil
}

func (s *InMemoryStore) Close() error { return nil }
