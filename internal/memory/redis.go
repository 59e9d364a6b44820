package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/sutra-starters/internal/llm"
	"github.com/yungbote/sutra-starters/internal/platform/logger"
)

const (
	keyPrefix = "sutra:memory:"
	// maxEntries caps each user's list; older entries are trimmed on write.
	maxEntries = 2000
)

// RedisStore keeps each user's entries as JSON in one list.
type RedisStore struct {
	rdb *goredis.Client
	log *logger.Logger
	now func() time.Time
}

func NewRedisStore(addr string, log *logger.Logger) (*RedisStore, error) {
	if log == nil {
		log = logger.Nop()
	}
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{rdb: rdb, log: log.With("service", "RedisMemoryStore"), now: time.Now}, nil
}

func key(userID string) string { return keyPrefix + userID }

func (s *RedisStore) Add(ctx context.Context, userID string, msgs []llm.Message) error {
	if userID == "" {
		return ErrMissingUser
	}
	if len(msgs) == 0 {
		return nil
	}
	now := s.now().UTC()
	vals := make([]any, 0, len(msgs))
	for _, m := range msgs {
		raw, err := json.Marshal(Entry{
			ID:        uuid.NewString(),
			UserID:    userID,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: now,
		})
		if err != nil {
			return err
		}
		vals = append(vals, raw)
	}
	pipe := s.rdb.TxPipeline()
	pipe.RPush(ctx, key(userID), vals...)
	pipe.LTrim(ctx, key(userID), -maxEntries, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("memory: redis add: %w", err)
	}
	return nil
}

func (s *RedisStore) all(ctx context.Context, userID string) ([]Entry, error) {
	raw, err := s.rdb.LRange(ctx, key(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("memory: redis read: %w", err)
	}
	out := make([]Entry, 0, len(raw))
	for _, r := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			s.log.Warn("skipping malformed memory entry", "user_id", userID, "error", err)
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *RedisStore) Search(ctx context.Context, userID, query string, limit int) ([]Entry, error) {
	es, err := s.all(ctx, userID)
	if err != nil {
		return nil, err
	}
	return rank(es, query, limit), nil
}

func (s *RedisStore) Recent(ctx context.Context, userID string, t time.Time) ([]Entry, error) {
	es, err := s.all(ctx, userID)
	if err != nil {
		return nil, err
	}
	return since(es, t), nil
}

// Forget drops every entry for a user.
func (s *RedisStore) Forget(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, key(userID)).Err()
}

func (s *RedisStore) Close() error { return s.rdb.Close() }
