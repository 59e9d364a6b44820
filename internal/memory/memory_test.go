package memory

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/sutra-starters/internal/llm"
)

func exerciseStore(t *testing.T, s Store, setNow func(time.Time)) {
	t.Helper()
	ctx := context.Background()
	user := "u-" + uuid.NewString()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	setNow(base.Add(-40 * 24 * time.Hour))
	if err := s.Add(ctx, user, []llm.Message{llm.User("I love cricket matches"), llm.Assistant("Cricket is great")}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	setNow(base)
	if err := s.Add(ctx, user, []llm.Message{llm.User("My name is Asha and I live in Pune."), llm.Assistant("Nice to meet you Asha")}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	hits, err := s.Search(ctx, user, "cricket", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("unexpected hits: %+v", hits)
	}

	latest, err := s.Search(ctx, user, "*", 1)
	if err != nil || len(latest) != 1 || latest[0].CreatedAt.Before(base) {
		t.Fatalf("wildcard search: %v %+v", err, latest)
	}

	recent, err := s.Recent(ctx, user, base.Add(-30*24*time.Hour))
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 || recent[0].Role != llm.RoleUser {
		t.Fatalf("unexpected recent: %+v", recent)
	}

	if err := s.Add(ctx, "", nil); !errors.Is(err, ErrMissingUser) {
		t.Fatalf("expected ErrMissingUser, got %v", err)
	}
}

func TestInMemoryStore(t *testing.T) {
	s := NewInMemoryStore()
	exerciseStore(t, s, func(now time.Time) { s.now = func() time.Time { return now } })
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("missing TEST_REDIS_ADDR")
	}
	s, err := NewRedisStore(addr, nil)
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer s.Close()
	exerciseStore(t, s, func(now time.Time) { s.now = func() time.Time { return now } })
}

func TestExtractProfile(t *testing.T) {
	p := ExtractProfile([]Entry{
		{Content: "Hello, my name is ravi."},
		{Content: "I was diagnosed with type 1 last year"},
		{Content: "I live in nashik. It is hot."},
		{Content: "Doctor says it is actually Type 2"},
	})
	want := Profile{Name: "Ravi", DiabetesType: "Type 2", Location: "Nashik"}
	if p != want {
		t.Fatalf("profile=%+v want %+v", p, want)
	}
	if !ExtractProfile(nil).Empty() {
		t.Fatalf("expected empty profile")
	}
}

func TestContext(t *testing.T) {
	got := Context([]Entry{{Role: "user", Content: "hi"}, {Role: "assistant", Content: "hello"}})
	if got != "User: hi\nAssistant: hello" {
		t.Fatalf("context=%q", got)
	}
}
