package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/sutra-starters/internal/llm"
	"github.com/yungbote/sutra-starters/internal/memory"
)

type failingMemory struct{}

func (failingMemory) Add(context.Context, string, []llm.Message) error { return errors.New("down") }
func (failingMemory) Search(context.Context, string, string, int) ([]memory.Entry, error) {
	return nil, errors.New("down")
}
func (failingMemory) Recent(context.Context, string, time.Time) ([]memory.Entry, error) {
	return nil, errors.New("down")
}
func (failingMemory) Close() error { return nil }

func TestTranscript(t *testing.T) {
	var tr Transcript
	tr.Append(llm.RoleUser, "a")
	tr.Append(llm.RoleAssistant, "b")
	tr.Append(llm.RoleUser, "c")
	if tr.Len() != 3 {
		t.Fatalf("len=%d", tr.Len())
	}
	if tail := tr.Tail(2); len(tail) != 2 || tail[0].Content != "b" {
		t.Fatalf("tail=%+v", tail)
	}
	msgs := tr.Messages()
	msgs[0].Content = "mutated"
	if tr.Messages()[0].Content != "a" {
		t.Fatalf("Messages must return a copy")
	}
	tr.Reset()
	if tr.Len() != 0 {
		t.Fatalf("expected empty after reset")
	}
}

func TestSessions(t *testing.T) {
	s := NewSessions()
	id, tr := s.Get("")
	if id == "" {
		t.Fatalf("expected generated id")
	}
	tr.Append(llm.RoleUser, "hi")
	if _, again := s.Get(id); again.Len() != 1 {
		t.Fatalf("expected same transcript")
	}
	if !s.Reset(id) || tr.Len() != 0 {
		t.Fatalf("reset failed")
	}
	if s.Reset("missing") {
		t.Fatalf("reset of unknown session should report false")
	}
	if !s.Delete(id) || s.Len() != 0 {
		t.Fatalf("delete failed")
	}
}

func TestAssistant_UsesMemoryAndTranscript(t *testing.T) {
	mem := memory.NewInMemoryStore()
	ctx := context.Background()
	if err := mem.Add(ctx, "u1", []llm.Message{llm.User("My name is Meera and I live in Nagpur. I have type 2")}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	var seen [][]llm.Message
	m := &llm.Mock{Handler: func(_ context.Context, msgs []llm.Message) (string, error) {
		seen = append(seen, msgs)
		return "reply " + llm.LastUser(msgs), nil
	}}
	a := NewAssistant(Diabetes, m, mem, nil, Options{}, nil)

	r1, err := a.Reply(ctx, Turn{UserID: "u1", Language: "Marathi", Text: "What can I eat for breakfast?"})
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	sys := seen[0][0].Content
	for _, want := range []string{"Meera", "Nagpur", "Type 2", "Respond in Marathi", "My name is Meera"} {
		if !strings.Contains(sys, want) {
			t.Fatalf("system prompt missing %q: %s", want, sys)
		}
	}

	if _, err := a.Reply(ctx, Turn{UserID: "u1", SessionID: r1.SessionID, Text: "And lunch?"}); err != nil {
		t.Fatalf("Reply: %v", err)
	}
	second := seen[1]
	if len(second) != 4 || second[1].Content != "What can I eat for breakfast?" || second[2].Role != llm.RoleAssistant {
		t.Fatalf("expected history in second call, got %+v", second)
	}

	stored, _ := mem.Search(ctx, "u1", "*", 0)
	if len(stored) != 5 {
		t.Fatalf("expected 5 memory entries, got %d", len(stored))
	}
}

func TestAssistant_MemoryFailureIsSkipped(t *testing.T) {
	a := NewAssistant(Companion, &llm.Mock{}, failingMemory{}, nil, Options{}, nil)
	r, err := a.Reply(context.Background(), Turn{UserID: "u", Text: "hello"})
	if err != nil {
		t.Fatalf("Reply: %v", err)
	}
	if r.Text != "mock: hello" {
		t.Fatalf("reply=%q", r.Text)
	}
}

func TestAssistant_ReplyStream(t *testing.T) {
	m := &llm.Mock{Handler: func(context.Context, []llm.Message) (string, error) {
		return strings.Repeat("x", 40), nil
	}}
	a := NewAssistant(Generic, m, nil, nil, Options{}, nil)
	var deltas []string
	r, err := a.ReplyStream(context.Background(), Turn{Text: "hi"}, func(d string) { deltas = append(deltas, d) })
	if err != nil {
		t.Fatalf("ReplyStream: %v", err)
	}
	if len(deltas) != 3 || strings.Join(deltas, "") != r.Text {
		t.Fatalf("deltas=%v reply=%q", deltas, r.Text)
	}
	if _, err := a.Reply(context.Background(), Turn{Text: "  "}); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestPersonaByName(t *testing.T) {
	if p, ok := PersonaByName(" Companion "); !ok || p.Name != "companion" {
		t.Fatalf("lookup failed")
	}
	if _, ok := PersonaByName("pirate"); ok {
		t.Fatalf("unexpected persona")
	}
}
