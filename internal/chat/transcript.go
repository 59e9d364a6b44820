// Package chat holds chat transcripts and the memory-backed assistants.
package chat

import (
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/sutra-starters/internal/llm"
)

// Transcript is an ordered, append-only list of turns.
type Transcript struct {
	mu    sync.RWMutex
	turns []llm.Message
}

func (t *Transcript) Append(role, text string) {
	t.mu.Lock()
	t.turns = append(t.turns, llm.Message{Role: role, Content: text})
	t.mu.Unlock()
}

// Messages returns a copy.
func (t *Transcript) Messages() []llm.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]llm.Message(nil), t.turns...)
}

// Tail returns at most the last n turns.
func (t *Transcript) Tail(n int) []llm.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	start := 0
	if n > 0 && len(t.turns) > n {
		start = len(t.turns) - n
	}
	return append([]llm.Message(nil), t.turns[start:]...)
}

func (t *Transcript) Reset() {
	t.mu.Lock()
	t.turns = nil
	t.mu.Unlock()
}

func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.turns)
}

// Sessions maps session ids to transcripts for the life of the process.
type Sessions struct {
	mu sync.Mutex
	m  map[string]*Transcript
}

func NewSessions() *Sessions {
	return &Sessions{m: map[string]*Transcript{}}
}

// Get returns the transcript for id, creating it when missing. An empty id
// allocates a fresh session.
func (s *Sessions) Get(id string) (string, *Transcript) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		id = uuid.NewString()
	}
	t, ok := s.m[id]
	if !ok {
		t = &Transcript{}
		s.m[id] = t
	}
	return id, t
}

// Reset clears a session's transcript and reports whether it existed.
func (s *Sessions) Reset(id string) bool {
	s.mu.Lock()
	t, ok := s.m[id]
	s.mu.Unlock()
	if ok {
		t.Reset()
	}
	return ok
}

func (s *Sessions) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.m[id]
	delete(s.m, id)
	return ok
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.m)
}
