package llm

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"sync"
	"unicode"
)

// Mock is an in-process Model and Embedder. Without a Handler it echoes the last user message.
type Mock struct {
	Handler func(ctx context.Context, messages []Message) (string, error)

	mu    sync.Mutex
	calls [][]Message
}

func (m *Mock) Complete(ctx context.Context, messages []Message, _ Options) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, append([]Message(nil), messages...))
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.Handler != nil {
		return m.Handler(ctx, messages)
	}
	user := LastUser(messages)
	if strings.TrimSpace(user) == "" {
		return "mock: ok", nil
	}
	return fmt.Sprintf("mock: %s", user), nil
}

func (m *Mock) Stream(ctx context.Context, messages []Message, opts Options, onDelta func(string)) (string, error) {
	full, err := m.Complete(ctx, messages, opts)
	if err != nil {
		return "", err
	}
	const chunk = 16
	r := []rune(full)
	for i := 0; i < len(r); i += chunk {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		end := min(i+chunk, len(r))
		if onDelta != nil {
			onDelta(string(r[i:end]))
		}
	}
	return full, nil
}

// Embed hashes lowercase words into a fixed-size unit vector, so texts sharing words score higher.
func (m *Mock) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	const dims = 64
	out := make([][]float32, len(inputs))
	for i, s := range inputs {
		vec := make([]float32, dims)
		for _, w := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}) {
			h := fnv.New32a()
			_, _ = h.Write([]byte(w))
			vec[h.Sum32()%dims]++
		}
		var norm float64
		for _, v := range vec {
			norm += float64(v * v)
		}
		if norm > 0 {
			n := float32(math.Sqrt(norm))
			for j := range vec {
				vec[j] /= n
			}
		}
		out[i] = vec
	}
	return out, ctx.Err()
}

// ForKey ignores the key.
func (m *Mock) ForKey(string) Backend { return m }

func (m *Mock) Calls() [][]Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]Message(nil), m.calls...)
}

func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// LastUser returns the content of the final user message.
func LastUser(messages []Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if strings.EqualFold(messages[i].Role, RoleUser) {
			return messages[i].Content
		}
	}
	return ""
}
