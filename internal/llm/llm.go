// Package llm talks to an OpenAI-compatible chat-completions endpoint
// (the Sutra API by default).
package llm

import (
	"context"
	"time"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func System(content string) Message    { return Message{Role: RoleSystem, Content: content} }
func User(content string) Message      { return Message{Role: RoleUser, Content: content} }
func Assistant(content string) Message { return Message{Role: RoleAssistant, Content: content} }

// Options override the client defaults for one call. Nil Temperature and zero MaxTokens keep them.
type Options struct {
	Temperature *float64
	MaxTokens   int
}

func Temperature(v float64) *float64 { return &v }

type Completer interface {
	Complete(ctx context.Context, messages []Message, opts Options) (string, error)
}

type Streamer interface {
	Stream(ctx context.Context, messages []Message, opts Options, onDelta func(delta string)) (string, error)
}

type Embedder interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

// Model is what chat surfaces need: a blocking call and a streaming one.
type Model interface {
	Completer
	Streamer
}

// Backend is a Model that can also embed.
type Backend interface {
	Model
	Embedder
}

// Provider hands out a Backend bound to a caller-supplied key. An empty key
// means the configured default.
type Provider interface {
	ForKey(key string) Backend
}

// Recorder receives call outcomes. observability.Metrics implements it.
type Recorder interface {
	LLMRequest(op, status string, elapsed time.Duration)
	LLMRetry(op string)
}

type nopRecorder struct{}

func (nopRecorder) LLMRequest(string, string, time.Duration) {}
func (nopRecorder) LLMRetry(string)                          {}
