package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/yungbote/sutra-starters/internal/llm"
	"github.com/yungbote/sutra-starters/internal/memory"
	"github.com/yungbote/sutra-starters/internal/platform/logger"
)

var ErrEmptyMessage = errors.New("chat: empty message")

const historyTurns = 20

type Turn struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	Language  string `json:"language"`
	Text      string `json:"message"`
}

type Reply struct {
	SessionID string `json:"session_id"`
	Persona   string `json:"persona"`
	Text      string `json:"reply"`
}

type Options struct {
	// Window bounds how far back memory is read.
	Window time.Duration
	// Limit caps memory entries placed into the prompt.
	Limit int
}

// Assistant runs one persona: read memory, prompt the model, write memory.
type Assistant struct {
	persona  Persona
	model    llm.Model
	mem      memory.Store
	sessions *Sessions
	opts     Options
	log      *logger.Logger
	now      func() time.Time
}

// NewAssistant accepts a nil memory store; replies then rely on the transcript only.
func NewAssistant(p Persona, model llm.Model, mem memory.Store, sessions *Sessions, opts Options, log *logger.Logger) *Assistant {
	if log == nil {
		log = logger.Nop()
	}
	if sessions == nil {
		sessions = NewSessions()
	}
	if opts.Window <= 0 {
		opts.Window = 30 * 24 * time.Hour
	}
	if opts.Limit <= 0 {
		opts.Limit = 5
	}
	return &Assistant{
		persona:  p,
		model:    model,
		mem:      mem,
		sessions: sessions,
		opts:     opts,
		log:      log.With("service", "ChatAssistant", "persona", p.Name),
		now:      time.Now,
	}
}

func (a *Assistant) Persona() Persona    { return a.persona }
func (a *Assistant) Sessions() *Sessions { return a.sessions }

func (a *Assistant) Reply(ctx context.Context, turn Turn) (Reply, error) {
	return a.reply(ctx, turn, nil)
}

// ReplyStream forwards deltas as they arrive; the returned Reply holds the full text.
func (a *Assistant) ReplyStream(ctx context.Context, turn Turn, onDelta func(string)) (Reply, error) {
	if onDelta == nil {
		onDelta = func(string) {}
	}
	return a.reply(ctx, turn, onDelta)
}

func (a *Assistant) reply(ctx context.Context, turn Turn, onDelta func(string)) (Reply, error) {
	text := strings.TrimSpace(turn.Text)
	if text == "" {
		return Reply{}, ErrEmptyMessage
	}
	if turn.Language == "" {
		turn.Language = "English"
	}
	id, transcript := a.sessions.Get(turn.SessionID)

	msgs := make([]llm.Message, 0, historyTurns+2)
	msgs = append(msgs, llm.System(a.systemPrompt(ctx, turn.UserID, text, turn.Language)))
	msgs = append(msgs, transcript.Tail(historyTurns)...)
	msgs = append(msgs, llm.User(text))

	opts := llm.Options{Temperature: llm.Temperature(a.persona.Temperature), MaxTokens: a.persona.MaxTokens}
	var (
		out string
		err error
	)
	if onDelta != nil {
		out, err = a.model.Stream(ctx, msgs, opts, onDelta)
	} else {
		out, err = a.model.Complete(ctx, msgs, opts)
	}
	if err != nil {
		return Reply{}, err
	}

	transcript.Append(llm.RoleUser, text)
	transcript.Append(llm.RoleAssistant, out)
	a.remember(ctx, turn.UserID, text, out)
	return Reply{SessionID: id, Persona: a.persona.Name, Text: out}, nil
}

func (a *Assistant) systemPrompt(ctx context.Context, userID, query, language string) string {
	in := promptInput{Language: language}
	if a.mem == nil || userID == "" {
		return a.persona.system(in)
	}
	since := a.now().Add(-a.opts.Window)

	recent, err := a.mem.Recent(ctx, userID, since)
	if err != nil {
		a.log.Warn("memory read failed, continuing without context", "user_id", userID, "error", err)
		return a.persona.system(in)
	}
	if a.persona.UsesProfile {
		in.Profile = memory.ExtractProfile(recent)
	}

	hits, err := a.mem.Search(ctx, userID, query, a.opts.Limit)
	if err != nil {
		a.log.Warn("memory search failed", "user_id", userID, "error", err)
	}
	var ctxEntries []memory.Entry
	for _, h := range hits {
		if h.CreatedAt.After(since) {
			ctxEntries = append(ctxEntries, h)
		}
	}
	if len(ctxEntries) == 0 && len(recent) > 0 {
		start := max(0, len(recent)-a.opts.Limit)
		ctxEntries = recent[start:]
	}
	in.Context = memory.Context(ctxEntries)
	return a.persona.system(in)
}

func (a *Assistant) remember(ctx context.Context, userID, user, reply string) {
	if a.mem == nil || userID == "" {
		return
	}
	// The request may already be finished by the time memory is written.
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := a.mem.Add(wctx, userID, []llm.Message{llm.User(user), llm.Assistant(reply)}); err != nil {
		a.log.Warn("memory write failed", "user_id", userID, "error", err)
	}
}
