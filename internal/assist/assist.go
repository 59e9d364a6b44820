// Package assist builds single-shot assistant prompts from named templates.
package assist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/yungbote/sutra-starters/internal/llm"
)

var (
	ErrUnknownApp      = errors.New("assist: unknown app")
	ErrInvalidParams   = errors.New("assist: invalid params")
	ErrMissingQuestion = errors.New("assist: question is required")
)

type App struct {
	Name        string
	MaxTokens   int
	Temperature float64

	// NeedsQuestion marks apps whose user turn is the caller's question.
	NeedsQuestion bool

	system *template.Template
	user   *template.Template
	decode func(json.RawMessage) (any, error)
}

type Request struct {
	Language string          `json:"language"`
	Question string          `json:"question,omitempty"`
	Params   json.RawMessage `json:"params,omitempty"`
}

type templateData struct {
	Language string
	Question string
	P        any
}

var apps = map[string]App{
	"farmer": {
		Name: "farmer", MaxTokens: 1500, Temperature: 0.7, NeedsQuestion: true,
		system: mustParse("farmer", farmerSystem), user: mustParse("farmer.user", questionUser), decode: decodeFarmer,
	},
	"scheme": {
		Name: "scheme", MaxTokens: 1500, Temperature: 0.7, NeedsQuestion: true,
		system: mustParse("scheme", schemeSystem), user: mustParse("scheme.user", questionUser), decode: decodeScheme,
	},
	"travel": {
		Name: "travel", MaxTokens: 2000, Temperature: 0.7,
		system: mustParse("travel", travelSystem), user: mustParse("travel.user", travelUser), decode: decodeTravel,
	},
	"summarize": {
		Name: "summarize", MaxTokens: 1000, Temperature: 0.7,
		system: mustParse("summarize", summarizeSystem), user: mustParse("summarize.user", summarizeUser), decode: decodeSummarize,
	},
	"story": {
		Name: "story", MaxTokens: 2500, Temperature: 0.7,
		system: mustParse("story", storySystem), user: mustParse("story.user", storyUser), decode: decodeStory,
	},
}

func Names() []string {
	out := make([]string, 0, len(apps))
	for n := range apps {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func Lookup(name string) (App, bool) {
	a, ok := apps[strings.ToLower(strings.TrimSpace(name))]
	return a, ok
}

// Build renders the system and user messages for one app.
func Build(name string, req Request) (App, []llm.Message, error) {
	app, ok := Lookup(name)
	if !ok {
		return App{}, nil, fmt.Errorf("%w: %q", ErrUnknownApp, name)
	}
	req.Question = strings.TrimSpace(req.Question)
	if app.NeedsQuestion && req.Question == "" {
		return App{}, nil, ErrMissingQuestion
	}
	if req.Language == "" {
		req.Language = "English"
	}
	p, err := app.decode(req.Params)
	if err != nil {
		return App{}, nil, err
	}
	data := templateData{Language: req.Language, Question: req.Question, P: p}

	var sys, user strings.Builder
	if err := app.system.Execute(&sys, data); err != nil {
		return App{}, nil, fmt.Errorf("assist: render %s: %w", app.Name, err)
	}
	if err := app.user.Execute(&user, data); err != nil {
		return App{}, nil, fmt.Errorf("assist: render %s: %w", app.Name, err)
	}
	return app, []llm.Message{llm.System(sys.String()), llm.User(user.String())}, nil
}

type Service struct {
	model llm.Model
}

func NewService(model llm.Model) *Service {
	return &Service{model: model}
}

func (s *Service) Answer(ctx context.Context, name string, req Request) (string, error) {
	app, msgs, err := Build(name, req)
	if err != nil {
		return "", err
	}
	return s.model.Complete(ctx, msgs, app.options())
}

func (s *Service) Stream(ctx context.Context, name string, req Request, onDelta func(string)) (string, error) {
	app, msgs, err := Build(name, req)
	if err != nil {
		return "", err
	}
	return s.model.Stream(ctx, msgs, app.options(), onDelta)
}

func (a App) options() llm.Options {
	return llm.Options{Temperature: llm.Temperature(a.Temperature), MaxTokens: a.MaxTokens}
}
