// Package flashcards builds study and vocabulary flashcard sets with the model.
package flashcards

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yungbote/sutra-starters/internal/llm"
	"github.com/yungbote/sutra-starters/internal/platform/logger"
)

const (
	MaxCards     = 8
	DefaultCards = 3
	MaxVocab     = 30
)

var (
	ErrNoCards        = errors.New("flashcards: model returned no usable cards")
	ErrInvalidRequest = errors.New("flashcards: invalid request")
)

type Card struct {
	ID          string `json:"id"`
	Front       string `json:"front"`
	Back        string `json:"back"`
	Explanation string `json:"explanation,omitempty"`
	Example     string `json:"example,omitempty"`
}

type Set struct {
	Title    string `json:"title"`
	Language string `json:"language"`
	Cards    []Card `json:"flashcards"`
}

// Request asks for a topic study set in one language.
type Request struct {
	Topic        string `json:"topic"`
	Language     string `json:"language"`
	Count        int    `json:"count"`
	Instructions string `json:"instructions,omitempty"`
}

// VocabRequest asks for term/translation cards drawn from a passage.
type VocabRequest struct {
	Text           string `json:"text"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
	Count          int    `json:"count"`
	Focus          string `json:"focus,omitempty"`
}

type Generator struct {
	model llm.Completer
	log   *logger.Logger
}

func NewGenerator(model llm.Completer, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	return &Generator{model: model, log: log.With("service", "FlashcardGenerator")}
}

var (
	studyOpts = llm.Options{Temperature: llm.Temperature(0.7), MaxTokens: 1500}
	vocabOpts = llm.Options{Temperature: llm.Temperature(0.7), MaxTokens: 1024}
)

func (g *Generator) Generate(ctx context.Context, req Request) (Set, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		return Set{}, fmt.Errorf("%w: topic is required", ErrInvalidRequest)
	}
	if req.Language == "" {
		req.Language = "English"
	}
	if req.Count == 0 {
		req.Count = DefaultCards
	}
	if req.Count < 1 || req.Count > MaxCards {
		return Set{}, fmt.Errorf("%w: count must be between 1 and %d", ErrInvalidRequest, MaxCards)
	}

	out, err := g.model.Complete(ctx, []llm.Message{llm.User(studyPrompt(req))}, studyOpts)
	if err != nil {
		return Set{}, err
	}
	raw, err := llm.DecodeJSON[Set](out)
	if err != nil {
		g.log.Warn("flashcard response unparsable", "topic", req.Topic, "error", err)
		return Set{}, fmt.Errorf("flashcards: decode model output: %w", err)
	}
	set := Set{Title: strings.TrimSpace(raw.Title), Language: req.Language, Cards: clean(raw.Cards, req.Count)}
	if set.Title == "" {
		set.Title = req.Topic
	}
	if len(set.Cards) == 0 {
		return Set{}, ErrNoCards
	}
	return set, nil
}

func (g *Generator) Vocabulary(ctx context.Context, req VocabRequest) ([]Card, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("%w: text is required", ErrInvalidRequest)
	}
	if req.SourceLanguage == "" || req.TargetLanguage == "" {
		return nil, fmt.Errorf("%w: source and target languages are required", ErrInvalidRequest)
	}
	if req.Count == 0 {
		req.Count = 10
	}
	if req.Count < 1 || req.Count > MaxVocab {
		return nil, fmt.Errorf("%w: count must be between 1 and %d", ErrInvalidRequest, MaxVocab)
	}
	if req.Focus == "" {
		req.Focus = "general vocabulary"
	}

	msgs := []llm.Message{
		llm.System("You are a language learning assistant that creates high-quality flashcards with accurate translations."),
		llm.User(vocabPrompt(req)),
	}
	out, err := g.model.Complete(ctx, msgs, vocabOpts)
	if err != nil {
		return nil, err
	}
	raw, err := llm.DecodeJSON[[]Card](out)
	if err != nil {
		g.log.Warn("vocabulary response unparsable", "error", err)
		return nil, fmt.Errorf("flashcards: decode model output: %w", err)
	}
	cards := clean(raw, req.Count)
	if len(cards) == 0 {
		return nil, ErrNoCards
	}
	return cards, nil
}

// clean drops cards missing a side, renumbers ids and caps the count.
func clean(cards []Card, limit int) []Card {
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		c.Front = strings.TrimSpace(c.Front)
		c.Back = strings.TrimSpace(c.Back)
		if c.Front == "" || c.Back == "" {
			continue
		}
		c.Explanation = strings.TrimSpace(c.Explanation)
		c.Example = strings.TrimSpace(c.Example)
		c.ID = strconv.Itoa(len(out) + 1)
		out = append(out, c)
		if len(out) == limit {
			break
		}
	}
	return out
}
