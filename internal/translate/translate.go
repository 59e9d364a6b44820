// Package translate localizes search results and queries with the hosted model.
package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/sutra-starters/internal/llm"
	"github.com/yungbote/sutra-starters/internal/platform/logger"
	"github.com/yungbote/sutra-starters/internal/search"
)

var ErrUnsupportedLanguage = errors.New("translate: unsupported language")

// Recorder counts per-item outcomes. observability.Metrics implements it.
type Recorder interface {
	Translation(kind, status string)
}

type Translator struct {
	model llm.Completer
	log   *logger.Logger
	rec   Recorder
}

var translateOpts = llm.Options{Temperature: llm.Temperature(0.3)}

func New(model llm.Completer, log *logger.Logger, rec Recorder) *Translator {
	if log == nil {
		log = logger.Nop()
	}
	return &Translator{model: model, log: log.With("service", "Translator"), rec: rec}
}

// Item translates the kind's fields of one result. On any failure the original item is returned.
func (t *Translator) Item(ctx context.Context, item search.Item, kind Kind, target string) search.Item {
	fields := make(map[string]string, len(kind.Fields))
	for _, f := range kind.Fields {
		v := item.String(f.Name)
		if f.Limit > 0 {
			if r := []rune(v); len(r) > f.Limit {
				v = string(r[:f.Limit])
			}
		}
		fields[f.Name] = v
	}
	payload, _ := json.Marshal(fields)

	prompt := itemPrompt(kind, target) + "\n\nFields to translate:\n" + string(payload)
	out, err := t.model.Complete(ctx, []llm.Message{llm.User(prompt)}, translateOpts)
	if err != nil {
		t.record(kind, "error")
		t.log.Warn("item translation failed, keeping original", "kind", kind.Name, "error", err)
		return item
	}
	translated, err := llm.DecodeJSON[map[string]any](out)
	if err != nil {
		t.record(kind, "parse_error")
		t.log.Warn("item translation unparsable, keeping original", "kind", kind.Name, "error", err)
		return item
	}

	cp := item.Clone()
	for _, f := range kind.Fields {
		if s, ok := translated[f.Name].(string); ok && strings.TrimSpace(s) != "" {
			cp[f.Name] = s
		}
	}
	t.record(kind, "ok")
	return cp
}

// Items translates sequentially and returns a new slice.
func (t *Translator) Items(ctx context.Context, items []search.Item, kind Kind, target string) []search.Item {
	out := make([]search.Item, 0, len(items))
	for _, it := range items {
		if ctx.Err() != nil {
			out = append(out, it)
			continue
		}
		out = append(out, t.Item(ctx, it, kind, target))
	}
	return out
}

// QueryToEnglish returns the English form of a search query, or the query itself on failure.
func (t *Translator) QueryToEnglish(ctx context.Context, query string) string {
	prompt := queryPrompt + "\n\nQuery to translate:\n" + query
	out, err := t.model.Complete(ctx, []llm.Message{llm.User(prompt)}, translateOpts)
	if err != nil {
		t.log.Warn("query translation failed, using original", "error", err)
		return query
	}
	out = strings.Trim(strings.TrimSpace(out), "\"")
	if out == "" {
		return query
	}
	return out
}

// Text translates free text. Unlike Item it reports errors to the caller.
func (t *Translator) Text(ctx context.Context, text, target string) (string, error) {
	if !IsSupported(target) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedLanguage, target)
	}
	system := fmt.Sprintf("You are a professional translator. Translate the user's text to %s. "+
		"Keep proper nouns, numbers and formatting. Return ONLY the translation.", target)
	return t.model.Complete(ctx, []llm.Message{llm.System(system), llm.User(text)}, translateOpts)
}

func (t *Translator) record(kind Kind, status string) {
	if t.rec != nil {
		t.rec.Translation(kind.Name, status)
	}
}
