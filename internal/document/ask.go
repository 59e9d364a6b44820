package document

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yungbote/sutra-starters/internal/llm"
)

var ErrNoQuestion = errors.New("document: question is required")

type Answer struct {
	Answer  string    `json:"answer"`
	Sources []Passage `json:"sources"`
}

// Ask retrieves the top passages and has the model answer from them in the requested language.
func Ask(ctx context.Context, model llm.Completer, ix *Index, question, language string, k int) (Answer, error) {
	if strings.TrimSpace(question) == "" {
		return Answer{}, ErrNoQuestion
	}
	if k <= 0 {
		k = 3
	}
	if strings.TrimSpace(language) == "" {
		language = "English"
	}
	passages, err := ix.Search(ctx, question, k)
	if err != nil {
		return Answer{}, err
	}

	var ctxText strings.Builder
	for i, p := range passages {
		fmt.Fprintf(&ctxText, "[%d] %s\n\n", i+1, p.Text)
	}
	system := fmt.Sprintf("You answer questions about the user's documents. Use only the numbered context passages. "+
		"If the context does not contain the answer, say so. Respond in %s.", language)
	user := fmt.Sprintf("Context:\n%s\nQuestion: %s", ctxText.String(), question)

	out, err := model.Complete(ctx, []llm.Message{llm.System(system), llm.User(user)}, llm.Options{})
	if err != nil {
		return Answer{}, fmt.Errorf("answer question: %w", err)
	}
	return Answer{Answer: out, Sources: passages}, nil
}
