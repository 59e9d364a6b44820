package quiz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yungbote/sutra-starters/internal/llm"
	"github.com/yungbote/sutra-starters/internal/platform/logger"
)

const (
	MinQuestions     = 3
	MaxQuestions     = 10
	DefaultQuestions = 5
)

var Difficulties = []string{"Easy", "Medium", "Hard"}

type Request struct {
	Topic        string `json:"topic"`
	Language     string `json:"language"`
	Difficulty   string `json:"difficulty"`
	Type         string `json:"type"`
	Count        int    `json:"count"`
	Instructions string `json:"instructions,omitempty"`
}

func (r *Request) normalize() error {
	r.Topic = strings.TrimSpace(r.Topic)
	if r.Topic == "" {
		return fmt.Errorf("%w: topic is required", ErrInvalidRequest)
	}
	if r.Language == "" {
		r.Language = "English"
	}
	if r.Difficulty == "" {
		r.Difficulty = "Medium"
	}
	switch strings.ToLower(strings.ReplaceAll(r.Type, " ", "_")) {
	case "", TypeMultipleChoice:
		r.Type = TypeMultipleChoice
	case TypeTrueFalse, "true/false":
		r.Type = TypeTrueFalse
	case TypeShortAnswer:
		r.Type = TypeShortAnswer
	case TypeFillBlank, "fill_blank", "fill_in_blank":
		r.Type = TypeFillBlank
	default:
		return fmt.Errorf("%w: unknown question type %q", ErrInvalidRequest, r.Type)
	}
	if r.Count == 0 {
		r.Count = DefaultQuestions
	}
	if r.Count < MinQuestions || r.Count > MaxQuestions {
		return fmt.Errorf("%w: count must be between %d and %d", ErrInvalidRequest, MinQuestions, MaxQuestions)
	}
	return nil
}

type Generator struct {
	model llm.Completer
	log   *logger.Logger
	now   func() time.Time
}

func NewGenerator(model llm.Completer, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	return &Generator{model: model, log: log.With("service", "QuizGenerator"), now: time.Now}
}

type rawQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

type rawQuiz struct {
	Questions []rawQuestion `json:"questions"`
}

// Generate asks the model for a quiz and converts it to the stored shape.
// The returned quiz has no ID until it is saved.
func (g *Generator) Generate(ctx context.Context, req Request) (Quiz, error) {
	if err := req.normalize(); err != nil {
		return Quiz{}, err
	}
	msgs := []llm.Message{
		llm.System(systemPrompt(req.Type)),
		llm.User(userPrompt(req)),
	}
	out, err := g.model.Complete(ctx, msgs, llm.Options{Temperature: llm.Temperature(0.7), MaxTokens: 2048})
	if err != nil {
		return Quiz{}, err
	}
	raw, err := llm.DecodeJSON[rawQuiz](out)
	if err != nil {
		g.log.Warn("quiz response unparsable", "topic", req.Topic, "error", err)
		return Quiz{}, fmt.Errorf("quiz: decode model output: %w", err)
	}

	q := Quiz{
		Title:      Title(req.Topic, req.Difficulty),
		Language:   req.Language,
		Difficulty: req.Difficulty,
		Topic:      req.Topic,
		CreatedAt:  g.now().Format(TimeLayout),
	}
	for _, rq := range raw.Questions {
		qq, ok := convert(rq, req.Type)
		if !ok {
			continue
		}
		q.Questions = append(q.Questions, qq)
	}
	if len(q.Questions) == 0 {
		return Quiz{}, ErrNoQuestions
	}
	if len(q.Questions) > req.Count {
		q.Questions = q.Questions[:req.Count]
	}
	return q, nil
}

func convert(rq rawQuestion, typ string) (Question, bool) {
	q := Question{
		Question:    strings.TrimSpace(rq.Question),
		Answer:      strings.TrimSpace(rq.Answer),
		Type:        typ,
		Explanation: strings.TrimSpace(rq.Explanation),
	}
	if q.Question == "" || q.Answer == "" {
		return Question{}, false
	}
	switch typ {
	case TypeTrueFalse:
		// Answers stay in English so the fixed options can match them.
		switch {
		case strings.EqualFold(q.Answer, "true"):
			q.Answer = "True"
		case strings.EqualFold(q.Answer, "false"):
			q.Answer = "False"
		default:
			return Question{}, false
		}
		q.Options = []string{"True", "False"}
		return q, CorrectIndex(q) >= 0
	case TypeShortAnswer, TypeFillBlank:
		return q, true
	}
	for _, o := range rq.Options {
		if o = strings.TrimSpace(o); o != "" {
			q.Options = append(q.Options, o)
		}
	}
	if len(q.Options) < 2 {
		return Question{}, false
	}
	return q, CorrectIndex(q) >= 0
}

func systemPrompt(typ string) string {
	switch typ {
	case TypeTrueFalse:
		return `You write true/false quiz questions. Respond with JSON only, in this exact format:
{"questions": [{"question": "...", "answer": "True", "explanation": "..."}]}
The answer must be "True" or "False" in English.`
	case TypeShortAnswer:
		return `You write short answer quiz questions whose answer is a single word or short phrase. Respond with JSON only, in this exact format:
{"questions": [{"question": "...", "answer": "...", "explanation": "..."}]}`
	case TypeFillBlank:
		return `You write fill in the blank quiz questions. Mark the blank in each question with "_____" and make the answer the exact missing word or phrase. Respond with JSON only, in this exact format:
{"questions": [{"question": "... _____ ...", "answer": "...", "explanation": "..."}]}`
	}
	return `You write multiple choice quiz questions with exactly four options. Respond with JSON only, in this exact format:
{"questions": [{"question": "...", "options": ["...", "...", "...", "..."], "answer": "A", "explanation": "..."}]}
The answer is the letter A, B, C or D of the correct option.`
}

// languageInstruction names what the model should localize. Option keys and
// true/false answers stay in the fixed form the scorer expects.
func languageInstruction(typ, language string) string {
	switch typ {
	case TypeTrueFalse:
		return fmt.Sprintf("Generate all questions and explanations in %s language. Keep every answer as True or False in English.", language)
	case TypeShortAnswer, TypeFillBlank:
		return fmt.Sprintf("Generate all questions, answers and explanations in %s language.", language)
	}
	return fmt.Sprintf("Generate all questions, options and explanations in %s language. Keep the answer as the option letter.", language)
}

func userPrompt(req Request) string {
	instr := fmt.Sprintf("%s Make questions %s difficulty. %s",
		languageInstruction(req.Type, req.Language), strings.ToLower(req.Difficulty), strings.TrimSpace(req.Instructions))
	return fmt.Sprintf("Topic: %s\nNumber of questions: %d\n%s", req.Topic, req.Count, strings.TrimSpace(instr))
}
