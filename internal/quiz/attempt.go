package quiz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// IsCorrect scores one picked option. A multiple-choice key of "A".."D" is
// matched by position; any other key is matched against the chosen option's
// text. True/false compares option text case-insensitively. Questions without
// options never match a choice.
func IsCorrect(q Question, choice int) bool {
	if !q.HasOptions() || choice < 0 || choice >= len(q.Options) {
		return false
	}
	if q.Type == TypeTrueFalse {
		return strings.EqualFold(strings.TrimSpace(q.Options[choice]), strings.TrimSpace(q.Answer))
	}
	if idx, ok := letterIndex(q.Answer); ok {
		return choice == idx
	}
	return q.Options[choice] == q.Answer
}

// IsCorrectText scores a written answer for short-answer and fill-in-the-blank
// questions: the whole answer must match the key, ignoring case and
// surrounding space.
func IsCorrectText(q Question, text string) bool {
	if q.HasOptions() {
		return false
	}
	text = strings.TrimSpace(text)
	return text != "" && strings.EqualFold(text, strings.TrimSpace(q.Answer))
}

// CorrectIndex is the option position matching the key, or -1.
func CorrectIndex(q Question) int {
	if !q.HasOptions() {
		return -1
	}
	if q.Type != TypeTrueFalse {
		if idx, ok := letterIndex(q.Answer); ok && idx < len(q.Options) {
			return idx
		}
	}
	for i := range q.Options {
		if IsCorrect(q, i) {
			return i
		}
	}
	return -1
}

func letterIndex(answer string) (int, bool) {
	switch answer {
	case "A", "B", "C", "D":
		return int(answer[0] - 'A'), true
	}
	return 0, false
}

// Response is one entry of an answer sheet: an option index for choice
// questions or free text for written ones. In JSON it is a number or a string.
type Response struct {
	Choice int
	Text   string
}

func Choices(idx ...int) []Response {
	out := make([]Response, len(idx))
	for i, c := range idx {
		out[i] = Response{Choice: c}
	}
	return out
}

func (r *Response) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*r = Response{Choice: -1}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var text string
		if err := json.Unmarshal(b, &text); err != nil {
			return err
		}
		*r = Response{Choice: -1, Text: text}
		return nil
	}
	var choice int
	if err := json.Unmarshal(b, &choice); err != nil {
		return fmt.Errorf("%w: answer must be an option index or text", ErrInvalidAnswer)
	}
	*r = Response{Choice: choice}
	return nil
}

func (r Response) MarshalJSON() ([]byte, error) {
	if r.Text != "" {
		return json.Marshal(r.Text)
	}
	return json.Marshal(r.Choice)
}

// Attempt walks one quiz question by question.
type Attempt struct {
	Quiz    Quiz
	Answers []Response
	Score   int
	Current int
}

func NewAttempt(q Quiz) *Attempt {
	answers := make([]Response, len(q.Questions))
	for i := range answers {
		answers[i] = Response{Choice: -1}
	}
	return &Attempt{Quiz: q, Answers: answers}
}

func (a *Attempt) Completed() bool {
	return a.Current >= len(a.Quiz.Questions)
}

// Answer records the choice for the current question and advances.
func (a *Attempt) Answer(choice int) (bool, error) {
	if a.Completed() {
		return false, ErrQuizFinished
	}
	q := a.Quiz.Questions[a.Current]
	if !q.HasOptions() || choice < 0 || choice >= len(q.Options) {
		return false, ErrInvalidAnswer
	}
	return a.record(Response{Choice: choice}, IsCorrect(q, choice)), nil
}

// AnswerText records a written answer for the current question and advances.
func (a *Attempt) AnswerText(text string) (bool, error) {
	if a.Completed() {
		return false, ErrQuizFinished
	}
	q := a.Quiz.Questions[a.Current]
	if q.HasOptions() {
		return false, ErrInvalidAnswer
	}
	return a.record(Response{Choice: -1, Text: text}, IsCorrectText(q, text)), nil
}

// Respond dispatches on the current question's kind.
func (a *Attempt) Respond(r Response) (bool, error) {
	if a.Completed() {
		return false, ErrQuizFinished
	}
	if a.Quiz.Questions[a.Current].HasOptions() {
		return a.Answer(r.Choice)
	}
	return a.AnswerText(r.Text)
}

func (a *Attempt) record(r Response, ok bool) bool {
	a.Answers[a.Current] = r
	if ok {
		a.Score++
	}
	a.Current++
	return ok
}

func (a *Attempt) Result(now time.Time) Result {
	return Result{
		QuizTitle:  a.Quiz.Title,
		Language:   a.Quiz.Language,
		Topic:      a.Quiz.Topic,
		Difficulty: a.Quiz.Difficulty,
		Score:      a.Score,
		Total:      len(a.Quiz.Questions),
		Date:       now.Format(TimeLayout),
	}
}

// Review is the per-question breakdown shown after an attempt.
type Review struct {
	Question     string `json:"question"`
	Chosen       int    `json:"chosen"`
	CorrectIndex int    `json:"correct_index"`
	Given        string `json:"given,omitempty"`
	Answer       string `json:"answer,omitempty"`
	Correct      bool   `json:"correct"`
	Explanation  string `json:"explanation,omitempty"`
}

// Grade scores a full answer sheet at once.
func Grade(q Quiz, answers []Response, now time.Time) (Result, []Review, error) {
	if len(q.Questions) == 0 {
		return Result{}, nil, ErrNoQuestions
	}
	if len(answers) != len(q.Questions) {
		return Result{}, nil, ErrInvalidAnswer
	}
	a := NewAttempt(q)
	reviews := make([]Review, 0, len(answers))
	for i, r := range answers {
		ok, err := a.Respond(r)
		if err != nil {
			return Result{}, nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		qq := q.Questions[i]
		rv := Review{
			Question:     qq.Question,
			Chosen:       a.Answers[i].Choice,
			CorrectIndex: CorrectIndex(qq),
			Correct:      ok,
			Explanation:  qq.Explanation,
		}
		if !qq.HasOptions() {
			rv.Given = a.Answers[i].Text
			rv.Answer = qq.Answer
		}
		reviews = append(reviews, rv)
	}
	return a.Result(now), reviews, nil
}
