// Package quiz generates multilingual quizzes, scores attempts and keeps
// saved quizzes and attempt history.
package quiz

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

const (
	TypeMultipleChoice = "multiple_choice"
	TypeTrueFalse      = "true_false"
	TypeShortAnswer    = "short_answer"
	TypeFillBlank      = "fill_in_the_blank"

	// TimeLayout is how created_at and date are written in the stored JSON.
	TimeLayout = "2006-01-02 15:04:05"
	idLayout   = "20060102150405"
)

var (
	ErrNotFound       = errors.New("quiz: not found")
	ErrInvalidAnswer  = errors.New("quiz: answer index out of range")
	ErrQuizFinished   = errors.New("quiz: attempt already completed")
	ErrNoQuestions    = errors.New("quiz: no questions")
	ErrInvalidRequest = errors.New("quiz: invalid request")
)

// Types lists the supported question types.
var Types = []string{TypeMultipleChoice, TypeTrueFalse, TypeShortAnswer, TypeFillBlank}

type Question struct {
	Question    string   `json:"question"`
	Answer      string   `json:"answer"`
	Type        string   `json:"type"`
	Options     []string `json:"options"`
	Explanation string   `json:"explanation,omitempty"`
}

type Quiz struct {
	ID         string     `json:"id,omitempty"`
	Title      string     `json:"title"`
	Language   string     `json:"language"`
	Difficulty string     `json:"difficulty"`
	Topic      string     `json:"topic"`
	CreatedAt  string     `json:"created_at"`
	Questions  []Question `json:"questions"`
}

type Result struct {
	QuizTitle  string `json:"quiz_title"`
	Language   string `json:"language"`
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
	Score      int    `json:"score"`
	Total      int    `json:"total"`
	Date       string `json:"date"`
}

func (r Result) Percentage() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Score) / float64(r.Total) * 100
}

// Feedback is the closing remark shown for a score percentage.
func Feedback(percentage float64) string {
	switch {
	case percentage >= 80:
		return "Excellent! You've mastered this topic!"
	case percentage >= 60:
		return "Good job! You have a solid understanding of the material."
	default:
		return "You might want to review this topic again."
	}
}

// Title follows "<topic> Quiz (<difficulty>)".
func Title(topic, difficulty string) string {
	return topic + " Quiz (" + difficulty + ")"
}

// HasOptions reports whether the question is answered by picking an option.
func (q Question) HasOptions() bool {
	return q.Type == TypeMultipleChoice || q.Type == TypeTrueFalse || q.Type == ""
}

// newID is "<seq>_<YYYYMMDDHHMMSS>".
func newID(seq int, now time.Time) string {
	return strconv.Itoa(seq) + "_" + now.Format(idLayout)
}

// idSeq is the numeric prefix of an ID, or 0 when there is none.
func idSeq(id string) int {
	prefix, _, ok := strings.Cut(id, "_")
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(prefix)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// nextSeq is one past the highest sequence in use, so deleted IDs are never reused.
func nextSeq(quizzes []Quiz) int {
	hi := 0
	for _, q := range quizzes {
		hi = max(hi, idSeq(q.ID))
	}
	return hi + 1
}

type TopicStats struct {
	Topic      string  `json:"topic"`
	Correct    int     `json:"correct"`
	Total      int     `json:"total"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Progress aggregates results per topic in first-seen order.
func Progress(results []Result) []TopicStats {
	idx := map[string]int{}
	var out []TopicStats
	for _, r := range results {
		i, ok := idx[r.Topic]
		if !ok {
			i = len(out)
			idx[r.Topic] = i
			out = append(out, TopicStats{Topic: r.Topic})
		}
		out[i].Correct += r.Score
		out[i].Total += r.Total
		out[i].Count++
	}
	for i := range out {
		if out[i].Total > 0 {
			out[i].Percentage = float64(out[i].Correct) / float64(out[i].Total) * 100
		}
	}
	return out
}
