package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/sutra-starters/internal/llm"
)

func fixedClock() time.Time {
	return time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
}

func sampleQuiz() Quiz {
	return Quiz{
		Title:      Title("Solar System", "Easy"),
		Language:   "Hindi",
		Difficulty: "Easy",
		Topic:      "Solar System",
		CreatedAt:  fixedClock().Format(TimeLayout),
		Questions: []Question{
			{Question: "Largest planet?", Type: TypeMultipleChoice, Options: []string{"Mars", "Jupiter", "Venus", "Earth"}, Answer: "B"},
			{Question: "Closest star?", Type: TypeMultipleChoice, Options: []string{"Sun", "Sirius"}, Answer: "Sun"},
			{Question: "Pluto is a planet", Type: TypeTrueFalse, Options: []string{"True", "False"}, Answer: "false"},
		},
	}
}

func TestIsCorrect(t *testing.T) {
	q := sampleQuiz()
	cases := []struct {
		q      Question
		choice int
		want   bool
	}{
		{q.Questions[0], 1, true},
		{q.Questions[0], 0, false},
		{q.Questions[1], 0, true},
		{q.Questions[1], 1, false},
		{q.Questions[2], 1, true},
		{q.Questions[2], 0, false},
		{q.Questions[0], 9, false},
	}
	for i, tc := range cases {
		if got := IsCorrect(tc.q, tc.choice); got != tc.want {
			t.Fatalf("case %d: IsCorrect(%q, %d)=%v want %v", i, tc.q.Question, tc.choice, got, tc.want)
		}
	}
}

func TestAttempt_ScoresAndCompletes(t *testing.T) {
	a := NewAttempt(sampleQuiz())
	for _, choice := range []int{1, 1, 1} {
		if _, err := a.Answer(choice); err != nil {
			t.Fatalf("Answer: %v", err)
		}
	}
	if !a.Completed() {
		t.Fatalf("expected completed attempt")
	}
	if _, err := a.Answer(0); !errors.Is(err, ErrQuizFinished) {
		t.Fatalf("expected ErrQuizFinished, got %v", err)
	}
	r := a.Result(fixedClock())
	if r.Score != 2 || r.Total != 3 {
		t.Fatalf("score=%d/%d want 2/3", r.Score, r.Total)
	}
	if r.Date != "2025-03-14 09:26:53" {
		t.Fatalf("date=%q", r.Date)
	}
	if got := Feedback(r.Percentage()); got != "Good job! You have a solid understanding of the material." {
		t.Fatalf("feedback=%q", got)
	}
}

func TestGrade_RejectsWrongSheetLength(t *testing.T) {
	if _, _, err := Grade(sampleQuiz(), Choices(0), fixedClock()); !errors.Is(err, ErrInvalidAnswer) {
		t.Fatalf("expected ErrInvalidAnswer, got %v", err)
	}
	_, reviews, err := Grade(sampleQuiz(), Choices(1, 0, 1), fixedClock())
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if reviews[0].CorrectIndex != 1 || reviews[2].CorrectIndex != 1 {
		t.Fatalf("unexpected correct indices: %+v", reviews)
	}
}

func TestFeedbackBands(t *testing.T) {
	if Feedback(80) != "Excellent! You've mastered this topic!" {
		t.Fatalf("80 should be excellent")
	}
	if Feedback(59.9) != "You might want to review this topic again." {
		t.Fatalf("59.9 should ask for review")
	}
}

func TestProgress_AggregatesPerTopic(t *testing.T) {
	stats := Progress([]Result{
		{Topic: "Math", Score: 3, Total: 5},
		{Topic: "History", Score: 1, Total: 4},
		{Topic: "Math", Score: 5, Total: 5},
	})
	if len(stats) != 2 || stats[0].Topic != "Math" {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats[0].Correct != 8 || stats[0].Total != 10 || stats[0].Count != 2 || stats[0].Percentage != 80 {
		t.Fatalf("unexpected math stats: %+v", stats[0])
	}
}

func TestGenerate_MultipleChoice(t *testing.T) {
	var prompt string
	m := &llm.Mock{Handler: func(_ context.Context, msgs []llm.Message) (string, error) {
		prompt = llm.LastUser(msgs)
		return "```json\n" + `{"questions":[
			{"question":"2+2?","options":["3","4","5","6"],"answer":"B","explanation":"basic"},
			{"question":"missing options","options":[],"answer":"A"},
			{"question":"3+3?","options":["6","7","8","9"],"answer":"A"},
			{"question":"4+4?","options":["8","7","6","5"],"answer":"A"},
			{"question":"5+5?","options":["10","7","6","5"],"answer":"A"}
		]}` + "\n```", nil
	}}
	g := NewGenerator(m, nil)
	g.now = fixedClock
	q, err := g.Generate(context.Background(), Request{Topic: "Arithmetic", Language: "Tamil", Difficulty: "Hard", Count: 3})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if q.Title != "Arithmetic Quiz (Hard)" || q.CreatedAt != "2025-03-14 09:26:53" {
		t.Fatalf("unexpected header: %+v", q)
	}
	if len(q.Questions) != 3 {
		t.Fatalf("expected 3 questions after trimming, got %d", len(q.Questions))
	}
	if !strings.Contains(prompt, "in Tamil language") || !strings.Contains(prompt, "hard difficulty") {
		t.Fatalf("prompt missing language or difficulty: %q", prompt)
	}
}

func TestGenerate_TrueFalseForcesOptions(t *testing.T) {
	m := &llm.Mock{Handler: func(context.Context, []llm.Message) (string, error) {
		return `{"questions":[{"question":"Sky is blue","options":["Yes","No"],"answer":"True"}]}`, nil
	}}
	q, err := NewGenerator(m, nil).Generate(context.Background(), Request{Topic: "Sky", Type: "True/False", Count: 3})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got := q.Questions[0].Options; len(got) != 2 || got[0] != "True" || got[1] != "False" {
		t.Fatalf("unexpected options: %v", got)
	}
}

func TestGenerate_ValidatesRequest(t *testing.T) {
	g := NewGenerator(&llm.Mock{}, nil)
	for _, req := range []Request{{}, {Topic: "x", Count: 11}, {Topic: "x", Count: 2}, {Topic: "x", Type: "essay"}} {
		if _, err := g.Generate(context.Background(), req); !errors.Is(err, ErrInvalidRequest) {
			t.Fatalf("req %+v: expected ErrInvalidRequest, got %v", req, err)
		}
	}
}

func TestGenerate_TrueFalseNormalizesAnswers(t *testing.T) {
	var prompt string
	m := &llm.Mock{Handler: func(_ context.Context, msgs []llm.Message) (string, error) {
		prompt = llm.LastUser(msgs)
		return `{"questions":[
			{"question":"सूर्य एक तारा है","answer":"TRUE"},
			{"question":"चंद्रमा एक ग्रह है","answer":"सत्य"},
			{"question":"पृथ्वी चपटी है","answer":" false "}
		]}`, nil
	}}
	q, err := NewGenerator(m, nil).Generate(context.Background(), Request{Topic: "Space", Language: "Hindi", Type: TypeTrueFalse, Count: 3})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(q.Questions) != 2 {
		t.Fatalf("expected the localized answer to be dropped, got %d questions", len(q.Questions))
	}
	if q.Questions[0].Answer != "True" || q.Questions[1].Answer != "False" {
		t.Fatalf("answers=%q,%q", q.Questions[0].Answer, q.Questions[1].Answer)
	}
	for _, qq := range q.Questions {
		if CorrectIndex(qq) < 0 {
			t.Fatalf("question %q cannot be answered correctly", qq.Question)
		}
	}
	if !strings.Contains(prompt, "True or False in English") || strings.Contains(prompt, "answers and explanations") {
		t.Fatalf("prompt=%q", prompt)
	}
}

func TestGenerate_WrittenTypes(t *testing.T) {
	var system, prompt string
	m := &llm.Mock{Handler: func(_ context.Context, msgs []llm.Message) (string, error) {
		system, prompt = msgs[0].Content, llm.LastUser(msgs)
		return `{"questions":[{"question":"7 x 8 = _____","answer":"56","options":["x"]},{"question":"","answer":"1"}]}`, nil
	}}
	q, err := NewGenerator(m, nil).Generate(context.Background(), Request{Topic: "Math", Type: "Fill in the Blank", Count: 3})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(q.Questions) != 1 || q.Questions[0].Type != TypeFillBlank || q.Questions[0].Options != nil {
		t.Fatalf("questions=%+v", q.Questions)
	}
	if !strings.Contains(system, "_____") || !strings.Contains(prompt, "questions, answers and explanations in English") {
		t.Fatalf("system=%q prompt=%q", system, prompt)
	}
	if _, err := NewGenerator(m, nil).Generate(context.Background(), Request{Topic: "History", Type: "Short Answer", Count: 3}); err != nil {
		t.Fatalf("short answer: %v", err)
	}
}

func TestGrade_WrittenAnswers(t *testing.T) {
	q := Quiz{Title: "Mixed", Topic: "Mixed", Questions: []Question{
		{Question: "Capital of France?", Type: TypeShortAnswer, Answer: "Paris"},
		{Question: "2 + _____ = 4", Type: TypeFillBlank, Answer: "2"},
		{Question: "Pluto is a planet", Type: TypeTrueFalse, Options: []string{"True", "False"}, Answer: "False"},
	}}
	var sheet struct {
		Answers []Response `json:"answers"`
	}
	if err := json.Unmarshal([]byte(`{"answers":[" paris ","two",1]}`), &sheet); err != nil {
		t.Fatalf("decode sheet: %v", err)
	}
	res, reviews, err := Grade(q, sheet.Answers, fixedClock())
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if res.Score != 2 || res.Total != 3 {
		t.Fatalf("score=%d/%d want 2/3", res.Score, res.Total)
	}
	if reviews[0].Given != " paris " || reviews[0].Answer != "Paris" || !reviews[0].Correct || reviews[0].CorrectIndex != -1 {
		t.Fatalf("review[0]=%+v", reviews[0])
	}
	if reviews[1].Correct || reviews[2].Chosen != 1 || !reviews[2].Correct {
		t.Fatalf("reviews=%+v", reviews)
	}

	if err := json.Unmarshal([]byte(`{"answers":["Paris","2","False"]}`), &sheet); err != nil {
		t.Fatalf("decode sheet: %v", err)
	}
	if _, _, err := Grade(q, sheet.Answers, fixedClock()); !errors.Is(err, ErrInvalidAnswer) {
		t.Fatalf("text for a choice question: expected ErrInvalidAnswer, got %v", err)
	}
	if err := json.Unmarshal([]byte(`{"answers":[true]}`), &sheet); !errors.Is(err, ErrInvalidAnswer) {
		t.Fatalf("bool answer: expected ErrInvalidAnswer, got %v", err)
	}
}
