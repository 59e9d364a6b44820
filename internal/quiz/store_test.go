package quiz

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	first, err := s.SaveQuiz(ctx, sampleQuiz())
	if err != nil {
		t.Fatalf("SaveQuiz: %v", err)
	}
	if first.ID != "1_20250314092653" {
		t.Fatalf("first id=%q", first.ID)
	}
	second, err := s.SaveQuiz(ctx, sampleQuiz())
	if err != nil {
		t.Fatalf("SaveQuiz: %v", err)
	}
	if second.ID != "2_20250314092653" {
		t.Fatalf("second id=%q", second.ID)
	}

	got, err := s.GetQuiz(ctx, first.ID)
	if err != nil {
		t.Fatalf("GetQuiz: %v", err)
	}
	if len(got.Questions) != 3 || got.Questions[0].Options[1] != "Jupiter" {
		t.Fatalf("questions did not round trip: %+v", got.Questions)
	}

	if err := s.DeleteQuiz(ctx, first.ID); err != nil {
		t.Fatalf("DeleteQuiz: %v", err)
	}
	if _, err := s.GetQuiz(ctx, first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteQuiz(ctx, first.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
	all, err := s.ListQuizzes(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("ListQuizzes: %v len=%d", err, len(all))
	}

	// A save after a delete in the same second must not reuse a live ID.
	third := sampleQuiz()
	third.Title = "Third"
	third, err = s.SaveQuiz(ctx, third)
	if err != nil {
		t.Fatalf("SaveQuiz after delete: %v", err)
	}
	if third.ID != "3_20250314092653" {
		t.Fatalf("third id=%q", third.ID)
	}
	if got, err := s.GetQuiz(ctx, second.ID); err != nil || got.Title != second.Title {
		t.Fatalf("GetQuiz(second)=%q err=%v", got.Title, err)
	}
	if err := s.DeleteQuiz(ctx, third.ID); err != nil {
		t.Fatalf("DeleteQuiz(third): %v", err)
	}
	all, err = s.ListQuizzes(ctx)
	if err != nil || len(all) != 1 || all[0].ID != second.ID {
		t.Fatalf("after deleting third: %v %+v", err, all)
	}

	if err := s.AppendResult(ctx, Result{Topic: "A", Score: 1, Total: 3, Date: "2025-01-01 10:00:00"}); err != nil {
		t.Fatalf("AppendResult: %v", err)
	}
	if err := s.AppendResult(ctx, Result{Topic: "B", Score: 3, Total: 3, Date: "2025-02-01 10:00:00"}); err != nil {
		t.Fatalf("AppendResult: %v", err)
	}
	hist, err := s.ListResults(ctx)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(hist) != 2 || hist[0].Topic != "B" {
		t.Fatalf("history not newest first: %+v", hist)
	}
	if err := s.ClearResults(ctx); err != nil {
		t.Fatalf("ClearResults: %v", err)
	}
	hist, err = s.ListResults(ctx)
	if err != nil || len(hist) != 0 {
		t.Fatalf("history after clear: %v %+v", err, hist)
	}
}

func TestJSONStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewJSONStore(dir, nil, WithClock(fixedClock))
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}
	exerciseStore(t, s)

	if _, err := os.Stat(filepath.Join(dir, QuizzesFile)); err != nil {
		t.Fatalf("expected %s on disk: %v", QuizzesFile, err)
	}
	if _, err := os.Stat(filepath.Join(dir, HistoryFile)); !os.IsNotExist(err) {
		t.Fatalf("expected history file removed, got %v", err)
	}
}

func TestJSONStore_ReadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	raw := `[{"id":"1_20240101000000","title":"T","language":"English","difficulty":"Easy","topic":"T","created_at":"2024-01-01 00:00:00","questions":[]}]`
	if err := os.WriteFile(filepath.Join(dir, QuizzesFile), []byte(raw), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := NewJSONStore(dir, nil, WithClock(func() time.Time { return fixedClock() }))
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}
	q, err := s.SaveQuiz(context.Background(), sampleQuiz())
	if err != nil {
		t.Fatalf("SaveQuiz: %v", err)
	}
	if q.ID != "2_20250314092653" {
		t.Fatalf("id=%q", q.ID)
	}
}

func TestGormStore_SQLite(t *testing.T) {
	s, err := OpenGorm("sqlite", filepath.Join(t.TempDir(), "quiz.db"), nil)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	defer s.Close()
	s.now = fixedClock
	exerciseStore(t, s)
}

func TestGormStore_Postgres(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("missing TEST_POSTGRES_DSN")
	}
	s, err := OpenGorm("postgres", dsn, nil)
	if err != nil {
		t.Fatalf("OpenGorm: %v", err)
	}
	defer s.Close()
	s.db.Exec("DELETE FROM saved_quizzes")
	s.db.Exec("DELETE FROM quiz_history")
	s.now = fixedClock
	exerciseStore(t, s)
}
