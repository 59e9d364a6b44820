package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/yungbote/sutra-starters/internal/platform/logger"
)

const (
	QuizzesFile = "saved_quizzes.json"
	HistoryFile = "quiz_history.json"
)

type Store interface {
	// SaveQuiz assigns an ID and persists the quiz.
	SaveQuiz(ctx context.Context, q Quiz) (Quiz, error)
	ListQuizzes(ctx context.Context) ([]Quiz, error)
	GetQuiz(ctx context.Context, id string) (Quiz, error)
	DeleteQuiz(ctx context.Context, id string) error
	AppendResult(ctx context.Context, r Result) error
	// History lists results newest first.
	ListResults(ctx context.Context) ([]Result, error)
	ClearResults(ctx context.Context) error
	Close() error
}

// JSONStore keeps two JSON array files in a directory. Writes replace the
// whole file through a temp file and rename.
type JSONStore struct {
	dir string
	log *logger.Logger
	now func() time.Time
	mu  sync.Mutex
}

type JSONOption func(*JSONStore)

func WithClock(now func() time.Time) JSONOption {
	return func(s *JSONStore) { s.now = now }
}

func NewJSONStore(dir string, log *logger.Logger, opts ...JSONOption) (*JSONStore, error) {
	if log == nil {
		log = logger.Nop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("quiz: create store dir: %w", err)
	}
	s := &JSONStore{dir: dir, log: log.With("service", "QuizJSONStore"), now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

func (s *JSONStore) SaveQuiz(_ context.Context, q Quiz) (Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []Quiz
	if err := s.read(QuizzesFile, &all); err != nil {
		return Quiz{}, err
	}
	q.ID = newID(nextSeq(all), s.now())
	all = append(all, q)
	if err := s.write(QuizzesFile, all); err != nil {
		return Quiz{}, err
	}
	s.log.Debug("quiz saved", "quiz_id", q.ID, "questions", len(q.Questions))
	return q, nil
}

func (s *JSONStore) ListQuizzes(context.Context) ([]Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []Quiz
	if err := s.read(QuizzesFile, &all); err != nil {
		return nil, err
	}
	return all, nil
}

func (s *JSONStore) GetQuiz(_ context.Context, id string) (Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []Quiz
	if err := s.read(QuizzesFile, &all); err != nil {
		return Quiz{}, err
	}
	for _, q := range all {
		if q.ID == id {
			return q, nil
		}
	}
	return Quiz{}, ErrNotFound
}

func (s *JSONStore) DeleteQuiz(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []Quiz
	if err := s.read(QuizzesFile, &all); err != nil {
		return err
	}
	kept := all[:0]
	for _, q := range all {
		if q.ID != id {
			kept = append(kept, q)
		}
	}
	if len(kept) == len(all) {
		return ErrNotFound
	}
	return s.write(QuizzesFile, kept)
}

func (s *JSONStore) AppendResult(_ context.Context, r Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []Result
	if err := s.read(HistoryFile, &all); err != nil {
		return err
	}
	if r.Date == "" {
		r.Date = s.now().Format(TimeLayout)
	}
	return s.write(HistoryFile, append(all, r))
}

func (s *JSONStore) ListResults(context.Context) ([]Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var all []Result
	if err := s.read(HistoryFile, &all); err != nil {
		return nil, err
	}
	sortNewestFirst(all)
	return all, nil
}

func (s *JSONStore) ClearResults(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(filepath.Join(s.dir, HistoryFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("quiz: clear history: %w", err)
	}
	return nil
}

func (s *JSONStore) Close() error { return nil }

func (s *JSONStore) read(name string, v any) error {
	b, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("quiz: read %s: %w", name, err)
	}
	if len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("quiz: decode %s: %w", name, err)
	}
	return nil
}

func (s *JSONStore) write(name string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("quiz: encode %s: %w", name, err)
	}
	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("quiz: write %s: %w", name, err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("quiz: write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("quiz: write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("quiz: write %s: %w", name, err)
	}
	return nil
}

// Dates share one fixed-width layout, so string order is time order.
func sortNewestFirst(rs []Result) {
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].Date > rs[j].Date })
}
