package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/yungbote/sutra-starters/internal/platform/logger"
)

type quizRow struct {
	ID         string         `gorm:"primaryKey;type:varchar(64)"`
	Seq        int64          `gorm:"autoIncrement:false;uniqueIndex"`
	Title      string         `gorm:"not null"`
	Language   string         `gorm:"not null"`
	Difficulty string         `gorm:"not null"`
	Topic      string         `gorm:"not null;index"`
	CreatedAt  string         `gorm:"not null"`
	Questions  datatypes.JSON `gorm:"type:jsonb"`
}

func (quizRow) TableName() string { return "saved_quizzes" }

type resultRow struct {
	ID         uint   `gorm:"primaryKey"`
	QuizTitle  string `gorm:"not null"`
	Language   string `gorm:"not null"`
	Topic      string `gorm:"not null;index"`
	Difficulty string `gorm:"not null"`
	Score      int    `gorm:"not null"`
	Total      int    `gorm:"not null"`
	Date       string `gorm:"not null;index"`
}

func (resultRow) TableName() string { return "quiz_history" }

// GormStore persists quizzes in sqlite or postgres.
type GormStore struct {
	db  *gorm.DB
	log *logger.Logger
	now func() time.Time
}

func OpenGorm(driver, dsn string, log *logger.Logger) (*GormStore, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("quiz: unsupported storage driver %q", driver)
	}
	gormLog := gormLogger.New(
		stdLogger(),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(dialector, &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormLog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}
	return NewGormStore(db, log)
}

// NewGormStore migrates the quiz tables on an open connection.
func NewGormStore(db *gorm.DB, log *logger.Logger) (*GormStore, error) {
	if log == nil {
		log = logger.Nop()
	}
	if err := db.AutoMigrate(&quizRow{}, &resultRow{}); err != nil {
		return nil, fmt.Errorf("quiz: migrate: %w", err)
	}
	return &GormStore{db: db, log: log.With("service", "QuizGormStore"), now: time.Now}, nil
}

func (s *GormStore) SaveQuiz(ctx context.Context, q Quiz) (Quiz, error) {
	questions, err := json.Marshal(q.Questions)
	if err != nil {
		return Quiz{}, fmt.Errorf("quiz: encode questions: %w", err)
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var hi int64
		if err := tx.Model(&quizRow{}).Select("COALESCE(MAX(seq), 0)").Scan(&hi).Error; err != nil {
			return err
		}
		seq := hi + 1
		q.ID = newID(int(seq), s.now())
		row := quizRow{
			ID:         q.ID,
			Seq:        seq,
			Title:      q.Title,
			Language:   q.Language,
			Difficulty: q.Difficulty,
			Topic:      q.Topic,
			CreatedAt:  q.CreatedAt,
			Questions:  datatypes.JSON(questions),
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		return Quiz{}, fmt.Errorf("quiz: save: %w", err)
	}
	return q, nil
}

func (s *GormStore) ListQuizzes(ctx context.Context) ([]Quiz, error) {
	var rows []quizRow
	if err := s.db.WithContext(ctx).Order("seq asc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("quiz: list: %w", err)
	}
	out := make([]Quiz, 0, len(rows))
	for _, r := range rows {
		q, err := r.quiz()
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

func (s *GormStore) GetQuiz(ctx context.Context, id string) (Quiz, error) {
	var row quizRow
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Quiz{}, ErrNotFound
	}
	if err != nil {
		return Quiz{}, fmt.Errorf("quiz: get: %w", err)
	}
	return row.quiz()
}

func (s *GormStore) DeleteQuiz(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&quizRow{})
	if res.Error != nil {
		return fmt.Errorf("quiz: delete: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) AppendResult(ctx context.Context, r Result) error {
	if r.Date == "" {
		r.Date = s.now().Format(TimeLayout)
	}
	row := resultRow{
		QuizTitle:  r.QuizTitle,
		Language:   r.Language,
		Topic:      r.Topic,
		Difficulty: r.Difficulty,
		Score:      r.Score,
		Total:      r.Total,
		Date:       r.Date,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("quiz: add result: %w", err)
	}
	return nil
}

func (s *GormStore) ListResults(ctx context.Context) ([]Result, error) {
	var rows []resultRow
	if err := s.db.WithContext(ctx).Order("date desc").Order("id desc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("quiz: history: %w", err)
	}
	out := make([]Result, 0, len(rows))
	for _, r := range rows {
		out = append(out, Result{
			QuizTitle:  r.QuizTitle,
			Language:   r.Language,
			Topic:      r.Topic,
			Difficulty: r.Difficulty,
			Score:      r.Score,
			Total:      r.Total,
			Date:       r.Date,
		})
	}
	return out, nil
}

func (s *GormStore) ClearResults(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Where("1 = 1").Delete(&resultRow{}).Error; err != nil {
		return fmt.Errorf("quiz: clear history: %w", err)
	}
	return nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r quizRow) quiz() (Quiz, error) {
	q := Quiz{
		ID:         r.ID,
		Title:      r.Title,
		Language:   r.Language,
		Difficulty: r.Difficulty,
		Topic:      r.Topic,
		CreatedAt:  r.CreatedAt,
	}
	if len(r.Questions) > 0 {
		if err := json.Unmarshal(r.Questions, &q.Questions); err != nil {
			return Quiz{}, fmt.Errorf("quiz: decode questions for %s: %w", r.ID, err)
		}
	}
	return q, nil
}

func stdLogger() *log.Logger {
	return log.New(os.Stdout, "\r\n", log.LstdFlags)
}
