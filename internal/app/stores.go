package app

import (
	"fmt"

	"github.com/yungbote/sutra-starters/internal/config"
	"github.com/yungbote/sutra-starters/internal/memory"
	"github.com/yungbote/sutra-starters/internal/platform/logger"
	"github.com/yungbote/sutra-starters/internal/quiz"
)

type Stores struct {
	Quiz   quiz.Store
	Memory memory.Store
}

func wireStores(log *logger.Logger, cfg *config.Config) (Stores, error) {
	log.Info("Wiring stores...", "quiz_driver", cfg.Storage.Driver, "memory_backend", cfg.Memory.Backend)
	qs, err := quiz.OpenStore(cfg.Storage, log)
	if err != nil {
		return Stores{}, fmt.Errorf("init quiz store: %w", err)
	}
	mem, err := memory.Open(cfg.Memory, log)
	if err != nil {
		_ = qs.Close()
		return Stores{}, fmt.Errorf("init memory store: %w", err)
	}
	return Stores{Quiz: qs, Memory: mem}, nil
}

func (s Stores) Close(log *logger.Logger) {
	if s.Quiz != nil {
		if err := s.Quiz.Close(); err != nil {
			log.Warn("quiz store close failed", "error", err)
		}
	}
	if s.Memory != nil {
		if err := s.Memory.Close(); err != nil {
			log.Warn("memory store close failed", "error", err)
		}
	}
}
