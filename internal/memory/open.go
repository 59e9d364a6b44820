package memory

import (
	"fmt"

	"github.com/yungbote/sutra-starters/internal/config"
	"github.com/yungbote/sutra-starters/internal/platform/logger"
)

func Open(cfg config.MemoryConfig, log *logger.Logger) (Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewInMemoryStore(), nil
	case "redis":
		return NewRedisStore(cfg.RedisAddr, log)
	default:
		return nil, fmt.Errorf("memory: unknown backend %q", cfg.Backend)
	}
}
