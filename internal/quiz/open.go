package quiz

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yungbote/sutra-starters/internal/config"
	"github.com/yungbote/sutra-starters/internal/platform/logger"
)

// OpenStore picks the backend named by cfg.Driver.
func OpenStore(cfg config.StorageConfig, log *logger.Logger) (Store, error) {
	switch cfg.Driver {
	case "", "json":
		return NewJSONStore(cfg.Dir, log)
	case "sqlite":
		dsn := cfg.DSN
		if dsn == "" {
			if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
				return nil, fmt.Errorf("quiz: create store dir: %w", err)
			}
			dsn = filepath.Join(cfg.Dir, "sutra.db")
		}
		return OpenGorm("sqlite", dsn, log)
	default:
		return OpenGorm(cfg.Driver, cfg.DSN, log)
	}
}
