package app

import (
	"github.com/yungbote/sutra-starters/internal/config"
	sutrahttp "github.com/yungbote/sutra-starters/internal/http"
	httpMW "github.com/yungbote/sutra-starters/internal/http/middleware"
	"github.com/yungbote/sutra-starters/internal/observability"
	"github.com/yungbote/sutra-starters/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg *config.Config, h Handlers, metrics *observability.Metrics) *sutrahttp.Server {
	rc := sutrahttp.RouterConfig{
		Service:           cfg.Service,
		HealthHandler:     h.Health,
		NewsHandler:       h.News,
		SearchHandler:     h.Search,
		MindmapHandler:    h.Mindmap,
		QuizHandler:       h.Quiz,
		FlashcardsHandler: h.Flashcards,
		ChatHandler:       h.Chat,
		AssistHandler:     h.Assist,
		DocumentHandler:   h.Document,
	}
	if cfg.HTTP.AuthSecret != "" {
		rc.Auth = httpMW.NewTokenAuth(log, cfg.HTTP.AuthSecret)
	}
	if cfg.Telemetry.MetricsEnabled {
		rc.Metrics = metrics
		rc.MetricsHandler = metrics.Handler()
	}
	return sutrahttp.NewServer(cfg.HTTP, rc, log)
}
