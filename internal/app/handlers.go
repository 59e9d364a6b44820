package app

import (
	"github.com/yungbote/sutra-starters/internal/chat"
	"github.com/yungbote/sutra-starters/internal/config"
	sutrahttp "github.com/yungbote/sutra-starters/internal/http"
	httpH "github.com/yungbote/sutra-starters/internal/http/handlers"
	"github.com/yungbote/sutra-starters/internal/observability"
	"github.com/yungbote/sutra-starters/internal/platform/logger"
)

type Handlers struct {
	Health     *httpH.HealthHandler
	News       *httpH.NewsHandler
	Search     *httpH.SearchHandler
	Mindmap    *httpH.MindmapHandler
	Quiz       *httpH.QuizHandler
	Flashcards *httpH.FlashcardsHandler
	Chat       *httpH.ChatHandler
	Assist     *httpH.AssistHandler
	Document   *httpH.DocumentHandler
}

func wireHandlers(log *logger.Logger, cfg *config.Config, clients Clients, stores Stores, metrics *observability.Metrics) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler("Sutra Starters API", Version, sutrahttp.Routes()),
		News: httpH.NewNewsHandlerWithDeps(httpH.NewsHandlerDeps{
			Log:          log,
			Models:       clients.LLM,
			Serper:       clients.Serper,
			Recorder:     metrics,
			ImageWorkers: cfg.Search.ImageWorkers,
		}),
		Search: httpH.NewSearchHandlerWithDeps(httpH.SearchHandlerDeps{
			Log:          log,
			Models:       clients.LLM,
			Serper:       clients.Serper,
			SerpAPI:      clients.SerpAPI,
			Recorder:     metrics,
			ImageWorkers: cfg.Search.ImageWorkers,
		}),
		Mindmap: httpH.NewMindmapHandlerWithDeps(httpH.MindmapHandlerDeps{
			Log:            log,
			Models:         clients.LLM,
			Config:         cfg.Mindmap,
			Recorder:       metrics,
			MaxUploadBytes: cfg.HTTP.MaxRequestBytes,
		}),
		Quiz: httpH.NewQuizHandlerWithDeps(httpH.QuizHandlerDeps{
			Log:    log,
			Models: clients.LLM,
			Store:  stores.Quiz,
		}),
		Flashcards: httpH.NewFlashcardsHandlerWithDeps(httpH.FlashcardsHandlerDeps{
			Log:    log,
			Models: clients.LLM,
		}),
		Chat: httpH.NewChatHandlerWithDeps(httpH.ChatHandlerDeps{
			Log:      log,
			Models:   clients.LLM,
			Memory:   stores.Memory,
			Sessions: chat.NewSessions(),
			Options:  chat.Options{Window: cfg.Memory.Window.Duration, Limit: cfg.Memory.Limit},
		}),
		Assist: httpH.NewAssistHandlerWithDeps(httpH.AssistHandlerDeps{
			Log:    log,
			Models: clients.LLM,
		}),
		Document: httpH.NewDocumentHandlerWithDeps(httpH.DocumentHandlerDeps{
			Log:            log,
			Models:         clients.LLM,
			MaxUploadBytes: cfg.HTTP.MaxRequestBytes,
		}),
	}
}
