package app

import (
	"net/http"

	"github.com/yungbote/sutra-starters/internal/config"
	"github.com/yungbote/sutra-starters/internal/llm"
	"github.com/yungbote/sutra-starters/internal/observability"
	"github.com/yungbote/sutra-starters/internal/platform/logger"
	"github.com/yungbote/sutra-starters/internal/search"
)

type Clients struct {
	LLM     *llm.Client
	Serper  *search.Serper
	SerpAPI *search.SerpAPI
}

func wireClients(log *logger.Logger, cfg *config.Config, metrics *observability.Metrics) Clients {
	log.Info("Wiring clients...")
	hc := &http.Client{Timeout: cfg.Search.Timeout.Duration}
	return Clients{
		LLM:     llm.New(cfg.LLM, log, llm.WithRecorder(metrics)),
		Serper:  search.NewSerper(cfg.Search, hc),
		SerpAPI: search.NewSerpAPI(cfg.Search, hc),
	}
}
