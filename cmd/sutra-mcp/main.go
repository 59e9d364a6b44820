package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/yungbote/sutra-starters/internal/config"
	"github.com/yungbote/sutra-starters/internal/llm"
	"github.com/yungbote/sutra-starters/internal/mcpserver"
	"github.com/yungbote/sutra-starters/internal/platform/logger"
	"github.com/yungbote/sutra-starters/internal/search"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	// stdout carries JSON-RPC, so logs go to stderr only.
	log, err := logger.New("quiet")
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	srv := mcpserver.New(mcpserver.Deps{
		Log:          log,
		Model:        llm.New(cfg.LLM, log),
		Serper:       search.NewSerper(cfg.Search, &http.Client{Timeout: cfg.Search.Timeout.Duration}),
		Mindmap:      cfg.Mindmap,
		ImageWorkers: cfg.Search.ImageWorkers,
	})
	if err := srv.ServeStdio(); err != nil {
		log.Error("mcp server exited", "error", err)
		os.Exit(1)
	}
}
