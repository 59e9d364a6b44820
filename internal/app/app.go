package app

import (
	"context"
	"fmt"

	"github.com/yungbote/sutra-starters/internal/config"
	sutrahttp "github.com/yungbote/sutra-starters/internal/http"
	"github.com/yungbote/sutra-starters/internal/observability"
	"github.com/yungbote/sutra-starters/internal/platform/logger"
)

const Version = "1.0.0"

type App struct {
	Log     *logger.Logger
	Cfg     *config.Config
	Metrics *observability.Metrics
	Clients Clients
	Stores  Stores
	Server  *sutrahttp.Server

	shutdownTracing func(context.Context) error
}

// New loads configuration and wires every dependency of the HTTP API.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return NewWithConfig(ctx, cfg, log)
}

func NewWithConfig(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	if log == nil {
		log = logger.Nop()
	}
	shutdownTracing := observability.InitTracing(ctx, log, cfg.Service, cfg.Env, cfg.Telemetry)
	metrics := observability.NewMetrics("sutra")

	clients := wireClients(log, cfg, metrics)

	stores, err := wireStores(log, cfg)
	if err != nil {
		_ = shutdownTracing(ctx)
		log.Sync()
		return nil, err
	}

	handlers := wireHandlers(log, cfg, clients, stores, metrics)
	server := wireServer(log, cfg, handlers, metrics)

	return &App{
		Log:             log,
		Cfg:             cfg,
		Metrics:         metrics,
		Clients:         clients,
		Stores:          stores,
		Server:          server,
		shutdownTracing: shutdownTracing,
	}, nil
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Server.Run(ctx)
}

func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	a.Stores.Close(a.Log)
	if a.shutdownTracing != nil {
		if err := a.shutdownTracing(ctx); err != nil {
			a.Log.Warn("tracing shutdown failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
