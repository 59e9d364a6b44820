package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/sutra-starters/internal/config"
)

func TestNewWithConfigServesHealthAndMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	cfg.Storage.Dir = t.TempDir()
	cfg.HTTP.Addr = "127.0.0.1:0"

	a, err := NewWithConfig(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	defer a.Close(context.Background())

	rec := httptest.NewRecorder()
	a.Server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("health status=%d", rec.Code)
	}

	rec = httptest.NewRecorder()
	a.Server.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "sutra_http_requests_total") {
		t.Fatalf("metrics status=%d body=%.200s", rec.Code, rec.Body.String())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := config.Default()
	cfg.Storage.Dir = t.TempDir()
	cfg.HTTP.Addr = "127.0.0.1:0"

	a, err := NewWithConfig(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	defer a.Close(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
}
