package observability

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_CountersAndHandler(t *testing.T) {
	m := NewMetrics("sutra")
	m.LLMRequest("complete", "ok", 120*time.Millisecond)
	m.LLMRequest("complete", "ok", 80*time.Millisecond)
	m.LLMRetry("complete")
	m.MindmapChunk("failed")
	m.HTTPRequest("POST", "/search", "200", time.Second)

	if got := testutil.ToFloat64(m.llmRequests.WithLabelValues("complete", "ok")); got != 2 {
		t.Fatalf("llm ok=%v", got)
	}
	if got := testutil.ToFloat64(m.mindmapChunks.WithLabelValues("failed")); got != 1 {
		t.Fatalf("chunks failed=%v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{"sutra_llm_retries_total", `sutra_http_requests_total{method="POST",route="/search",status="200"} 1`} {
		if !strings.Contains(body, want) {
			t.Fatalf("metrics output missing %q", want)
		}
	}
}
