package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yungbote/sutra-starters/internal/config"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func jsonResponse(status int, v any) *http.Response {
	b, _ := json.Marshal(v)
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewReader(b)),
	}
}

func completion(text string) map[string]any {
	return map[string]any{"choices": []any{map[string]any{"message": map[string]any{"content": text}}}}
}

func testConfig() config.LLMConfig {
	return config.LLMConfig{
		BaseURL:   "http://sutra.test/v2",
		Model:     "sutra-v2",
		APIKey:    "sk-server",
		Timeout:   config.Duration{Duration: 2 * time.Second},
		Retry:     config.RetryConfig{MaxAttempts: 3},
		MaxTokens: 256,
	}
}

func TestComplete_SendsChatRequest(t *testing.T) {
	hc := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/v2/chat/completions" {
			t.Fatalf("path=%s", req.URL.Path)
		}
		if got := req.Header.Get("Authorization"); got != "Bearer sk-server" {
			t.Fatalf("auth=%q", got)
		}
		var in chatCompletionRequest
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if in.Model != "sutra-v2" || in.Stream || in.MaxTokens != 4000 || in.Temperature != 0.3 {
			t.Fatalf("request=%+v", in)
		}
		if len(in.Messages) != 2 {
			t.Fatalf("blank messages should be dropped, got %d", len(in.Messages))
		}
		return jsonResponse(http.StatusOK, completion("  # Mindmap  ")), nil
	})}

	c := New(testConfig(), nil, WithHTTPClient(hc))
	out, err := c.Complete(context.Background(), []Message{
		System("be brief"), User("   "), User("summarize"),
	}, Options{Temperature: Temperature(0.3), MaxTokens: 4000})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "# Mindmap" {
		t.Fatalf("out=%q", out)
	}
}

func TestComplete_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	hc := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		switch calls.Add(1) {
		case 1:
			return jsonResponse(http.StatusBadGateway, map[string]any{"error": "busy"}), nil
		case 2:
			return jsonResponse(http.StatusOK, completion("")), nil
		default:
			return jsonResponse(http.StatusOK, completion("done")), nil
		}
	})}

	c := New(testConfig(), nil, WithHTTPClient(hc))
	out, err := c.Complete(context.Background(), []Message{User("hi")}, Options{})
	if err != nil || out != "done" {
		t.Fatalf("out=%q err=%v", out, err)
	}
	if calls.Load() != 3 {
		t.Fatalf("calls=%d", calls.Load())
	}
}

func TestComplete_ReturnsLastErrorAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	hc := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		calls.Add(1)
		return jsonResponse(http.StatusInternalServerError, map[string]any{"error": "down"}), nil
	})}

	c := New(testConfig(), nil, WithHTTPClient(hc))
	_, err := c.Complete(context.Background(), []Message{User("hi")}, Options{})
	var he *HTTPError
	if !errors.As(err, &he) || he.StatusCode != http.StatusInternalServerError {
		t.Fatalf("err=%v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("calls=%d want 3", calls.Load())
	}
	if !IsUpstream(err) {
		t.Fatalf("expected upstream classification")
	}
}

func TestComplete_RequiresKeyAndMessages(t *testing.T) {
	cfg := testConfig()
	cfg.APIKey = ""
	c := New(cfg, nil)
	if _, err := c.Complete(context.Background(), []Message{User("x")}, Options{}); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("err=%v", err)
	}
	if _, err := c.WithAPIKey("sk-user").Complete(context.Background(), nil, Options{}); !errors.Is(err, ErrNoMessages) {
		t.Fatalf("err=%v", err)
	}
}

func TestWithAPIKey_OverridesHeader(t *testing.T) {
	hc := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if got := req.Header.Get("Authorization"); got != "Bearer sk-user" {
			t.Fatalf("auth=%q", got)
		}
		return jsonResponse(http.StatusOK, completion("ok")), nil
	})}
	base := New(testConfig(), nil, WithHTTPClient(hc))
	if _, err := base.WithAPIKey("sk-user").Complete(context.Background(), []Message{User("hi")}, Options{}); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if base.WithAPIKey("  ") != base {
		t.Fatalf("blank key should return the same client")
	}
}

func TestStream_ForwardsDeltas(t *testing.T) {
	body := strings.Join([]string{
		`: keep-alive`,
		``,
		`data: {"choices":[{"delta":{"content":"नमस्ते"},"finish_reason":null}]}`,
		``,
		`data: {"choices":[{"delta":{"content":", friend"},"finish_reason":null}]}`,
		``,
		`data: {"choices":[{"delta":{"content":"!"},"finish_reason":"stop"}]}`,
		``,
		`data: [DONE]`,
	}, "\n")
	hc := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		var in chatCompletionRequest
		_ = json.NewDecoder(req.Body).Decode(&in)
		if !in.Stream {
			t.Fatalf("stream flag not set")
		}
		if req.Header.Get("Accept") != "text/event-stream" {
			t.Fatalf("accept=%q", req.Header.Get("Accept"))
		}
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(body))}, nil
	})}

	c := New(testConfig(), nil, WithHTTPClient(hc))
	var deltas []string
	full, err := c.Stream(context.Background(), []Message{User("hello")}, Options{}, func(d string) {
		deltas = append(deltas, d)
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if full != "नमस्ते, friend" || len(deltas) != 2 {
		t.Fatalf("full=%q deltas=%q", full, deltas)
	}
}

func TestStream_UpstreamError(t *testing.T) {
	hc := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		body := `data: {"error":{"message":"rate limited"}}` + "\n\n"
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(body))}, nil
	})}
	c := New(testConfig(), nil, WithHTTPClient(hc))
	if _, err := c.Stream(context.Background(), []Message{User("x")}, Options{}, nil); err == nil ||
		!strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("err=%v", err)
	}
}

func TestEmbed_OrdersByIndex(t *testing.T) {
	hc := &http.Client{Transport: roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/v2/embeddings" {
			t.Fatalf("path=%s", req.URL.Path)
		}
		return jsonResponse(http.StatusOK, map[string]any{"data": []any{
			map[string]any{"index": 1, "embedding": []float64{0.3, 0.4}},
			map[string]any{"index": 0, "embedding": []float64{0.1, 0.2}},
		}}), nil
	})}
	c := New(testConfig(), nil, WithHTTPClient(hc))
	vecs, err := c.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if vecs[0][0] != float32(0.1) || vecs[1][0] != float32(0.3) {
		t.Fatalf("vecs=%v", vecs)
	}
}

func TestCleanJSON(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```":         `{"a":1}`,
		"Here you go: {\"a\":[1,2]} Enjoy": `{"a":[1,2]}`,
		"[{\"q\":1}]":                      `[{"q":1}]`,
		"no json here":                     "no json here",
	}
	for in, want := range cases {
		if got := CleanJSON(in); got != want {
			t.Fatalf("CleanJSON(%q)=%q want %q", in, got, want)
		}
	}
	v, err := DecodeJSON[map[string]string]("```\n{\"title\":\"समाचार\"}\n```")
	if err != nil || v["title"] != "समाचार" {
		t.Fatalf("DecodeJSON: %v %v", v, err)
	}
}

func TestMock_EchoAndStream(t *testing.T) {
	m := &Mock{}
	var parts []string
	full, err := m.Stream(context.Background(), []Message{User(strings.Repeat("a", 40))}, Options{}, func(d string) {
		parts = append(parts, d)
	})
	if err != nil || full != "mock: "+strings.Repeat("a", 40) {
		t.Fatalf("full=%q err=%v", full, err)
	}
	if strings.Join(parts, "") != full || m.CallCount() != 1 {
		t.Fatalf("parts=%q calls=%d", parts, m.CallCount())
	}
}
