package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/sutra-starters/internal/config"
	"github.com/yungbote/sutra-starters/internal/platform/logger"
	"github.com/yungbote/sutra-starters/internal/retry"
)

type Client struct {
	baseURL        string
	apiKey         string
	model          string
	embeddingModel string

	chatCompletionsPath string
	embeddingsPath      string

	timeout     time.Duration
	policy      retry.Policy
	maxTokens   int
	temperature float64

	httpClient *http.Client
	log        *logger.Logger
	rec        Recorder
	tracer     trace.Tracer
	retryOpts  []retry.Option
}

type Option func(*Client)

// WithHTTPClient is intended for tests; it avoids network access by using a custom RoundTripper.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(c *Client) {
		if r != nil {
			c.rec = r
		}
	}
}

func WithRetryOptions(opts ...retry.Option) Option {
	return func(c *Client) { c.retryOpts = append(c.retryOpts, opts...) }
}

func New(cfg config.LLMConfig, log *logger.Logger, opts ...Option) *Client {
	if log == nil {
		log = logger.Nop()
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = config.DefaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = config.DefaultModel
	}
	chatPath := strings.TrimSpace(cfg.ChatCompletionsPath)
	if chatPath == "" {
		chatPath = "/chat/completions"
	}
	embPath := strings.TrimSpace(cfg.EmbeddingsPath)
	if embPath == "" {
		embPath = "/embeddings"
	}
	timeout := cfg.Timeout.Duration
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	embModel := strings.TrimSpace(cfg.EmbeddingModel)
	if embModel == "" {
		embModel = model
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	c := &Client{
		baseURL:             baseURL,
		apiKey:              strings.TrimSpace(cfg.APIKey),
		model:               model,
		embeddingModel:      embModel,
		chatCompletionsPath: chatPath,
		embeddingsPath:      embPath,
		timeout:             timeout,
		policy:              retry.Policy{MaxAttempts: cfg.Retry.MaxAttempts, Delay: cfg.Retry.Delay.Duration},
		maxTokens:           cfg.MaxTokens,
		temperature:         cfg.Temperature,
		httpClient:          &http.Client{Transport: tr},
		log:                 log.With("service", "LLMClient"),
		rec:                 nopRecorder{},
		tracer:              otel.Tracer("github.com/yungbote/sutra-starters/internal/llm"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithAPIKey returns a copy that authenticates with key. An empty key keeps the configured one.
func (c *Client) WithAPIKey(key string) *Client {
	key = strings.TrimSpace(key)
	if key == "" || key == c.apiKey {
		return c
	}
	cp := *c
	cp.apiKey = key
	return &cp
}

func (c *Client) Model() string { return c.model }

func (c *Client) ForKey(key string) Backend { return c.WithAPIKey(key) }

// ---------------- Chat completions ----------------

type chatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Stream      bool      `json:"stream"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content,omitempty"`
		} `json:"message,omitempty"`
		Text string `json:"text,omitempty"`
	} `json:"choices"`
}

type chatCompletionStreamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content,omitempty"`
		} `json:"delta,omitempty"`
		Text         string  `json:"text,omitempty"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
	Error any `json:"error,omitempty"`
}

// Complete sends one chat request. Transport errors, non-2xx replies and empty
// completions are retried under the configured policy.
func (c *Client) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	msgs := cleanMessages(messages)
	if len(msgs) == 0 {
		return "", ErrNoMessages
	}
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	ctx, span := c.tracer.Start(ctx, "llm.complete", trace.WithAttributes(
		attribute.String("llm.model", c.model),
		attribute.Int("llm.messages", len(msgs)),
	))
	defer span.End()

	started := time.Now()
	reqBody := c.buildRequest(msgs, opts, false)
	text, err := retry.Do(ctx, c.policy, func(ctx context.Context) (string, error) {
		var resp chatCompletionResponse
		if err := c.doJSON(ctx, http.MethodPost, c.chatCompletionsPath, reqBody, &resp); err != nil {
			return "", err
		}
		text := strings.TrimSpace(extractChatText(resp))
		if text == "" {
			return "", ErrEmptyCompletion
		}
		return text, nil
	}, append([]retry.Option{retry.WithOnRetry(func(attempt int, err error, wait time.Duration) {
		c.rec.LLMRetry("complete")
		c.log.Warn("llm call failed, retrying", "attempt", attempt, "wait", wait.String(), "error", err)
	})}, c.retryOpts...)...)

	if err != nil {
		c.rec.LLMRequest("complete", "error", time.Since(started))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	c.rec.LLMRequest("complete", "ok", time.Since(started))
	span.SetAttributes(attribute.Int("llm.output_chars", len(text)))
	return text, nil
}

// Stream sends a streaming chat request and forwards each content delta to onDelta.
// Streams are not retried: deltas may already have reached the caller.
func (c *Client) Stream(ctx context.Context, messages []Message, opts Options, onDelta func(delta string)) (string, error) {
	msgs := cleanMessages(messages)
	if len(msgs) == 0 {
		return "", ErrNoMessages
	}
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	ctx, span := c.tracer.Start(ctx, "llm.stream", trace.WithAttributes(attribute.String("llm.model", c.model)))
	defer span.End()
	started := time.Now()

	full, err := c.stream(ctx, c.buildRequest(msgs, opts, true), onDelta)
	if err != nil {
		c.rec.LLMRequest("stream", "error", time.Since(started))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	c.rec.LLMRequest("stream", "ok", time.Since(started))
	return full, nil
}

func (c *Client) stream(ctx context.Context, reqBody chatCompletionRequest, onDelta func(string)) (string, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.chatCompletionsPath, &buf)
	if err != nil {
		return "", err
	}
	c.setHeaders(req, "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return "", &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	var full strings.Builder
	err = readSSE(resp.Body, func(_ string, data string) error {
		data = strings.TrimSpace(data)
		if data == "" || data == "[DONE]" {
			return nil
		}
		var chunk chatCompletionStreamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return nil
		}
		if chunk.Error != nil {
			b, _ := json.Marshal(chunk.Error)
			return fmt.Errorf("upstream stream error: %s", string(b))
		}
		for _, ch := range chunk.Choices {
			if ch.FinishReason != nil && *ch.FinishReason != "" {
				continue
			}
			delta := ch.Delta.Content
			if delta == "" {
				delta = ch.Text
			}
			if delta == "" {
				continue
			}
			full.WriteString(delta)
			if onDelta != nil {
				onDelta(delta)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(full.String()) == "" {
		return "", ErrEmptyCompletion
	}
	return full.String(), nil
}

func (c *Client) buildRequest(msgs []Message, opts Options, stream bool) chatCompletionRequest {
	temp := c.temperature
	if opts.Temperature != nil {
		temp = *opts.Temperature
	}
	maxTokens := c.maxTokens
	if opts.MaxTokens > 0 {
		maxTokens = opts.MaxTokens
	}
	return chatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: temp,
		MaxTokens:   maxTokens,
		Stream:      stream,
	}
}

// ---------------- Embeddings ----------------

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

func (c *Client) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return [][]float32{}, nil
	}
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	started := time.Now()
	resp, err := retry.Do(ctx, c.policy, func(ctx context.Context) (embeddingsResponse, error) {
		var resp embeddingsResponse
		err := c.doJSON(ctx, http.MethodPost, c.embeddingsPath, embeddingsRequest{Model: c.embeddingModel, Input: inputs}, &resp)
		return resp, err
	}, c.retryOpts...)
	if err != nil {
		c.rec.LLMRequest("embed", "error", time.Since(started))
		return nil, err
	}
	c.rec.LLMRequest("embed", "ok", time.Since(started))

	out := make([][]float32, len(inputs))
	for i, d := range resp.Data {
		idx := d.Index
		if idx < 0 || idx >= len(out) || out[idx] != nil {
			idx = i
		}
		if idx >= len(out) {
			continue
		}
		vec := make([]float32, len(d.Embedding))
		for j, f := range d.Embedding {
			vec[j] = float32(f)
		}
		out[idx] = vec
	}
	for i := range out {
		if len(out[i]) == 0 {
			return nil, fmt.Errorf("embeddings missing index=%d (model=%s)", i, c.embeddingModel)
		}
	}
	return out, nil
}

// ---------------- helpers ----------------

func cleanMessages(messages []Message) []Message {
	out := make([]Message, 0, len(messages))
	for _, m := range messages {
		role := strings.TrimSpace(m.Role)
		content := strings.TrimSpace(m.Content)
		if role == "" || content == "" {
			continue
		}
		out = append(out, Message{Role: role, Content: content})
	}
	return out
}

func extractChatText(resp chatCompletionResponse) string {
	for _, ch := range resp.Choices {
		if strings.TrimSpace(ch.Message.Content) != "" {
			return ch.Message.Content
		}
		if strings.TrimSpace(ch.Text) != "" {
			return ch.Text
		}
	}
	return ""
}

func (c *Client) setHeaders(req *http.Request, accept string) {
	req.Header.Set("Content-Type", "application/json")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	c.setHeaders(req, "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode upstream response: %w", err)
	}
	return nil
}

// IsUpstream reports whether err came from the remote API rather than local validation.
func IsUpstream(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) || errors.Is(err, ErrEmptyCompletion)
}
