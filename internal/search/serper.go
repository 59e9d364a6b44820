package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/sutra-starters/internal/config"
)

type Query struct {
	Q        string
	Num      int
	Language string
	Page     int
}

// Serper calls google.serper.dev. The key can come from config or per request.
type Serper struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

func NewSerper(cfg config.SearchConfig, hc *http.Client) *Serper {
	if hc == nil {
		hc = http.DefaultClient
	}
	base := strings.TrimRight(cfg.SerperBaseURL, "/")
	if base == "" {
		base = "https://google.serper.dev"
	}
	return &Serper{baseURL: base, apiKey: strings.TrimSpace(cfg.SerperAPIKey), timeout: cfg.Timeout.Duration, httpClient: hc}
}

func (s *Serper) WithAPIKey(key string) *Serper {
	key = strings.TrimSpace(key)
	if key == "" {
		return s
	}
	cp := *s
	cp.apiKey = key
	return &cp
}

func (s *Serper) News(ctx context.Context, q Query) ([]Item, error) {
	var resp struct {
		News []Item `json:"news"`
	}
	if err := s.post(ctx, "/news", q.payload(), &resp); err != nil {
		return nil, err
	}
	return resp.News, nil
}

func (s *Serper) Shopping(ctx context.Context, q Query) ([]Item, error) {
	p := q.payload()
	if q.Page > 0 {
		p["page"] = q.Page
	}
	var resp struct {
		Shopping []Item `json:"shopping"`
	}
	if err := s.post(ctx, "/shopping", p, &resp); err != nil {
		return nil, err
	}
	return resp.Shopping, nil
}

func (s *Serper) Images(ctx context.Context, q string, num int) ([]Item, error) {
	if num <= 0 {
		num = 1
	}
	var resp struct {
		Images []Item `json:"images"`
	}
	if err := s.post(ctx, "/images", map[string]any{"q": q, "num": num}, &resp); err != nil {
		return nil, err
	}
	return resp.Images, nil
}

// FirstImage returns the imageUrl of the top image hit, or "" when there is none.
func (s *Serper) FirstImage(ctx context.Context, q string) (string, error) {
	imgs, err := s.Images(ctx, q, 1)
	if err != nil || len(imgs) == 0 {
		return "", err
	}
	return imgs[0].String("imageUrl"), nil
}

func (q Query) payload() map[string]any {
	p := map[string]any{"q": q.Q}
	if q.Num > 0 {
		p["num"] = q.Num
	}
	if l := strings.TrimSpace(q.Language); l != "" {
		p["hl"] = strings.ToLower(l)
	}
	if q.Page > 1 {
		p["page"] = q.Page
	}
	return p
}

func (s *Serper) post(ctx context.Context, path string, body any, out any) error {
	if s.apiKey == "" {
		return ErrMissingAPIKey
	}
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("serper %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		return &HTTPError{Service: "serper", StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("serper %s: decode: %w", path, err)
	}
	return nil
}
