package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/sutra-starters/internal/config"
)

type JobQuery struct {
	Q        string
	Location string
	JobType  string
	Num      int
}

// SerpAPI calls serpapi.com/search.json for job listings and company logos.
type SerpAPI struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

func NewSerpAPI(cfg config.SearchConfig, hc *http.Client) *SerpAPI {
	if hc == nil {
		hc = http.DefaultClient
	}
	base := strings.TrimRight(cfg.SerpAPIBaseURL, "/")
	if base == "" {
		base = "https://serpapi.com"
	}
	return &SerpAPI{baseURL: base, apiKey: strings.TrimSpace(cfg.SerpAPIKey), timeout: cfg.Timeout.Duration, httpClient: hc}
}

func (s *SerpAPI) WithAPIKey(key string) *SerpAPI {
	key = strings.TrimSpace(key)
	if key == "" {
		return s
	}
	cp := *s
	cp.apiKey = key
	return &cp
}

// Jobs searches Google Jobs for full-time listings. "Worldwide" or an empty location searches everywhere.
func (s *SerpAPI) Jobs(ctx context.Context, q JobQuery) ([]Item, error) {
	query := strings.TrimSpace(q.Q)
	if jt := strings.TrimSpace(q.JobType); jt != "" {
		query = query + " " + jt
	}
	params := url.Values{
		"engine":        {"google_jobs"},
		"q":             {query},
		"google_domain": {"google.com"},
		"hl":            {"en"},
		"gl":            {"in"},
		"ltype":         {"1"},
	}
	if loc := strings.TrimSpace(q.Location); loc != "" && !strings.EqualFold(loc, "worldwide") {
		params.Set("location", loc)
	}
	var resp struct {
		Jobs []Item `json:"jobs_results"`
	}
	if err := s.get(ctx, params, &resp); err != nil {
		return nil, err
	}
	jobs := resp.Jobs
	if q.Num > 0 && len(jobs) > q.Num {
		jobs = jobs[:q.Num]
	}
	return jobs, nil
}

// FirstImage returns the full-size URL of the top Google Images hit.
func (s *SerpAPI) FirstImage(ctx context.Context, q string) (string, error) {
	params := url.Values{
		"engine": {"google_images"},
		"q":      {q},
		"num":    {strconv.Itoa(1)},
		"safe":   {"active"},
	}
	var resp struct {
		Images []Item `json:"images_results"`
	}
	if err := s.get(ctx, params, &resp); err != nil {
		return "", err
	}
	if len(resp.Images) == 0 {
		return "", nil
	}
	return resp.Images[0].String("original"), nil
}

func (s *SerpAPI) get(ctx context.Context, params url.Values, out any) error {
	if s.apiKey == "" {
		return ErrMissingAPIKey
	}
	params.Set("api_key", s.apiKey)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/search.json?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("serpapi %s: %w", params.Get("engine"), err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
		return &HTTPError{Service: "serpapi", StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("serpapi %s: decode: %w", params.Get("engine"), err)
	}
	return nil
}
