package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL = "https://api.two.ai/v2"
	DefaultModel   = "sutra-v2"
)

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		d.Duration = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		u, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		return d.parse(u)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("duration must be a JSON string like \"5s\" or an int nanoseconds: %w", err)
	}
	d.Duration = time.Duration(n)
	return nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a scalar, got yaml kind %d", node.Kind)
	}
	if node.Tag == "!!int" {
		n, err := strconv.ParseInt(node.Value, 10, 64)
		if err != nil {
			return err
		}
		d.Duration = time.Duration(n)
		return nil
	}
	return d.parse(node.Value)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Duration.String())
}

func (d *Duration) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		d.Duration = 0
		return nil
	}
	dd, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = dd
	return nil
}

func Default() *Config {
	return &Config{
		Env:     "development",
		Service: "sutra-starters",
		HTTP: HTTPConfig{
			Addr:              ":8000",
			ReadHeaderTimeout: Duration{Duration: 5 * time.Second},
			IdleTimeout:       Duration{Duration: 2 * time.Minute},
			ShutdownTimeout:   Duration{Duration: 15 * time.Second},
			MaxRequestBytes:   25 << 20,
		},
		LLM: LLMConfig{
			BaseURL:             DefaultBaseURL,
			Model:               DefaultModel,
			ChatCompletionsPath: "/chat/completions",
			EmbeddingsPath:      "/embeddings",
			Timeout:             Duration{Duration: 60 * time.Second},
			Retry:               RetryConfig{MaxAttempts: 3, Delay: Duration{Duration: 2 * time.Second}},
			MaxTokens:           1024,
			Temperature:         0.7,
		},
		Search: SearchConfig{
			SerperBaseURL:  "https://google.serper.dev",
			SerpAPIBaseURL: "https://serpapi.com",
			Timeout:        Duration{Duration: 20 * time.Second},
			ImageWorkers:   4,
		},
		Mindmap: MindmapConfig{
			ChunkSize:   8000,
			Overlap:     200,
			Workers:     3,
			MaxTokens:   4000,
			Temperature: 0.3,
		},
		Storage: StorageConfig{Driver: "json", Dir: "data"},
		Memory: MemoryConfig{
			Backend: "memory",
			Window:  Duration{Duration: 30 * 24 * time.Hour},
			Limit:   5,
		},
		Telemetry: TelemetryConfig{SampleRatio: 0.1, MetricsEnabled: true},
	}
}

// Load reads defaults, then the optional config file, then environment overrides.
func Load() (*Config, error) {
	cfg := Default()

	cfgPath := strings.TrimSpace(os.Getenv("SUTRA_CONFIG_PATH"))
	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			for _, name := range []string{"config.yaml", "config.yml", "config.json"} {
				p := filepath.Join(wd, "config", name)
				if _, err := os.Stat(p); err == nil {
					cfgPath = p
					break
				}
			}
		}
	}
	if cfgPath != "" {
		if err := loadFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("load config %s: %w", cfgPath, err)
		}
	}

	applyEnv(cfg)
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, cfg)
	default:
		return json.Unmarshal(b, cfg)
	}
}

func applyEnv(cfg *Config) {
	set := func(key string, dst *string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set("LOG_MODE", &cfg.Env)
	set("SUTRA_HTTP_ADDR", &cfg.HTTP.Addr)
	set("SUTRA_AUTH_SECRET", &cfg.HTTP.AuthSecret)
	set("SUTRA_API_KEY", &cfg.LLM.APIKey)
	set("SUTRA_BASE_URL", &cfg.LLM.BaseURL)
	set("SUTRA_MODEL", &cfg.LLM.Model)
	set("SERPER_API_KEY", &cfg.Search.SerperAPIKey)
	set("SERPAPI_API_KEY", &cfg.Search.SerpAPIKey)
	set("SUTRA_MINDMAP_FONT", &cfg.Mindmap.FontPath)
	set("SUTRA_STORAGE_DRIVER", &cfg.Storage.Driver)
	set("SUTRA_STORAGE_DIR", &cfg.Storage.Dir)
	set("SUTRA_STORAGE_DSN", &cfg.Storage.DSN)
	set("OTEL_EXPORTER_OTLP_ENDPOINT", &cfg.Telemetry.OTLPEndpoint)
	if v := strings.TrimSpace(os.Getenv("REDIS_ADDR")); v != "" {
		cfg.Memory.RedisAddr = v
		if strings.TrimSpace(os.Getenv("SUTRA_MEMORY_BACKEND")) == "" {
			cfg.Memory.Backend = "redis"
		}
	}
	set("SUTRA_MEMORY_BACKEND", &cfg.Memory.Backend)
	if v := strings.TrimSpace(os.Getenv("OTEL_ENABLED")); v != "" {
		cfg.Telemetry.TracingEnabled = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_INSECURE")); v != "" {
		cfg.Telemetry.OTLPInsecure = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv("OTEL_SAMPLER_RATIO")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Telemetry.SampleRatio = f
		}
	}
}

func (c *Config) normalize() error {
	d := Default()
	if strings.TrimSpace(c.Env) == "" {
		c.Env = d.Env
	}
	if strings.TrimSpace(c.Service) == "" {
		c.Service = d.Service
	}
	if strings.TrimSpace(c.HTTP.Addr) == "" {
		c.HTTP.Addr = d.HTTP.Addr
	}
	if c.HTTP.MaxRequestBytes <= 0 {
		c.HTTP.MaxRequestBytes = d.HTTP.MaxRequestBytes
	}
	if c.HTTP.ShutdownTimeout.Duration <= 0 {
		c.HTTP.ShutdownTimeout = d.HTTP.ShutdownTimeout
	}

	c.LLM.BaseURL = strings.TrimRight(strings.TrimSpace(c.LLM.BaseURL), "/")
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = DefaultBaseURL
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		c.LLM.Model = DefaultModel
	}
	if strings.TrimSpace(c.LLM.ChatCompletionsPath) == "" {
		c.LLM.ChatCompletionsPath = d.LLM.ChatCompletionsPath
	}
	if strings.TrimSpace(c.LLM.EmbeddingsPath) == "" {
		c.LLM.EmbeddingsPath = d.LLM.EmbeddingsPath
	}
	if c.LLM.Timeout.Duration <= 0 {
		c.LLM.Timeout = d.LLM.Timeout
	}
	if c.LLM.Retry.MaxAttempts < 1 {
		return errors.New("llm.retry.max_attempts must be at least 1")
	}
	if c.LLM.Retry.Delay.Duration < 0 {
		return errors.New("llm.retry.delay must not be negative")
	}

	c.Search.SerperBaseURL = strings.TrimRight(strings.TrimSpace(c.Search.SerperBaseURL), "/")
	c.Search.SerpAPIBaseURL = strings.TrimRight(strings.TrimSpace(c.Search.SerpAPIBaseURL), "/")
	if c.Search.Timeout.Duration <= 0 {
		c.Search.Timeout = d.Search.Timeout
	}
	if c.Search.ImageWorkers <= 0 {
		c.Search.ImageWorkers = d.Search.ImageWorkers
	}

	if err := c.Mindmap.Validate(); err != nil {
		return err
	}

	if strings.TrimSpace(c.Storage.Dir) == "" {
		c.Storage.Dir = d.Storage.Dir
	}
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	switch c.Storage.Driver {
	case "", "json":
		c.Storage.Driver = "json"
	case "sqlite":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			c.Storage.DSN = filepath.Join(c.Storage.Dir, "sutra.db")
		}
	case "postgres":
		if strings.TrimSpace(c.Storage.DSN) == "" {
			return errors.New("storage.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("invalid storage.driver=%q", c.Storage.Driver)
	}

	c.Memory.Backend = strings.ToLower(strings.TrimSpace(c.Memory.Backend))
	switch c.Memory.Backend {
	case "", "memory":
		c.Memory.Backend = "memory"
	case "redis":
		if strings.TrimSpace(c.Memory.RedisAddr) == "" {
			return errors.New("memory.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("invalid memory.backend=%q", c.Memory.Backend)
	}
	if c.Memory.Window.Duration <= 0 {
		c.Memory.Window = d.Memory.Window
	}
	if c.Memory.Limit <= 0 {
		c.Memory.Limit = d.Memory.Limit
	}

	if c.Telemetry.SampleRatio < 0 {
		c.Telemetry.SampleRatio = 0
	}
	if c.Telemetry.SampleRatio > 1 {
		c.Telemetry.SampleRatio = 1
	}
	return nil
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}

// Validate checks the chunking knobs. Overlap is capped at half a chunk so the
// splitter always advances by at least half a window.
func (m MindmapConfig) Validate() error {
	if m.ChunkSize <= 0 {
		return fmt.Errorf("mindmap.chunk_size must be positive, got %d", m.ChunkSize)
	}
	if m.Overlap < 0 || m.Overlap > m.ChunkSize/2 {
		return fmt.Errorf("mindmap.overlap must be in [0, chunk_size/2], got %d for chunk_size %d", m.Overlap, m.ChunkSize)
	}
	if m.Workers < 1 {
		return fmt.Errorf("mindmap.workers must be at least 1, got %d", m.Workers)
	}
	return nil
}
