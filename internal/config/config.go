package config

import "time"

type Duration struct {
	Duration time.Duration
}

type HTTPConfig struct {
	Addr              string   `json:"addr" yaml:"addr"`
	ReadHeaderTimeout Duration `json:"read_header_timeout" yaml:"read_header_timeout"`
	IdleTimeout       Duration `json:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout   Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	MaxRequestBytes   int64    `json:"max_request_bytes" yaml:"max_request_bytes"`

	// AllowOrigins feeds the CORS middleware. Empty means every origin.
	AllowOrigins []string `json:"allow_origins,omitempty" yaml:"allow_origins,omitempty"`

	// AuthSecret enables HS256 bearer-token auth on the API routes.
	AuthSecret string `json:"auth_secret,omitempty" yaml:"auth_secret,omitempty"`
}

type RetryConfig struct {
	MaxAttempts int      `json:"max_attempts" yaml:"max_attempts"`
	Delay       Duration `json:"delay" yaml:"delay"`
}

type LLMConfig struct {
	BaseURL string `json:"base_url" yaml:"base_url"`
	Model   string `json:"model" yaml:"model"`

	// APIKey is the server-side default. Requests may carry their own key.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	ChatCompletionsPath string `json:"chat_completions_path,omitempty" yaml:"chat_completions_path,omitempty"`
	EmbeddingsPath      string `json:"embeddings_path,omitempty" yaml:"embeddings_path,omitempty"`
	EmbeddingModel      string `json:"embedding_model,omitempty" yaml:"embedding_model,omitempty"`

	Timeout     Duration    `json:"timeout" yaml:"timeout"`
	Retry       RetryConfig `json:"retry" yaml:"retry"`
	MaxTokens   int         `json:"max_tokens" yaml:"max_tokens"`
	Temperature float64     `json:"temperature" yaml:"temperature"`
}

type SearchConfig struct {
	SerperBaseURL  string   `json:"serper_base_url" yaml:"serper_base_url"`
	SerperAPIKey   string   `json:"serper_api_key,omitempty" yaml:"serper_api_key,omitempty"`
	SerpAPIBaseURL string   `json:"serpapi_base_url" yaml:"serpapi_base_url"`
	SerpAPIKey     string   `json:"serpapi_api_key,omitempty" yaml:"serpapi_api_key,omitempty"`
	Timeout        Duration `json:"timeout" yaml:"timeout"`

	// ImageWorkers bounds concurrent thumbnail lookups per result page.
	ImageWorkers int `json:"image_workers" yaml:"image_workers"`
}

type MindmapConfig struct {
	ChunkSize   int     `json:"chunk_size" yaml:"chunk_size"`
	Overlap     int     `json:"overlap" yaml:"overlap"`
	Workers     int     `json:"workers" yaml:"workers"`
	MaxTokens   int     `json:"max_tokens" yaml:"max_tokens"`
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// FontPath is a TTF used for PNG export. Empty falls back to a built-in ASCII face.
	FontPath string `json:"font_path,omitempty" yaml:"font_path,omitempty"`
}

type StorageConfig struct {
	// Driver is one of json, sqlite, postgres.
	Driver string `json:"driver" yaml:"driver"`
	Dir    string `json:"dir" yaml:"dir"`
	DSN    string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
}

type MemoryConfig struct {
	// Backend is one of memory, redis.
	Backend   string   `json:"backend" yaml:"backend"`
	RedisAddr string   `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty"`
	Window    Duration `json:"window" yaml:"window"`
	Limit     int      `json:"limit" yaml:"limit"`
}

type TelemetryConfig struct {
	TracingEnabled bool    `json:"tracing_enabled" yaml:"tracing_enabled"`
	OTLPEndpoint   string  `json:"otlp_endpoint,omitempty" yaml:"otlp_endpoint,omitempty"`
	OTLPInsecure   bool    `json:"otlp_insecure,omitempty" yaml:"otlp_insecure,omitempty"`
	SampleRatio    float64 `json:"sample_ratio" yaml:"sample_ratio"`
	MetricsEnabled bool    `json:"metrics_enabled" yaml:"metrics_enabled"`
}

type Config struct {
	Env       string          `json:"env" yaml:"env"`
	Service   string          `json:"service" yaml:"service"`
	HTTP      HTTPConfig      `json:"http" yaml:"http"`
	LLM       LLMConfig       `json:"llm" yaml:"llm"`
	Search    SearchConfig    `json:"search" yaml:"search"`
	Mindmap   MindmapConfig   `json:"mindmap" yaml:"mindmap"`
	Storage   StorageConfig   `json:"storage" yaml:"storage"`
	Memory    MemoryConfig    `json:"memory" yaml:"memory"`
	Telemetry TelemetryConfig `json:"telemetry" yaml:"telemetry"`
}
