package config

// Config holds assessor configuration.
// Loaded from: --config, ./config.yaml or ~/.assessor/config.yaml
type Config struct {
	LLM       LLMConfig       `mapstructure:"llm" yaml:"llm"`
	Recommend RecommendConfig `mapstructure:"recommend" yaml:"recommend"`
	Breaker   BreakerConfig   `mapstructure:"breaker" yaml:"breaker"`
	Catalog   CatalogConfig   `mapstructure:"catalog" yaml:"catalog"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
}

// LLMConfig selects and tunes the completion provider.
type LLMConfig struct {
	Provider         string  `mapstructure:"provider" yaml:"provider" validate:"required,oneof=gemini openai openrouter mock"`
	Model            string  `mapstructure:"model" yaml:"model"`
	APIKey           string  `mapstructure:"api_key" yaml:"api_key"`           // Supports ${ENV_VAR} syntax
	BaseURL          string  `mapstructure:"base_url" yaml:"base_url" validate:"omitempty,url"`
	TimeoutSeconds   int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds" validate:"gte=1,lte=600"`
	MaxRetries       int     `mapstructure:"max_retries" yaml:"max_retries" validate:"gte=1,lte=10"` // Total attempts
	RetryDelayMS     int     `mapstructure:"retry_delay_ms" yaml:"retry_delay_ms" validate:"gte=0"`
	RateLimit        int     `mapstructure:"rate_limit" yaml:"rate_limit" validate:"gte=0"` // Requests per minute, 0 = off
	StructuredOutput bool    `mapstructure:"structured_output" yaml:"structured_output"`
	Temperature      float64 `mapstructure:"temperature" yaml:"temperature" validate:"gte=0,lte=2"`
}

// RecommendConfig tunes the recommendation pipeline.
type RecommendConfig struct {
	MaxRecommendations int     `mapstructure:"max_recommendations" yaml:"max_recommendations" validate:"gte=1,lte=100"`
	FallbackScore      float64 `mapstructure:"fallback_score" yaml:"fallback_score" validate:"gt=0,lte=1"`
}

// BreakerConfig tunes the circuit breaker around the provider.
type BreakerConfig struct {
	FailureThreshold int `mapstructure:"failure_threshold" yaml:"failure_threshold" validate:"gte=1"`
	OpenSeconds      int `mapstructure:"open_seconds" yaml:"open_seconds" validate:"gte=1"`
}

// CatalogConfig points at an optional catalog file.
type CatalogConfig struct {
	// Path to a YAML or JSON catalog. Empty uses the built-in catalog.
	Path string `mapstructure:"path" yaml:"path"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port" validate:"gte=1,lte=65535"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
}
