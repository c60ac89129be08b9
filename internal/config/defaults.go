package config

import (
	"errors"
	"sort"
)

// ErrNoDefault is returned when no default value exists for a config key.
var ErrNoDefault = errors.New("no default exists")

// Entry describes one configuration key and its default.
type Entry struct {
	Key         string `json:"key" yaml:"key"`
	Value       any    `json:"value" yaml:"value"`
	Description string `json:"description" yaml:"description"`
}

// DefaultEntries returns every configuration key with its default value.
// The Manager registers these as viper defaults, so each key can also be
// set through an ASSESSOR_ environment variable (dots become underscores).
func DefaultEntries() []Entry {
	return []Entry{
		// LLM provider
		{
			Key:         "llm.provider",
			Value:       "gemini",
			Description: "Completion provider: gemini, openai, openrouter or mock",
		},
		{
			Key:         "llm.model",
			Value:       "",
			Description: "Model name (empty uses the provider default, gemini-2.0-flash for gemini)",
		},
		{
			Key:         "llm.api_key",
			Value:       "${GEMINI_API_KEY}",
			Description: "Provider API key (uses environment variable)",
		},
		{
			Key:         "llm.base_url",
			Value:       "",
			Description: "Override the provider endpoint (empty uses the provider default)",
		},
		{
			Key:         "llm.timeout_seconds",
			Value:       60,
			Description: "Upper bound on one completion call, retries included",
		},
		{
			Key:         "llm.max_retries",
			Value:       3,
			Description: "Total attempts per completion on transient errors",
		},
		{
			Key:         "llm.retry_delay_ms",
			Value:       500,
			Description: "Base delay for exponential backoff between attempts",
		},
		{
			Key:         "llm.rate_limit",
			Value:       0,
			Description: "Client-side rate limit in requests per minute (0 disables)",
		},
		{
			Key:         "llm.structured_output",
			Value:       true,
			Description: "Ask the provider for a JSON object response",
		},
		{
			Key:         "llm.temperature",
			Value:       0.2,
			Description: "Sampling temperature, sent as given (0 included)",
		},

		// Recommendation pipeline
		{
			Key:         "recommend.max_recommendations",
			Value:       10,
			Description: "Default upper bound on returned recommendations",
		},
		{
			Key:         "recommend.fallback_score",
			Value:       0.5,
			Description: "Relevance score of the fallback recommendation",
		},

		// Circuit breaker
		{
			Key:         "breaker.failure_threshold",
			Value:       5,
			Description: "Consecutive failed completions before the breaker opens",
		},
		{
			Key:         "breaker.open_seconds",
			Value:       30,
			Description: "Seconds the breaker stays open before probing again",
		},

		// Catalog
		{
			Key:         "catalog.path",
			Value:       "",
			Description: "YAML or JSON catalog file (empty uses the built-in catalog)",
		},

		// Server
		{
			Key:         "server.host",
			Value:       "127.0.0.1",
			Description: "Host the HTTP server binds to",
		},
		{
			Key:         "server.port",
			Value:       8000,
			Description: "Port the HTTP server listens on",
		},

		// Logging
		{
			Key:         "log.level",
			Value:       "info",
			Description: "Log level: debug, info, warn or error",
		},
	}
}

// GetDefault returns the default entry for key, or nil.
func GetDefault(key string) *Entry {
	for _, entry := range DefaultEntries() {
		if entry.Key == key {
			return &entry
		}
	}
	return nil
}

// DefaultKeys returns all known keys, sorted.
func DefaultKeys() []string {
	entries := DefaultEntries()
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, e.Key)
	}
	sort.Strings(keys)
	return keys
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:         "gemini",
			APIKey:           "${GEMINI_API_KEY}",
			TimeoutSeconds:   60,
			MaxRetries:       3,
			RetryDelayMS:     500,
			StructuredOutput: true,
			Temperature:      0.2,
		},
		Recommend: RecommendConfig{
			MaxRecommendations: 10,
			FallbackScore:      0.5,
		},
		Breaker: BreakerConfig{
			FailureThreshold: 5,
			OpenSeconds:      30,
		},
		Server: ServerConfig{
			Host: "127.0.0.1",
			Port: 8000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
