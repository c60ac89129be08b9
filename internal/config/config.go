package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/jackzampolin/assessor/internal/providers"
)

// EnvPrefix is the prefix for environment overrides, e.g. ASSESSOR_LLM_PROVIDER.
const EnvPrefix = "ASSESSOR"

// Manager handles loading and hot-reloading configuration.
type Manager struct {
	mu        sync.RWMutex
	v         *viper.Viper
	config    *Config
	callbacks []func(*Config)
	logger    *slog.Logger
}

// NewManager creates a new config manager and loads initial config.
// With an empty cfgFile, config.yaml is searched in the working directory
// and then in each of searchPaths. A missing file is not an error.
func NewManager(cfgFile string, searchPaths ...string) (*Manager, error) {
	cm := &Manager{
		v:         viper.New(),
		callbacks: make([]func(*Config), 0),
		logger:    slog.Default(),
	}

	if err := cm.initViper(cfgFile, searchPaths); err != nil {
		return nil, err
	}

	cfg, err := cm.load()
	if err != nil {
		return nil, err
	}
	cm.config = cfg

	return cm, nil
}

// initViper sets up viper with defaults and config file.
func (cm *Manager) initViper(cfgFile string, searchPaths []string) error {
	for _, e := range DefaultEntries() {
		cm.v.SetDefault(e.Key, e.Value)
	}

	cm.v.SetEnvPrefix(EnvPrefix)
	cm.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cm.v.AutomaticEnv()

	if cfgFile != "" {
		cm.v.SetConfigFile(cfgFile)
	} else {
		cm.v.SetConfigName("config")
		cm.v.SetConfigType("yaml")
		cm.v.AddConfigPath(".")
		for _, p := range searchPaths {
			cm.v.AddConfigPath(p)
		}
	}

	if err := cm.v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// load parses the current viper state into a Config struct.
func (cm *Manager) load() (*Config, error) {
	var cfg Config
	if err := cm.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// SetLogger sets the logger used for reload messages.
func (cm *Manager) SetLogger(logger *slog.Logger) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.logger = logger
}

// Get returns the current configuration (thread-safe).
func (cm *Manager) Get() *Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// ConfigFile returns the path of the loaded config file, or "".
func (cm *Manager) ConfigFile() string {
	return cm.v.ConfigFileUsed()
}

// OnChange registers a callback for config changes.
func (cm *Manager) OnChange(fn func(*Config)) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.callbacks = append(cm.callbacks, fn)
}

// WatchConfig enables hot-reloading of configuration.
// A changed file that fails to parse or validate is ignored and the
// previous configuration stays active.
func (cm *Manager) WatchConfig() {
	cm.v.OnConfigChange(func(e fsnotify.Event) {
		cfg, err := cm.load()
		if err == nil {
			err = cfg.Validate()
		}

		cm.mu.Lock()
		logger := cm.logger
		if err != nil {
			cm.mu.Unlock()
			logger.Warn("ignoring config change", "file", e.Name, "error", err)
			return
		}
		cm.config = cfg
		callbacks := make([]func(*Config), len(cm.callbacks))
		copy(callbacks, cm.callbacks)
		cm.mu.Unlock()

		logger.Info("config reloaded", "file", e.Name)
		for _, fn := range callbacks {
			fn(cfg)
		}
	})
	cm.v.WatchConfig()
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ResolveEnvVars expands ${ENV_VAR} references in a string.
func ResolveEnvVars(value string) string {
	if value == "" {
		return value
	}
	return envVarPattern.ReplaceAllStringFunc(value, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}

// LoadDotEnv loads each existing dotenv file into the process environment.
// Variables already set are not overridden. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// DefaultAPIKeyEnv returns the environment variable conventionally holding
// the API key for provider.
func DefaultAPIKeyEnv(provider string) string {
	switch provider {
	case providers.GeminiName:
		return "GEMINI_API_KEY"
	case providers.OpenAIName:
		return "OPENAI_API_KEY"
	case providers.OpenRouterName:
		return "OPENROUTER_API_KEY"
	default:
		return ""
	}
}

// ResolvedAPIKey returns llm.api_key with ${ENV_VAR} references expanded,
// falling back to the provider's conventional environment variable.
func (c *Config) ResolvedAPIKey() string {
	if key := strings.TrimSpace(ResolveEnvVars(c.LLM.APIKey)); key != "" {
		return key
	}
	if env := DefaultAPIKeyEnv(c.LLM.Provider); env != "" {
		return strings.TrimSpace(os.Getenv(env))
	}
	return ""
}

// Timeout returns llm.timeout_seconds as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}

// RetryDelay returns llm.retry_delay_ms as a duration.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.LLM.RetryDelayMS) * time.Millisecond
}

// BreakerOpenTimeout returns breaker.open_seconds as a duration.
func (c *Config) BreakerOpenTimeout() time.Duration {
	return time.Duration(c.Breaker.OpenSeconds) * time.Second
}

// ToProviderConfigs converts the config to a format suitable for providers.Registry.
// The active provider is registered under its own name.
func (c *Config) ToProviderConfigs() map[string]providers.LLMProviderConfig {
	return map[string]providers.LLMProviderConfig{
		c.LLM.Provider: {
			Type:    c.LLM.Provider,
			Model:   c.LLM.Model,
			APIKey:  c.ResolvedAPIKey(),
			BaseURL: c.LLM.BaseURL,
			Timeout: c.Timeout(),
		},
	}
}

// WriteDefault writes the default configuration to the specified path.
func WriteDefault(path string) error {
	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Assessor configuration
# API keys use ${ENV_VAR} syntax to reference environment variables
# Set the key in your shell or a .env file: export GEMINI_API_KEY=xxx
# Any key can be overridden with ASSESSOR_<SECTION>_<KEY>, e.g. ASSESSOR_LLM_PROVIDER=mock

`)
	return os.WriteFile(path, append(header, data...), 0o644)
}
