package providers

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Registry holds named LLM clients.
// It supports config-driven instantiation, hot-reload, and thread-safe access.
type Registry struct {
	mu         sync.RWMutex
	llmClients map[string]LLMClient
	configs    map[string]LLMProviderConfig
	logger     *slog.Logger
}

// LLMProviderConfig describes one provider with its API key already resolved.
type LLMProviderConfig struct {
	Type    string // "gemini", "openai", "openrouter", "mock"
	Model   string
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// NewRegistry creates a new empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		llmClients: make(map[string]LLMClient),
		configs:    make(map[string]LLMProviderConfig),
		logger:     slog.Default(),
	}
}

// NewRegistryFromConfig creates a registry holding one client per config entry.
func NewRegistryFromConfig(cfgs map[string]LLMProviderConfig) (*Registry, error) {
	r := NewRegistry()
	if err := r.Reload(cfgs); err != nil {
		return nil, err
	}
	return r, nil
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// RegisterLLM registers an LLM client by name.
func (r *Registry) RegisterLLM(name string, client LLMClient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.llmClients[name] = client
	delete(r.configs, name)
	if r.logger != nil {
		r.logger.Info("registered LLM client", "name", name)
	}
}

// GetLLM returns an LLM client by name.
func (r *Registry) GetLLM(name string) (LLMClient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.llmClients[name]
	if !ok {
		return nil, fmt.Errorf("LLM client not found: %s", name)
	}
	return client, nil
}

// HasLLM checks if an LLM client is registered.
func (r *Registry) HasLLM(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.llmClients[name]
	return ok
}

// ListLLM returns all registered LLM client names, sorted.
func (r *Registry) ListLLM() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.llmClients))
	for name := range r.llmClients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reload reconciles the registry with cfgs.
// Unchanged providers keep their client, changed ones are rebuilt,
// and names no longer present are removed. On error nothing changes.
func (r *Registry) Reload(cfgs map[string]LLMProviderConfig) error {
	built := make(map[string]LLMClient, len(cfgs))

	r.mu.RLock()
	for name, cfg := range cfgs {
		if existing, ok := r.llmClients[name]; ok && r.configs[name] == cfg {
			built[name] = existing
			continue
		}
		client, err := NewLLMClient(cfg)
		if err != nil {
			r.mu.RUnlock()
			return fmt.Errorf("provider %s: %w", name, err)
		}
		built[name] = client
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	for name, client := range built {
		prev, had := r.llmClients[name]
		r.llmClients[name] = client
		r.configs[name] = cfgs[name]
		if r.logger == nil || prev == client {
			continue
		}
		if had {
			r.logger.Info("updated LLM client", "name", name, "type", cfgs[name].Type)
		} else {
			r.logger.Info("registered LLM client", "name", name, "type", cfgs[name].Type)
		}
	}
	for name := range r.llmClients {
		if _, ok := built[name]; !ok {
			delete(r.llmClients, name)
			delete(r.configs, name)
			if r.logger != nil {
				r.logger.Info("unregistered LLM client", "name", name)
			}
		}
	}
	return nil
}

// NewLLMClient creates an LLM client based on provider type.
func NewLLMClient(cfg LLMProviderConfig) (LLMClient, error) {
	switch cfg.Type {
	case GeminiName, OpenAIName:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%s: api key is required", cfg.Type)
		}
		return NewOpenAIChatClient(OpenAIChatConfig{
			Name:         cfg.Type,
			APIKey:       cfg.APIKey,
			BaseURL:      cfg.BaseURL,
			DefaultModel: cfg.Model,
			Timeout:      cfg.Timeout,
		}), nil
	case OpenRouterName:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%s: api key is required", cfg.Type)
		}
		return NewOpenRouterClient(OpenRouterConfig{
			APIKey:       cfg.APIKey,
			BaseURL:      cfg.BaseURL,
			DefaultModel: cfg.Model,
			Timeout:      cfg.Timeout,
		}), nil
	case MockClientName:
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown provider type %q", cfg.Type)
	}
}
