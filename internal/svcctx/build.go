package svcctx

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/jackzampolin/assessor/internal/catalog"
	"github.com/jackzampolin/assessor/internal/completion"
	"github.com/jackzampolin/assessor/internal/config"
	"github.com/jackzampolin/assessor/internal/metrics"
	"github.com/jackzampolin/assessor/internal/providers"
	"github.com/jackzampolin/assessor/internal/recommend"
)

// ActiveLLM is the registry name of the configured provider.
// The completion client always resolves this name, so switching
// llm.provider on reload swaps the client underneath it.
const ActiveLLM = "active"

// Options tunes Build.
type Options struct {
	Logger *slog.Logger
	// FallbackCatalogPath is used when catalog.path is empty and the file exists.
	FallbackCatalogPath string
	// LLM replaces the configured provider, for tests.
	LLM providers.LLMClient
}

// Build wires configuration into a ready Services value.
func Build(cfg *config.Config, opts Options) (*Services, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	store, err := openCatalog(cfg.Catalog.Path, opts.FallbackCatalogPath)
	if err != nil {
		return nil, err
	}

	registry := providers.NewRegistry()
	registry.SetLogger(logger)
	if opts.LLM != nil {
		registry.RegisterLLM(ActiveLLM, opts.LLM)
	} else if err := registry.Reload(activeProvider(cfg)); err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}

	client, err := completion.NewClient(completion.Config{
		Registry:         registry,
		Provider:         ActiveLLM,
		SystemPrompt:     recommend.SystemPrompt(),
		Temperature:      cfg.LLM.Temperature,
		JSONMode:         cfg.LLM.StructuredOutput,
		Timeout:          cfg.Timeout(),
		Attempts:         uint(cfg.LLM.MaxRetries),
		RetryDelay:       cfg.RetryDelay(),
		FailureThreshold: uint32(cfg.Breaker.FailureThreshold),
		OpenTimeout:      cfg.BreakerOpenTimeout(),
		RateLimit:        cfg.LLM.RateLimit,
		Logger:           logger,
	})
	if err != nil {
		return nil, err
	}

	recorder := metrics.NewRecorder()
	svc, err := recommend.NewService(recommend.Config{
		Catalog:       store,
		Completer:     client,
		DefaultMax:    cfg.Recommend.MaxRecommendations,
		FallbackScore: cfg.Recommend.FallbackScore,
		Logger:        logger,
		Observer:      recorder,
	})
	if err != nil {
		return nil, err
	}

	return &Services{
		Recommender: svc,
		Catalog:     store,
		Completion:  client,
		Registry:    registry,
		Metrics:     recorder,
		Logger:      logger,
	}, nil
}

// Reload applies provider settings from a changed config.
// Other settings need a restart.
func (s *Services) Reload(cfg *config.Config) error {
	return s.Registry.Reload(activeProvider(cfg))
}

func activeProvider(cfg *config.Config) map[string]providers.LLMProviderConfig {
	return map[string]providers.LLMProviderConfig{
		ActiveLLM: cfg.ToProviderConfigs()[cfg.LLM.Provider],
	}
}

func openCatalog(path, fallback string) (catalog.Store, error) {
	if path == "" && fallback != "" {
		if _, err := os.Stat(fallback); err == nil {
			path = fallback
		}
	}
	store, err := catalog.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	return store, nil
}
