package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/jackzampolin/assessor/internal/catalog"
	"github.com/jackzampolin/assessor/internal/completion"
)

const (
	DefaultMaxRecommendations = 10
	DefaultFallbackScore      = 0.5
)

// Observer receives every outcome, e.g. for metrics.
type Observer interface {
	Observe(outcome Outcome, elapsed time.Duration)
}

// Config configures a Service.
type Config struct {
	Catalog   catalog.Store
	Completer completion.Completer

	// DefaultMax is used when a caller passes max < 1.
	DefaultMax int
	// FallbackScore is the score given to the fallback item.
	FallbackScore float64

	Logger   *slog.Logger
	Observer Observer
}

// Service produces recommendations for free-text queries.
// It is safe for concurrent use.
type Service struct {
	catalog       catalog.Store
	completer     completion.Completer
	defaultMax    int
	fallbackScore float64
	logger        *slog.Logger
	observer      Observer
}

// NewService creates a recommendation service.
func NewService(cfg Config) (*Service, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("recommend: catalog is required")
	}
	if len(cfg.Catalog.Items()) == 0 {
		return nil, fmt.Errorf("recommend: %w", catalog.ErrEmptyCatalog)
	}
	if cfg.Completer == nil {
		return nil, fmt.Errorf("recommend: completer is required")
	}
	if cfg.DefaultMax < 1 {
		cfg.DefaultMax = DefaultMaxRecommendations
	}
	if cfg.FallbackScore <= 0 {
		cfg.FallbackScore = DefaultFallbackScore
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		catalog:       cfg.Catalog,
		completer:     cfg.Completer,
		defaultMax:    cfg.DefaultMax,
		fallbackScore: cfg.FallbackScore,
		logger:        logger,
		observer:      cfg.Observer,
	}, nil
}

// Recommend returns recommendations for query. It never fails: any problem
// with the model or its output yields the single fallback recommendation.
func (s *Service) Recommend(ctx context.Context, query string, max int) Result {
	return s.Evaluate(ctx, query, max).Result
}

// Evaluate is Recommend with the path taken and the reason for a fallback.
func (s *Service) Evaluate(ctx context.Context, query string, max int) Outcome {
	start := time.Now()
	if max < 1 {
		max = s.defaultMax
	}

	items := s.catalog.Items()
	outcome := s.evaluate(ctx, query, items, max)

	elapsed := time.Since(start)
	if outcome.Fallback() {
		s.logger.Warn("recommendation fell back",
			"reason", string(outcome.Reason),
			"error", outcome.Err,
			"elapsed", elapsed)
	} else {
		s.logger.Info("recommendation served",
			"count", len(outcome.Result.Recommendations),
			"max", max,
			"elapsed", elapsed)
	}
	if s.observer != nil {
		s.observer.Observe(outcome, elapsed)
	}
	return outcome
}

func (s *Service) evaluate(ctx context.Context, query string, items []catalog.Item, max int) Outcome {
	prompt := BuildPrompt(query, items, max)

	raw, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		return s.fallback(query, items, ReasonCompletionFailed, err)
	}

	recs, err := Extract(raw, max)
	if err != nil {
		return s.fallback(query, items, reasonFor(err), err)
	}

	// Stable keeps model order among equal scores.
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].RelevanceScore > recs[j].RelevanceScore
	})

	return Outcome{
		Result: Result{Recommendations: recs, Query: query},
		Path:   PathModel,
	}
}

func (s *Service) fallback(query string, items []catalog.Item, reason Reason, err error) Outcome {
	return Outcome{
		Result: Result{
			Recommendations: []Recommendation{{Item: items[0], RelevanceScore: s.fallbackScore}},
			Query:           query,
		},
		Path:   PathFallback,
		Reason: reason,
		Err:    err,
	}
}

func reasonFor(err error) Reason {
	var extErr *ExtractionError
	switch {
	case errors.As(err, &extErr) && extErr.Kind == KindMissingField:
		return ReasonMissingField
	case errors.As(err, &extErr):
		return ReasonMalformedPayload
	case errors.Is(err, ErrEmptyResult):
		return ReasonEmptyResult
	default:
		return ReasonMalformedPayload
	}
}

// Catalog returns the store the service recommends from.
func (s *Service) Catalog() catalog.Store {
	return s.catalog
}
