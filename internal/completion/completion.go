// Package completion turns a prompt into raw model text.
//
// Client wraps a providers.LLMClient with a bounded wait, retries on
// transient failures, a circuit breaker and an optional rate limiter.
// Every failure surfaces as an error matching ErrCompletionFailed.
package completion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/sony/gobreaker/v2"

	"github.com/jackzampolin/assessor/internal/providers"
)

// ErrCompletionFailed marks any failure to obtain usable model text.
var ErrCompletionFailed = errors.New("completion failed")

// Completer obtains raw text from a language model for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config configures a Client.
type Config struct {
	// Registry and Provider select the LLM client on every call, so a
	// registry reload takes effect without rebuilding the Client.
	Registry *providers.Registry
	Provider string

	// LLM is used directly when Registry is nil.
	LLM providers.LLMClient

	Model        string
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
	JSONMode     bool

	Timeout    time.Duration // Whole call, retries included
	Attempts   uint          // Total attempts per call
	RetryDelay time.Duration // Base delay for exponential backoff
	MaxDelay   time.Duration

	FailureThreshold uint32        // Consecutive failed calls before the breaker opens
	OpenTimeout      time.Duration // How long the breaker stays open

	RateLimit int // Requests per minute, 0 = unlimited

	Logger *slog.Logger
}

// Client implements Completer.
type Client struct {
	cfg     Config
	breaker *gobreaker.CircuitBreaker[string]
	limiter *providers.RateLimiter
	logger  *slog.Logger
}

// NewClient creates a completion client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Registry == nil && cfg.LLM == nil {
		return nil, fmt.Errorf("completion: either Registry or LLM is required")
	}
	if cfg.Registry != nil && cfg.Provider == "" {
		return nil, fmt.Errorf("completion: Provider is required with Registry")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Attempts == 0 {
		cfg.Attempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}
	if cfg.MaxDelay <= 0 {
		cfg.MaxDelay = 10 * time.Second
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		cfg:     cfg,
		limiter: providers.NewRateLimiter(cfg.RateLimit),
		logger:  logger,
	}

	threshold := cfg.FailureThreshold
	c.breaker = gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "completion",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		// Caller cancellation says nothing about provider health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return c, nil
}

// Complete sends prompt to the configured provider and returns its text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	llm, err := c.client()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrCompletionFailed, err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	start := time.Now()
	content, err := c.breaker.Execute(func() (string, error) {
		return c.completeWithRetry(ctx, llm, prompt)
	})
	if err != nil {
		c.logger.Debug("completion failed",
			"provider", llm.Name(),
			"elapsed", time.Since(start),
			"error", err)
		return "", fmt.Errorf("%w: %w", ErrCompletionFailed, err)
	}
	return content, nil
}

func (c *Client) completeWithRetry(ctx context.Context, llm providers.LLMClient, prompt string) (string, error) {
	return retry.DoWithData(
		func() (string, error) {
			if err := c.limiter.Wait(ctx); err != nil {
				return "", retry.Unrecoverable(err)
			}

			temperature := c.cfg.Temperature
			result, err := llm.Chat(ctx, &providers.ChatRequest{
				Messages:    providers.Conversation(c.cfg.SystemPrompt, prompt),
				Model:       c.cfg.Model,
				Temperature: &temperature,
				MaxTokens:   c.cfg.MaxTokens,
				JSONMode:    c.cfg.JSONMode,
			})
			if err != nil {
				if providers.IsRateLimited(err) {
					c.limiter.Record429()
				}
				return "", err
			}
			if result == nil || strings.TrimSpace(result.Content) == "" {
				return "", providers.ErrEmptyResponse
			}
			return result.Content, nil
		},
		retry.Context(ctx),
		retry.Attempts(c.cfg.Attempts),
		retry.Delay(c.cfg.RetryDelay),
		retry.MaxDelay(c.cfg.MaxDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(providers.IsRetryable),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("retrying completion",
				"provider", llm.Name(),
				"attempt", n+1,
				"error", err)
		}),
	)
}

func (c *Client) client() (providers.LLMClient, error) {
	if c.cfg.Registry == nil {
		return c.cfg.LLM, nil
	}
	return c.cfg.Registry.GetLLM(c.cfg.Provider)
}

// Status describes the client for diagnostics.
type Status struct {
	Provider     string                      `json:"provider"`
	Model        string                      `json:"model,omitempty"`
	BreakerState string                      `json:"breaker_state"`
	Failures     uint32                      `json:"consecutive_failures"`
	RateLimit    *providers.RateLimiterStatus `json:"rate_limit,omitempty"`
}

// Status reports the active provider, breaker state and limiter state.
func (c *Client) Status() Status {
	s := Status{
		Provider:     c.cfg.Provider,
		Model:        c.cfg.Model,
		BreakerState: c.breaker.State().String(),
		Failures:     c.breaker.Counts().ConsecutiveFailures,
	}
	if llm, err := c.client(); err == nil {
		s.Provider = llm.Name()
		if m, ok := llm.(interface{ Model() string }); ok && s.Model == "" {
			s.Model = m.Model()
		}
	}
	if c.limiter != nil {
		rl := c.limiter.Status()
		s.RateLimit = &rl
	}
	return s
}

// Verify interface
var _ Completer = (*Client)(nil)
