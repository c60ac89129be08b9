package completion

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackzampolin/assessor/internal/providers"
)

// scriptedLLM returns errs in order, then content.
type scriptedLLM struct {
	errs    []error
	content string
	calls   atomic.Int32
}

func (s *scriptedLLM) Name() string { return "scripted" }

func (s *scriptedLLM) Chat(ctx context.Context, req *providers.ChatRequest) (*providers.ChatResult, error) {
	n := int(s.calls.Add(1)) - 1
	if n < len(s.errs) {
		return &providers.ChatResult{}, s.errs[n]
	}
	return &providers.ChatResult{Success: true, Content: s.content}, nil
}

func fastConfig(llm providers.LLMClient) Config {
	return Config{
		LLM:        llm,
		Timeout:    time.Second,
		Attempts:   3,
		RetryDelay: time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
	}
}

func TestClient_Complete(t *testing.T) {
	t.Run("success passes prompt and system prompt", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.Latency = 0
		mock.ResponseText = "answer"

		cfg := fastConfig(mock)
		cfg.SystemPrompt = "you are a recommender"
		cfg.JSONMode = true
		c, err := NewClient(cfg)
		if err != nil {
			t.Fatalf("NewClient() error = %v", err)
		}

		got, err := c.Complete(context.Background(), "the prompt")
		if err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
		if got != "answer" {
			t.Errorf("Complete() = %q, want %q", got, "answer")
		}

		req := mock.LastRequest()
		if len(req.Messages) != 2 || req.Messages[0].Content != "you are a recommender" || req.Messages[1].Content != "the prompt" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}
		if !req.JSONMode {
			t.Error("JSONMode not forwarded")
		}
	})

	t.Run("retries transient errors", func(t *testing.T) {
		llm := &scriptedLLM{
			errs: []error{
				&providers.APIError{StatusCode: http.StatusServiceUnavailable},
				&providers.APIError{StatusCode: http.StatusTooManyRequests},
			},
			content: "ok",
		}
		c, _ := NewClient(fastConfig(llm))

		got, err := c.Complete(context.Background(), "p")
		if err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
		if got != "ok" {
			t.Errorf("Complete() = %q", got)
		}
		if llm.calls.Load() != 3 {
			t.Errorf("calls = %d, want 3", llm.calls.Load())
		}
	})

	t.Run("does not retry permanent errors", func(t *testing.T) {
		llm := &scriptedLLM{
			errs:    []error{&providers.APIError{StatusCode: http.StatusUnauthorized}},
			content: "never",
		}
		c, _ := NewClient(fastConfig(llm))

		_, err := c.Complete(context.Background(), "p")
		if !errors.Is(err, ErrCompletionFailed) {
			t.Fatalf("error = %v, want ErrCompletionFailed", err)
		}
		var apiErr *providers.APIError
		if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected wrapped 401 APIError, got %v", err)
		}
		if llm.calls.Load() != 1 {
			t.Errorf("calls = %d, want 1", llm.calls.Load())
		}
	})

	t.Run("gives up after attempts", func(t *testing.T) {
		e := &providers.APIError{StatusCode: http.StatusBadGateway}
		llm := &scriptedLLM{errs: []error{e, e, e, e}, content: "late"}
		c, _ := NewClient(fastConfig(llm))

		if _, err := c.Complete(context.Background(), "p"); !errors.Is(err, ErrCompletionFailed) {
			t.Errorf("error = %v, want ErrCompletionFailed", err)
		}
		if llm.calls.Load() != 3 {
			t.Errorf("calls = %d, want 3", llm.calls.Load())
		}
	})

	t.Run("empty content is a failure", func(t *testing.T) {
		llm := &scriptedLLM{content: "   "}
		c, _ := NewClient(fastConfig(llm))

		_, err := c.Complete(context.Background(), "p")
		if !errors.Is(err, ErrCompletionFailed) {
			t.Errorf("error = %v, want ErrCompletionFailed", err)
		}
	})

	t.Run("timeout is a failure", func(t *testing.T) {
		mock := providers.NewMockClient()
		mock.Latency = time.Second

		cfg := fastConfig(mock)
		cfg.Timeout = 20 * time.Millisecond
		c, _ := NewClient(cfg)

		start := time.Now()
		_, err := c.Complete(context.Background(), "p")
		if !errors.Is(err, ErrCompletionFailed) {
			t.Errorf("error = %v, want ErrCompletionFailed", err)
		}
		if time.Since(start) > 500*time.Millisecond {
			t.Errorf("Complete() took %v, timeout not honored", time.Since(start))
		}
	})
}

func TestClient_Breaker(t *testing.T) {
	mock := providers.NewMockClient()
	mock.ShouldFail = true
	mock.Err = &providers.APIError{StatusCode: http.StatusUnauthorized}

	cfg := fastConfig(mock)
	cfg.FailureThreshold = 2
	cfg.OpenTimeout = time.Minute
	c, _ := NewClient(cfg)

	for i := 0; i < 2; i++ {
		c.Complete(context.Background(), "p")
	}
	if got := c.Status().BreakerState; got != "open" {
		t.Fatalf("BreakerState = %q, want open", got)
	}

	before := mock.RequestCount()
	_, err := c.Complete(context.Background(), "p")
	if !errors.Is(err, ErrCompletionFailed) {
		t.Errorf("error = %v, want ErrCompletionFailed", err)
	}
	if mock.RequestCount() != before {
		t.Error("open breaker should not reach the provider")
	}
}

func TestClient_Registry(t *testing.T) {
	reg := providers.NewRegistry()
	first := providers.NewMockClient()
	first.Latency = 0
	first.ResponseText = "first"
	reg.RegisterLLM("active", first)

	c, err := NewClient(Config{Registry: reg, Provider: "active", Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	if got, _ := c.Complete(context.Background(), "p"); got != "first" {
		t.Errorf("Complete() = %q, want first", got)
	}

	second := providers.NewMockClient()
	second.Latency = 0
	second.ResponseText = "second"
	reg.RegisterLLM("active", second)

	if got, _ := c.Complete(context.Background(), "p"); got != "second" {
		t.Errorf("Complete() after swap = %q, want second", got)
	}

	if s := c.Status(); s.Provider != providers.MockClientName || s.BreakerState != "closed" {
		t.Errorf("unexpected status: %+v", s)
	}
}

func TestClient_MissingProvider(t *testing.T) {
	c, _ := NewClient(Config{Registry: providers.NewRegistry(), Provider: "gone"})
	if _, err := c.Complete(context.Background(), "p"); !errors.Is(err, ErrCompletionFailed) {
		t.Errorf("error = %v, want ErrCompletionFailed", err)
	}
}

func TestNewClient_Validation(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Error("expected error without Registry or LLM")
	}
	if _, err := NewClient(Config{Registry: providers.NewRegistry()}); err == nil {
		t.Error("expected error without Provider")
	}
}
