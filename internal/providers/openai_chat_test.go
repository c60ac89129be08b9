package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAIChatClient_Chat(t *testing.T) {
	t.Run("gemini defaults", func(t *testing.T) {
		c := NewOpenAIChatClient(OpenAIChatConfig{Name: GeminiName, APIKey: "k"})
		if c.Name() != GeminiName {
			t.Errorf("Name() = %q, want %q", c.Name(), GeminiName)
		}
		if c.Model() != "gemini-2.0-flash" {
			t.Errorf("Model() = %q", c.Model())
		}
		if c.baseURL != GeminiBaseURL {
			t.Errorf("baseURL = %q", c.baseURL)
		}
	})

	t.Run("successful chat", func(t *testing.T) {
		var got map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/chat/completions" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
				t.Errorf("unexpected authorization: %s", auth)
			}
			json.NewDecoder(r.Body).Decode(&got)

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(chatCompletionBody(`{"recommendations": []}`))
		}))
		defer server.Close()

		c := NewOpenAIChatClient(OpenAIChatConfig{
			Name:    GeminiName,
			APIKey:  "test-key",
			BaseURL: server.URL + "/",
		})

		result, err := c.Chat(context.Background(), &ChatRequest{
			Messages: Conversation("be terse", "recommend"),
			JSONMode: true,
		})
		if err != nil {
			t.Fatalf("Chat() error = %v", err)
		}
		if result.Content != `{"recommendations": []}` {
			t.Errorf("Content = %q", result.Content)
		}
		if result.Provider != GeminiName {
			t.Errorf("Provider = %q", result.Provider)
		}
		if result.TotalTokens != 18 {
			t.Errorf("TotalTokens = %d, want 18", result.TotalTokens)
		}

		if got["model"] != "gemini-2.0-flash" {
			t.Errorf("request model = %v", got["model"])
		}
		msgs, _ := got["messages"].([]any)
		if len(msgs) != 2 {
			t.Errorf("request had %d messages, want 2", len(msgs))
		}
		rf, _ := got["response_format"].(map[string]any)
		if rf["type"] != "json_object" {
			t.Errorf("response_format = %v", got["response_format"])
		}
	})

	t.Run("temperature", func(t *testing.T) {
		zero := 0.0
		tests := []struct {
			name        string
			temperature *float64
			wantSent    bool
		}{
			{"explicit zero is sent", &zero, true},
			{"nil leaves provider default", nil, false},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				var got map[string]any
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					json.NewDecoder(r.Body).Decode(&got)
					w.Header().Set("Content-Type", "application/json")
					json.NewEncoder(w).Encode(chatCompletionBody(`{}`))
				}))
				defer server.Close()

				c := NewOpenAIChatClient(OpenAIChatConfig{APIKey: "test-key", BaseURL: server.URL + "/"})
				if _, err := c.Chat(context.Background(), &ChatRequest{
					Messages:    Conversation("", "x"),
					Temperature: tt.temperature,
				}); err != nil {
					t.Fatalf("Chat() error = %v", err)
				}

				v, sent := got["temperature"]
				if sent != tt.wantSent {
					t.Fatalf("temperature sent = %v, want %v (request %v)", sent, tt.wantSent, got)
				}
				if sent && v != 0.0 {
					t.Errorf("temperature = %v, want 0", v)
				}
			})
		}
	})

	t.Run("server error maps to APIError", func(t *testing.T) {
		var calls int
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error": {"message": "unavailable"}}`))
		}))
		defer server.Close()

		c := NewOpenAIChatClient(OpenAIChatConfig{APIKey: "test-key", BaseURL: server.URL + "/"})

		_, err := c.Chat(context.Background(), &ChatRequest{Messages: Conversation("", "x")})
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected *APIError, got %v", err)
		}
		if apiErr.StatusCode != http.StatusServiceUnavailable {
			t.Errorf("StatusCode = %d", apiErr.StatusCode)
		}
		if calls != 1 {
			t.Errorf("server called %d times, want 1 (no SDK retries)", calls)
		}
	})

	t.Run("no choices", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":"x","object":"chat.completion","model":"m","choices":[]}`))
		}))
		defer server.Close()

		c := NewOpenAIChatClient(OpenAIChatConfig{APIKey: "test-key", BaseURL: server.URL + "/"})

		_, err := c.Chat(context.Background(), &ChatRequest{Messages: Conversation("", "x")})
		if !errors.Is(err, ErrEmptyResponse) {
			t.Errorf("error = %v, want ErrEmptyResponse", err)
		}
	})
}
