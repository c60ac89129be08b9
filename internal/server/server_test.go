package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jackzampolin/assessor/internal/config"
	"github.com/jackzampolin/assessor/internal/providers"
	"github.com/jackzampolin/assessor/internal/svcctx"
)

func testServices(t *testing.T) *svcctx.Services {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.LLM.Provider = providers.MockClientName
	svcs, err := svcctx.Build(cfg, svcctx.Options{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return svcs
}

// freePort asks the kernel for an unused port.
func freePort(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	defer ln.Close()
	return strconv.Itoa(ln.Addr().(*net.TCPAddr).Port)
}

func TestNew_RequiresServices(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("New() without services should fail")
	}
}

func TestServer_Handler(t *testing.T) {
	srv, err := New(Config{Services: testServices(t)})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if srv.Addr() != "127.0.0.1:8000" {
		t.Errorf("Addr() = %s, want default 127.0.0.1:8000", srv.Addr())
	}

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "healthy") {
			t.Errorf("GET /health = %d %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("recommend fallback through services", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/recommend", strings.NewReader(`{"query":"sales manager"}`))
		srv.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("POST /recommend = %d %s", rec.Code, rec.Body.String())
		}
		var body struct {
			Recommendations []json.RawMessage `json:"recommendations"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatal(err)
		}
		if len(body.Recommendations) != 1 {
			t.Errorf("got %d recommendations, want single fallback", len(body.Recommendations))
		}
	})
}

func TestServer_RequireInit(t *testing.T) {
	svcs := testServices(t)
	svcs.Recommender = nil
	srv, err := New(Config{Services: svcs})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/recommend", strings.NewReader(`{"query":"x"}`)))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}

	// Health does not require init
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", rec.Code)
	}
}

// TestServer_Lifecycle starts a real listener, serves, and shuts down on cancel.
func TestServer_Lifecycle(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	port := freePort(t)
	srv, err := New(Config{Host: "127.0.0.1", Port: port, Services: testServices(t)})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	serverErr := make(chan error, 1)
	serverCtx, serverCancel := context.WithCancel(ctx)
	go func() {
		serverErr <- srv.Start(serverCtx)
	}()

	baseURL := fmt.Sprintf("http://127.0.0.1:%s", port)
	if err := waitForServer(ctx, baseURL, 10*time.Second); err != nil {
		serverCancel()
		t.Fatalf("server did not start: %v", err)
	}

	if !srv.IsRunning() {
		t.Error("IsRunning() = false while serving")
	}
	if err := srv.Start(ctx); err == nil {
		t.Error("second Start() should return error")
	}

	serverCancel()
	select {
	case err := <-serverErr:
		if err != nil {
			t.Errorf("Start() returned %v after cancel", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("server did not respond to context cancellation")
	}
	if srv.IsRunning() {
		t.Error("IsRunning() = true after shutdown")
	}
}

func TestServer_PortInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	port := strconv.Itoa(ln.Addr().(*net.TCPAddr).Port)

	srv, err := New(Config{Port: port, Services: testServices(t)})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := srv.Start(context.Background()); err == nil {
		t.Error("Start() on a busy port should fail")
	}
	if srv.IsRunning() {
		t.Error("IsRunning() = true after failed start")
	}
}

func TestServer_ConfigReload(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configFile, []byte("llm:\n  provider: mock\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	mgr, err := config.NewManager(configFile)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	svcs, err := svcctx.Build(mgr.Get(), svcctx.Options{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if _, err := New(Config{Services: svcs, ConfigManager: mgr}); err != nil {
		t.Fatalf("New() error = %v", err)
	}
	mgr.WatchConfig()
	time.Sleep(100 * time.Millisecond)

	updated := "llm:\n  provider: openrouter\n  api_key: or-test-key\n"
	if err := os.WriteFile(configFile, []byte(updated), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if svcs.Completion.Status().Provider == providers.OpenRouterName {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Errorf("provider = %s after reload, want openrouter", svcs.Completion.Status().Provider)
}

// waitForServer polls the server until it responds or timeout.
func waitForServer(ctx context.Context, baseURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		req, err := http.NewRequestWithContext(ctx, "GET", baseURL+"/health", nil)
		if err != nil {
			return err
		}

		resp, err := client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}

		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server not ready after %s", timeout)
}
