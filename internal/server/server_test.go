// AngelaMos | 2026
// server_test.go

package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/carterperez-dev/crm-backend/internal/config"
	"github.com/carterperez-dev/crm-backend/internal/health"
)

func testConfig() config.ServerConfig {
	return config.ServerConfig{
		Host:            "127.0.0.1",
		Port:            0,
		ReadTimeout:     time.Second,
		WriteTimeout:    time.Second,
		IdleTimeout:     time.Second,
		ShutdownTimeout: time.Second,
	}
}

func TestRouterServesThroughInstrumentation(t *testing.T) {
	srv := New(Config{ServerConfig: testConfig()})
	srv.Router().Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	srv.http.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestShutdownFlipsHealth(t *testing.T) {
	h := health.NewHandler()
	srv := New(Config{ServerConfig: testConfig(), HealthHandler: h})
	h.RegisterRoutes(srv.Router())

	if err := srv.Shutdown(context.Background(), 10*time.Millisecond); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("readiness after shutdown = %d", rec.Code)
	}

	if err := srv.Start(); err != nil {
		t.Fatalf("start after shutdown should return nil, got %v", err)
	}
}

func TestShutdownHonorsCanceledContext(t *testing.T) {
	srv := New(Config{ServerConfig: testConfig()})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_ = srv.Shutdown(ctx, time.Minute)
	if time.Since(start) > 5*time.Second {
		t.Fatal("drain delay ignored a canceled context")
	}
}
