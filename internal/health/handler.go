// AngelaMos | 2026
// handler.go

package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

const probeTimeout = 5 * time.Second

const (
	statusOK           = "ok"
	statusDegraded     = "degraded"
	statusNotReady     = "not_ready"
	statusShuttingDown = "shutting_down"
)

type Checker interface {
	Ping(ctx context.Context) error
}

// CheckFunc adapts a plain function to Checker.
type CheckFunc func(ctx context.Context) error

func (f CheckFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// Dependency is one named readiness probe.
type Dependency struct {
	Name    string
	Checker Checker
}

// Handler serves liveness and readiness. Liveness only fails while the
// process drains; readiness also probes every dependency.
type Handler struct {
	deps     []Dependency
	ready    atomic.Bool
	draining atomic.Bool
}

func NewHandler(deps ...Dependency) *Handler {
	h := &Handler{deps: deps}
	h.ready.Store(true)
	return h
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Liveness)
	r.Get("/livez", h.Liveness)
	r.Get("/readyz", h.Readiness)
}

func (h *Handler) SetReady(ready bool) {
	h.ready.Store(ready)
}

func (h *Handler) SetShutdown(shutdown bool) {
	h.draining.Store(shutdown)
}

func (h *Handler) Liveness(w http.ResponseWriter, _ *http.Request) {
	if h.draining.Load() {
		writeStatus(w, http.StatusServiceUnavailable, StatusResponse{Status: statusShuttingDown})
		return
	}
	writeStatus(w, http.StatusOK, StatusResponse{Status: statusOK})
}

func (h *Handler) Readiness(w http.ResponseWriter, r *http.Request) {
	switch {
	case h.draining.Load():
		writeStatus(w, http.StatusServiceUnavailable, StatusResponse{Status: statusShuttingDown})
		return
	case !h.ready.Load():
		writeStatus(w, http.StatusServiceUnavailable, StatusResponse{Status: statusNotReady})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	report := ReadinessResponse{Status: statusOK, Checks: h.probeAll(ctx)}
	code := http.StatusOK
	for _, check := range report.Checks {
		if !check.Healthy {
			report.Status = statusDegraded
			code = http.StatusServiceUnavailable
			break
		}
	}

	writeStatus(w, code, report)
}

// probeAll never short-circuits: a failing dependency is reported, not
// returned, so every probe runs to completion.
func (h *Handler) probeAll(ctx context.Context) []HealthCheck {
	checks := make([]HealthCheck, len(h.deps))

	var g errgroup.Group
	for i, dep := range h.deps {
		g.Go(func() error {
			checks[i] = probe(ctx, dep)
			return nil
		})
	}
	_ = g.Wait() //nolint:errcheck // probes never return errors

	return checks
}

func probe(ctx context.Context, dep Dependency) HealthCheck {
	if dep.Checker == nil {
		return HealthCheck{
			Name:    dep.Name,
			Message: dep.Name + " checker not configured",
		}
	}

	start := time.Now()
	err := dep.Checker.Ping(ctx)
	check := HealthCheck{
		Name:    dep.Name,
		Healthy: err == nil,
		Latency: time.Since(start).String(),
	}
	if err != nil {
		check.Message = "ping failed"
	}
	return check
}

func writeStatus(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body) //nolint:errcheck // best-effort response
}

type StatusResponse struct {
	Status string `json:"status"`
}

type ReadinessResponse struct {
	Status string        `json:"status"`
	Checks []HealthCheck `json:"checks"`
}

type HealthCheck struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Latency string `json:"latency,omitempty"`
	Message string `json:"message,omitempty"`
}
