package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

const (
	statusOK           = "ok"
	statusNotReady     = "not ready"
	statusShuttingDown = "shutting down"
)

// HealthChecker answers liveness and readiness probes for the operational
// HTTP port. Liveness only proves the process is serving; readiness also
// requires that the server has been marked ready and that the owning
// ServerContext is not shutting down.
type HealthChecker struct {
	ready         atomic.Bool
	serverContext *ServerContext
	startTime     time.Time
}

// NewHealthChecker creates a HealthChecker bound to sc. A nil sc skips the
// shutdown check. The checker starts ready; Shutdown paths flip it off.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{
		serverContext: sc,
		startTime:     time.Now(),
	}
	h.ready.Store(true)
	return h
}

// SetReady marks the server ready or not ready for traffic.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports whether the server is marked ready.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

// healthResponse is the JSON body for both probe endpoints. Checks and
// Uptime are only present on the readiness endpoint.
type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
	Uptime string            `json:"uptime,omitempty"`
}

// RegisterHealthEndpoints mounts the probe handlers on mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
}

// LivenessHandler serves /healthz. Reaching the handler at all is the
// liveness signal, so it always answers 200.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeHealth(w, http.StatusOK, healthResponse{Status: statusOK})
	})
}

// ReadinessHandler serves /readyz. It answers 503 with the failing checks
// itemized once the server is marked not ready or is shutting down.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		checks, ok := h.readinessChecks()

		response := healthResponse{
			Status: statusOK,
			Checks: checks,
			Uptime: time.Since(h.startTime).Truncate(time.Second).String(),
		}
		code := http.StatusOK
		if !ok {
			response.Status = statusNotReady
			code = http.StatusServiceUnavailable
		}
		writeHealth(w, code, response)
	})
}

func (h *HealthChecker) readinessChecks() (map[string]string, bool) {
	checks := map[string]string{
		"ready":    statusOK,
		"shutdown": statusOK,
	}
	ok := true

	if !h.ready.Load() {
		checks["ready"] = statusNotReady
		ok = false
	}
	if h.serverContext != nil && h.serverContext.IsShutdown() {
		checks["shutdown"] = statusShuttingDown
		ok = false
	}
	return checks, ok
}

func writeHealth(w http.ResponseWriter, code int, response healthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(response)
}
