// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fraudtriage/pkg/metrics"
)

// HealthHandler handles health check and metrics requests.
type HealthHandler struct {
	deps Dependencies
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps Dependencies) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// HandleHealth handles GET /health requests. The endpoint always answers
// 200; a degraded prediction path is visible in the message and on the
// predict endpoints as 503.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	msg := "fraud detection API running"
	if !h.deps.ModelLoaded() {
		msg = "fraud detection API running, model not loaded"
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok", Message: msg})
}

// HandleMetrics serves Prometheus metrics from our custom registry.
func (h *HealthHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}
