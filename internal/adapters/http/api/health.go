package api

import (
	"net/http"
	"strings"

	"github.com/okian/memtree/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthHandler handles liveness and metrics scrapes.
type HealthHandler struct {
	metrics http.Handler
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

type healthResponse struct {
	Status string `json:"status"`
}

// HandleHealth handles GET /healthz requests.
// If the Accept header asks for "application/openmetrics-text" or
// "text/plain" it returns Prometheus metrics, otherwise a JSON status.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if acceptsMetrics(r.Header.Get("Accept")) {
		h.metrics.ServeHTTP(w, r)
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// MetricsHandler serves the custom Prometheus registry.
func (h *HealthHandler) MetricsHandler() http.Handler {
	return h.metrics
}

func acceptsMetrics(accept string) bool {
	for _, t := range []string{"application/openmetrics-text", "text/plain"} {
		if strings.Contains(strings.ToLower(accept), t) {
			return true
		}
	}
	return false
}
