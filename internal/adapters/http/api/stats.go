package api

import "net/http"

// StatsProvider reports service state for GET /stats.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves StatsProvider snapshots.
type StatsHandler struct {
	provider StatsProvider
}

// NewStatsHandler returns a handler over p. A nil p serves an empty object.
func NewStatsHandler(p StatsProvider) *StatsHandler {
	return &StatsHandler{provider: p}
}

// HandleStats handles GET /stats.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, _ *http.Request) {
	stats := map[string]interface{}{}
	if h.provider != nil {
		stats = h.provider.GetStats()
	}
	writeJSON(w, http.StatusOK, stats)
}
