package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/memtree/internal/domain/distance"
	"github.com/okian/memtree/internal/domain/types"
	"github.com/okian/memtree/pkg/logger"
)

// DistanceDependencies defines the interface for distance queries.
type DistanceDependencies interface {
	Distance(ctx context.Context, from, to string, metric distance.Metric) (types.DistanceResult, error)
	AllDistances(ctx context.Context, from, to string) ([]types.DistanceResult, error)
}

// DistanceHandler handles distance requests.
type DistanceHandler struct {
	deps   DistanceDependencies
	logger logger.Logger
}

// NewDistanceHandler creates a new distance handler.
func NewDistanceHandler(deps DistanceDependencies, log logger.Logger) *DistanceHandler {
	return &DistanceHandler{deps: deps, logger: log}
}

func pair(r *http.Request) (string, string, error) {
	q := r.URL.Query()
	from, to := strings.TrimSpace(q.Get("from")), strings.TrimSpace(q.Get("to"))
	if from == "" {
		return "", "", fmt.Errorf("%w: from", ErrMissingParam)
	}
	if to == "" {
		return "", "", fmt.Errorf("%w: to", ErrMissingParam)
	}
	return from, to, nil
}

// HandleGetDistance handles GET /distance?from=A&to=B&metric=M requests.
func (h *DistanceHandler) HandleGetDistance(w http.ResponseWriter, r *http.Request) {
	from, to, err := pair(r)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	metric, err := parseMetric(r.URL.Query().Get("metric"))
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	res, err := h.deps.Distance(r.Context(), from, to, metric)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleGetDistances handles GET /distances?from=A&to=B requests.
func (h *DistanceHandler) HandleGetDistances(w http.ResponseWriter, r *http.Request) {
	from, to, err := pair(r)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	res, err := h.deps.AllDistances(r.Context(), from, to)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
