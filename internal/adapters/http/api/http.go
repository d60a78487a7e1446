// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/memtree/internal/adapters/repository"
	"github.com/okian/memtree/internal/domain/distance"
	"github.com/okian/memtree/internal/domain/recommend"
	"github.com/okian/memtree/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	DistanceDependencies
	NodeDependencies
	UserDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	distanceHandler *DistanceHandler
	nodesHandler    *NodesHandler
	usersHandler    *UsersHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, log logger.Logger) *Server {
	if log == nil {
		log = logger.Get().Named("http")
	}
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		distanceHandler: NewDistanceHandler(deps, log),
		nodesHandler:    NewNodesHandler(deps, log),
		usersHandler:    NewUsersHandler(deps, log),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", instrument("healthz", s.healthHandler.HandleHealth))
	mux.Handle("GET /metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("GET /stats", instrument("stats", s.statsHandler.HandleStats))

	mux.HandleFunc("GET /distance", instrument("distance", s.distanceHandler.HandleGetDistance))
	mux.HandleFunc("GET /distances", instrument("distances", s.distanceHandler.HandleGetDistances))

	mux.HandleFunc("GET /nodes", instrument("nodes", s.nodesHandler.HandleListNodes))
	mux.HandleFunc("GET /nodes/{name}", instrument("node", s.nodesHandler.HandleGetNode))

	u := s.usersHandler
	mux.HandleFunc("POST /users", instrument("users", u.HandleCreateUser))
	mux.HandleFunc("GET /users", instrument("users", u.HandleListUsers))
	mux.HandleFunc("GET /users/{name}", instrument("user", u.HandleGetUser))
	mux.HandleFunc("DELETE /users/{name}", instrument("user", u.HandleDeleteUser))
	mux.HandleFunc("PUT /users/{name}/favourites/{node}", instrument("favourites", u.listHandler(repository.Favourites, true)))
	mux.HandleFunc("DELETE /users/{name}/favourites/{node}", instrument("favourites", u.listHandler(repository.Favourites, false)))
	mux.HandleFunc("PUT /users/{name}/ignored/{node}", instrument("ignored", u.listHandler(repository.Ignored, true)))
	mux.HandleFunc("DELETE /users/{name}/ignored/{node}", instrument("ignored", u.listHandler(repository.Ignored, false)))
	mux.HandleFunc("GET /users/{name}/recommendations", instrument("recommendations", u.HandleRecommendations))
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, RequestID: RequestIDFrom(r.Context())})
}

// writeDomainError translates a domain error to its status and logs
// server-side failures.
func writeDomainError(w http.ResponseWriter, r *http.Request, log logger.Logger, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error(r.Context(), "request failed",
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
	}
	writeError(w, r, status, code, err)
}

// statusFor maps domain error kinds onto HTTP status codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, distance.ErrNameNotFound),
		errors.Is(err, repository.ErrNotFound),
		errors.Is(err, repository.ErrNotListed):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, distance.ErrInvalidMetric),
		errors.Is(err, distance.ErrInvalidArgument),
		errors.Is(err, repository.ErrInvalidName),
		errors.Is(err, ErrBadRequest),
		errors.Is(err, ErrMissingParam),
		errors.Is(err, ErrInvalidLimit):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, distance.ErrNumericalDegeneracy),
		errors.Is(err, recommend.ErrNoFavourites):
		return http.StatusUnprocessableEntity, "unprocessable"
	case errors.Is(err, repository.ErrAlreadyExists),
		errors.Is(err, repository.ErrAlreadyListed):
		return http.StatusConflict, "conflict"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// parseMetric reads an optional metric; empty selects the service default.
func parseMetric(s string) (distance.Metric, error) {
	if s == "" {
		return 0, nil
	}
	return distance.ParseMetric(s)
}
