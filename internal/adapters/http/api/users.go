package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/memtree/internal/adapters/repository"
	"github.com/okian/memtree/internal/domain/distance"
	"github.com/okian/memtree/internal/domain/model"
	"github.com/okian/memtree/internal/domain/types"
	"github.com/okian/memtree/pkg/logger"
)

// maxBodyBytes bounds POST /users bodies.
const maxBodyBytes = 1 << 16

// UserDependencies defines the interface for profile and recommendation
// operations.
type UserDependencies interface {
	CreateUser(ctx context.Context, name string) (model.Profile, error)
	User(ctx context.Context, name string) (model.Profile, error)
	Users(ctx context.Context) ([]model.Profile, error)
	DeleteUser(ctx context.Context, name string) error
	AddToList(ctx context.Context, user string, list repository.List, node string) (model.Profile, error)
	RemoveFromList(ctx context.Context, user string, list repository.List, node string) (model.Profile, error)
	Recommend(ctx context.Context, user string, metric distance.Metric, limit int) ([]types.Recommendation, error)
}

// UsersHandler handles profile requests.
type UsersHandler struct {
	deps   UserDependencies
	logger logger.Logger
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(deps UserDependencies, log logger.Logger) *UsersHandler {
	return &UsersHandler{deps: deps, logger: log}
}

// createUserRequest mirrors the OpenAPI schema for POST /users.
type createUserRequest struct {
	Name string `json:"name"`
}

// HandleCreateUser handles POST /users requests.
func (h *UsersHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeDomainError(w, r, h.logger, fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	p, err := h.deps.CreateUser(r.Context(), req.Name)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// HandleListUsers handles GET /users requests.
func (h *UsersHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.deps.Users(r.Context())
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// HandleGetUser handles GET /users/{name} requests.
func (h *UsersHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	p, err := h.deps.User(r.Context(), r.PathValue("name"))
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// HandleDeleteUser handles DELETE /users/{name} requests.
func (h *UsersHandler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteUser(r.Context(), r.PathValue("name")); err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// listHandler serves PUT (add) and DELETE (remove) on one of the user's lists.
func (h *UsersHandler) listHandler(list repository.List, add bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, node := r.PathValue("name"), r.PathValue("node")
		var (
			p   model.Profile
			err error
		)
		if add {
			p, err = h.deps.AddToList(r.Context(), user, list, node)
		} else {
			p, err = h.deps.RemoveFromList(r.Context(), user, list, node)
		}
		if err != nil {
			writeDomainError(w, r, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// HandleRecommendations handles GET /users/{name}/recommendations?metric=M&limit=N.
func (h *UsersHandler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	metric, err := parseMetric(q.Get("metric"))
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	limit := 0
	if s := q.Get("limit"); s != "" {
		limit, err = strconv.Atoi(s)
		if err != nil || limit < 0 {
			writeDomainError(w, r, h.logger, ErrInvalidLimit)
			return
		}
	}
	recs, err := h.deps.Recommend(r.Context(), r.PathValue("name"), metric, limit)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}
