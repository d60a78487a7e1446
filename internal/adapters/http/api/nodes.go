package api

import (
	"context"
	"net/http"

	"github.com/okian/memtree/internal/domain/types"
	"github.com/okian/memtree/pkg/logger"
)

// NodeDependencies defines the interface for hierarchy reads.
type NodeDependencies interface {
	Node(ctx context.Context, name string) (types.NodeView, error)
	Nodes(ctx context.Context) ([]types.NodeView, error)
}

// NodesHandler handles hierarchy requests.
type NodesHandler struct {
	deps   NodeDependencies
	logger logger.Logger
}

// NewNodesHandler creates a new nodes handler.
func NewNodesHandler(deps NodeDependencies, log logger.Logger) *NodesHandler {
	return &NodesHandler{deps: deps, logger: log}
}

// HandleListNodes handles GET /nodes requests.
func (h *NodesHandler) HandleListNodes(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.deps.Nodes(r.Context())
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, nodes)
}

// HandleGetNode handles GET /nodes/{name} requests.
func (h *NodesHandler) HandleGetNode(w http.ResponseWriter, r *http.Request) {
	n, err := h.deps.Node(r.Context(), r.PathValue("name"))
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}
