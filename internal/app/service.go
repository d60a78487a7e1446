// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/okian/memtree/internal/adapters/repository"
	"github.com/okian/memtree/internal/adapters/treefile"
	"github.com/okian/memtree/internal/adapters/worker"
	"github.com/okian/memtree/internal/domain/distance"
	"github.com/okian/memtree/internal/domain/hierarchy"
	"github.com/okian/memtree/internal/domain/model"
	"github.com/okian/memtree/internal/domain/recommend"
	"github.com/okian/memtree/internal/domain/types"
	"github.com/okian/memtree/pkg/logger"
	"github.com/okian/memtree/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultRecommendLimit    = 10
	defaultMaxRecommendLimit = 100
)

// Service answers distance, profile, and recommendation queries over one
// immutable hierarchy.
type Service struct {
	mu sync.RWMutex

	// Core components
	tree   *hierarchy.Tree
	store  repository.Store
	pool   *worker.Pool
	ranker *recommend.Ranker

	// Configuration
	workerCount       int
	defaultMetric     distance.Metric
	recommendLimit    int
	maxRecommendLimit int

	// State
	started   bool
	startedAt time.Time

	// Logging
	logger logger.Logger
}

// New constructs a new Service. Without WithTree the built-in hierarchy is
// used; without WithStore profiles live in memory.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:       runtime.NumCPU() * 2,
		defaultMetric:     distance.Euclidean,
		recommendLimit:    defaultRecommendLimit,
		maxRecommendLimit: defaultMaxRecommendLimit,
		logger:            nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting memtree service...")

	if s.tree == nil {
		s.tree = treefile.Default()
		s.logger.Info(ctx, "using built-in hierarchy")
	}
	if s.store == nil {
		s.store = repository.NewInMemoryStore()
		s.logger.Info(ctx, "using in-memory profile store")
	}

	s.pool = worker.NewPool(s.workerCount,
		worker.WithName("ranker"),
		worker.WithLogger(s.logger.Named("worker")),
	)
	s.ranker = recommend.NewRanker(s.pool)

	metrics.UpdateTreeNodes(s.tree.Len())
	metrics.UpdateProfileCount(s.store.Count(ctx))

	s.started = true
	s.startedAt = time.Now()
	s.logger.Info(ctx, "memtree service started",
		logger.String("root", s.tree.Root().Name()),
		logger.Int("nodes", s.tree.Len()),
		logger.Int("workers", s.pool.Size()),
		logger.String("defaultMetric", s.defaultMetric.String()),
	)

	return nil
}

// Stop marks the service stopped. In-flight calls finish normally.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	if closer, ok := s.store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			s.logger.Warn(context.Background(), "closing profile store", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(context.Background(), "memtree service stopped")
}

// components returns the running components or ErrNotStarted.
func (s *Service) components() (*hierarchy.Tree, repository.Store, *recommend.Ranker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, nil, ErrNotStarted
	}
	return s.tree, s.store, s.ranker, nil
}

// Tree returns the hierarchy, or nil before Start.
func (s *Service) Tree() *hierarchy.Tree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree
}

// DefaultMetric returns the metric used when callers pass the zero Metric.
func (s *Service) DefaultMetric() distance.Metric { return s.defaultMetric }

func (s *Service) metricOrDefault(m distance.Metric) distance.Metric {
	if m == 0 {
		return s.defaultMetric
	}
	return m
}

// Distance computes one metric between two named nodes. The zero Metric
// selects the default.
func (s *Service) Distance(ctx context.Context, from, to string, metric distance.Metric) (types.DistanceResult, error) {
	tree, _, _, err := s.components()
	if err != nil {
		return types.DistanceResult{}, err
	}
	metric = s.metricOrDefault(metric)

	calc, err := distance.NewCalculator(tree, from, to)
	if err != nil {
		metrics.RecordDistance(metric.String(), outcomeOf(err), 0)
		return types.DistanceResult{}, err
	}

	start := time.Now()
	score, err := calc.Compute(metric)
	metrics.RecordDistance(metric.String(), outcomeOf(err), sinceMs(start))
	if err != nil {
		s.logger.Debug(ctx, "distance failed",
			logger.String("from", from),
			logger.String("to", to),
			logger.String("metric", metric.String()),
			logger.Error(err),
		)
		return types.DistanceResult{}, err
	}

	return types.DistanceResult{From: from, To: to, Metric: metric.String(), Score: score}, nil
}

// AllDistances computes every metric for the pair. A metric that is
// undefined for the pair carries its error text instead of a score; only
// lookup failures abort.
func (s *Service) AllDistances(ctx context.Context, from, to string) ([]types.DistanceResult, error) {
	tree, _, _, err := s.components()
	if err != nil {
		return nil, err
	}
	calc, err := distance.NewCalculator(tree, from, to)
	if err != nil {
		return nil, err
	}

	out := make([]types.DistanceResult, 0, len(distance.Metrics()))
	for _, m := range distance.Metrics() {
		start := time.Now()
		score, err := calc.Compute(m)
		metrics.RecordDistance(m.String(), outcomeOf(err), sinceMs(start))

		r := types.DistanceResult{From: from, To: to, Metric: m.String(), Score: score}
		switch {
		case err == nil:
		case errors.Is(err, distance.ErrNumericalDegeneracy):
			r.Score = 0
			r.Error = err.Error()
		default:
			return nil, err
		}
		out = append(out, r)
	}
	s.logger.Debug(ctx, "computed all distances",
		logger.String("from", from),
		logger.String("to", to),
	)
	return out, nil
}

// Node returns one node's view.
func (s *Service) Node(_ context.Context, name string) (types.NodeView, error) {
	tree, _, _, err := s.components()
	if err != nil {
		return types.NodeView{}, err
	}
	n, ok := tree.Lookup(name)
	if !ok {
		return types.NodeView{}, &distance.NameNotFoundError{Name: name}
	}
	return types.NewNodeView(n), nil
}

// Nodes returns every node in pre-order.
func (s *Service) Nodes(_ context.Context) ([]types.NodeView, error) {
	tree, _, _, err := s.components()
	if err != nil {
		return nil, err
	}
	out := make([]types.NodeView, 0, tree.Len())
	tree.Walk(func(n *hierarchy.Node) bool {
		out = append(out, types.NewNodeView(n))
		return true
	})
	return out, nil
}

// CreateUser registers a profile.
func (s *Service) CreateUser(ctx context.Context, name string) (model.Profile, error) {
	_, store, _, err := s.components()
	if err != nil {
		return model.Profile{}, err
	}
	p, err := store.Create(ctx, name)
	if err != nil {
		return model.Profile{}, err
	}
	s.logger.Info(ctx, "user created", logger.String("user", p.Name), logger.String("id", p.ID))
	return p, nil
}

// User returns one profile.
func (s *Service) User(ctx context.Context, name string) (model.Profile, error) {
	_, store, _, err := s.components()
	if err != nil {
		return model.Profile{}, err
	}
	return store.Get(ctx, name)
}

// Users returns every profile ordered by name.
func (s *Service) Users(ctx context.Context) ([]model.Profile, error) {
	_, store, _, err := s.components()
	if err != nil {
		return nil, err
	}
	return store.List(ctx)
}

// DeleteUser removes a profile.
func (s *Service) DeleteUser(ctx context.Context, name string) error {
	_, store, _, err := s.components()
	if err != nil {
		return err
	}
	if err := store.Delete(ctx, name); err != nil {
		return err
	}
	s.logger.Info(ctx, "user deleted", logger.String("user", name))
	return nil
}

// AddToList puts a hierarchy node on one of the user's lists. The node must
// exist in the hierarchy.
func (s *Service) AddToList(ctx context.Context, user string, list repository.List, node string) (model.Profile, error) {
	tree, store, _, err := s.components()
	if err != nil {
		return model.Profile{}, err
	}
	if _, ok := tree.Lookup(node); !ok {
		return model.Profile{}, &distance.NameNotFoundError{Name: node}
	}
	return store.Add(ctx, user, list, node)
}

// RemoveFromList takes a node off one of the user's lists.
func (s *Service) RemoveFromList(ctx context.Context, user string, list repository.List, node string) (model.Profile, error) {
	_, store, _, err := s.components()
	if err != nil {
		return model.Profile{}, err
	}
	return store.Remove(ctx, user, list, node)
}

// Recommend ranks nodes for a stored user. A non-positive limit selects the
// default; larger limits are capped.
func (s *Service) Recommend(ctx context.Context, user string, metric distance.Metric, limit int) ([]types.Recommendation, error) {
	_, store, _, err := s.components()
	if err != nil {
		return nil, err
	}
	p, err := store.Get(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.RecommendFor(ctx, p.Favourites, p.Ignored, metric, limit)
}

// RecommendFor ranks nodes against explicit favourite and ignored lists.
func (s *Service) RecommendFor(ctx context.Context, favourites, ignored []string, metric distance.Metric, limit int) ([]types.Recommendation, error) {
	tree, _, ranker, err := s.components()
	if err != nil {
		return nil, err
	}
	req := recommend.Request{
		Favourites: favourites,
		Ignored:    ignored,
		Metric:     s.metricOrDefault(metric),
		Limit:      s.clampLimit(limit),
	}

	start := time.Now()
	recs, err := ranker.Rank(ctx, tree, req)
	if err != nil {
		metrics.RecordErrorByComponent("recommend", outcomeOf(err))
		return nil, fmt.Errorf("recommend: %w", err)
	}
	metrics.RecordRecommendation(recommend.Candidates(tree, req))
	s.logger.Debug(ctx, "recommendations ranked",
		logger.Int("favourites", len(favourites)),
		logger.Int("returned", len(recs)),
		logger.String("metric", req.Metric.String()),
		logger.Duration("took", time.Since(start)),
	)
	return recs, nil
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.recommendLimit
	}
	return min(limit, s.maxRecommendLimit)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":           s.started,
		"workerCount":       s.workerCount,
		"defaultMetric":     s.defaultMetric.String(),
		"recommendLimit":    s.recommendLimit,
		"maxRecommendLimit": s.maxRecommendLimit,
	}

	if s.started {
		ctx := context.Background()
		profiles := s.store.Count(ctx)

		stats["treeRoot"] = s.tree.Root().Name()
		stats["treeNodes"] = s.tree.Len()
		stats["profiles"] = profiles
		stats["uptimeSeconds"] = time.Since(s.startedAt).Seconds()

		metrics.UpdateTreeNodes(s.tree.Len())
		metrics.UpdateProfileCount(profiles)
	}

	return stats
}

// outcomeOf maps an error to its metrics outcome label.
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, distance.ErrNameNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, distance.ErrNumericalDegeneracy):
		return metrics.OutcomeDegenerate
	case errors.Is(err, distance.ErrInvalidMetric),
		errors.Is(err, distance.ErrInvalidArgument),
		errors.Is(err, recommend.ErrNoFavourites):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeError
	}
}

func sinceMs(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}
