package service

import (
	"github.com/okian/memtree/internal/adapters/repository"
	"github.com/okian/memtree/internal/domain/distance"
	"github.com/okian/memtree/internal/domain/hierarchy"
	"github.com/okian/memtree/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithTree sets the hierarchy the service answers queries over.
func WithTree(t *hierarchy.Tree) Option {
	return func(s *Service) {
		if t != nil {
			s.tree = t
		}
	}
}

// WithStore sets the profile store. Defaults to an in-memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithWorkerCount sets the number of ranking workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithDefaultMetric sets the metric used when a request names none.
func WithDefaultMetric(m distance.Metric) Option {
	return func(s *Service) {
		if m.Valid() {
			s.defaultMetric = m
		}
	}
}

// WithRecommendLimits sets the default and maximum recommendation list size.
func WithRecommendLimits(def, maxLimit int) Option {
	return func(s *Service) {
		if def > 0 && maxLimit >= def {
			s.recommendLimit = def
			s.maxRecommendLimit = maxLimit
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
