package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures a Manager built by NewManager.
type Option func(*Manager)

// WithNamespace overrides the "memtree" namespace. Empty is ignored.
func WithNamespace(ns string) Option {
	return func(m *Manager) {
		if ns != "" {
			m.namespace = ns
		}
	}
}

// WithSubsystem overrides the "engine" subsystem. Empty is ignored.
func WithSubsystem(sub string) Option {
	return func(m *Manager) {
		if sub != "" {
			m.subsystem = sub
		}
	}
}

// WithMetricPrefix inserts prefix between the subsystem and each series name.
func WithMetricPrefix(prefix string) Option {
	return func(m *Manager) { m.metricPrefix = prefix }
}

// WithHistogramBuckets replaces the buckets of the HTTP and error latency
// histograms. Engine histograms keep their sub-millisecond buckets.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = append([]float64(nil), buckets...)
		}
	}
}

// WithMetricsEnabled turns the engine recorders on or off.
func WithMetricsEnabled(on bool) Option {
	return func(m *Manager) { m.enabled = on }
}

// WithRefreshInterval sets how often the system gauges are sampled.
func WithRefreshInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.refreshInterval = d
		}
	}
}

// WithCustomLabels attaches constant labels to every series.
func WithCustomLabels(labels map[string]string) Option {
	return func(m *Manager) {
		for k, v := range labels {
			m.customLabels[k] = v
		}
	}
}

// WithPrometheusRegistry registers the series on reg instead of the default registerer.
func WithPrometheusRegistry(reg prometheus.Registerer) Option {
	return func(m *Manager) {
		if reg != nil {
			m.registry = reg
		}
	}
}
