package distance

import (
	"fmt"
	"strings"
)

// Metric selects one of the supported algorithms. The set is closed; values
// outside it are rejected by Compute.
type Metric uint8

const (
	Euclidean Metric = iota + 1
	Manhattan
	TreeDistance
	Correlation
)

var metricNames = map[Metric]string{
	Euclidean:    "euclidean",
	Manhattan:    "manhattan",
	TreeDistance: "tree",
	Correlation:  "correlation",
}

// Metrics lists every supported metric in declaration order.
func Metrics() []Metric {
	return []Metric{Euclidean, Manhattan, TreeDistance, Correlation}
}

// Valid reports whether m is one of the declared metrics.
func (m Metric) Valid() bool {
	_, ok := metricNames[m]
	return ok
}

func (m Metric) String() string {
	if name, ok := metricNames[m]; ok {
		return name
	}
	return fmt.Sprintf("metric(%d)", uint8(m))
}

// HigherIsCloser is true for similarity metrics, where a larger score means
// more alike.
func (m Metric) HigherIsCloser() bool {
	return m == Correlation
}

// MarshalText encodes the metric by name.
func (m Metric) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%s: %w", m, ErrInvalidMetric)
	}
	return []byte(m.String()), nil
}

// UnmarshalText decodes a metric name via ParseMetric.
func (m *Metric) UnmarshalText(text []byte) error {
	parsed, err := ParseMetric(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// ParseMetric converts a metric name into a Metric.
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "euclidean":
		return Euclidean, nil
	case "manhattan":
		return Manhattan, nil
	case "tree", "tree_distance", "treedistance":
		return TreeDistance, nil
	case "correlation":
		return Correlation, nil
	default:
		return 0, fmt.Errorf("%q: %w", s, ErrInvalidMetric)
	}
}
