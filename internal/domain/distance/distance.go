// Package distance computes dissimilarity scores between nodes of a
// memory-technology hierarchy.
package distance

import (
	"fmt"
	"math"

	"github.com/okian/memtree/internal/domain/hierarchy"
)

// Calculator is bound to one tree and a pair of node names. It holds no
// other state, so Compute may be called concurrently as long as the tree is
// not mutated.
type Calculator struct {
	tree   *hierarchy.Tree
	first  string
	second string
}

// NewCalculator binds tree and both names. A nil tree or an empty name is a
// programming error and is rejected with ErrInvalidArgument.
func NewCalculator(tree *hierarchy.Tree, first, second string) (*Calculator, error) {
	if tree == nil {
		return nil, ErrNilTree
	}
	if first == "" || second == "" {
		return nil, ErrEmptyName
	}
	return &Calculator{tree: tree, first: first, second: second}, nil
}

// Names returns the bound names in order.
func (c *Calculator) Names() (first, second string) {
	return c.first, c.second
}

// Compute resolves both names and returns the score under metric.
func (c *Calculator) Compute(metric Metric) (float64, error) {
	if !metric.Valid() {
		return 0, fmt.Errorf("%s: %w", metric, ErrInvalidMetric)
	}
	n1, ok := c.tree.Lookup(c.first)
	if !ok {
		return 0, &NameNotFoundError{Name: c.first}
	}
	n2, ok := c.tree.Lookup(c.second)
	if !ok {
		return 0, &NameNotFoundError{Name: c.second}
	}
	return Between(metric, n1, n2)
}

// Between dispatches to the metric algorithm for two resolved nodes.
func Between(metric Metric, a, b *hierarchy.Node) (float64, error) {
	switch metric {
	case Euclidean:
		return EuclideanDistance(a.Attributes(), b.Attributes()), nil
	case Manhattan:
		return ManhattanDistance(a.Attributes(), b.Attributes()), nil
	case TreeDistance:
		return Hops(a, b)
	case Correlation:
		return Pearson(a.Attributes(), b.Attributes())
	default:
		return 0, fmt.Errorf("%s: %w", metric, ErrInvalidMetric)
	}
}

// EuclideanDistance is the L2 norm of the feature difference. Features are
// not normalized.
func EuclideanDistance(a, b hierarchy.Attributes) float64 {
	v1, v2 := a.Vector(), b.Vector()
	var sum float64
	for i := range v1 {
		d := v1[i] - v2[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// ManhattanDistance is the L1 norm of the feature difference.
func ManhattanDistance(a, b hierarchy.Attributes) float64 {
	v1, v2 := a.Vector(), b.Vector()
	var sum float64
	for i := range v1 {
		sum += math.Abs(v1[i] - v2[i])
	}
	return sum
}

// Hops counts the edges on the tree path between from and to.
//
// The expansion is depth-first over an explicit stack. One map serves as both
// the visited set and the distance table; on a tree every node is reached by
// exactly one path, so the traversal order does not change the result.
func Hops(from, to *hierarchy.Node) (float64, error) {
	dist := map[string]float64{from.Name(): 0}
	stack := []*hierarchy.Node{from}

	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.Name() == to.Name() {
			break
		}
		for _, next := range n.Neighbors() {
			if _, seen := dist[next.Name()]; seen {
				continue
			}
			dist[next.Name()] = dist[n.Name()] + 1
			stack = append(stack, next)
		}
	}

	d, ok := dist[to.Name()]
	if !ok {
		return 0, fmt.Errorf("%q from %q: %w", to.Name(), from.Name(), ErrUnreachable)
	}
	return d, nil
}

// Pearson returns the correlation coefficient of the two attribute vectors,
// each treated as a five-value sample. The result lies in [-1, 1]. A vector
// with zero variance yields ErrNumericalDegeneracy.
func Pearson(a, b hierarchy.Attributes) (float64, error) {
	c1, ss1 := centered(a.Vector())
	c2, ss2 := centered(b.Vector())

	denominator := ss1 * ss2
	if denominator == 0 {
		return 0, ErrNumericalDegeneracy
	}

	var numerator float64
	for i := range c1 {
		numerator += c1[i] * c2[i]
	}
	r := numerator / math.Sqrt(denominator)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, ErrNumericalDegeneracy
	}
	return r, nil
}

// centered subtracts the sample mean and returns the sum of squares.
func centered(v [hierarchy.VectorLen]float64) ([hierarchy.VectorLen]float64, float64) {
	var mean float64
	for _, x := range v {
		mean += x
	}
	mean /= hierarchy.VectorLen

	var out [hierarchy.VectorLen]float64
	var ss float64
	for i, x := range v {
		out[i] = x - mean
		ss += out[i] * out[i]
	}
	return out, ss
}
