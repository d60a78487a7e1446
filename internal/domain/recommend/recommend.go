// Package recommend ranks unseen hierarchy nodes by their similarity to a
// user's favourites.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/okian/memtree/internal/domain/distance"
	"github.com/okian/memtree/internal/domain/hierarchy"
	"github.com/okian/memtree/internal/domain/types"
)

// Sentinel kinds for ranking errors.
var (
	ErrNoFavourites = errors.New("no favourites to rank against")
)

// Runner executes independent tasks, possibly concurrently.
type Runner interface {
	Run(ctx context.Context, tasks []func(ctx context.Context) error) error
}

// Request describes one ranking.
type Request struct {
	Favourites []string
	Ignored    []string
	Metric     distance.Metric
	// Limit truncates the result; zero or negative returns every candidate.
	Limit int
}

// Ranker scores candidates against favourites.
type Ranker struct {
	run func(ctx context.Context, tasks []func(ctx context.Context) error) error
}

// NewRanker creates a ranker. A nil runner evaluates tasks sequentially.
func NewRanker(r Runner) *Ranker {
	if r == nil {
		return &Ranker{run: sequential}
	}
	return &Ranker{run: r.Run}
}

func sequential(ctx context.Context, tasks []func(ctx context.Context) error) error {
	for _, t := range tasks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := t(ctx); err != nil {
			return err
		}
	}
	return nil
}

type scored struct {
	name  string
	score float64
	pairs int
}

// Rank returns the candidates of tree best-first.
//
// A candidate is every node neither favourite nor ignored. Its score is the
// mean metric value over all favourites; pairs where the metric is undefined
// (zero-variance correlation) are skipped, and a candidate with no defined
// pair is dropped. Distance metrics sort ascending, correlation descending,
// ties by name.
func (r *Ranker) Rank(ctx context.Context, tree *hierarchy.Tree, req Request) ([]types.Recommendation, error) {
	if tree == nil {
		return nil, distance.ErrNilTree
	}
	if !req.Metric.Valid() {
		return nil, fmt.Errorf("%s: %w", req.Metric, distance.ErrInvalidMetric)
	}
	if len(req.Favourites) == 0 {
		return nil, ErrNoFavourites
	}

	favourites, err := resolve(tree, req.Favourites)
	if err != nil {
		return nil, err
	}
	ignored, err := resolve(tree, req.Ignored)
	if err != nil {
		return nil, err
	}

	excluded := make(map[string]bool, len(favourites)+len(ignored))
	for _, n := range favourites {
		excluded[n.Name()] = true
	}
	for _, n := range ignored {
		excluded[n.Name()] = true
	}

	var candidates []*hierarchy.Node
	tree.Walk(func(n *hierarchy.Node) bool {
		if !excluded[n.Name()] {
			candidates = append(candidates, n)
		}
		return true
	})

	results := make([]scored, len(candidates))
	tasks := make([]func(ctx context.Context) error, len(candidates))
	for i, c := range candidates {
		tasks[i] = func(context.Context) error {
			s, err := score(req.Metric, c, favourites)
			if err != nil {
				return err
			}
			results[i] = s
			return nil
		}
	}
	if err := r.run(ctx, tasks); err != nil {
		return nil, err
	}

	kept := results[:0]
	for _, s := range results {
		if s.pairs > 0 {
			kept = append(kept, s)
		}
	}
	sortScores(kept, req.Metric)

	if req.Limit > 0 && len(kept) > req.Limit {
		kept = kept[:req.Limit]
	}
	out := make([]types.Recommendation, len(kept))
	for i, s := range kept {
		out[i] = types.Recommendation{Rank: i + 1, Name: s.name, Score: s.score, Pairs: s.pairs}
	}
	return out, nil
}

// Candidates returns how many nodes a request would score.
func Candidates(tree *hierarchy.Tree, req Request) int {
	excluded := make(map[string]bool)
	for _, n := range req.Favourites {
		excluded[n] = true
	}
	for _, n := range req.Ignored {
		excluded[n] = true
	}
	count := 0
	tree.Walk(func(n *hierarchy.Node) bool {
		if !excluded[n.Name()] {
			count++
		}
		return true
	})
	return count
}

func resolve(tree *hierarchy.Tree, names []string) ([]*hierarchy.Node, error) {
	nodes := make([]*hierarchy.Node, 0, len(names))
	for _, name := range names {
		n, ok := tree.Lookup(name)
		if !ok {
			return nil, &distance.NameNotFoundError{Name: name}
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

func score(metric distance.Metric, candidate *hierarchy.Node, favourites []*hierarchy.Node) (scored, error) {
	s := scored{name: candidate.Name()}
	var sum float64
	for _, f := range favourites {
		d, err := distance.Between(metric, candidate, f)
		if errors.Is(err, distance.ErrNumericalDegeneracy) {
			continue
		}
		if err != nil {
			return scored{}, fmt.Errorf("%q vs %q: %w", candidate.Name(), f.Name(), err)
		}
		sum += d
		s.pairs++
	}
	if s.pairs > 0 {
		s.score = sum / float64(s.pairs)
	}
	return s, nil
}

func sortScores(s []scored, metric distance.Metric) {
	desc := metric.HigherIsCloser()
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].score != s[j].score {
			if desc {
				return s[i].score > s[j].score
			}
			return s[i].score < s[j].score
		}
		return s[i].name < s[j].name
	})
}
