package recommend_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/memtree/internal/adapters/worker"
	"github.com/okian/memtree/internal/domain/distance"
	"github.com/okian/memtree/internal/domain/hierarchy"
	"github.com/okian/memtree/internal/domain/recommend"
	"github.com/okian/memtree/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// sampleTree builds:
//
//	Memory (all zero)
//	├── RAM
//	│   ├── DDR4
//	│   └── DDR5
//	└── Storage
//	    ├── HDD
//	    └── SSD
func sampleTree() *hierarchy.Tree {
	t, err := hierarchy.New("Memory", hierarchy.Attributes{})
	So(err, ShouldBeNil)
	add := func(parent, name string, cost, speed, capacity float64, year int, general bool) {
		_, err := t.AddChild(parent, name, hierarchy.Attributes{
			AverageCost: cost, MaxSpeed: speed, MaxStorageCapacity: capacity, ReleaseYear: year, GeneralPurpose: general,
		})
		So(err, ShouldBeNil)
	}
	add("Memory", "RAM", 5, 40, 64, 1996, true)
	add("RAM", "DDR4", 2, 25, 32, 2014, true)
	add("RAM", "DDR5", 3, 51, 64, 2020, true)
	add("Memory", "Storage", 0.05, 1.5, 8000, 1956, true)
	add("Storage", "HDD", 0.02, 0.25, 20000, 1956, true)
	add("Storage", "SSD", 0.06, 0.55, 4000, 2008, true)
	return t
}

func TestRanker_Rank(t *testing.T) {
	Convey("Given a sequential ranker and a sample tree", t, func() {
		ctx := context.Background()
		tree := sampleTree()
		ranker := recommend.NewRanker(nil)

		Convey("When ranking by tree distance from DDR4", func() {
			recs, err := ranker.Rank(ctx, tree, recommend.Request{
				Favourites: []string{"DDR4"},
				Metric:     distance.TreeDistance,
			})

			Convey("Then closer nodes come first, ties broken by name", func() {
				So(err, ShouldBeNil)
				got := make([]string, len(recs))
				for i, r := range recs {
					got[i] = r.Name
					So(r.Rank, ShouldEqual, i+1)
				}
				So(got, ShouldResemble, []string{"RAM", "DDR5", "Memory", "Storage", "HDD", "SSD"})
				So(recs[0].Score, ShouldEqual, 1.0)
				So(recs[5].Score, ShouldEqual, 4.0)
			})

			Convey("And the favourite itself is never recommended", func() {
				for _, r := range recs {
					So(r.Name, ShouldNotEqual, "DDR4")
				}
			})
		})

		Convey("When ignoring nodes and limiting", func() {
			recs, err := ranker.Rank(ctx, tree, recommend.Request{
				Favourites: []string{"DDR4"},
				Ignored:    []string{"RAM"},
				Metric:     distance.TreeDistance,
				Limit:      2,
			})

			Convey("Then ignored nodes are skipped and the list is cut", func() {
				So(err, ShouldBeNil)
				So(len(recs), ShouldEqual, 2)
				So(recs[0].Name, ShouldEqual, "DDR5")
				So(recs[1].Name, ShouldEqual, "Memory")
			})
		})

		Convey("When several favourites are given", func() {
			recs, err := ranker.Rank(ctx, tree, recommend.Request{
				Favourites: []string{"DDR4", "HDD"},
				Metric:     distance.TreeDistance,
			})

			Convey("Then the score is the mean over favourites", func() {
				So(err, ShouldBeNil)
				for _, r := range recs {
					So(r.Pairs, ShouldEqual, 2)
					if r.Name == "Memory" {
						So(r.Score, ShouldEqual, 2.0)
					}
				}
			})
		})

		Convey("When ranking by Euclidean distance", func() {
			recs, err := ranker.Rank(ctx, tree, recommend.Request{
				Favourites: []string{"HDD"},
				Metric:     distance.Euclidean,
			})

			Convey("Then scores increase down the list", func() {
				So(err, ShouldBeNil)
				for i := 1; i < len(recs); i++ {
					So(recs[i].Score, ShouldBeGreaterThanOrEqualTo, recs[i-1].Score)
				}
				So(recs[0].Name, ShouldEqual, "Storage")
			})
		})

		Convey("When ranking by correlation", func() {
			recs, err := ranker.Rank(ctx, tree, recommend.Request{
				Favourites: []string{"DDR4"},
				Metric:     distance.Correlation,
			})

			Convey("Then higher correlation ranks first", func() {
				So(err, ShouldBeNil)
				for i := 1; i < len(recs); i++ {
					So(recs[i].Score, ShouldBeLessThanOrEqualTo, recs[i-1].Score)
				}
			})

			Convey("And the zero-variance root is dropped", func() {
				for _, r := range recs {
					So(r.Name, ShouldNotEqual, "Memory")
				}
			})
		})

		Convey("When a favourite is unknown", func() {
			_, err := ranker.Rank(ctx, tree, recommend.Request{
				Favourites: []string{"Unknown"},
				Metric:     distance.Euclidean,
			})

			Convey("Then the name is reported", func() {
				var nf *distance.NameNotFoundError
				So(errors.As(err, &nf), ShouldBeTrue)
				So(nf.Name, ShouldEqual, "Unknown")
			})
		})

		Convey("When an ignored name is unknown", func() {
			_, err := ranker.Rank(ctx, tree, recommend.Request{
				Favourites: []string{"RAM"},
				Ignored:    []string{"Floppy"},
				Metric:     distance.Euclidean,
			})
			So(errors.Is(err, distance.ErrNameNotFound), ShouldBeTrue)
		})

		Convey("When there are no favourites", func() {
			_, err := ranker.Rank(ctx, tree, recommend.Request{Metric: distance.Manhattan})
			So(errors.Is(err, recommend.ErrNoFavourites), ShouldBeTrue)
		})

		Convey("When the metric is invalid", func() {
			_, err := ranker.Rank(ctx, tree, recommend.Request{Favourites: []string{"RAM"}})
			So(errors.Is(err, distance.ErrInvalidMetric), ShouldBeTrue)
		})

		Convey("When the tree is nil", func() {
			_, err := ranker.Rank(ctx, nil, recommend.Request{Favourites: []string{"RAM"}, Metric: distance.Euclidean})
			So(errors.Is(err, distance.ErrInvalidArgument), ShouldBeTrue)
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := ranker.Rank(cctx, tree, recommend.Request{Favourites: []string{"RAM"}, Metric: distance.Euclidean})
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})

		Convey("When counting candidates", func() {
			n := recommend.Candidates(tree, recommend.Request{Favourites: []string{"RAM"}, Ignored: []string{"HDD"}})
			So(n, ShouldEqual, 5)
		})
	})
}

func TestRanker_PoolMatchesSequential(t *testing.T) {
	Convey("Given a pooled and a sequential ranker", t, func() {
		ctx := context.Background()
		tree := sampleTree()
		pooled := recommend.NewRanker(worker.NewPool(4, worker.WithLogger(logger.Nop())))
		seq := recommend.NewRanker(nil)

		Convey("Then they rank identically for every metric", func() {
			for _, m := range distance.Metrics() {
				req := recommend.Request{Favourites: []string{"DDR5", "SSD"}, Metric: m}
				a, errA := pooled.Rank(ctx, tree, req)
				b, errB := seq.Rank(ctx, tree, req)
				So(errA, ShouldBeNil)
				So(errB, ShouldBeNil)
				So(a, ShouldResemble, b)
			}
		})
	})
}
