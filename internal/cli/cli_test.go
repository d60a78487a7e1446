package cli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/memtree/internal/adapters/treefile"
	"github.com/okian/memtree/internal/cli"
	"github.com/okian/memtree/internal/domain/distance"
	"github.com/okian/memtree/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// execute runs the root command with args and returns stdout.
func execute(args ...string) (string, error) {
	var out, errOut bytes.Buffer
	cmd := cli.NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func TestDistanceCmd(t *testing.T) {
	Convey("Given the memdist root command", t, func() {
		Convey("When measuring tree distance between siblings", func() {
			out, err := execute("distance", "DDR4", "DDR5", "--metric", "tree")

			Convey("Then the hop count is printed", func() {
				So(err, ShouldBeNil)
				So(strings.TrimSpace(out), ShouldEqual, "2")
			})
		})

		Convey("When asking for every metric as JSON", func() {
			out, err := execute("distance", "Memory", "DDR4", "--all", "--json")
			So(err, ShouldBeNil)

			var res []types.DistanceResult
			So(json.Unmarshal([]byte(out), &res), ShouldBeNil)

			Convey("Then each metric is present and correlation is undefined", func() {
				So(len(res), ShouldEqual, len(distance.Metrics()))
				for _, r := range res {
					if r.Metric == "correlation" {
						So(r.Error, ShouldNotBeEmpty)
					}
				}
			})
		})

		Convey("When asking for every metric as a table", func() {
			out, err := execute("distance", "Memory", "DDR4", "--all")
			So(err, ShouldBeNil)
			So(out, ShouldStartWith, "METRIC")
			So(out, ShouldContainSubstring, "undefined")
		})

		Convey("When a node is unknown", func() {
			_, err := execute("distance", "DDR4", "Floppy")
			So(errors.Is(err, distance.ErrNameNotFound), ShouldBeTrue)
		})

		Convey("When the metric is unknown", func() {
			_, err := execute("distance", "DDR4", "DDR5", "--metric", "cosine")
			So(errors.Is(err, distance.ErrInvalidMetric), ShouldBeTrue)
		})

		Convey("When --metric and --all are combined", func() {
			_, err := execute("distance", "DDR4", "DDR5", "--metric", "tree", "--all")
			So(err, ShouldNotBeNil)
		})

		Convey("When an argument is missing", func() {
			_, err := execute("distance", "DDR4")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestNodesCmd(t *testing.T) {
	Convey("Given the memdist root command", t, func() {
		Convey("When listing nodes as JSON", func() {
			out, err := execute("nodes", "--json")
			So(err, ShouldBeNil)

			var nodes []types.NodeView
			So(json.Unmarshal([]byte(out), &nodes), ShouldBeNil)

			Convey("Then the whole built-in tree is listed root first", func() {
				So(len(nodes), ShouldEqual, treefile.Default().Len())
				So(nodes[0].Name, ShouldEqual, treefile.DefaultRootName)
			})
		})

		Convey("When listing nodes as a table", func() {
			out, err := execute("nodes")

			Convey("Then children are indented under parents", func() {
				So(err, ShouldBeNil)
				So(out, ShouldStartWith, "NODE")
				So(out, ShouldContainSubstring, "\n    DDR4 ")
			})
		})
	})
}

func TestRecommendCmd(t *testing.T) {
	Convey("Given the memdist root command", t, func() {
		Convey("When recommending near HDD by tree distance", func() {
			out, err := execute("recommend", "-f", "HDD", "--metric", "tree", "--limit", "1", "--json")
			So(err, ShouldBeNil)

			var recs []types.Recommendation
			So(json.Unmarshal([]byte(out), &recs), ShouldBeNil)

			Convey("Then the parent category leads", func() {
				So(len(recs), ShouldEqual, 1)
				So(recs[0].Name, ShouldEqual, "Secondary memory")
				So(recs[0].Rank, ShouldEqual, 1)
			})
		})

		Convey("When ignoring the nearest node", func() {
			out, err := execute("recommend", "-f", "HDD", "-i", "Secondary memory", "--metric", "tree", "--limit", "2")

			Convey("Then it is left out of the table", func() {
				So(err, ShouldBeNil)
				So(out, ShouldStartWith, "RANK")
				So(out, ShouldNotContainSubstring, "Secondary memory")
			})
		})

		Convey("When no favourite is given", func() {
			_, err := execute("recommend")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestExportCmd(t *testing.T) {
	Convey("Given the memdist root command", t, func() {
		Convey("When exporting the built-in tree", func() {
			out, err := execute("export")
			So(err, ShouldBeNil)

			Convey("Then the output parses back to the same tree", func() {
				tree, err := treefile.Parse(strings.NewReader(out))
				So(err, ShouldBeNil)
				So(tree.Names(), ShouldResemble, treefile.Default().Names())
			})

			Convey("And it can be loaded with --tree", func() {
				path := filepath.Join(t.TempDir(), "tree.yaml")
				So(os.WriteFile(path, []byte(out), 0o600), ShouldBeNil)

				res, err := execute("--tree", path, "distance", "DDR4", "DDR5", "--metric", "tree")
				So(err, ShouldBeNil)
				So(strings.TrimSpace(res), ShouldEqual, "2")
			})
		})

		Convey("When the tree file does not exist", func() {
			_, err := execute("--tree", filepath.Join(t.TempDir(), "missing.yaml"), "export")
			So(err, ShouldNotBeNil)
		})
	})
}
