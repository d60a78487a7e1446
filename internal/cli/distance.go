package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/okian/memtree/internal/domain/types"
)

func newDistanceCmd(rt *session) *cobra.Command {
	var (
		metric string
		all    bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "distance FROM TO",
		Short: "Compare two nodes",
		Example: `  # Euclidean distance (the default metric)
  memdist distance DDR4 DDR5

  # Hop count through the tree
  memdist distance DDR4 HDD --metric tree

  # Every metric at once
  memdist distance "L1 cache" "L3 cache" --all --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, to := args[0], args[1]
			out := cmd.OutOrStdout()

			if all {
				results, err := rt.svc.AllDistances(cmd.Context(), from, to)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(out, results)
				}
				tw := newTable(out)
				_, _ = fmt.Fprintln(tw, "METRIC\tSCORE")
				for _, r := range results {
					_, _ = fmt.Fprintf(tw, "%s\t%s\n", r.Metric, scoreText(r))
				}
				return tw.Flush()
			}

			m, err := metricFlag(metric)
			if err != nil {
				return err
			}
			r, err := rt.svc.Distance(cmd.Context(), from, to, m)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(out, r)
			}
			_, err = fmt.Fprintln(out, scoreText(r))
			return err
		},
	}

	cmd.Flags().StringVar(&metric, "metric", "", "Metric: euclidean, manhattan, tree, correlation (default from config)")
	cmd.Flags().BoolVar(&all, "all", false, "Report every metric")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	cmd.MarkFlagsMutuallyExclusive("metric", "all")

	return cmd
}

func scoreText(r types.DistanceResult) string {
	if r.Error != "" {
		return "undefined (" + r.Error + ")"
	}
	return strconv.FormatFloat(r.Score, 'g', -1, 64)
}
