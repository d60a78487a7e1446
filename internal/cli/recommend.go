package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRecommendCmd(rt *session) *cobra.Command {
	var (
		favourites []string
		ignored    []string
		metric     string
		limit      int
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank nodes by similarity to favourites",
		Example: `  # Nodes most like DDR4 and GDDR6, skipping HBM2
  memdist recommend --favourite DDR4 --favourite GDDR6 --ignore HBM2

  # Highest correlation first
  memdist recommend -f HDD --metric correlation --limit 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := metricFlag(metric)
			if err != nil {
				return err
			}
			recs, err := rt.svc.RecommendFor(cmd.Context(), favourites, ignored, m, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, recs)
			}
			tw := newTable(out)
			_, _ = fmt.Fprintln(tw, "RANK\tNODE\tSCORE")
			for _, r := range recs {
				_, _ = fmt.Fprintf(tw, "%d\t%s\t%g\n", r.Rank, r.Name, r.Score)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringArrayVarP(&favourites, "favourite", "f", nil, "Favourite node (repeatable)")
	cmd.Flags().StringArrayVarP(&ignored, "ignore", "i", nil, "Node never to recommend (repeatable)")
	cmd.Flags().StringVar(&metric, "metric", "", "Metric: euclidean, manhattan, tree, correlation (default from config)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Number of results (0 for the configured default)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	_ = cmd.MarkFlagRequired("favourite")

	return cmd
}
