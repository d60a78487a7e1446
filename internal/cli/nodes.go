package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newNodesCmd(rt *session) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "List the hierarchy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			nodes, err := rt.svc.Nodes(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, nodes)
			}
			tw := newTable(out)
			_, _ = fmt.Fprintln(tw, "NODE\tCOST\tSPEED\tCAPACITY\tYEAR\tGENERAL")
			for _, n := range nodes {
				a := n.Attributes
				_, _ = fmt.Fprintf(tw, "%s%s\t%g\t%g\t%g\t%d\t%t\n",
					strings.Repeat("  ", n.Depth), n.Name,
					a.AverageCost, a.MaxSpeed, a.MaxStorageCapacity, a.ReleaseYear, a.GeneralPurpose)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	return cmd
}
