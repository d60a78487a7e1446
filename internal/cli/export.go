package cli

import (
	"github.com/spf13/cobra"

	"github.com/okian/memtree/internal/adapters/treefile"
)

func newExportCmd(rt *session) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Print the hierarchy as a YAML tree file",
		Long: `Print the active hierarchy in the tree file format read by --tree and
MEMTREE_TREE_PATH. Exporting the built-in tree is a starting point for a
custom one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return treefile.Encode(cmd.OutOrStdout(), rt.svc.Tree())
		},
	}
}
