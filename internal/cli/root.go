// Package cli implements the memdist command line tool.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/okian/memtree/internal/adapters/repository"
	"github.com/okian/memtree/internal/adapters/treefile"
	app "github.com/okian/memtree/internal/app"
	"github.com/okian/memtree/internal/config"
	"github.com/okian/memtree/internal/domain/distance"
	"github.com/okian/memtree/pkg/logger"
)

// session holds what every subcommand needs once the root has set up.
type session struct {
	cfg *config.Config
	svc *app.Service
	log logger.Logger
}

// NewRootCmd builds the memdist command tree.
func NewRootCmd() *cobra.Command {
	var (
		cfgPath  string
		treePath string
		logLevel string
		rt       session
	)

	cmd := &cobra.Command{
		Use:   "memdist",
		Short: "Distances and recommendations over a memory-technology hierarchy",
		Long: `memdist answers similarity questions about a hierarchy of memory types.

Every node carries five attributes: average cost, max speed, max storage
capacity, release year and general purpose. Nodes can be compared by
euclidean or manhattan distance over those attributes, by hop count in the
tree, or by Pearson correlation of the attribute vectors.

Without --tree the built-in hierarchy is used.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			if cfgPath == "" {
				cfgPath = os.Getenv(config.EnvConfig)
			}
			cfg, err := config.LoadFrom(cmd.Context(), cfgPath)
			if err != nil {
				return err
			}
			if treePath != "" {
				cfg.TreePath = treePath
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}

			// Logs go to stderr so stdout stays pipeable.
			if err := logger.InitWithOptions(logger.Options{Writer: cmd.ErrOrStderr(), Format: cfg.LogFormat}); err != nil {
				return err
			}
			if err := logger.SetLevelString(cfg.LogLevel); err != nil {
				return fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
			}
			log := logger.Named("memdist")

			tree, err := treefile.LoadOrDefault(cfg.TreePath)
			if err != nil {
				return err
			}

			svc := app.New(
				app.WithLogger(log),
				app.WithTree(tree),
				app.WithStore(repository.NewInMemoryStore()),
				app.WithWorkerCount(cfg.WorkerCount),
				app.WithDefaultMetric(cfg.Metric()),
				app.WithRecommendLimits(cfg.RecommendLimit, cfg.MaxRecommendLimit),
			)
			if err := svc.Start(cmd.Context()); err != nil {
				return err
			}
			rt = session{cfg: cfg, svc: svc, log: log}
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if rt.svc != nil {
				rt.svc.Stop()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to a YAML config file (default: $MEMTREE_CONFIG)")
	cmd.PersistentFlags().StringVar(&treePath, "tree", "", "Path to a YAML/JSON hierarchy file (default: built-in tree)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (default from config)")

	cmd.AddCommand(newDistanceCmd(&rt))
	cmd.AddCommand(newNodesCmd(&rt))
	cmd.AddCommand(newRecommendCmd(&rt))
	cmd.AddCommand(newExportCmd(&rt))

	return cmd
}

// metricFlag parses an optional --metric value; empty selects the default.
func metricFlag(s string) (distance.Metric, error) {
	if s == "" {
		return 0, nil
	}
	return distance.ParseMetric(s)
}
