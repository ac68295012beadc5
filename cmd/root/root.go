package root

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/operator-framework/subsetsum/cmd/cpus"
	"github.com/operator-framework/subsetsum/cmd/serve"
	"github.com/operator-framework/subsetsum/cmd/solve"
	"github.com/operator-framework/subsetsum/internal/config"
)

func NewRootCmd() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	rootCmd := &cobra.Command{
		Use:   "subsetsum",
		Short: "Subsetsum finds subsets of numbers adding up to a target",
		Long: `A parallel subset sum solver with several search strategies:
bit enumeration, meet-in-the-middle, dynamic programming,
branch-and-bound and SAT.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			ctx := log.WithContext(cmd.Context(), logger)
			cmd.SetContext(config.WithContext(ctx, cfg))
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("SUBSETSUM_CONFIG"), "path to a YAML configuration file")

	// add sub-commands
	rootCmd.AddCommand(solve.NewSolveCommand())
	rootCmd.AddCommand(serve.NewServeCommand())
	rootCmd.AddCommand(cpus.NewCPUsCommand())

	return rootCmd
}

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}
