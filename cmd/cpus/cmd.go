package cpus

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/operator-framework/subsetsum/internal/config"
	"github.com/operator-framework/subsetsum/pkg/subsetsum/adapter"
)

func NewCPUsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "cpus",
		Short: "Prints the CPU count and the worker count used for solving",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			pool := &adapter.Pool{}
			if cfg.Workers > 0 {
				if err := pool.SetSize(cfg.Workers); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cpus: %d\nworkers: %d\n", adapter.NumCPU(), pool.Size())
			return nil
		},
	}
}
