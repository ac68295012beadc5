package solve

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/operator-framework/subsetsum/internal/config"
)

func NewSolveCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "solve [path]",
		Short: "Finds subsets of the given numbers that sum to a target",
		Long: `Finds subsets of the given numbers that sum to a target, within an
optional tolerance. Numbers are read from a .txt file (one per line,
'#' starts a comment), a .csv or .xlsx file (first column, or a single
row), or given inline with --numbers. Reports are exported as CSV, or as
a highlighted workbook when the --export path ends in .xlsx. For instance:

  subsetsum solve prices.txt --target 15.5 --tolerance 0.05 --all
  subsetsum solve --numbers 1,2,3,4,5 --target 8 --algorithm dp
`,
		Args: cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if _, err := os.Stat(args[0]); errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("file (%s) not found", args[0])
				}
				opts.path = args[0]
			}
			if opts.path == "" && !cmd.Flags().Changed("numbers") {
				return errors.New("either a path or --numbers is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.applyConfig(cmd, config.FromContext(cmd.Context()))
			return solve(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	flags := cmd.Flags()
	flags.Float64SliceVar(&opts.numbers, "numbers", nil, "comma separated numbers to choose from")
	flags.Float64Var(&opts.target, "target", 0, "target sum")
	flags.Float64Var(&opts.tolerance, "tolerance", 0, "accepted distance from the target")
	flags.BoolVar(&opts.findAll, "all", false, "report every matching subset instead of one")
	flags.StringVarP(&opts.algorithm, "algorithm", "a", "auto", "auto, bit_enum, meet_middle, dp, branch_bound or sat")
	flags.IntVarP(&opts.workers, "workers", "w", 0, "number of workers (default one per CPU)")
	flags.StringVar(&opts.dpMode, "dp-mode", "table", "dynamic programming design: table or memo")
	flags.Int64Var(&opts.scale, "scale", 100, "factor turning decimal numbers into integers")
	flags.StringVarP(&opts.output, "output", "o", "text", "output format: text or json")
	flags.StringVar(&opts.export, "export", "", "write a report of the solutions to this path (.csv or .xlsx)")
	flags.BoolVar(&opts.noValidate, "no-validate", false, "skip the count and precision checks on file input")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}
