package solve

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/operator-framework/subsetsum/internal/config"
	"github.com/operator-framework/subsetsum/internal/solver"
	"github.com/operator-framework/subsetsum/pkg/subsetsum"
	"github.com/operator-framework/subsetsum/pkg/subsetsum/adapter"
	"github.com/operator-framework/subsetsum/pkg/subsetsum/input"
	publicsolver "github.com/operator-framework/subsetsum/pkg/subsetsum/solver"
)

type options struct {
	path       string
	numbers    []float64
	target     float64
	tolerance  float64
	findAll    bool
	algorithm  string
	workers    int
	dpMode     string
	scale      int64
	output     string
	export     string
	noValidate bool
	limits     input.Limits
}

// applyConfig fills every flag the user did not set from cfg.
func (o *options) applyConfig(cmd *cobra.Command, cfg config.Config) {
	flags := cmd.Flags()
	if !flags.Changed("algorithm") {
		o.algorithm = cfg.Algorithm
	}
	if !flags.Changed("workers") {
		o.workers = cfg.Workers
	}
	if !flags.Changed("dp-mode") {
		o.dpMode = cfg.DPMode
	}
	if !flags.Changed("scale") {
		o.scale = cfg.Scale
	}
	o.limits = cfg.Limits()
}

type result struct {
	Algorithm string      `json:"algorithm"`
	Solutions [][]int     `json:"solutions"`
	Values    [][]float64 `json:"values"`
	Sums      []float64   `json:"sums"`
}

func solve(ctx context.Context, out io.Writer, opts *options) error {
	logger := log.FromContext(ctx)

	numbers, err := load(opts)
	if err != nil {
		return err
	}

	req := adapter.Request{
		Numbers:   numbers.Values,
		Target:    opts.target,
		Tolerance: opts.tolerance,
		FindAll:   opts.findAll,
		Scale:     opts.scale,
	}
	problem, err := req.Problem()
	if err != nil {
		return fmt.Errorf("invalid problem: %w", err)
	}

	solverOpts := []publicsolver.Option{
		publicsolver.WithDPMode(subsetsum.DPMode(opts.dpMode)),
		publicsolver.WithLogger(logger),
		publicsolver.WithTracer(solver.LoggingTracer{Logger: logger}),
	}
	if opts.workers > 0 {
		solverOpts = append(solverOpts, publicsolver.WithWorkers(opts.workers))
	}
	s, err := publicsolver.New(solverOpts...)
	if err != nil {
		return err
	}

	alg := subsetsum.ParseAlgorithm(opts.algorithm)
	start := time.Now()
	rs, report, err := s.Run(ctx, problem, alg)
	if err != nil {
		return err
	}
	logger.Infof("found %d solution(s) among %d numbers (%s)", len(rs), len(problem.Numbers), time.Since(start).Round(time.Millisecond))

	res := result{
		Algorithm: report.Selected.String(),
		Solutions: make([][]int, len(rs)),
		Values:    make([][]float64, len(rs)),
		Sums:      make([]float64, len(rs)),
	}
	for i, sol := range rs {
		res.Solutions[i] = sol
		res.Values[i] = make([]float64, len(sol))
		for j, idx := range sol {
			res.Values[i][j] = numbers.Values[idx]
		}
		res.Sums[i] = adapter.FromFixed(sol.Sum(problem.Numbers), opts.scale)
	}

	if opts.export != "" {
		if err := export(opts.export, numbers.Values, rs, opts.target); err != nil {
			return err
		}
		logger.Info("exported solutions", "path", opts.export)
	}

	switch opts.output {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "text":
		printText(out, res)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", opts.output)
	}
}

func load(opts *options) (*input.Numbers, error) {
	if opts.path == "" {
		return input.FromValues(opts.numbers), nil
	}
	numbers, err := input.Load(opts.path)
	if err != nil {
		return nil, err
	}
	if !opts.noValidate {
		if err := input.Validate(numbers, opts.limits); err != nil {
			return nil, fmt.Errorf("%s: %w", opts.path, err)
		}
	}
	return numbers, nil
}

// export writes an XLSX report when path ends in .xlsx and a CSV report
// otherwise.
func export(path string, values []float64, rs subsetsum.ResultSet, target float64) error {
	write := input.WriteCSV
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		write = input.WriteXLSX
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating export file (%s): %w", path, err)
	}
	if err := write(f, values, rs, &target); err != nil {
		f.Close()
		return fmt.Errorf("error writing export file (%s): %w", path, err)
	}
	return f.Close()
}

func printText(out io.Writer, res result) {
	if len(res.Solutions) == 0 {
		fmt.Fprintf(out, "no solution found (%s)\n", res.Algorithm)
		return
	}
	fmt.Fprintf(out, "solutions found (%s):\n", res.Algorithm)
	for i, sol := range res.Solutions {
		fmt.Fprintf(out, "%v = %v (sum %g)\n", sol, res.Values[i], res.Sums[i])
	}
}
