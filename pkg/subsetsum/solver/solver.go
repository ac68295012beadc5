package solver

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/operator-framework/subsetsum/internal/solver"
	"github.com/operator-framework/subsetsum/pkg/subsetsum"
)

type solverOptions struct {
	engine []solver.Option
}

func (s *solverOptions) apply(options ...Option) *solverOptions {
	for _, applyOption := range options {
		applyOption(s)
	}
	return s
}

type Option func(solverOptions *solverOptions)

// WithWorkers bounds the number of goroutines used by parallel
// strategies. It defaults to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(solverOptions *solverOptions) {
		solverOptions.engine = append(solverOptions.engine, solver.WithWorkers(n))
	}
}

// WithDPMode chooses between the table and the memoised dynamic
// programming designs.
func WithDPMode(mode subsetsum.DPMode) Option {
	return func(solverOptions *solverOptions) {
		solverOptions.engine = append(solverOptions.engine, solver.WithDPMode(mode))
	}
}

// WithTracer registers a Tracer that receives a Report after every solve.
func WithTracer(t subsetsum.Tracer) Option {
	return func(solverOptions *solverOptions) {
		solverOptions.engine = append(solverOptions.engine, solver.WithTracer(t))
	}
}

// WithLogger sets the logger used for engine diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(solverOptions *solverOptions) {
		solverOptions.engine = append(solverOptions.engine, solver.WithLogger(l))
	}
}

// Solver runs subset sum searches with a fixed configuration. It holds
// no per-solve state and is safe for concurrent use.
type Solver struct {
	engine *solver.Engine
}

func New(options ...Option) (*Solver, error) {
	opts := (&solverOptions{}).apply(options...)
	engine, err := solver.NewEngine(opts.engine...)
	if err != nil {
		return nil, err
	}
	return &Solver{engine: engine}, nil
}

// Workers returns the worker bound of s.
func (s *Solver) Workers() int {
	return s.engine.Workers()
}

// Solve finds one, or with FindAll every, subset of p.Numbers whose sum
// lies within p.Tolerance of p.Target. An empty ResultSet means there is
// no such subset. The context supplies the logger and does not cancel
// the search.
func (s *Solver) Solve(ctx context.Context, p subsetsum.Problem, algorithm subsetsum.Algorithm) (subsetsum.ResultSet, error) {
	result, _, err := s.Run(ctx, p, algorithm)
	return result, err
}

// Run is Solve that also returns the Report of the search. Report.Selected
// is the strategy that ran.
func (s *Solver) Run(ctx context.Context, p subsetsum.Problem, algorithm subsetsum.Algorithm) (subsetsum.ResultSet, subsetsum.Report, error) {
	logger := log.FromContext(ctx)
	logger.Debug("solving",
		"algorithm", algorithm,
		"size", len(p.Numbers),
		"target", p.Target,
		"tolerance", p.Tolerance,
		"find_all", p.FindAll,
	)

	result, report, err := s.engine.Run(p, algorithm)
	if err != nil {
		return nil, subsetsum.Report{}, err
	}
	logger.Debug("solved", "selected", report.Selected, "solutions", len(result))
	return result, report, nil
}

// Select returns the strategy Solve picks for an input of n elements.
// Inputs too wide for the picked strategy run branch-and-bound instead;
// Run reports the final choice.
func Select(n int, algorithm subsetsum.Algorithm) subsetsum.Algorithm {
	return solver.Select(n, algorithm)
}
