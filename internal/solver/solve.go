package solver

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"github.com/operator-framework/subsetsum/pkg/subsetsum"
)

var ErrInvalidWorkers = errors.New("worker count must be positive")

const (
	// bitEnumLimit is the largest input the auto selector sends to bit
	// enumeration.
	bitEnumLimit = 25
	// meetMiddleLimit is the largest input the auto selector sends to
	// meet-in-the-middle.
	meetMiddleLimit = 40

	// maxMaskBits is the widest element set a uint64 mask can address.
	maxMaskBits = 63
	// maxHalfBits bounds the half tables built by meet-in-the-middle.
	maxHalfBits = 32
)

// Select resolves the strategy for an input of n elements. Explicit
// names are honoured; anything else picks by size.
func Select(n int, requested subsetsum.Algorithm) subsetsum.Algorithm {
	switch requested {
	case subsetsum.BitEnum, subsetsum.MeetMiddle, subsetsum.DP, subsetsum.BranchBound, subsetsum.SAT:
		return requested
	}
	switch {
	case n <= bitEnumLimit:
		return subsetsum.BitEnum
	case n <= meetMiddleLimit:
		return subsetsum.MeetMiddle
	default:
		return subsetsum.BranchBound
	}
}

// Engine runs subset sum searches. An Engine holds configuration only
// and may be shared between goroutines.
type Engine struct {
	workers int
	dpMode  subsetsum.DPMode
	tracer  subsetsum.Tracer
	logger  *log.Logger
}

func NewEngine(options ...Option) (*Engine, error) {
	e := Engine{}
	for _, option := range append(options, defaults...) {
		if err := option(&e); err != nil {
			return nil, err
		}
	}
	return &e, nil
}

func (e *Engine) Workers() int {
	return e.workers
}

// Solve searches p with the requested strategy. The only error
// returned for a valid Problem is an unexpected internal failure.
func (e *Engine) Solve(p subsetsum.Problem, requested subsetsum.Algorithm) (subsetsum.ResultSet, error) {
	result, _, err := e.Run(p, requested)
	return result, err
}

// Run is Solve that also returns the Report handed to the tracer. The
// Report names the strategy that actually ran, which differs from
// Select when an input is too wide for the requested one.
func (e *Engine) Run(p subsetsum.Problem, requested subsetsum.Algorithm) (subsetsum.ResultSet, subsetsum.Report, error) {
	if err := p.Validate(); err != nil {
		return nil, subsetsum.Report{}, err
	}

	start := time.Now()
	selected := Select(len(p.Numbers), requested)
	c := newCollector(p.FindAll)

	// the empty input has no elements to choose from in any strategy
	if len(p.Numbers) > 0 {
		var err error
		if selected, err = e.run(selected, p, c); err != nil {
			return nil, subsetsum.Report{}, fmt.Errorf("%s search failed: %w", selected, err)
		}
	}

	result, truncated := c.results()
	report := subsetsum.Report{
		Requested: requested,
		Selected:  selected,
		Size:      len(p.Numbers),
		Workers:   e.workers,
		FindAll:   p.FindAll,
		Solutions: len(result),
		Truncated: truncated,
		Duration:  time.Since(start),
	}
	e.tracer.Trace(report)
	return result, report, nil
}

// run dispatches to the strategy and returns the one that actually ran.
func (e *Engine) run(alg subsetsum.Algorithm, p subsetsum.Problem, c *collector) (subsetsum.Algorithm, error) {
	n := len(p.Numbers)
	switch alg {
	case subsetsum.BitEnum:
		if n > maxMaskBits {
			return e.delegate(alg, p, c)
		}
		return alg, bitEnum(p, e.workers, c)
	case subsetsum.MeetMiddle:
		if n-n/2 > maxHalfBits {
			return e.delegate(alg, p, c)
		}
		return alg, meetMiddle(p, e.workers, c)
	case subsetsum.DP:
		if e.dpMode == subsetsum.DPMemo {
			return alg, dpMemo(p, c)
		}
		return alg, dpTable(p, e.workers, c)
	case subsetsum.SAT:
		return alg, satSearch(p, c)
	default:
		return subsetsum.BranchBound, branchBound(p, e.workers, c)
	}
}

func (e *Engine) delegate(alg subsetsum.Algorithm, p subsetsum.Problem, c *collector) (subsetsum.Algorithm, error) {
	e.logger.Debug("input too wide for strategy, using branch and bound", "algorithm", alg, "size", len(p.Numbers))
	return subsetsum.BranchBound, branchBound(p, e.workers, c)
}

type Option func(e *Engine) error

// WithWorkers sets the number of goroutines a parallel strategy may use.
func WithWorkers(n int) Option {
	return func(e *Engine) error {
		if n < 1 {
			return fmt.Errorf("%w: got %d", ErrInvalidWorkers, n)
		}
		e.workers = n
		return nil
	}
}

func WithDPMode(mode subsetsum.DPMode) Option {
	return func(e *Engine) error {
		switch mode {
		case subsetsum.DPTable, subsetsum.DPMemo:
			e.dpMode = mode
			return nil
		}
		return fmt.Errorf("unknown dp mode %q", mode)
	}
}

func WithTracer(t subsetsum.Tracer) Option {
	return func(e *Engine) error {
		e.tracer = t
		return nil
	}
}

func WithLogger(l *log.Logger) Option {
	return func(e *Engine) error {
		e.logger = l
		return nil
	}
}

var defaults = []Option{
	func(e *Engine) error {
		if e.workers == 0 {
			e.workers = runtime.GOMAXPROCS(0)
		}
		return nil
	},
	func(e *Engine) error {
		if e.dpMode == "" {
			e.dpMode = subsetsum.DPTable
		}
		return nil
	},
	func(e *Engine) error {
		if e.tracer == nil {
			e.tracer = subsetsum.DefaultTracer{}
		}
		return nil
	},
	func(e *Engine) error {
		if e.logger == nil {
			e.logger = log.New(io.Discard)
		}
		return nil
	},
}
