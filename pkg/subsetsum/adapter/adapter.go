// Package adapter exposes the solver to callers that work with decimal
// values and flat integer buffers.
package adapter

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/operator-framework/subsetsum/pkg/subsetsum"
	"github.com/operator-framework/subsetsum/pkg/subsetsum/solver"
)

// DefaultScale converts decimal values with two fractional digits to
// integers without loss.
const DefaultScale = 100

// Status codes reported to callers that cannot receive Go errors.
const (
	StatusOK               = 0
	StatusInvalidInput     = -1
	StatusInvalidAlgorithm = -2
)

var (
	ErrPoolInitialized = errors.New("worker pool already initialized")
	ErrInvalidScale    = errors.New("scale must be positive")
)

// StatusError carries a status code alongside the underlying error.
type StatusError struct {
	Code int
	Err  error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.Code, e.Err)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// ToFixed scales v and rounds it to the nearest integer.
func ToFixed(v float64, scale int64) (int64, error) {
	if scale <= 0 {
		return 0, ErrInvalidScale
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("value %v is not finite", v)
	}
	scaled := math.Round(v * float64(scale))
	if scaled > math.MaxInt64/2 || scaled < math.MinInt64/2 {
		return 0, fmt.Errorf("value %v out of range at scale %d", v, scale)
	}
	return int64(scaled), nil
}

// FromFixed reverses ToFixed.
func FromFixed(v int64, scale int64) float64 {
	return float64(v) / float64(scale)
}

// ToFixedAll scales every value of vs.
func ToFixedAll(vs []float64, scale int64) ([]int64, error) {
	out := make([]int64, len(vs))
	for i, v := range vs {
		f, err := ToFixed(v, scale)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		out[i] = f
	}
	return out, nil
}

// Flat is a ResultSet as three integer buffers: Cols[i] is the length of
// solution i and Data holds all solutions back to back.
type Flat struct {
	Rows int      `json:"rows"`
	Cols []uint32 `json:"cols"`
	Data []uint32 `json:"data"`
}

func Flatten(r subsetsum.ResultSet) Flat {
	f := Flat{Rows: len(r), Cols: make([]uint32, len(r))}
	for i, s := range r {
		f.Cols[i] = uint32(len(s))
		for _, idx := range s {
			f.Data = append(f.Data, uint32(idx))
		}
	}
	return f
}

// Unflatten reverses Flatten.
func Unflatten(f Flat) (subsetsum.ResultSet, error) {
	if f.Rows != len(f.Cols) {
		return nil, fmt.Errorf("rows %d does not match %d column counts", f.Rows, len(f.Cols))
	}
	r := make(subsetsum.ResultSet, 0, f.Rows)
	var at int
	for _, n := range f.Cols {
		end := at + int(n)
		if end > len(f.Data) {
			return nil, fmt.Errorf("data holds %d indices, need %d", len(f.Data), end)
		}
		s := subsetsum.Solution{}
		for _, idx := range f.Data[at:end] {
			s = append(s, int(idx))
		}
		r = append(r, s)
		at = end
	}
	return r, nil
}

// NumCPU returns the number of logical CPUs usable by the process.
func NumCPU() int {
	return runtime.NumCPU()
}

// Pool holds the worker count used by Solve. The size may be set once,
// before the first solve; afterwards it is fixed.
type Pool struct {
	mu          sync.Mutex
	size        int
	initialized bool
	solver      *solver.Solver
}

// SetSize fixes the number of workers. It fails once the pool has been
// initialized, either by an earlier SetSize or by a solve.
func (p *Pool) SetSize(n int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return ErrPoolInitialized
	}
	s, err := solver.New(solver.WithWorkers(n))
	if err != nil {
		return err
	}
	p.size, p.solver, p.initialized = n, s, true
	return nil
}

// Size returns the configured worker count, or the CPU count when
// nothing was configured.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.initialized {
		return p.size
	}
	return NumCPU()
}

// Solver returns the pool's solver, initializing the pool with one
// worker per CPU if needed.
func (p *Pool) Solver() (*solver.Solver, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		s, err := solver.New(solver.WithWorkers(NumCPU()))
		if err != nil {
			return nil, err
		}
		p.size, p.solver, p.initialized = NumCPU(), s, true
	}
	return p.solver, nil
}

// Request is a decimal subset sum query.
type Request struct {
	Numbers   []float64
	Target    float64
	Tolerance float64
	FindAll   bool
	Algorithm string
	// Scale defaults to DefaultScale.
	Scale int64
}

// Problem converts r to a fixed-point Problem.
func (r Request) Problem() (subsetsum.Problem, error) {
	scale := r.Scale
	if scale == 0 {
		scale = DefaultScale
	}
	numbers, err := ToFixedAll(r.Numbers, scale)
	if err != nil {
		return subsetsum.Problem{}, err
	}
	target, err := ToFixed(r.Target, scale)
	if err != nil {
		return subsetsum.Problem{}, fmt.Errorf("target: %w", err)
	}
	tolerance, err := ToFixed(r.Tolerance, scale)
	if err != nil {
		return subsetsum.Problem{}, fmt.Errorf("tolerance: %w", err)
	}
	p := subsetsum.Problem{Numbers: numbers, Target: target, Tolerance: tolerance, FindAll: r.FindAll}
	return p, p.Validate()
}

// Solve scales r, runs it on the pool's solver and returns the flat
// encoding of the result. Errors are *StatusError values.
func Solve(ctx context.Context, pool *Pool, r Request) (Flat, error) {
	if !validAlgorithmName(r.Algorithm) {
		return Flat{}, &StatusError{Code: StatusInvalidAlgorithm, Err: fmt.Errorf("algorithm name %q is not printable", r.Algorithm)}
	}
	p, err := r.Problem()
	if err != nil {
		return Flat{}, &StatusError{Code: StatusInvalidInput, Err: err}
	}
	s, err := pool.Solver()
	if err != nil {
		return Flat{}, &StatusError{Code: StatusInvalidInput, Err: err}
	}
	result, err := s.Solve(ctx, p, subsetsum.ParseAlgorithm(r.Algorithm))
	if err != nil {
		return Flat{}, &StatusError{Code: StatusInvalidInput, Err: err}
	}
	return Flatten(result), nil
}

// validAlgorithmName rejects names that are not valid UTF-8 text. Any
// readable name is accepted; unknown ones select auto.
func validAlgorithmName(name string) bool {
	return utf8.ValidString(name) && !strings.ContainsRune(name, 0)
}
