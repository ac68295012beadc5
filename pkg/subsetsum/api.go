package subsetsum

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNegativeTolerance is returned for problems whose tolerance is below zero.
var ErrNegativeTolerance = errors.New("tolerance must not be negative")

// Algorithm names one of the search strategies understood by the engine.
type Algorithm string

const (
	BitEnum     Algorithm = "bit_enum"
	MeetMiddle  Algorithm = "meet_middle"
	DP          Algorithm = "dp"
	BranchBound Algorithm = "branch_bound"
	SAT         Algorithm = "sat"
	Auto        Algorithm = "auto"
)

// Algorithms lists every strategy name accepted by ParseAlgorithm.
var Algorithms = []Algorithm{Auto, BitEnum, MeetMiddle, DP, BranchBound, SAT}

func (a Algorithm) String() string {
	return string(a)
}

// ParseAlgorithm returns the Algorithm named by s. Unrecognised names
// select Auto.
func ParseAlgorithm(s string) Algorithm {
	name := Algorithm(strings.ToLower(strings.TrimSpace(s)))
	for _, a := range Algorithms {
		if a == name {
			return a
		}
	}
	return Auto
}

// Problem is a single subset sum query over fixed-point integers.
type Problem struct {
	Numbers   []int64
	Target    int64
	Tolerance int64
	// FindAll requests every matching subset instead of at most one.
	FindAll bool
}

// Validate reports whether the problem can be handed to a solver.
func (p Problem) Validate() error {
	if p.Tolerance < 0 {
		return fmt.Errorf("%w: got %d", ErrNegativeTolerance, p.Tolerance)
	}
	return nil
}

// Window returns the inclusive range of accepted subset sums.
func (p Problem) Window() Window {
	return Window{Lo: p.Target - p.Tolerance, Hi: p.Target + p.Tolerance}
}

// Matches reports whether sum is an accepted subset sum for p.
func (p Problem) Matches(sum int64) bool {
	if p.Tolerance == 0 {
		return sum == p.Target
	}
	d := sum - p.Target
	if d < 0 {
		d = -d
	}
	return d <= p.Tolerance
}

// Window is an inclusive range of subset sums.
type Window struct {
	Lo, Hi int64
}

func (w Window) Contains(sum int64) bool {
	return w.Lo <= sum && sum <= w.Hi
}

// Solution holds the indices of the selected elements of a Problem.
type Solution []int

// Sum returns the sum of the elements of numbers selected by s.
func (s Solution) Sum(numbers []int64) int64 {
	var total int64
	for _, i := range s {
		total += numbers[i]
	}
	return total
}

// Normalize sorts the indices of s in ascending order.
func (s Solution) Normalize() Solution {
	sort.Ints(s)
	return s
}

func (s Solution) String() string {
	parts := make([]string, len(s))
	for i, idx := range s {
		parts[i] = fmt.Sprint(idx)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// ResultSet is the collection of Solutions produced by a single solve.
// Order among Solutions carries no meaning.
type ResultSet []Solution

// Sums returns the subset sum of each Solution in r.
func (r ResultSet) Sums(numbers []int64) []int64 {
	sums := make([]int64, len(r))
	for i, s := range r {
		sums[i] = s.Sum(numbers)
	}
	return sums
}

// DPMode selects the dynamic-programming design used by the DP strategy.
type DPMode string

const (
	// DPTable builds offset reachability layers and backtracks through them.
	DPTable DPMode = "table"
	// DPMemo runs a memoised include/exclude recursion.
	DPMemo DPMode = "memo"
)
