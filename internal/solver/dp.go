package solver

import (
	"github.com/bits-and-blooms/bitset"
	"golang.org/x/sync/errgroup"

	"github.com/operator-framework/subsetsum/pkg/subsetsum"
)

// bounds returns the sum of the negative and of the positive values.
func bounds(values []int64) (neg, pos int64) {
	for _, v := range values {
		if v < 0 {
			neg += v
		} else {
			pos += v
		}
	}
	return neg, pos
}

// reach records which sums are reachable by subsets of every prefix of
// the input. Sums are stored shifted by offset so the most negative
// reachable sum lands on bit 0.
type reach struct {
	values []int64
	layers []*bitset.BitSet
	offset int64
	width  int64
}

func newReach(values []int64) *reach {
	neg, pos := bounds(values)
	r := &reach{
		values: values,
		layers: make([]*bitset.BitSet, len(values)+1),
		offset: -neg,
		width:  pos - neg + 1,
	}

	first := bitset.New(uint(r.width))
	first.Set(uint(r.offset))
	r.layers[0] = first
	for i, v := range values {
		prev := r.layers[i]
		shifted := prev.Clone()
		switch {
		case v > 0:
			shifted.ShiftLeft(uint(v))
		case v < 0:
			shifted.ShiftRight(uint(-v))
		}
		next := prev.Clone()
		next.InPlaceUnion(shifted)
		r.layers[i+1] = next
	}
	return r
}

// has reports whether sum is reachable using the first i values.
func (r *reach) has(i int, sum int64) bool {
	bit := sum + r.offset
	if bit < 0 || bit >= r.width {
		return false
	}
	return r.layers[i].Test(uint(bit))
}

// sums returns the reachable sums of the whole input inside w, ascending.
func (r *reach) sums(w subsetsum.Window) []int64 {
	lo, hi := max(w.Lo+r.offset, 0), min(w.Hi+r.offset, r.width-1)
	if lo > hi {
		return nil
	}
	var out []int64
	last := r.layers[len(r.values)]
	for bit, ok := last.NextSet(uint(lo)); ok && int64(bit) <= hi; bit, ok = last.NextSet(bit + 1) {
		out = append(out, int64(bit)-r.offset)
	}
	return out
}

// walk emits every index set of the first i values summing to sum,
// given that sum is reachable. It stops as soon as emit returns false.
func (r *reach) walk(i int, sum int64, path []int, emit func(subsetsum.Solution) bool) bool {
	if i == 0 {
		return emit(append(subsetsum.Solution{}, path...))
	}
	v := r.values[i-1]
	if r.has(i-1, sum) {
		if !r.walk(i-1, sum, path, emit) {
			return false
		}
	}
	if r.has(i-1, sum-v) {
		return r.walk(i-1, sum-v, append(path, i-1), emit)
	}
	return true
}

// dpTable builds the reachability layers and recovers solutions by
// backtracking from every reachable sum in the window. Sums are
// backtracked in parallel when all solutions are wanted.
func dpTable(p subsetsum.Problem, workers int, c *collector) error {
	r := newReach(p.Numbers)
	targets := r.sums(p.Window())

	if !p.FindAll {
		if len(targets) == 0 {
			return nil
		}
		var found []subsetsum.Solution
		r.walk(len(p.Numbers), targets[0], nil, func(s subsetsum.Solution) bool {
			found = append(found, s)
			return false
		})
		c.flush(found)
		return nil
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for _, t := range targets {
		g.Go(func() error {
			var local []subsetsum.Solution
			r.walk(len(p.Numbers), t, nil, func(s subsetsum.Solution) bool {
				local = append(local, s)
				return true
			})
			c.flush(local)
			return nil
		})
	}
	return g.Wait()
}
