package solver

import (
	"cmp"
	"math/bits"
	"slices"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/operator-framework/subsetsum/pkg/subsetsum"
)

// halfSum is one subset of a half: its sum and the mask selecting it.
type halfSum struct {
	sum  int64
	mask uint64
}

// halfSums enumerates all subsets of values. Entry i is the subset
// selected by mask i.
func halfSums(values []int64) []halfSum {
	out := make([]halfSum, 1<<len(values))
	for mask := 1; mask < len(out); mask++ {
		low := bits.TrailingZeros64(uint64(mask))
		out[mask] = halfSum{
			sum:  out[mask&(mask-1)].sum + values[low],
			mask: uint64(mask),
		}
	}
	return out
}

// meetMiddle splits the input in two halves, sorts the subset sums of
// the second one and looks up complements for every subset of the
// first. First-half masks are shared out between workers.
func meetMiddle(p subsetsum.Problem, workers int, c *collector) error {
	n := len(p.Numbers)
	switch n {
	case 0:
		return nil
	case 1:
		// only the element itself is tested
		if p.Matches(p.Numbers[0]) {
			c.flush([]subsetsum.Solution{{0}})
		}
		return nil
	}

	mid := n / 2
	left, right := p.Numbers[:mid], p.Numbers[mid:]
	sums := halfSums(right)
	slices.SortFunc(sums, func(a, b halfSum) int {
		return cmp.Compare(a.sum, b.sum)
	})
	window := p.Window()

	var g errgroup.Group
	for _, s := range split(uint64(1)<<len(left), workers) {
		g.Go(func() error {
			var local []subsetsum.Solution
		scan:
			for mask := s.lo; mask < s.hi; mask++ {
				if c.done() {
					break
				}
				sum := maskSum(left, mask)
				lo, hi := window.Lo-sum, window.Hi-sum
				j := sort.Search(len(sums), func(i int) bool {
					return sums[i].sum >= lo
				})
				for ; j < len(sums) && sums[j].sum <= hi; j++ {
					sol := maskIndices(subsetsum.Solution{}, mask, 0)
					local = append(local, maskIndices(sol, sums[j].mask, mid))
					if !p.FindAll {
						c.mark()
						break scan
					}
				}
			}
			c.flush(local)
			return nil
		})
	}
	return g.Wait()
}
