package solver

import (
	"golang.org/x/sync/errgroup"

	"github.com/operator-framework/subsetsum/pkg/subsetsum"
)

// bitEnum tests every subset mask of p.Numbers. The mask space is cut
// into one contiguous span per worker.
func bitEnum(p subsetsum.Problem, workers int, c *collector) error {
	total := uint64(1) << len(p.Numbers)

	var g errgroup.Group
	for _, s := range split(total, workers) {
		g.Go(func() error {
			var local []subsetsum.Solution
			for mask := s.lo; mask < s.hi; mask++ {
				if c.done() {
					break
				}
				if !p.Matches(maskSum(p.Numbers, mask)) {
					continue
				}
				local = append(local, maskIndices(subsetsum.Solution{}, mask, 0))
				if !p.FindAll {
					c.mark()
					break
				}
			}
			c.flush(local)
			return nil
		})
	}
	return g.Wait()
}
