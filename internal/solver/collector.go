package solver

import (
	"sync"
	"sync/atomic"

	"github.com/operator-framework/subsetsum/pkg/subsetsum"
)

// collector gathers the solutions of one solve. Workers keep private
// buffers and hand them over once with flush; the found flag is
// advisory and only lets workers stop early when a single solution is
// wanted.
type collector struct {
	findAll bool
	found   atomic.Bool

	mu      sync.Mutex
	buffers [][]subsetsum.Solution
}

func newCollector(findAll bool) *collector {
	return &collector{findAll: findAll}
}

// done reports whether workers may stop searching.
func (c *collector) done() bool {
	return !c.findAll && c.found.Load()
}

// mark records that some worker has found a solution.
func (c *collector) mark() {
	if !c.findAll {
		c.found.Store(true)
	}
}

func (c *collector) flush(local []subsetsum.Solution) {
	if len(local) == 0 {
		return
	}
	c.mark()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buffers = append(c.buffers, local)
}

// results merges the worker buffers. Without findAll at most one
// solution survives, and truncated reports whether any were dropped.
func (c *collector) results() (subsetsum.ResultSet, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total int
	for _, b := range c.buffers {
		total += len(b)
	}
	result := make(subsetsum.ResultSet, 0, total)
	for _, b := range c.buffers {
		for _, s := range b {
			result = append(result, s.Normalize())
		}
	}
	if !c.findAll && len(result) > 1 {
		return result[:1], true
	}
	return result, false
}
