package solver

import (
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/operator-framework/subsetsum/pkg/subsetsum"
)

const (
	// maxTaskDepth caps the prefix length used to cut the search tree
	// into parallel tasks.
	maxTaskDepth = 10
	// checkEvery is the number of nodes visited between looks at the
	// shared found flag.
	checkEvery = 1024
)

// node is a point in the include/exclude tree. path holds the original
// indices included so far and is never mutated once built.
type node struct {
	depth int
	sum   int64
	path  []int
	// test is set on task roots and on nodes reached by including an
	// element, so every subset is tested exactly once.
	test bool
}

// plan is the input of a branch-and-bound search, reordered by
// decreasing magnitude.
type plan struct {
	values []int64
	index  []int
	// posRem[d] and negRem[d] are the sums of the positive and negative
	// values at depth d and below.
	posRem []int64
	negRem []int64
	window subsetsum.Window
}

func newPlan(p subsetsum.Problem) *plan {
	n := len(p.Numbers)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return abs(p.Numbers[order[a]]) > abs(p.Numbers[order[b]])
	})

	pl := &plan{
		values: make([]int64, n),
		index:  order,
		posRem: make([]int64, n+1),
		negRem: make([]int64, n+1),
		window: p.Window(),
	}
	for d, i := range order {
		pl.values[d] = p.Numbers[i]
	}
	for d := n - 1; d >= 0; d-- {
		v := pl.values[d]
		pl.posRem[d] = pl.posRem[d+1] + max(v, 0)
		pl.negRem[d] = pl.negRem[d+1] + min(v, 0)
	}
	return pl
}

// prune reports whether no completion of a node at depth with the given
// sum can reach the window.
func (pl *plan) prune(depth int, sum int64) bool {
	return sum+pl.posRem[depth] < pl.window.Lo || sum+pl.negRem[depth] > pl.window.Hi
}

func (pl *plan) children(nd node) (exclude, include node) {
	exclude = node{depth: nd.depth + 1, sum: nd.sum, path: nd.path}
	include = node{
		depth: nd.depth + 1,
		sum:   nd.sum + pl.values[nd.depth],
		path:  append(nd.path[:len(nd.path):len(nd.path)], pl.index[nd.depth]),
		test:  true,
	}
	return exclude, include
}

// tasks expands every include/exclude prefix of the given depth into a
// task root, dropping prefixes that cannot reach the window.
func (pl *plan) tasks(depth int) []node {
	nodes := []node{{}}
	for d := 0; d < depth; d++ {
		next := make([]node, 0, 2*len(nodes))
		for _, nd := range nodes {
			if pl.prune(d, nd.sum) {
				continue
			}
			exclude, include := pl.children(nd)
			next = append(next, exclude, include)
		}
		nodes = next
	}
	tasks := nodes[:0]
	for _, nd := range nodes {
		if pl.prune(depth, nd.sum) {
			continue
		}
		nd.test = true
		tasks = append(tasks, nd)
	}
	return tasks
}

// search walks the subtree under root depth first, exclude before
// include, with an explicit stack.
func (pl *plan) search(root node, findAll bool, c *collector) []subsetsum.Solution {
	var local []subsetsum.Solution
	stack := []node{root}
	for steps := 0; len(stack) > 0; steps++ {
		if steps%checkEvery == 0 && c.done() {
			break
		}
		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if nd.test && pl.window.Contains(nd.sum) {
			local = append(local, append(subsetsum.Solution{}, nd.path...))
			if !findAll {
				c.mark()
				break
			}
		}
		if nd.depth == len(pl.values) || pl.prune(nd.depth, nd.sum) {
			continue
		}
		exclude, include := pl.children(nd)
		stack = append(stack, include, exclude)
	}
	return local
}

func taskDepth(n int) int {
	return min((n+3)/4, maxTaskDepth)
}

// branchBound explores the include/exclude tree over the elements
// sorted by decreasing magnitude, pruning with suffix bounds. The tree
// is cut at a fixed prefix depth and the resulting tasks are run by a
// bounded set of workers.
func branchBound(p subsetsum.Problem, workers int, c *collector) error {
	pl := newPlan(p)

	var g errgroup.Group
	g.SetLimit(workers)
	for _, t := range pl.tasks(taskDepth(len(p.Numbers))) {
		if c.done() {
			break
		}
		g.Go(func() error {
			if c.done() {
				return nil
			}
			c.flush(pl.search(t, p.FindAll, c))
			return nil
		})
	}
	return g.Wait()
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
