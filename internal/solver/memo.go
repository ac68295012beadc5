package solver

import (
	"github.com/operator-framework/subsetsum/pkg/subsetsum"
)

type memoKey struct {
	index     int
	remaining int64
}

type memoSearch struct {
	p      subsetsum.Problem
	posRem []int64
	negRem []int64
	// dead holds states known to have no matching completion.
	dead  map[memoKey]struct{}
	path  []int
	found []subsetsum.Solution
}

// visit explores the completions of index given the remaining distance
// to the target and reports whether any of them matched.
func (m *memoSearch) visit(index int, remaining int64) bool {
	tol := m.p.Tolerance
	if index == len(m.p.Numbers) {
		if abs(remaining) > tol {
			return false
		}
		m.found = append(m.found, append(subsetsum.Solution{}, m.path...))
		return true
	}
	if remaining+tol < m.negRem[index] || remaining-tol > m.posRem[index] {
		return false
	}
	key := memoKey{index: index, remaining: remaining}
	if _, ok := m.dead[key]; ok {
		return false
	}

	m.path = append(m.path, index)
	hit := m.visit(index+1, remaining-m.p.Numbers[index])
	m.path = m.path[:len(m.path)-1]
	if hit && !m.p.FindAll {
		return true
	}
	if m.visit(index+1, remaining) {
		hit = true
	}
	if !hit {
		m.dead[key] = struct{}{}
	}
	return hit
}

// dpMemo is the memoised recursive DP. It runs on the calling goroutine.
func dpMemo(p subsetsum.Problem, c *collector) error {
	n := len(p.Numbers)
	m := &memoSearch{
		p:      p,
		posRem: make([]int64, n+1),
		negRem: make([]int64, n+1),
		dead:   map[memoKey]struct{}{},
	}
	for i := n - 1; i >= 0; i-- {
		v := p.Numbers[i]
		m.posRem[i] = m.posRem[i+1] + max(v, 0)
		m.negRem[i] = m.negRem[i+1] + min(v, 0)
	}
	m.visit(0, p.Target)
	c.flush(m.found)
	return nil
}
