package solver

import (
	"math/bits"

	"github.com/go-air/gini"
	"github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/operator-framework/subsetsum/pkg/subsetsum"
)

const satisfiable = 1

// adder builds fixed width two's complement arithmetic in a circuit.
type adder struct {
	c     *logic.C
	width int
}

// constant returns the bits of v, least significant first.
func (a adder) constant(v int64) []z.Lit {
	out := make([]z.Lit, a.width)
	for b := range out {
		out[b] = a.c.F
		if uint64(v)>>uint(b)&1 == 1 {
			out[b] = a.c.T
		}
	}
	return out
}

// gated returns the bits of v where set bits follow the literal m.
func (a adder) gated(v int64, m z.Lit) []z.Lit {
	out := make([]z.Lit, a.width)
	for b := range out {
		out[b] = a.c.F
		if uint64(v)>>uint(b)&1 == 1 {
			out[b] = m
		}
	}
	return out
}

// add is a ripple-carry adder; the final carry is discarded.
func (a adder) add(x, y []z.Lit) []z.Lit {
	out := make([]z.Lit, a.width)
	carry := a.c.F
	for b := range out {
		half := a.c.Xor(x[b], y[b])
		out[b] = a.c.Xor(half, carry)
		carry = a.c.Or(a.c.And(x[b], y[b]), a.c.And(carry, half))
	}
	return out
}

// biased flips the sign bit so signed order becomes unsigned order.
func (a adder) biased(x []z.Lit) []z.Lit {
	out := append([]z.Lit(nil), x...)
	out[a.width-1] = out[a.width-1].Not()
	return out
}

func (a adder) biasedConst(v int64) uint64 {
	mask := uint64(1)<<uint(a.width) - 1
	return (uint64(v) & mask) ^ uint64(1)<<uint(a.width-1)
}

// atLeast is true when the unsigned value of x is >= k.
func (a adder) atLeast(x []z.Lit, k uint64) z.Lit {
	ge := a.c.T
	for b := 0; b < a.width; b++ {
		if k>>uint(b)&1 == 1 {
			ge = a.c.And(x[b], ge)
		} else {
			ge = a.c.Or(x[b], ge)
		}
	}
	return ge
}

// atMost is true when the unsigned value of x is <= k.
func (a adder) atMost(x []z.Lit, k uint64) z.Lit {
	le := a.c.T
	for b := 0; b < a.width; b++ {
		if k>>uint(b)&1 == 1 {
			le = a.c.Or(x[b].Not(), le)
		} else {
			le = a.c.And(x[b].Not(), le)
		}
	}
	return le
}

// satSearch encodes the problem as a circuit: one literal per element,
// an adder summing the selected values and a range check against the
// window. Models are enumerated with blocking clauses.
func satSearch(p subsetsum.Problem, c *collector) error {
	neg, pos := bounds(p.Numbers)
	window := p.Window()
	lo, hi := max(window.Lo, neg), min(window.Hi, pos)
	if lo > hi {
		return nil
	}

	magnitude := max(pos, -neg, abs(lo), abs(hi))
	a := adder{c: logic.NewC(), width: bits.Len64(uint64(magnitude)) + 2}

	xs := make([]z.Lit, len(p.Numbers))
	sum := a.constant(0)
	for i, v := range p.Numbers {
		xs[i] = a.c.Lit()
		if v != 0 {
			sum = a.add(sum, a.gated(v, xs[i]))
		}
	}
	biased := a.biased(sum)
	root := a.c.And(a.atLeast(biased, a.biasedConst(lo)), a.atMost(biased, a.biasedConst(hi)))

	g := gini.New()
	a.c.ToCnf(g)
	g.Add(root)
	g.Add(0)
	// make every element variable known to the solver, even when the
	// circuit folded it away
	for _, m := range xs {
		g.Add(m)
		g.Add(m.Not())
		g.Add(0)
	}

	var found []subsetsum.Solution
	for g.Solve() == satisfiable {
		s := subsetsum.Solution{}
		block := make([]z.Lit, len(xs))
		for i, m := range xs {
			block[i] = m
			if g.Value(m) {
				s = append(s, i)
				block[i] = m.Not()
			}
		}
		found = append(found, s)
		if !p.FindAll {
			break
		}
		for _, m := range block {
			g.Add(m)
		}
		g.Add(0)
	}
	c.flush(found)
	return nil
}
