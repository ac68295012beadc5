package solver

import (
	"math/bits"
)

// span is a half-open range of subset masks.
type span struct {
	lo, hi uint64
}

// split divides [0, total) into at most parts contiguous spans of
// near equal size.
func split(total uint64, parts int) []span {
	if parts < 1 {
		parts = 1
	}
	if uint64(parts) > total {
		parts = int(total)
	}
	spans := make([]span, 0, parts)
	if parts == 0 {
		return spans
	}
	size, rem := total/uint64(parts), total%uint64(parts)
	var lo uint64
	for i := 0; i < parts; i++ {
		n := size
		if uint64(i) < rem {
			n++
		}
		spans = append(spans, span{lo: lo, hi: lo + n})
		lo += n
	}
	return spans
}

func maskSum(values []int64, mask uint64) int64 {
	var sum int64
	for m := mask; m != 0; m &= m - 1 {
		sum += values[bits.TrailingZeros64(m)]
	}
	return sum
}

// maskIndices appends the positions of the set bits of mask, shifted by
// offset, to dst.
func maskIndices(dst []int, mask uint64, offset int) []int {
	for m := mask; m != 0; m &= m - 1 {
		dst = append(dst, bits.TrailingZeros64(m)+offset)
	}
	return dst
}
