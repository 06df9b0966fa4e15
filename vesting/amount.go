package vesting

import (
	"math"
	"math/bits"
)

// Saturating uint64 arithmetic. The accounting never wraps: additions clamp
// at the maximum representable amount and subtractions clamp at zero, which
// is also what keeps the derived quantities well-defined when the floating
// point decay factor lands a hair off an exact boundary.

// addSat returns a+b, clamping at the maximum uint64 value.
func addSat(a, b uint64) uint64 {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return math.MaxUint64
	}
	return sum
}

// subSat returns a−b, clamping at zero.
func subSat(a, b uint64) uint64 {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0
	}
	return diff
}
