// Package buf holds overflow-checked size arithmetic shared by the store and
// the arenas.
package buf

import (
	"fmt"
	"math"
)

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow int.
func AddOverflowSafe(a, b int) (int, bool) {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return 0, false
	case b < 0 && a < math.MinInt-b:
		return 0, false
	default:
		return a + b, true
	}
}

// MulOverflowSafe multiplies two non-negative ints, returning ok = false when
// the result would overflow or either operand is negative.
func MulOverflowSafe(a, b int) (int, bool) {
	if a < 0 || b < 0 {
		return 0, false
	}
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt/b {
		return 0, false
	}
	return a * b, true
}

// GrowCapacity returns capacity multiplied by ratio.
//
//	next, err := buf.GrowCapacity(8, 2) // 16
func GrowCapacity(capacity, ratio int) (int, error) {
	if capacity < 1 || ratio < 2 {
		return 0, fmt.Errorf("grow: capacity=%d ratio=%d", capacity, ratio)
	}
	next, ok := MulOverflowSafe(capacity, ratio)
	if !ok {
		return 0, fmt.Errorf("overflow: capacity=%d * ratio=%d", capacity, ratio)
	}
	return next, nil
}

// AlignUp rounds n up to the next multiple of align. align must be a power of two.
func AlignUp(n, align int) (int, bool) {
	if n < 0 || align <= 0 || align&(align-1) != 0 {
		return 0, false
	}
	sum, ok := AddOverflowSafe(n, align-1)
	if !ok {
		return 0, false
	}
	return sum &^ (align - 1), true
}

// Slice returns the sub-slice [off:off+n] if it fits within len(b).
func Slice(b []byte, off, n int) ([]byte, bool) {
	if off < 0 || n < 0 || off > len(b) {
		return nil, false
	}
	end, ok := AddOverflowSafe(off, n)
	if !ok || end > len(b) {
		return nil, false
	}
	return b[off:end], true
}

// Has reports whether b[off:off+n] is within bounds.
func Has(b []byte, off, n int) bool {
	_, ok := Slice(b, off, n)
	return ok
}
