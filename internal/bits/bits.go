// Package bits provides the mask and merge primitives used to carve bit
// windows out of unsigned values. This is not a replacement for math/bits.
//
// All ranges are half-open: [start, end). Index 0 is the least significant
// bit. Callers are expected to validate ranges before calling in; out-of-range
// arguments panic.
package bits

import (
	"fmt"
	stdbits "math/bits"

	"golang.org/x/exp/constraints"
)

// WidthMask returns a mask with the low "width" bits set. width must be
// in [0, 64]; WidthMask(0) is 0.
func WidthMask(width uint64) uint64 {
	if width > 64 {
		panic(fmt.Sprintf("width %d exceeds 64", width))
	}
	if width == 64 {
		// Avoid shifting by 64 (illegal in Go).
		return ^uint64(0)
	}
	return uint64(1)<<width - 1
}

// Mask creates a mask covering bits start (inclusive) to end (exclusive).
// So Mask(1, 4) covers bits 1 to 3. If start >= end or end > 64, this panics.
func Mask[U constraints.Unsigned](start, end uint64) U {
	if start >= end {
		panic("start cannot be >= end")
	}
	if end > 64 {
		panic(fmt.Sprintf("end %d exceeds width 64", end))
	}
	return U(WidthMask(end-start) << start)
}

// Extract retrieves the bits of "store" in [start, end), shifted down to
// position 0.
func Extract[U constraints.Unsigned](store U, start, end uint64) U {
	m := Mask[U](start, end)
	return (store & m) >> start
}

// Clear clears all bits of "store" in [start, end). A degenerate range
// clears nothing.
func Clear[U constraints.Unsigned](store U, start, end uint64) U {
	if start >= end {
		return store
	}
	return store &^ Mask[U](start, end)
}

// Merge stores "val" in "store" at [start, end): the existing bits in the
// window are cleared, then val (masked to the window width) is OR'd in
// shifted into position. Bits outside the window are untouched.
func Merge[U constraints.Unsigned](store U, val U, start, end uint64) U {
	store = Clear(store, start, end)
	val &= U(WidthMask(end - start))
	return store | val<<start
}

// Len returns the number of bits needed to represent v; Len(0) is 0.
func Len(v uint64) uint64 {
	return uint64(stdbits.Len64(v))
}

// Fits reports whether v is representable in "size" bits.
func Fits(v, size uint64) bool {
	return Len(v) <= size
}
