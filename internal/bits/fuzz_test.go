package bits

import (
	"testing"
)

// FuzzMergeExtract fuzzes the Merge/Extract round-trip.
func FuzzMergeExtract(f *testing.F) {
	// (store, value, start, end)
	f.Add(uint64(0), uint64(0), uint64(0), uint64(8))
	f.Add(uint64(0), uint64(255), uint64(0), uint64(8))
	f.Add(uint64(0xFF), uint64(15), uint64(4), uint64(8))
	f.Add(^uint64(0), uint64(1), uint64(63), uint64(64))
	f.Add(uint64(0xDEADBEEF), uint64(0xF), uint64(28), uint64(32))

	f.Fuzz(func(t *testing.T, store, val, start, end uint64) {
		if start >= end || end > 64 {
			return
		}
		width := end - start
		val &= WidthMask(width)

		merged := Merge(store, val, start, end)

		if got := Extract(merged, start, end); got != val {
			t.Errorf("FuzzMergeExtract: round-trip failed: got %d, want %d (start=%d, end=%d)", got, val, start, end)
		}

		// Bits outside the window must be untouched.
		outside := ^(WidthMask(width) << start)
		if merged&outside != store&outside {
			t.Errorf("FuzzMergeExtract: bits outside [%d, %d) disturbed: got %x, want %x", start, end, merged&outside, store&outside)
		}

		// Idempotence.
		if again := Merge(merged, val, start, end); again != merged {
			t.Errorf("FuzzMergeExtract: merge not idempotent: got %x, want %x", again, merged)
		}
	})
}

// FuzzMask fuzzes the Mask function.
func FuzzMask(f *testing.F) {
	f.Add(uint64(0), uint64(8))
	f.Add(uint64(0), uint64(1))
	f.Add(uint64(4), uint64(8))
	f.Add(uint64(0), uint64(64))
	f.Add(uint64(32), uint64(64))

	f.Fuzz(func(t *testing.T, start, end uint64) {
		if start >= end || end > 64 {
			return
		}

		mask := Mask[uint64](start, end)

		for i := uint64(0); i < 64; i++ {
			bitSet := mask&(1<<i) != 0
			shouldBeSet := i >= start && i < end
			if bitSet != shouldBeSet {
				t.Errorf("FuzzMask: bit %d: got %v, want %v (start=%d, end=%d)", i, bitSet, shouldBeSet, start, end)
			}
		}
	})
}
