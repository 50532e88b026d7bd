package regtext

import (
	"context"
	"testing"
)

// FuzzParse fuzzes the schema document parser.
func FuzzParse(f *testing.F) {
	// Seed with valid inputs
	f.Add("bitfield Flags {\n\tRead: 0\n}")
	f.Add("bitfield Control [size(16)] {\n\tEnable: 0\n\tMode: 1..3\n}")
	f.Add("bitfield Sparse [size(8), mask(0b1011)] {\n\tLow: 0..2\n}")
	f.Add("bitfield Nested {\n\tStatus: 4..12 {\n\t\tReady: 0\n\t}\n}")
	f.Add("// comment\nbitfield X {\n\n\tA: 0x4..0x8\n}")

	// Seed with edge cases and malformed inputs
	f.Add("")
	f.Add("// comment only")
	f.Add("bitfield")
	f.Add("bitfield {")
	f.Add("bitfield X {")
	f.Add("bitfield X {\n}")
	f.Add("bitfield X [size(] {\n}")
	f.Add("bitfield X [] {\nA: 0\n}")
	f.Add("bitfield X {\nA:\n}")
	f.Add("bitfield X {\nA: -1..4\n}")
	f.Add("bitfield X {\nA: 4..1\n}")
	f.Add("bitfield X {\nA: 99999999999999999999\n}")
	f.Add("bitfield X {\nA: 0..4 {\n}")
	f.Add("}")
	f.Add("bitfield X {\nA: 0\n}\n}")

	f.Fuzz(func(t *testing.T, input string) {
		// The parser must not panic on any input. A returned descriptor
		// must hold the size/mask invariant.
		m, err := Parse(context.Background(), input)
		if err != nil {
			return
		}
		if m.Size() == 0 || m.Size() > 64 {
			t.Fatalf("FuzzParse: size %d out of range for input %q", m.Size(), input)
		}
		if m.Mask() == 0 || m.Mask()>>(m.Size()-1)>>1 != 0 {
			t.Fatalf("FuzzParse: mask 0x%X does not fit size %d for input %q", m.Mask(), m.Size(), input)
		}
	})
}
