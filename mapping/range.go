package mapping

import (
	"errors"
	"fmt"

	"github.com/bearlytools/binfield/internal/bits"
)

var (
	// ErrRange indicates a negative, inverted or otherwise malformed bit range.
	ErrRange = errors.New("invalid bit range")
	// ErrSchema indicates a schema whose declared sizes, masks or field
	// ranges cannot be resolved into a consistent descriptor.
	ErrSchema = errors.New("invalid schema")
)

// Range is a half-open bit interval [Start, End). Index 0 is the least
// significant bit. A zero Range is not valid; construct through NewRange
// or SingleBit.
type Range struct {
	Start uint64
	End   uint64 // exclusive
}

// NewRange builds the canonical half-open range for a (start, end) pair.
// Negative or inverted pairs fail with ErrRange. There is no "from the end"
// indexing: negative indexes are rejected, not wrapped.
func NewRange(start, end int) (Range, error) {
	if start < 0 || end < 0 {
		return Range{}, fmt.Errorf("%w: (%d, %d) is negative", ErrRange, start, end)
	}
	if end <= start {
		return Range{}, fmt.Errorf("%w: (%d, %d) is inverted or empty", ErrRange, start, end)
	}
	return Range{Start: uint64(start), End: uint64(end)}, nil
}

// SingleBit builds the width-1 range for bit i.
func SingleBit(i int) (Range, error) {
	if i < 0 {
		return Range{}, fmt.Errorf("%w: bit index %d is negative", ErrRange, i)
	}
	return Range{Start: uint64(i), End: uint64(i) + 1}, nil
}

// Width returns the number of bits the range covers.
func (r Range) Width() uint64 {
	return r.End - r.Start
}

// Mask returns the positioned mask covering the range.
func (r Range) Mask() uint64 {
	return bits.Mask[uint64](r.Start, r.End)
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// validate rejects ranges this package cannot represent. The 64-bit ceiling
// comes from the container value type.
func (r Range) validate() error {
	if r.End <= r.Start {
		return fmt.Errorf("%w: %v is inverted or empty", ErrRange, r)
	}
	if r.End > 64 {
		return fmt.Errorf("%w: %v exceeds the 64 bit limit", ErrSchema, r)
	}
	return nil
}
