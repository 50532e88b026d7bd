package binfield

import (
	"fmt"

	"github.com/bearlytools/binfield/internal/bits"
)

// Add returns a new detached Field of the same width holding the sum masked
// to that width. The receiver is untouched. For the checked mutating form
// see AddAssign.
func (f *Field) Add(v uint64) *Field {
	return New(f.m, f.Uint()+v)
}

// Sub returns a new detached Field holding the difference. A difference
// below zero fails with ErrValue: containers cannot be negative.
func (f *Field) Sub(v uint64) (*Field, error) {
	cur := f.Uint()
	if v > cur {
		return nil, fmt.Errorf("%w: %d - %d is negative", ErrValue, cur, v)
	}
	return New(f.m, cur-v), nil
}

// And returns a new detached Field holding the bitwise AND.
func (f *Field) And(v uint64) *Field {
	return New(f.m, f.Uint()&v)
}

// Or returns a new detached Field holding the bitwise OR.
func (f *Field) Or(v uint64) *Field {
	return New(f.m, f.Uint()|v)
}

// Xor returns a new detached Field holding the bitwise XOR.
func (f *Field) Xor(v uint64) *Field {
	return New(f.m, f.Uint()^v)
}

// AddAssign adds v in place. Unlike Add it refuses to truncate: a result
// that does not fit the declared width fails with ErrOverflow and leaves
// the value unchanged. On success the write propagates to any parent.
func (f *Field) AddAssign(v uint64) error {
	cur := f.Uint()
	res := cur + v
	if res < cur || !bits.Fits(res, f.m.Size()) {
		return fmt.Errorf("%w: %d + %d does not fit in %d bits", ErrOverflow, cur, v, f.m.Size())
	}
	f.store(res)
	return nil
}

// SubAssign subtracts v in place. A result below zero fails with ErrValue
// and leaves the value unchanged.
func (f *Field) SubAssign(v uint64) error {
	cur := f.Uint()
	if v > cur {
		return fmt.Errorf("%w: %d - %d is negative", ErrValue, cur, v)
	}
	f.store(cur - v)
	return nil
}

// AndAssign applies a bitwise AND in place and propagates.
func (f *Field) AndAssign(v uint64) {
	f.store(f.Uint() & v)
}

// OrAssign applies a bitwise OR in place and propagates.
func (f *Field) OrAssign(v uint64) {
	f.store(f.Uint() | v)
}

// XorAssign applies a bitwise XOR in place and propagates.
func (f *Field) XorAssign(v uint64) {
	f.store(f.Uint() ^ v)
}

// Mul returns the product as a plain integer. A product does not keep the
// field's semantics, so it does not come back as a Field.
func (f *Field) Mul(v uint64) uint64 {
	return f.Uint() * v
}

// Lsh returns the value shifted left as a plain integer.
func (f *Field) Lsh(n uint) uint64 {
	return f.Uint() << n
}

// Rsh returns the value shifted right as a plain integer.
func (f *Field) Rsh(n uint) uint64 {
	return f.Uint() >> n
}

// Cmp orders the container against an integer or another Field by value:
// -1 if f < other, 0 if equal, 1 if f > other. Ordering against anything
// else fails with ErrType.
func (f *Field) Cmp(other any) (int, error) {
	var o uint64
	switch t := other.(type) {
	case *Field:
		o = t.Uint()
	default:
		u, neg, ok := coerceInt(other)
		if !ok {
			return 0, fmt.Errorf("%w: cannot order against %T", ErrType, other)
		}
		if neg {
			// Containers are unsigned, so any negative operand sorts below.
			return 1, nil
		}
		o = u
	}

	cur := f.Uint()
	switch {
	case cur < o:
		return -1, nil
	case cur > o:
		return 1, nil
	}
	return 0, nil
}

// Equal compares by value against integers and by (value, size, mask)
// against other Fields. Unlike Cmp it absorbs incompatible types and
// reports false instead of failing, so comparing against arbitrary values
// stays ergonomic.
func (f *Field) Equal(other any) bool {
	switch t := other.(type) {
	case *Field:
		return f.Uint() == t.Uint() && f.m.Size() == t.m.Size() && f.m.Mask() == t.m.Mask()
	}
	u, neg, ok := coerceInt(other)
	if !ok || neg {
		return false
	}
	return f.Uint() == u
}
