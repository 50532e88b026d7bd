// Package binfield implements named bit-range views over fixed-width binary
// values: hardware registers, protocol header fields and similar packed
// integers. A schema compiled by the mapping package describes where each
// named field lives; a Field holds the packed value and hands out child
// views for individual fields, bits or ranges. Writing through a view
// merges the change back into every ancestor, so the root always holds the
// authoritative value.
//
// A root Field and the views derived from it form a mutable aliasing group.
// Nothing in this package locks: mutating a view and an ancestor from
// separate goroutines without external synchronization is the caller's
// problem.
//
// Endianness is out of scope. FromBytes assumes the bytes are already
// big-endian; callers convert before construction and after extraction.
package binfield

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"strconv"

	"github.com/bearlytools/binfield/mapping"
)

// Field is a fixed-width unsigned value with named bit windows. A Field is
// either a root, owning its value outright, or a view produced by a lookup
// on another Field. Views forward every write to their owner.
type Field struct {
	m     *mapping.Map
	value uint64

	// parent is nil for roots. For views it names the owning container and
	// the window's start bit inside it.
	parent *parentLink
}

type parentLink struct {
	owner *Field
	start uint64
}

// New creates a root Field holding x masked to the descriptor's width.
// m must be a compiled descriptor; New panics on nil.
func New(m *mapping.Map, x uint64) *Field {
	if m == nil {
		panic("binfield.New: nil descriptor")
	}
	return &Field{m: m, value: x & m.Mask()}
}

// ParseString creates a root Field from a numeral string in the given base
// (as accepted by strconv.ParseUint; base 0 enables prefixes like 0x).
func ParseString(m *mapping.Map, s string, base int) (*Field, error) {
	x, err := strconv.ParseUint(s, base, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q is not a base %d numeral: %v", ErrValue, s, base, err)
	}
	return New(m, x), nil
}

// FromBytes creates a root Field from a big-endian byte sequence. No byte
// order conversion is performed. Sequences longer than 8 bytes fail with
// ErrValue.
func FromBytes(m *mapping.Map, b []byte) (*Field, error) {
	if len(b) > 8 {
		return nil, fmt.Errorf("%w: %d bytes exceed the 64 bit limit", ErrValue, len(b))
	}
	var x uint64
	for _, c := range b {
		x = x<<8 | uint64(c)
	}
	return New(m, x), nil
}

// Uint returns the current value, masked to the container's width. A view
// reads through to its owner, so the result reflects writes made to any
// member of the aliasing group.
func (f *Field) Uint() uint64 {
	if f.parent != nil {
		f.value = (f.parent.owner.Uint() >> f.parent.start) & f.m.Mask()
	}
	return f.value
}

// store masks v to this container's width, records it, and merges it into
// the parent chain: the bits of this window are cleared in the owner, the
// new value is OR'd in at the window position, and the same merge repeats
// on the owner's own parent. Bits outside the window are never touched.
func (f *Field) store(v uint64) {
	v &= f.m.Mask()
	if f.parent != nil {
		p := f.parent
		merged := p.owner.Uint()&^(f.m.Mask()<<p.start) | v<<p.start
		p.owner.store(merged)
	}
	f.value = v
}

// SetUint replaces the value, masking to the container's width, and
// propagates to the parent chain if this Field is a view.
func (f *Field) SetUint(v uint64) {
	f.store(v)
}

// Assign replaces the value from a dynamically typed integer. Non-integer
// values fail with ErrType, negative ones with ErrValue. See SetUint for
// the statically typed form.
func (f *Field) Assign(v any) error {
	u, neg, ok := coerceInt(v)
	if !ok {
		return fmt.Errorf("%w: cannot assign %T, value must be an integer", ErrType, v)
	}
	if neg {
		return fmt.Errorf("%w: cannot assign a negative value", ErrValue)
	}
	f.store(u)
	return nil
}

// Copy returns a new root Field with the same value, size and mask. The
// parent link is deliberately not carried over: mutating the copy never
// affects the original group, and vice versa.
func (f *Field) Copy() *Field {
	return &Field{m: f.m, value: f.Uint()}
}

// IsView reports whether this Field is a view over another container.
func (f *Field) IsView() bool {
	return f.parent != nil
}

// Size returns the width in bits.
func (f *Field) Size() uint64 {
	return f.m.Size()
}

// Mask returns the container's mask. Values never carry bits outside it.
func (f *Field) Mask() uint64 {
	return f.m.Mask()
}

// Len returns the width in whole bytes, at least 1.
func (f *Field) Len() int {
	n := (f.m.Size() + 7) / 8
	if n == 0 {
		n = 1
	}
	return int(n)
}

// Descriptor returns the compiled descriptor this Field was built against.
func (f *Field) Descriptor() *mapping.Map {
	return f.m
}

// Hash returns a hash of (value, size, mask). Two containers with the same
// effective value, width and mask hash equally, whatever their descriptors
// or parentage.
func (f *Field) Hash() uint64 {
	h := fnv.New64a()
	var buf [24]byte
	binary.LittleEndian.PutUint64(buf[0:8], f.Uint())
	binary.LittleEndian.PutUint64(buf[8:16], f.m.Size())
	binary.LittleEndian.PutUint64(buf[16:24], f.m.Mask())
	h.Write(buf[:])
	return h.Sum64()
}

func (f *Field) String() string {
	name := f.m.Name()
	if name == "" {
		name = "Field"
	}
	return fmt.Sprintf("%s(x=0x%0*X, base=16)", name, f.Len()*2, f.Uint())
}

// coerceInt converts any Go integer to (magnitude, negative). ok is false
// for non-integer types, Field included: a Field is not an integer.
func coerceInt(v any) (u uint64, neg bool, ok bool) {
	switch t := v.(type) {
	case int:
		return intParts(int64(t))
	case int8:
		return intParts(int64(t))
	case int16:
		return intParts(int64(t))
	case int32:
		return intParts(int64(t))
	case int64:
		return intParts(t)
	case uint:
		return uint64(t), false, true
	case uint8:
		return uint64(t), false, true
	case uint16:
		return uint64(t), false, true
	case uint32:
		return uint64(t), false, true
	case uint64:
		return t, false, true
	case uintptr:
		return uint64(t), false, true
	}
	return 0, false, false
}

func intParts(i int64) (uint64, bool, bool) {
	if i < 0 {
		return uint64(-i), true, true
	}
	return uint64(i), false, true
}
