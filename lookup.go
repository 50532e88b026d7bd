package binfield

import (
	"fmt"
	"strings"

	"github.com/bearlytools/binfield/internal/bits"
	"github.com/bearlytools/binfield/mapping"
)

// Field resolves a named field into a view. The view's width is the field's
// window width, its mask is the corresponding slice of this container's
// mask shifted to bit 0, and its value tracks this container. Unknown names
// fail with ErrIndex. Views are fresh objects on every call; all views over
// the same window are value-equivalent.
func (f *Field) Field(name string) (*Field, error) {
	fd, ok := f.m.ByName(name)
	if !ok {
		return nil, fmt.Errorf("%w: no field named %q", ErrIndex, name)
	}
	return f.view(name, fd.Range(), fd.Mapping)
}

// Bit resolves the single bit at position i into a width-1 view.
func (f *Field) Bit(i uint64) (*Field, error) {
	if i >= f.m.Size() {
		return nil, fmt.Errorf("%w: bit %d is out of size %d", ErrIndex, i, f.m.Size())
	}
	return f.view("", mapping.Range{Start: i, End: i + 1}, nil)
}

// Slice resolves the half-open range [start, end) into a view.
func (f *Field) Slice(start, end uint64) (*Field, error) {
	if end <= start {
		return nil, fmt.Errorf("%w: (%d, %d) is inverted or empty", mapping.ErrRange, start, end)
	}
	return f.view("", mapping.Range{Start: start, End: end}, nil)
}

// Get resolves a dynamically typed lookup key: a field name, a bit index,
// a [2]int range pair or a mapping.Range. Negative indexes, unmapped names
// and out-of-range windows fail with an IndexError-style sentinel
// (ErrIndex or mapping.ErrRange).
func (f *Field) Get(key any) (*Field, error) {
	switch k := key.(type) {
	case string:
		if k == "" || strings.HasPrefix(k, "_") {
			return nil, fmt.Errorf("%w: %q", ErrIndex, k)
		}
		return f.Field(k)
	case mapping.Range:
		if k.End <= k.Start {
			return nil, fmt.Errorf("%w: %v is inverted or empty", mapping.ErrRange, k)
		}
		return f.view("", k, nil)
	case [2]int:
		r, err := mapping.NewRange(k[0], k[1])
		if err != nil {
			return nil, err
		}
		return f.view("", r, nil)
	}

	if u, neg, ok := coerceInt(key); ok {
		if neg {
			return nil, fmt.Errorf("%w: negative bit index", mapping.ErrRange)
		}
		return f.Bit(u)
	}
	return nil, fmt.Errorf("%w: unsupported lookup key type %T", ErrIndex, key)
}

// Set resolves key exactly like Get and writes value through the resulting
// view: the value is masked to the window's width first, so bits outside
// the window are never disturbed, and the write propagates to every
// ancestor. Non-integer values fail with ErrType, negative ones with
// ErrValue, before any lookup happens.
func (f *Field) Set(key, value any) error {
	u, neg, ok := coerceInt(value)
	if !ok {
		return fmt.Errorf("%w: cannot set %T, value must be an integer", ErrType, value)
	}
	if neg {
		return fmt.Errorf("%w: cannot set a negative value", ErrValue)
	}

	v, err := f.Get(key)
	if err != nil {
		return err
	}
	v.store(u)
	return nil
}

// view builds the child container for window r. base carries the nested
// field tree when r is a named group's window.
func (f *Field) view(name string, r mapping.Range, base *mapping.Map) (*Field, error) {
	if r.End > f.m.Size() {
		return nil, fmt.Errorf("%w: range %v is out of size %d", ErrIndex, r, f.m.Size())
	}

	// The view's mask is this container's mask sliced to the window and
	// shifted to bit 0: masked-out parent bits stay masked out in the view.
	sliceMask := bits.Extract(f.m.Mask(), r.Start, r.End)
	d := mapping.Derive(base, name, r.Width(), sliceMask)

	return &Field{
		m:      d,
		value:  (f.Uint() >> r.Start) & sliceMask,
		parent: &parentLink{owner: f, start: r.Start},
	}, nil
}
