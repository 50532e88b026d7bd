package mapping

import (
	"fmt"
	"strings"

	"github.com/bearlytools/binfield/internal/bits"
)

// Entry is one declarative schema line: a named bit, a named range or a
// named nested group. Entries are built with Bit, Span and Group and
// consumed by Compile; they hold raw signed indexes so that negative
// declarations fail at compile time, not at first lookup.
type Entry struct {
	name  string
	start int
	end   int
	sub   []Entry
	group bool
}

// Bit declares field "name" as the single bit at pos.
func Bit(name string, pos int) Entry {
	return Entry{name: name, start: pos, end: pos + 1}
}

// Span declares field "name" as the half-open bit range [start, end).
func Span(name string, start, end int) Entry {
	return Entry{name: name, start: start, end: end}
}

// Group declares field "name" as a nested schema occupying the window
// [start, end); the sub-entries use offsets relative to the window start.
func Group(name string, start, end int, sub ...Entry) Entry {
	return Entry{name: name, start: start, end: end, sub: sub, group: true}
}

type compileOpts struct {
	size uint64
	mask uint64
}

// CompileOption provides options for Compile.
type CompileOption func(compileOpts) (compileOpts, error)

// WithSize fixes the total size in bits. Without it the size is derived
// from the mask or from the union of the field ranges.
func WithSize(bits uint64) CompileOption {
	return func(o compileOpts) (compileOpts, error) {
		if bits == 0 || bits > 64 {
			return o, fmt.Errorf("%w: size %d must be in [1, 64]", ErrSchema, bits)
		}
		o.size = bits
		return o, nil
	}
}

// WithMask fixes the total mask. Without it the mask is all ones of the
// resolved size. A mask may have holes: masked-out bits read as zero and
// silently drop writes.
func WithMask(mask uint64) CompileOption {
	return func(o compileOpts) (compileOpts, error) {
		if mask == 0 {
			return o, fmt.Errorf("%w: mask must be non-zero", ErrSchema)
		}
		o.mask = mask
		return o, nil
	}
}

// Compile resolves a declarative schema into an immutable Map. It runs once
// per distinct schema; compilation is pure, so identical schemas compile to
// structurally equal Maps (see Map.Equal) and callers may memoize results.
//
// Resolution rules for size and mask:
//   - both given: the mask's highest set bit must fit the size;
//   - only one given: the other is derived (size = mask bit length,
//     mask = all ones of size);
//   - neither: the size is the bit length of the union of the field
//     ranges and the mask is all ones of that size.
//
// Field windows may overlap; the compiler does not reject overlapping
// siblings. Whether that is meaningful is up to the schema author.
func Compile(name string, entries []Entry, options ...CompileOption) (*Map, error) {
	opts := compileOpts{}
	for _, opt := range options {
		var err error
		opts, err = opt(opts)
		if err != nil {
			return nil, err
		}
	}
	return compile(name, entries, opts)
}

// MustCompile is Compile, panicking on error. For schemas declared at
// package init.
func MustCompile(name string, entries []Entry, options ...CompileOption) *Map {
	m, err := Compile(name, entries, options...)
	if err != nil {
		panic(err)
	}
	return m
}

func compile(name string, entries []Entry, opts compileOpts) (*Map, error) {
	m := &Map{
		name:  name,
		index: map[string]int{},
	}

	var union uint64
	for _, e := range entries {
		if e.name == "" {
			return nil, fmt.Errorf("%w: field with empty name", ErrSchema)
		}
		if strings.HasPrefix(e.name, "_") {
			return nil, fmt.Errorf("%w: field name %q: names starting with '_' are reserved", ErrSchema, e.name)
		}
		if _, ok := m.index[e.name]; ok {
			return nil, fmt.Errorf("%w: duplicate field name %q", ErrSchema, e.name)
		}

		r, err := NewRange(e.start, e.end)
		if err != nil {
			return nil, fmt.Errorf(".%s: %w", e.name, err)
		}
		if err := r.validate(); err != nil {
			return nil, fmt.Errorf(".%s: %w", e.name, err)
		}
		union |= r.Mask()

		fd := &FieldDescr{Name: e.name, Start: r.Start, End: r.End}
		if e.group {
			// The group's own descriptor is sized by its window, not by
			// its sub-fields; offsets inside are relative to the window.
			sub, err := compile(e.name, e.sub, compileOpts{size: r.Width()})
			if err != nil {
				return nil, fmt.Errorf(".%s: %w", e.name, err)
			}
			fd.Mapping = sub
		}
		m.index[e.name] = len(m.fields)
		m.fields = append(m.fields, fd)
	}

	size, mask, err := resolveSizeMask(opts, union)
	if err != nil {
		return nil, err
	}
	m.size = size
	m.mask = mask

	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func resolveSizeMask(opts compileOpts, union uint64) (size, mask uint64, err error) {
	switch {
	case opts.size != 0 && opts.mask != 0:
		if bits.Len(opts.mask) > opts.size {
			return 0, 0, fmt.Errorf("%w: mask 0x%X needs %d bits but size is %d", ErrSchema, opts.mask, bits.Len(opts.mask), opts.size)
		}
		return opts.size, opts.mask, nil
	case opts.size != 0:
		return opts.size, bits.WidthMask(opts.size), nil
	case opts.mask != 0:
		return bits.Len(opts.mask), opts.mask, nil
	default:
		if union == 0 {
			return 0, 0, fmt.Errorf("%w: no size, no mask and no fields to derive them from", ErrSchema)
		}
		size = bits.Len(union)
		return size, bits.WidthMask(size), nil
	}
}
