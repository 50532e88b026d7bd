// Package mapping compiles declarative bit-range schemas into immutable
// descriptors. A descriptor (Map) records the total size and mask of a
// fixed-width value and an ordered set of named field windows, possibly
// nested. Containers in the binfield package are constructed against a
// compiled Map; formatting and tooling introspect it through ByName/All.
package mapping

import (
	"fmt"
	"iter"
)

// FieldDescr describes one named bit window inside a Map. For a nested
// group, Mapping holds the group's own descriptor and the offsets inside
// it are relative to Start, not to the root.
type FieldDescr struct {
	// Name is the field name as declared in the schema.
	Name string
	// Start is the first bit of the window.
	Start uint64
	// End is the bit after the last bit of the window (exclusive).
	End uint64
	// Mapping is non-nil for nested groups and describes the group's
	// sub-fields relative to the window.
	Mapping *Map
}

// Range returns the window as a Range.
func (f FieldDescr) Range() Range {
	return Range{Start: f.Start, End: f.End}
}

// Width returns the window width in bits.
func (f FieldDescr) Width() uint64 {
	return f.End - f.Start
}

func (f FieldDescr) validate(size uint64) error {
	if err := f.Range().validate(); err != nil {
		return fmt.Errorf(".%s: %w", f.Name, err)
	}
	if f.End > size {
		return fmt.Errorf("%w: .%s: range %v exceeds size %d", ErrSchema, f.Name, f.Range(), size)
	}
	if f.Mapping != nil {
		if f.Mapping.size != f.Width() {
			return fmt.Errorf("%w: .%s: nested descriptor size %d != window width %d", ErrSchema, f.Name, f.Mapping.size, f.Width())
		}
		if err := f.Mapping.validate(); err != nil {
			return fmt.Errorf(".%s%w", f.Name, err)
		}
	}
	return nil
}

// Map is a compiled, immutable descriptor: total size and mask of the value
// plus the ordered field windows. Two schemas with identical structure
// compile to Maps for which Equal reports true, so callers may memoize
// compiled descriptors and reuse them across containers.
type Map struct {
	name   string
	size   uint64
	mask   uint64
	fields []*FieldDescr
	index  map[string]int
}

// Name returns the schema name the Map was compiled under.
func (m *Map) Name() string { return m.name }

// Size returns the total size in bits.
func (m *Map) Size() uint64 { return m.size }

// Mask returns the total mask. Every representable value v satisfies
// v&^Mask() == 0.
func (m *Map) Mask() uint64 { return m.mask }

// Len returns the number of top-level fields.
func (m *Map) Len() int { return len(m.fields) }

// ByName retrieves the descriptor for a named field. The returned value is
// a copy; mutating it does not affect the Map.
func (m *Map) ByName(name string) (FieldDescr, bool) {
	i, ok := m.index[name]
	if !ok {
		return FieldDescr{}, false
	}
	return *m.fields[i], true
}

// All iterates the fields in declaration order, yielding copies.
func (m *Map) All() iter.Seq[FieldDescr] {
	return func(yield func(FieldDescr) bool) {
		for _, f := range m.fields {
			if !yield(*f) {
				return
			}
		}
	}
}

// Equal reports structural equality: same size, mask and field tree. The
// schema names are not compared, so the same structure compiled under two
// names still reports equal.
func (m *Map) Equal(o *Map) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.size != o.size || m.mask != o.mask || len(m.fields) != len(o.fields) {
		return false
	}
	for i, f := range m.fields {
		g := o.fields[i]
		if f.Name != g.Name || f.Start != g.Start || f.End != g.End {
			return false
		}
		if (f.Mapping == nil) != (g.Mapping == nil) {
			return false
		}
		if f.Mapping != nil && !f.Mapping.Equal(g.Mapping) {
			return false
		}
	}
	return true
}

// Derive builds the descriptor for a view window: size and mask come from
// the window, fields come from base (nil for an anonymous window). The
// result shares base's field tree; both descriptors stay immutable.
func Derive(base *Map, name string, size, mask uint64) *Map {
	d := &Map{name: name, size: size, mask: mask}
	if base != nil {
		if name == "" {
			d.name = base.name
		}
		d.fields = base.fields
		d.index = base.index
	}
	return d
}

func (m *Map) validate() error {
	for _, f := range m.fields {
		if err := f.validate(m.size); err != nil {
			return err
		}
	}
	return nil
}
