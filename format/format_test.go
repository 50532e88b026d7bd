package format

import (
	"testing"

	"github.com/bearlytools/binfield"
	"github.com/bearlytools/binfield/mapping"
)

func control() *mapping.Map {
	return mapping.MustCompile("Control", []mapping.Entry{
		mapping.Bit("first", 0),
		mapping.Group("nested", 3, 8,
			mapping.Bit("inner", 0),
		),
	})
}

func TestString(t *testing.T) {
	f := binfield.New(control(), 0xFF)

	got, err := String(f)
	if err != nil {
		t.Fatalf("TestString: got err == %v, want err == nil", err)
	}
	want := `<255 == 0xFF == (0b11111111)
    first  = <1 == 0x01 == (0b1)>
    nested = <31 == 0x1F == (0b11111)
        inner = <1 == 0x01 == (0b1)>
    >
>`
	if got != want {
		t.Fatalf("TestString:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestStringMaskHoles(t *testing.T) {
	m := mapping.MustCompile("Sparse", []mapping.Entry{
		mapping.Span("Low", 0, 2),
	}, mapping.WithSize(4), mapping.WithMask(0b1011))
	f := binfield.New(m, 0b1111)

	got, err := String(f)
	if err != nil {
		t.Fatalf("TestStringMaskHoles: got err == %v, want err == nil", err)
	}
	want := `<11 == 0x0B == (0b1011 & 0b1011)
    Low = <3 == 0x03 == (0b11)>
>`
	if got != want {
		t.Fatalf("TestStringMaskHoles:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestStringOptions(t *testing.T) {
	f := binfield.New(control(), 0xFF)

	got, err := String(f, WithIndentStep(2))
	if err != nil {
		t.Fatalf("TestStringOptions: got err == %v, want err == nil", err)
	}
	want := `<255 == 0xFF == (0b11111111)
  first  = <1 == 0x01 == (0b1)>
  nested = <31 == 0x1F == (0b11111)
    inner = <1 == 0x01 == (0b1)>
  >
>`
	if got != want {
		t.Fatalf("TestStringOptions(step):\ngot:\n%s\nwant:\n%s", got, want)
	}

	// A zero max indent collapses everything to a single value.
	got, err = String(f, WithMaxIndent(0))
	if err != nil {
		t.Fatalf("TestStringOptions: got err == %v, want err == nil", err)
	}
	if got != "<255 == 0xFF == (0b11111111)>" {
		t.Fatalf("TestStringOptions(max): got %q", got)
	}

	if _, err := String(f, WithIndentStep(0)); err == nil {
		t.Fatalf("TestStringOptions: step 0: got err == nil, want err != nil")
	}
	if _, err := String(f, WithMaxIndent(-1)); err == nil {
		t.Fatalf("TestStringOptions: negative max: got err == nil, want err != nil")
	}
}

func TestStringLeaf(t *testing.T) {
	// Fields without named sub-fields render on one line.
	f := binfield.New(mapping.MustCompile("Plain", nil, mapping.WithSize(16)), 0xA5)

	got, err := String(f)
	if err != nil {
		t.Fatalf("TestStringLeaf: got err == %v, want err == nil", err)
	}
	if got != "<165 == 0x00A5 == (0b0000000010100101)>" {
		t.Fatalf("TestStringLeaf: got %q", got)
	}
}

func TestStringOnView(t *testing.T) {
	root := binfield.New(control(), 0xFF)
	v, err := root.Field("nested")
	if err != nil {
		t.Fatalf("TestStringOnView: %v", err)
	}

	got, err := String(v)
	if err != nil {
		t.Fatalf("TestStringOnView: got err == %v, want err == nil", err)
	}
	want := `<31 == 0x1F == (0b11111)
    inner = <1 == 0x01 == (0b1)>
>`
	if got != want {
		t.Fatalf("TestStringOnView:\ngot:\n%s\nwant:\n%s", got, want)
	}
}
