// Package format renders human-readable representations of field
// containers. The output shows the value in decimal, hex and binary, the
// mask when it has holes, and every named field at increasing indent:
//
//	<255 == 0xFF == (0b11111111)
//	    first  = <1 == 0x01 == (0b1)>
//	    nested = <31 == 0x1F == (0b11111)
//	        inner = <1 == 0x01 == (0b1)>
//	    >
//	>
package format

import (
	"fmt"
	"strings"

	"github.com/bearlytools/binfield"
	"github.com/bearlytools/binfield/internal/bits"
)

type formatOptions struct {
	indentStep int
	maxIndent  int
}

// Option provides options for String.
type Option func(formatOptions) (formatOptions, error)

// WithIndentStep configures how many columns each nesting level adds.
// The default is 4.
func WithIndentStep(step int) Option {
	return func(o formatOptions) (formatOptions, error) {
		if step < 1 {
			return o, fmt.Errorf("indent step %d must be at least 1", step)
		}
		o.indentStep = step
		return o, nil
	}
}

// WithMaxIndent configures the column past which nested fields render as
// plain values instead of expanding. The default is 20.
func WithMaxIndent(max int) Option {
	return func(o formatOptions) (formatOptions, error) {
		if max < 0 {
			return o, fmt.Errorf("max indent %d must not be negative", max)
		}
		o.maxIndent = max
		return o, nil
	}
}

// String renders f and its named fields.
func String(f *binfield.Field, options ...Option) (string, error) {
	opts := formatOptions{indentStep: 4, maxIndent: 20}
	for _, opt := range options {
		var err error
		opts, err = opt(opts)
		if err != nil {
			return "", err
		}
	}

	b := &strings.Builder{}
	if err := element(b, f, 0, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

// element writes f's block with its body at column indent+step and its
// closing bracket back at column indent. The header is not indented; the
// caller places it.
func element(b *strings.Builder, f *binfield.Field, indent int, opts formatOptions) error {
	value := f.Uint()
	fmt.Fprintf(b, "<%d == 0x%0*X == (0b%0*b", value, f.Len()*2, value, f.Size(), value)
	if f.Mask() != bits.WidthMask(f.Size()) {
		fmt.Fprintf(b, " & 0b%b", f.Mask())
	}
	b.WriteString(")")

	m := f.Descriptor()
	if m.Len() == 0 || indent >= opts.maxIndent {
		b.WriteString(">")
		return nil
	}

	maxLen := 0
	for fd := range m.All() {
		maxLen = max(maxLen, len(fd.Name))
	}

	body := indent + opts.indentStep
	for fd := range m.All() {
		child, err := f.Field(fd.Name)
		if err != nil {
			return err
		}
		fmt.Fprintf(b, "\n%s%-*s = ", strings.Repeat(" ", body), maxLen, fd.Name)
		if err := element(b, child, body, opts); err != nil {
			return err
		}
	}
	fmt.Fprintf(b, "\n%s>", strings.Repeat(" ", indent))
	return nil
}
