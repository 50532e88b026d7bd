// Package regtext parses the declarative text format for bitfield schemas
// and compiles it straight into a mapping descriptor.
//
// The format is one document per schema:
//
//	// VirtualControl register.
//	bitfield VirtualControl [size(16)] {
//	    Enable: 0
//	    Mode:   1..3
//	    Status: 4..12 {
//	        Ready: 0
//	        Error: 1..4
//	    }
//	}
//
// A field is a single bit position, a half-open start..end range, or a
// range followed by a brace-delimited group of sub-fields declared
// relative to the range's start. The bracketed options accept size(bits)
// and mask(value); both are optional and resolve exactly like
// mapping.WithSize and mapping.WithMask. Numbers accept 0x/0b prefixes.
package regtext

import (
	"context"
	"os"

	"github.com/pkg/errors"

	"github.com/bearlytools/binfield/mapping"
)

// Parse parses a schema document and compiles it into a descriptor.
// Syntax problems surface as plain parse errors; semantic problems (negative
// or inverted ranges, inconsistent size/mask) surface as the mapping
// package's sentinel errors, the same as compiling programmatically.
func Parse(ctx context.Context, input string) (*mapping.Map, error) {
	name, entries, opts, err := parseDocument(ctx, input)
	if err != nil {
		return nil, err
	}
	return mapping.Compile(name, entries, opts...)
}

// ParseFile reads a schema document from disk and parses it.
func ParseFile(ctx context.Context, path string) (*mapping.Map, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read schema file %q", path)
	}
	m, err := Parse(ctx, string(b))
	if err != nil {
		return nil, errors.Wrapf(err, "schema file %q", path)
	}
	return m, nil
}
