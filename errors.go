package binfield

import "errors"

var (
	// ErrIndex indicates a lookup with an unmapped field name or an index
	// outside the container's size.
	ErrIndex = errors.New("index out of mapping")
	// ErrType indicates a dynamic value or comparison operand that is not
	// an integer type.
	ErrType = errors.New("incompatible type")
	// ErrValue indicates a value the operation cannot represent: a negative
	// arithmetic result, an oversized construction literal, or persisted
	// state extracted from or restored into an inconsistent shape.
	ErrValue = errors.New("invalid value")
	// ErrOverflow indicates an in-place arithmetic result that does not fit
	// the container's declared bit width.
	ErrOverflow = errors.New("result overflows bit width")
)
