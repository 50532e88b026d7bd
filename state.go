package binfield

import (
	"fmt"

	jsonv2 "github.com/go-json-experiment/json"

	"github.com/bearlytools/binfield/internal/bits"
	"github.com/bearlytools/binfield/mapping"
)

// State is the persisted form of a detached (root) Field: exactly the
// (value, size, mask) triple. A view has no meaningful state apart from its
// owner, so views cannot produce a State and a State always restores to a
// root.
type State struct {
	Value uint64 `json:"value"`
	Size  uint64 `json:"size"`
	Mask  uint64 `json:"mask"`
}

// State extracts the persisted state. Calling it on a view fails with
// ErrValue.
func (f *Field) State() (State, error) {
	if f.parent != nil {
		return State{}, fmt.Errorf("%w: cannot extract state from a view", ErrValue)
	}
	return State{Value: f.value, Size: f.m.Size(), Mask: f.m.Mask()}, nil
}

// FromState reconstructs a root Field from persisted state, restoring the
// triple exactly. Triples no root could have produced (size outside [1, 64],
// mask not representable in size bits, value carrying bits outside the
// mask) fail with ErrValue.
func FromState(s State) (*Field, error) {
	if s.Size == 0 || s.Size > 64 {
		return nil, fmt.Errorf("%w: state size %d must be in [1, 64]", ErrValue, s.Size)
	}
	if s.Mask == 0 || bits.Len(s.Mask) > s.Size {
		return nil, fmt.Errorf("%w: state mask 0x%X does not fit size %d", ErrValue, s.Mask, s.Size)
	}
	if s.Value&^s.Mask != 0 {
		return nil, fmt.Errorf("%w: state value 0x%X carries bits outside mask 0x%X", ErrValue, s.Value, s.Mask)
	}
	return New(mapping.Derive(nil, "", s.Size, s.Mask), s.Value), nil
}

// MarshalState extracts the state and encodes it as JSON. Views fail with
// ErrValue, same as State.
func (f *Field) MarshalState() ([]byte, error) {
	s, err := f.State()
	if err != nil {
		return nil, err
	}
	return jsonv2.Marshal(s)
}

// UnmarshalState decodes JSON produced by MarshalState and reconstructs
// the root Field.
func UnmarshalState(b []byte) (*Field, error) {
	var s State
	if err := jsonv2.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValue, err)
	}
	return FromState(s)
}
