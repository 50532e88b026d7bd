package mapping

import (
	"errors"
	"testing"
)

func TestNewRange(t *testing.T) {
	tests := []struct {
		desc       string
		start, end int
		err        bool
		want       Range
	}{
		{desc: "simple", start: 0, end: 4, want: Range{0, 4}},
		{desc: "offset", start: 3, end: 8, want: Range{3, 8}},
		{desc: "negative start", start: -1, end: 4, err: true},
		{desc: "negative end", start: 0, end: -4, err: true},
		{desc: "inverted", start: 4, end: 1, err: true},
		{desc: "empty", start: 2, end: 2, err: true},
	}

	for _, test := range tests {
		got, err := NewRange(test.start, test.end)
		switch {
		case test.err && err == nil:
			t.Fatalf("TestNewRange(%s): got err == nil, want err != nil", test.desc)
		case !test.err && err != nil:
			t.Fatalf("TestNewRange(%s): got err == %v, want err == nil", test.desc, err)
		case err != nil:
			if !errors.Is(err, ErrRange) {
				t.Fatalf("TestNewRange(%s): got err %v, want errors.Is(ErrRange)", test.desc, err)
			}
			continue
		}

		if got != test.want {
			t.Fatalf("TestNewRange(%s): got %v, want %v", test.desc, got, test.want)
		}
	}
}

func TestSingleBit(t *testing.T) {
	r, err := SingleBit(5)
	if err != nil {
		t.Fatalf("TestSingleBit: got err == %v, want err == nil", err)
	}
	if r != (Range{5, 6}) {
		t.Fatalf("TestSingleBit: got %v, want [5, 6)", r)
	}
	if r.Width() != 1 {
		t.Fatalf("TestSingleBit: width: got %d, want 1", r.Width())
	}

	if _, err := SingleBit(-1); !errors.Is(err, ErrRange) {
		t.Fatalf("TestSingleBit(-1): got err %v, want errors.Is(ErrRange)", err)
	}
}

func TestRangeMask(t *testing.T) {
	tests := []struct {
		r    Range
		want uint64
	}{
		{Range{0, 1}, 0b1},
		{Range{1, 4}, 0b1110},
		{Range{3, 8}, 0b11111000},
		{Range{0, 64}, ^uint64(0)},
	}

	for _, test := range tests {
		if got := test.r.Mask(); got != test.want {
			t.Fatalf("TestRangeMask(%v): got %b, want %b", test.r, got, test.want)
		}
	}
}
