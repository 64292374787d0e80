// Package tuning maps detected frequencies onto an ordered set of reference
// strings and expresses the offset in cents.
package tuning

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-tuner/dsp/core"
)

// Errors returned by New.
var (
	ErrEmptyTuning      = errors.New("tuning: no reference strings")
	ErrDuplicateName    = errors.New("tuning: duplicate string name")
	ErrInvalidFrequency = errors.New("tuning: reference frequency must be positive and finite")
)

// ReferenceString is a named target pitch.
type ReferenceString struct {
	Name      string  `json:"name" yaml:"name"`
	Frequency float64 `json:"frequency" yaml:"frequency"`
}

// Tuning is an ordered, read-only set of reference strings. Order decides
// ties in Match.
type Tuning struct {
	strings []ReferenceString
	index   map[string]int
}

// New validates refs and returns a Tuning that keeps their order.
func New(refs ...ReferenceString) (*Tuning, error) {
	if len(refs) == 0 {
		return nil, ErrEmptyTuning
	}

	t := &Tuning{
		strings: make([]ReferenceString, len(refs)),
		index:   make(map[string]int, len(refs)),
	}

	for i, r := range refs {
		if !(r.Frequency > 0) || !core.IsFinite(r.Frequency) {
			return nil, fmt.Errorf("%w: %s = %v", ErrInvalidFrequency, r.Name, r.Frequency)
		}
		if _, dup := t.index[r.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, r.Name)
		}

		t.strings[i] = r
		t.index[r.Name] = i
	}

	return t, nil
}

// Standard returns six-string standard tuning, high to low.
func Standard() *Tuning {
	t, err := New(
		ReferenceString{"E4", 329.63},
		ReferenceString{"B3", 246.94},
		ReferenceString{"G3", 196.00},
		ReferenceString{"D3", 146.83},
		ReferenceString{"A2", 110.00},
		ReferenceString{"E2", 82.41},
	)
	if err != nil {
		panic(err)
	}

	return t
}

// Len returns the number of strings.
func (t *Tuning) Len() int {
	return len(t.strings)
}

// Strings returns a copy of the reference strings in order.
func (t *Tuning) Strings() []ReferenceString {
	out := make([]ReferenceString, len(t.strings))
	copy(out, t.strings)

	return out
}

// Lookup finds a string by name.
func (t *Tuning) Lookup(name string) (ReferenceString, bool) {
	i, ok := t.index[name]
	if !ok {
		return ReferenceString{}, false
	}

	return t.strings[i], true
}

// Match returns the reference nearest to frequency in Hz and the offset
// in cents. The first string wins ties.
func (t *Tuning) Match(frequency float64) (ReferenceString, float64) {
	best := t.strings[0]
	bestDiff := math.Abs(frequency - best.Frequency)

	for _, r := range t.strings[1:] {
		if d := math.Abs(frequency - r.Frequency); d < bestDiff {
			best, bestDiff = r, d
		}
	}

	return best, Cents(frequency, best.Frequency)
}

// Evaluate filters implausible frequencies and matches the rest.
func (t *Tuning) Evaluate(frequency float64) (Result, bool) {
	if !Plausible(frequency) {
		return Result{}, false
	}

	ref, cents := t.Match(frequency)

	return Result{String: ref, Cents: cents, Status: StatusFor(cents)}, true
}
