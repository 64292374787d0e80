package tuning

import (
	"math"

	"github.com/cwbudde/algo-tuner/dsp/core"
)

// InTuneCents is the half-width of the in-tune window.
const InTuneCents = 5.0

// Plausible detector output lies strictly inside this band.
const (
	MinPlausibleHz = 50.0
	MaxPlausibleHz = 1200.0
)

// Status is the coarse tuning verdict.
type Status int

const (
	StatusIn Status = iota
	StatusLow
	StatusHigh
)

func (s Status) String() string {
	switch s {
	case StatusIn:
		return "in"
	case StatusLow:
		return "low"
	case StatusHigh:
		return "high"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is a matched reading.
type Result struct {
	String ReferenceString `json:"string"`
	Cents  float64         `json:"cents"`
	Status Status          `json:"status"`
}

// Cents returns 1200*log2(frequency/reference).
func Cents(frequency, reference float64) float64 {
	return 1200 * math.Log2(frequency/reference)
}

// StatusFor classifies an offset: |c| < InTuneCents is in tune, otherwise
// the sign decides. Exactly ±5 is out of tune.
func StatusFor(cents float64) Status {
	switch {
	case math.Abs(cents) < InTuneCents:
		return StatusIn
	case cents < 0:
		return StatusLow
	default:
		return StatusHigh
	}
}

// Plausible reports whether frequency is finite and inside
// (MinPlausibleHz, MaxPlausibleHz).
func Plausible(frequency float64) bool {
	return core.IsFinite(frequency) && frequency > MinPlausibleHz && frequency < MaxPlausibleHz
}

// ClampCents limits cents to ±limit for gauges.
func ClampCents(cents, limit float64) float64 {
	return core.Clamp(cents, -limit, limit)
}
