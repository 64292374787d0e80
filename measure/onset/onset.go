// Package onset classifies blocks as string plucks from their raw energy
// and keeps the smoothed energy shown on meters.
//
// The detector is stateless per block: every block above the threshold
// with a matched string yields an event. Coalescing repeats into one
// animation is up to the presentation layer.
package onset

import (
	"math"
	"time"

	"github.com/cwbudde/algo-tuner/measure/tuning"
)

// Defaults.
const (
	// DefaultThreshold is the raw RMS above which a matched block is a pluck.
	DefaultThreshold = 0.02
	// DefaultSmoothing is the weight of the previous smoothed value.
	DefaultSmoothing = 0.8
)

// Event marks a plucked string. Timestamps may repeat.
type Event struct {
	String string    `json:"string"`
	At     time.Time `json:"at"`
}

// Detector emits pluck events.
type Detector struct {
	threshold float64
	now       func() time.Time
}

// Option configures a Detector.
type Option func(*Detector)

// WithThreshold overrides the energy threshold. Negative values are ignored.
func WithThreshold(threshold float64) Option {
	return func(d *Detector) {
		if threshold >= 0 {
			d.threshold = threshold
		}
	}
}

// WithClock sets the time source used for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(d *Detector) {
		if now != nil {
			d.now = now
		}
	}
}

// NewDetector returns a detector with DefaultThreshold and time.Now.
func NewDetector(opts ...Option) *Detector {
	d := &Detector{
		threshold: DefaultThreshold,
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}

	return d
}

// Threshold returns the raw energy threshold.
func (d *Detector) Threshold() float64 {
	return d.threshold
}

// Detect returns an event when rawEnergy exceeds the threshold and the
// block matched a string. rawEnergy must be the unsmoothed block RMS.
func (d *Detector) Detect(rawEnergy float64, match *tuning.Result) (Event, bool) {
	if match == nil || !(rawEnergy > d.threshold) {
		return Event{}, false
	}

	return Event{String: match.String.Name, At: d.now()}, true
}

// Smoother is an exponential moving average of block energy:
// s = alpha*s + (1-alpha)*raw, starting from 0. Non-finite inputs are
// ignored so one corrupt block cannot poison later values.
type Smoother struct {
	alpha float64
	value float64
}

// NewSmoother returns a smoother with weight alpha on the previous value.
// alpha outside [0, 1) falls back to DefaultSmoothing.
func NewSmoother(alpha float64) *Smoother {
	if !(alpha >= 0 && alpha < 1) {
		alpha = DefaultSmoothing
	}

	return &Smoother{alpha: alpha}
}

// Update feeds one raw energy value and returns the new smoothed value.
func (s *Smoother) Update(raw float64) float64 {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return s.value
	}
	s.value = s.alpha*s.value + (1-s.alpha)*raw
	return s.value
}

// Value returns the current smoothed value.
func (s *Smoother) Value() float64 {
	return s.value
}

// Reset returns the smoother to 0.
func (s *Smoother) Reset() {
	s.value = 0
}
