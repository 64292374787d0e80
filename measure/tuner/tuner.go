// Package tuner runs the per-block reading pipeline: pitch estimate,
// plausibility filter, string match, pluck classification and energy
// smoothing. Every block is classified on its own; the only carried state
// is the smoothed energy.
package tuner

import (
	"math"

	"github.com/cwbudde/algo-tuner/dsp/buffer"
	"github.com/cwbudde/algo-tuner/measure/onset"
	"github.com/cwbudde/algo-tuner/measure/pitch"
	"github.com/cwbudde/algo-tuner/measure/tuning"
)

// State of the pipeline after the latest block.
type State int

const (
	// Idle: the latest block had no plausible pitch.
	Idle State = iota
	// Tracking: the latest block matched a string.
	Tracking
)

func (s State) String() string {
	if s == Tracking {
		return "tracking"
	}

	return "idle"
}

// MarshalText implements encoding.TextMarshaler.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Reading is the immutable per-block output. Frequency is 0 unless a
// string was matched.
type Reading struct {
	Frequency      float64
	Energy         float64
	SmoothedEnergy float64
	Outcome        pitch.Outcome
	State          State
	Result         *tuning.Result
	Pluck          *onset.Event
}

// Status returns "low", "in" or "high" while tracking and "idle" otherwise.
func (r Reading) Status() string {
	if r.Result == nil {
		return "idle"
	}

	return r.Result.Status.String()
}

// Config bundles the pipeline parts.
type Config struct {
	Tuning    *tuning.Tuning
	Pitch     []pitch.Option
	Onset     []onset.Option
	Smoothing float64
}

// Option mutates a Config.
type Option func(*Config)

// WithTuning replaces the standard tuning.
func WithTuning(t *tuning.Tuning) Option {
	return func(cfg *Config) {
		if t != nil {
			cfg.Tuning = t
		}
	}
}

// WithPitchOptions forwards options to the estimator.
func WithPitchOptions(opts ...pitch.Option) Option {
	return func(cfg *Config) {
		cfg.Pitch = append(cfg.Pitch, opts...)
	}
}

// WithOnsetOptions forwards options to the pluck detector.
func WithOnsetOptions(opts ...onset.Option) Option {
	return func(cfg *Config) {
		cfg.Onset = append(cfg.Onset, opts...)
	}
}

// WithSmoothing sets the smoothing weight of the energy meter.
func WithSmoothing(alpha float64) Option {
	return func(cfg *Config) {
		cfg.Smoothing = alpha
	}
}

// Tuner is not safe for concurrent use; feed it from one goroutine.
type Tuner struct {
	tuning   *tuning.Tuning
	estimate *pitch.Estimator
	detect   *onset.Detector
	smooth   *onset.Smoother
	state    State
}

// New builds a pipeline with standard tuning and default parameters.
func New(opts ...Option) *Tuner {
	cfg := Config{Smoothing: onset.DefaultSmoothing}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.Tuning == nil {
		cfg.Tuning = tuning.Standard()
	}

	return &Tuner{
		tuning:   cfg.Tuning,
		estimate: pitch.New(cfg.Pitch...),
		detect:   onset.NewDetector(cfg.Onset...),
		smooth:   onset.NewSmoother(cfg.Smoothing),
	}
}

// Tuning returns the reference set.
func (t *Tuner) Tuning() *tuning.Tuning {
	return t.tuning
}

// State returns the state after the latest block.
func (t *Tuner) State() State {
	return t.state
}

// Process classifies one block.
func (t *Tuner) Process(samples []float64, sampleRate float64) Reading {
	est := t.estimate.Estimate(samples, sampleRate)

	// The smoother skips non-finite energy and keeps its last value.
	r := Reading{
		Energy:         est.Energy,
		SmoothedEnergy: t.smooth.Update(est.Energy),
		Outcome:        est.Outcome,
	}
	if math.IsNaN(r.Energy) || math.IsInf(r.Energy, 0) {
		// A NaN or Inf sample; the Outcome already says InvalidInput.
		r.Energy = 0
	}

	if est.HasPitch() {
		res, ok := t.tuning.Evaluate(est.Frequency)
		if ok {
			r.Frequency = est.Frequency
			r.Result = &res
		} else {
			r.Outcome = pitch.OutOfRange
		}
	}

	if r.Result != nil {
		r.State = Tracking

		// Raw, not smoothed, energy decides onsets.
		if ev, ok := t.detect.Detect(est.Energy, r.Result); ok {
			r.Pluck = &ev
		}
	}

	t.state = r.State

	return r
}

// ProcessBlock is Process for a pooled block.
func (t *Tuner) ProcessBlock(b *buffer.Block) Reading {
	return t.Process(b.Samples(), b.SampleRate())
}

// Reset clears the smoothed energy and returns to Idle.
func (t *Tuner) Reset() {
	t.smooth.Reset()
	t.state = Idle
}
