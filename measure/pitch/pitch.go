// Package pitch estimates the fundamental frequency of a monophonic block
// by time-domain autocorrelation with parabolic peak refinement.
//
// Per block the estimator removes the DC offset, measures RMS energy,
// gates on a noise floor, correlates the block with itself over the lag
// range of the configured frequency band, picks the strongest positive
// correlation peak and refines it to a fractional lag.
package pitch

import (
	"math"

	"github.com/cwbudde/algo-tuner/dsp/conv"
	"github.com/cwbudde/algo-tuner/dsp/core"
	"github.com/cwbudde/algo-tuner/dsp/window"
	stats "github.com/cwbudde/algo-tuner/stats/time"
)

// Reading is the result of one estimate. Frequency is 0 unless HasPitch.
type Reading struct {
	Frequency float64
	Energy    float64
	Outcome   Outcome
	Lag       int     // integer lag of the chosen peak, 0 when none
	Shift     float64 // parabolic offset added to Lag
}

// HasPitch reports whether the reading carries a usable frequency.
func (r Reading) HasPitch() bool {
	return (r.Outcome == Voiced || r.Outcome == Degenerate) &&
		r.Frequency > 0 && core.IsFinite(r.Frequency)
}

// Estimator holds scratch buffers and the lag range of the last sample
// rate. It is not safe for concurrent use; use one per stream.
type Estimator struct {
	cfg Config

	work []float64
	corr []float64
	win  window.Cache
	fft  conv.FFTAutocorrelator

	rate   float64
	minLag int
	maxLag int
}

// New returns an estimator configured by opts.
func New(opts ...Option) *Estimator {
	return &Estimator{cfg: ApplyOptions(opts...)}
}

// Estimate is a one-shot helper that builds a throwaway Estimator.
func Estimate(samples []float64, sampleRate float64, opts ...Option) Reading {
	return New(opts...).Estimate(samples, sampleRate)
}

// Config returns the estimator configuration.
func (e *Estimator) Config() Config {
	return e.cfg
}

// LagRange returns the unclamped lag bounds for sampleRate:
// floor(sr/MaxFrequency) and floor(sr/MinFrequency). The result is cached
// until the rate changes.
func (e *Estimator) LagRange(sampleRate float64) (minLag, maxLag int) {
	if sampleRate != e.rate {
		e.rate = sampleRate
		e.minLag = int(math.Floor(sampleRate / e.cfg.MaxFrequency))
		e.maxLag = int(math.Floor(sampleRate / e.cfg.MinFrequency))
	}

	return e.minLag, e.maxLag
}

// Estimate analyses one block. samples is only read.
func (e *Estimator) Estimate(samples []float64, sampleRate float64) Reading {
	n := len(samples)
	if n == 0 {
		return Reading{Outcome: InvalidInput}
	}

	e.work = core.EnsureLen(e.work, n)
	x := e.work[:n]
	stats.RemoveDC(x, samples)

	energy := stats.RMS(x)
	if !core.IsFinite(energy) || !(sampleRate > 0) || !core.IsFinite(sampleRate) {
		return Reading{Energy: energy, Outcome: InvalidInput}
	}

	if energy < e.cfg.NoiseFloor {
		return Reading{Energy: energy, Outcome: NoSignal}
	}

	minLag, maxLag := e.LagRange(sampleRate)
	minLag = max(minLag, 1)
	maxLag = min(maxLag, n-1)

	if maxLag < minLag {
		return Reading{Energy: energy, Outcome: NoPeak}
	}

	if e.cfg.Window != window.TypeRectangular {
		e.win.Apply(e.cfg.Window, x)
	}

	// One extra lag on each side feeds the parabola at the range edges.
	lo, hi := minLag-1, maxLag+1
	e.corr = core.EnsureLen(e.corr, hi-lo+1)
	r := e.corr[:hi-lo+1]

	if err := e.correlate(r, x, lo, hi); err != nil {
		return Reading{Energy: energy, Outcome: InvalidInput}
	}

	k, ok := conv.StrongestLocalPeak(r)
	if !ok {
		return Reading{Energy: energy, Outcome: NoPeak}
	}

	lag := lo + k
	y0, y1, y2 := r[k-1], r[k], r[k+1]

	outcome := Voiced

	shift, ok := parabolicShift(y0, y1, y2)
	if !ok {
		outcome = Degenerate
	}

	refined := float64(lag) + shift
	if refined <= 0 {
		return Reading{Energy: energy, Outcome: NoPeak, Lag: lag, Shift: shift}
	}

	freq := sampleRate / refined
	if !core.IsFinite(freq) {
		return Reading{Energy: energy, Outcome: NoPeak, Lag: lag, Shift: shift}
	}

	return Reading{
		Frequency: freq,
		Energy:    energy,
		Outcome:   outcome,
		Lag:       lag,
		Shift:     shift,
	}
}

func (e *Estimator) correlate(dst, x []float64, lo, hi int) error {
	if e.cfg.Method == MethodFFT {
		return e.fft.AutoCorrelate(dst, x, lo, hi)
	}

	return conv.AutoCorrelateDirect(dst, x, lo, hi)
}

// parabolicShift returns the vertex offset of the parabola through
// (-1, y0), (0, y1), (1, y2). A non-finite offset yields (0, false).
func parabolicShift(y0, y1, y2 float64) (float64, bool) {
	shift := (y2 - y0) / (2 * (2*y1 - y2 - y0))
	if !core.IsFinite(shift) {
		return 0, false
	}

	return shift, true
}
