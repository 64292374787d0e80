// Package time provides time-domain level statistics for audio blocks.
//
//nolint:revive
package time

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Level summarises the amplitude of one block.
type Level struct {
	Length int
	DC     float64 // mean
	RMS    float64 // RMS after DC removal
	Peak   float64 // max |x - DC|
	RMS_dB float64
}

// Measure returns the DC offset and the DC-free RMS and peak of signal.
// An empty signal yields a zero Level with RMS_dB = -Inf.
func Measure(signal []float64) Level {
	if len(signal) == 0 {
		return Level{RMS_dB: math.Inf(-1)}
	}

	dc := DC(signal)

	var sumSq, peak float64
	for _, x := range signal {
		v := x - dc
		sumSq += v * v
		peak = math.Max(peak, math.Abs(v))
	}

	rms := math.Sqrt(sumSq / float64(len(signal)))

	return Level{
		Length: len(signal),
		DC:     dc,
		RMS:    rms,
		Peak:   peak,
		RMS_dB: ampTodB(rms),
	}
}

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	return math.Sqrt(vecmath.DotProduct(signal, signal) / float64(len(signal)))
}

// DC returns the mean (DC offset) of the signal.
func DC(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}
	// Kahan summation.
	var sum, c float64
	for _, x := range signal {
		y := x - c
		t := sum + y
		c = (t - sum) - y
		sum = t
	}

	return sum / float64(len(signal))
}

// RemoveDC writes src minus its mean into dst and returns the mean.
// dst and src may alias; dst must be at least len(src) long.
func RemoveDC(dst, src []float64) float64 {
	mean := DC(src)
	for i, x := range src {
		dst[i] = x - mean
	}

	return mean
}

// Peak returns the peak absolute amplitude of the signal.
func Peak(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	peak := math.Abs(signal[0])
	for _, x := range signal[1:] {
		a := math.Abs(x)
		if a > peak {
			peak = a
		}
	}

	return peak
}

// ampTodB converts an amplitude value to decibels: 20 * log10(|value|).
// Returns -Inf for zero values.
func ampTodB(value float64) float64 {
	a := math.Abs(value)
	if a == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(a)
}
