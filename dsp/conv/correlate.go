package conv

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// AutoCorrelationAt returns the unnormalised autocorrelation of x at a
// single lag: sum of x[i]*x[i+lag] for i in [0, len(x)-lag).
// Lags outside [0, len(x)-1] have no overlap and yield 0.
func AutoCorrelationAt(x []float64, lag int) float64 {
	if lag < 0 || lag >= len(x) {
		return 0
	}

	return vecmath.DotProduct(x[:len(x)-lag], x[lag:])
}

// AutoCorrelateDirect fills dst[k] with the autocorrelation at lag minLag+k
// for every lag in [minLag, maxLag]. dst must hold maxLag-minLag+1 values.
// Lags beyond the block have no overlap and are written as 0.
func AutoCorrelateDirect(dst, x []float64, minLag, maxLag int) error {
	if err := validateRange(dst, x, minLag, maxLag); err != nil {
		return err
	}

	for k := range dst {
		dst[k] = AutoCorrelationAt(x, minLag+k)
	}

	return nil
}

// FFTAutocorrelator evaluates autocorrelation ranges through a zero-padded
// FFT. It keeps its plan and scratch spectrum between calls, so a stream of
// equally sized blocks allocates only once. Not safe for concurrent use.
type FFTAutocorrelator struct {
	size     int
	plan     *algofft.Plan[complex128]
	spectrum []complex128
}

// AutoCorrelate fills dst like AutoCorrelateDirect. The transform is padded
// to at least len(x)+maxLag points so no lag in range wraps around.
func (a *FFTAutocorrelator) AutoCorrelate(dst, x []float64, minLag, maxLag int) error {
	if err := validateRange(dst, x, minLag, maxLag); err != nil {
		return err
	}

	n := len(x)
	if err := a.ensurePlan(nextPowerOf2(n + maxLag)); err != nil {
		return err
	}

	spec := a.spectrum
	for i := range spec {
		if i < n {
			spec[i] = complex(x[i], 0)
		} else {
			spec[i] = 0
		}
	}

	if err := a.plan.Forward(spec, spec); err != nil {
		return fmt.Errorf("conv: forward FFT failed: %w", err)
	}

	// |X|^2 is the power spectrum; its inverse is the autocorrelation.
	for i, v := range spec {
		spec[i] = complex(real(v)*real(v)+imag(v)*imag(v), 0)
	}

	if err := a.plan.Inverse(spec, spec); err != nil {
		return fmt.Errorf("conv: inverse FFT failed: %w", err)
	}

	for k := range dst {
		lag := minLag + k
		if lag >= n {
			dst[k] = 0
			continue
		}
		dst[k] = real(spec[lag])
	}

	return nil
}

// Size returns the current transform length, 0 before first use.
func (a *FFTAutocorrelator) Size() int {
	return a.size
}

func (a *FFTAutocorrelator) ensurePlan(size int) error {
	if a.plan != nil && a.size == size {
		return nil
	}

	plan, err := algofft.NewPlan64(size)
	if err != nil {
		return fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	a.plan = plan
	a.size = size
	a.spectrum = make([]complex128, size)

	return nil
}

// StrongestLocalPeak returns the index of the largest strictly positive
// local maximum of r. The first and last entries only serve as neighbours
// and are never returned, so a value on a slope still falling from the
// lower edge is not a candidate. Ties keep the lowest index.
func StrongestLocalPeak(r []float64) (index int, ok bool) {
	index = -1
	best := 0.0

	for k := 1; k < len(r)-1; k++ {
		v := r[k]
		if v > best && v > r[k-1] && v >= r[k+1] {
			index, best = k, v
		}
	}

	return index, index >= 0
}

func validateRange(dst, x []float64, minLag, maxLag int) error {
	if len(x) == 0 {
		return ErrEmptyInput
	}

	if minLag < 0 || maxLag < minLag {
		return fmt.Errorf("%w: [%d, %d]", ErrInvalidLag, minLag, maxLag)
	}

	if len(dst) != maxLag-minLag+1 {
		return fmt.Errorf("%w: dst has %d values, range needs %d",
			ErrLengthMismatch, len(dst), maxLag-minLag+1)
	}

	return nil
}

func nextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
