// Package conv provides the autocorrelation routines behind the pitch
// estimator.
//
// Two strategies evaluate the same unnormalised sums r(lag) = sum x[i]*x[i+lag]
// over the valid overlap region:
//
//   - Direct: one dot product per lag, O(N*L). Cheapest for the narrow lag
//     ranges of a guitar tuner at typical block sizes.
//   - FFT: zero-padded Wiener-Khinchin evaluation, O(N log N) for all lags
//     at once, with a reusable plan.
//
// # Usage
//
//	r := make([]float64, maxLag-minLag+1)
//	err := conv.AutoCorrelateDirect(r, x, minLag, maxLag)
//
// For repeated evaluation on equally sized blocks, keep an FFTAutocorrelator:
//
//	var ac conv.FFTAutocorrelator
//	err := ac.AutoCorrelate(r, x, minLag, maxLag)
package conv

import "errors"

// Errors returned by correlation functions.
var (
	ErrEmptyInput     = errors.New("conv: empty input")
	ErrInvalidLag     = errors.New("conv: invalid lag range")
	ErrLengthMismatch = errors.New("conv: buffer length mismatch")
)
