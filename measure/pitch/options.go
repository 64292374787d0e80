package pitch

import (
	"github.com/cwbudde/algo-tuner/dsp/core"
	"github.com/cwbudde/algo-tuner/dsp/window"
)

// Defaults of the estimator.
const (
	// DefaultNoiseFloor is the RMS below which a block counts as silence.
	DefaultNoiseFloor = 0.005
	// DefaultMinFrequency bounds the longest lag searched.
	DefaultMinFrequency = 60.0
	// DefaultMaxFrequency bounds the shortest lag searched.
	DefaultMaxFrequency = 1000.0
)

// Method selects how the autocorrelation is evaluated.
type Method int

const (
	// MethodDirect evaluates one dot product per lag.
	MethodDirect Method = iota
	// MethodFFT evaluates all lags at once through a zero-padded FFT.
	MethodFFT
)

func (m Method) String() string {
	switch m {
	case MethodDirect:
		return "direct"
	case MethodFFT:
		return "fft"
	default:
		return "unknown"
	}
}

// Config defines the estimator parameters.
type Config struct {
	NoiseFloor   float64
	MinFrequency float64
	MaxFrequency float64
	Method       Method
	Window       window.Type
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the reference configuration: 0.005 gate, 60-1000 Hz,
// direct correlation on the unwindowed block.
func DefaultConfig() Config {
	return Config{
		NoiseFloor:   DefaultNoiseFloor,
		MinFrequency: DefaultMinFrequency,
		MaxFrequency: DefaultMaxFrequency,
		Method:       MethodDirect,
		Window:       window.TypeRectangular,
	}
}

// WithNoiseFloor sets the RMS gate. Negative or non-finite values are ignored.
func WithNoiseFloor(floor float64) Option {
	return func(cfg *Config) {
		if floor >= 0 && core.IsFinite(floor) {
			cfg.NoiseFloor = floor
		}
	}
}

// WithFrequencyRange sets the searched fundamental range in Hz. The range is
// ignored unless 0 < minHz < maxHz and both are finite.
func WithFrequencyRange(minHz, maxHz float64) Option {
	return func(cfg *Config) {
		if minHz > 0 && maxHz > minHz && core.IsFinite(maxHz) {
			cfg.MinFrequency = minHz
			cfg.MaxFrequency = maxHz
		}
	}
}

// WithMethod selects direct or FFT correlation.
func WithMethod(m Method) Option {
	return func(cfg *Config) {
		if m == MethodDirect || m == MethodFFT {
			cfg.Method = m
		}
	}
}

// WithWindow applies an analysis window after DC removal.
func WithWindow(t window.Type) Option {
	return func(cfg *Config) {
		cfg.Window = t
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}
