// Package config defines the tuner application configuration: a YAML file
// overlaid with TUNER_* environment variables and command-line flags.
package config

import (
	"time"

	"github.com/cwbudde/algo-tuner/measure/tuning"
)

// LogLevel controls log verbosity.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration.
type Config struct {
	LogLevel LogLevel `yaml:"log_level"`

	Audio   AudioConfig   `yaml:"audio"`
	Pitch   PitchConfig   `yaml:"pitch"`
	Onset   OnsetConfig   `yaml:"onset"`
	Server  ServerConfig  `yaml:"server"`
	Display DisplayConfig `yaml:"display"`

	// Tuning overrides standard tuning. Order matters for ties.
	Tuning []tuning.ReferenceString `yaml:"tuning"`
}

// AudioConfig selects the capture device and block shape.
type AudioConfig struct {
	// Device is a case-insensitive name substring; empty is the default input.
	Device string `yaml:"device"`

	// SampleRate in Hz; 0 uses the device default.
	SampleRate float64 `yaml:"sample_rate"`

	// BlockSize is the number of frames per analysed block.
	BlockSize int `yaml:"block_size"`

	LowLatency bool `yaml:"low_latency"`
}

// PitchConfig mirrors the estimator options.
type PitchConfig struct {
	NoiseFloor   float64 `yaml:"noise_floor"`
	MinFrequency float64 `yaml:"min_frequency"`
	MaxFrequency float64 `yaml:"max_frequency"`

	// Method is "direct" or "fft".
	Method string `yaml:"method"`

	// Window is "none", "rectangular", "hann", "hamming" or "blackman".
	Window string `yaml:"window"`
}

// OnsetConfig tunes pluck detection and the energy meter.
type OnsetConfig struct {
	Threshold float64 `yaml:"threshold"`
	Smoothing float64 `yaml:"smoothing"`
}

// ServerConfig configures the HTTP/WebSocket output.
type ServerConfig struct {
	Enabled bool `yaml:"enabled"`

	// ListenAddr is the TCP address to bind, e.g. ":8080".
	ListenAddr string `yaml:"listen_addr"`

	// AllowedOrigins for CORS and WebSocket origin checks. Empty allows
	// same-origin only.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DisplayConfig configures the terminal renderer.
type DisplayConfig struct {
	Enabled bool `yaml:"enabled"`

	// Highlight is how long a plucked string stays lit.
	Highlight time.Duration `yaml:"highlight"`

	// GaugeCents is the half-width of the deviation gauge.
	GaugeCents float64 `yaml:"gauge_cents"`

	// Refresh is the minimum interval between frames.
	Refresh time.Duration `yaml:"refresh"`
}

// Defaults returns the configuration used when no file is given.
func Defaults() Config {
	return Config{
		LogLevel: LogInfo,
		Audio: AudioConfig{
			BlockSize: 2048,
		},
		Pitch: PitchConfig{
			NoiseFloor:   0.005,
			MinFrequency: 60,
			MaxFrequency: 1000,
			Method:       "direct",
			Window:       "none",
		},
		Onset: OnsetConfig{
			Threshold: 0.02,
			Smoothing: 0.8,
		},
		Server: ServerConfig{
			ListenAddr: ":8080",
		},
		Display: DisplayConfig{
			Enabled:    true,
			Highlight:  300 * time.Millisecond,
			GaugeCents: 50,
			Refresh:    50 * time.Millisecond,
		},
	}
}
