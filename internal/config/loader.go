package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-tuner/dsp/window"
	"github.com/cwbudde/algo-tuner/measure/onset"
	"github.com/cwbudde/algo-tuner/measure/pitch"
	"github.com/cwbudde/algo-tuner/measure/tuner"
	"github.com/cwbudde/algo-tuner/measure/tuning"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TUNER_"

// Load reads the YAML file at path over Defaults and validates the result.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes YAML from r over Defaults and validates it.
// An empty document yields the defaults.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Defaults()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overlays TUNER_* variables found through lookup, typically
// os.LookupEnv. Malformed numbers are reported together.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	var errs []error

	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok {
			*dst = v
		}
	}
	num := func(name string, dst *float64) {
		if v, ok := lookup(EnvPrefix + name); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = f
		}
	}

	var level string
	str("LOG_LEVEL", &level)
	if level != "" {
		cfg.LogLevel = LogLevel(strings.ToLower(level))
	}

	str("DEVICE", &cfg.Audio.Device)
	num("SAMPLE_RATE", &cfg.Audio.SampleRate)
	if v, ok := lookup(EnvPrefix + "BLOCK_SIZE"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, fmt.Errorf("%sBLOCK_SIZE: %w", EnvPrefix, err))
		} else {
			cfg.Audio.BlockSize = n
		}
	}

	num("NOISE_FLOOR", &cfg.Pitch.NoiseFloor)
	str("METHOD", &cfg.Pitch.Method)
	str("WINDOW", &cfg.Pitch.Window)
	num("PLUCK_THRESHOLD", &cfg.Onset.Threshold)
	str("LISTEN_ADDR", &cfg.Server.ListenAddr)

	if v, ok := lookup(EnvPrefix + "ALLOWED_ORIGINS"); ok {
		cfg.Server.AllowedOrigins = splitList(v)
	}

	return errors.Join(errs...)
}

// Validate checks that cfg is coherent and returns every problem found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.LogLevel != "" && !cfg.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("log_level %q is invalid; valid values: debug, info, warn, error", cfg.LogLevel))
	}

	if cfg.Audio.SampleRate < 0 {
		errs = append(errs, fmt.Errorf("audio.sample_rate %.0f must be >= 0", cfg.Audio.SampleRate))
	}
	if cfg.Audio.BlockSize < 64 || cfg.Audio.BlockSize > 65536 {
		errs = append(errs, fmt.Errorf("audio.block_size %d is out of range [64, 65536]", cfg.Audio.BlockSize))
	}

	if cfg.Pitch.NoiseFloor < 0 {
		errs = append(errs, fmt.Errorf("pitch.noise_floor %v must be >= 0", cfg.Pitch.NoiseFloor))
	}
	if !(cfg.Pitch.MinFrequency > 0 && cfg.Pitch.MaxFrequency > cfg.Pitch.MinFrequency) {
		errs = append(errs, fmt.Errorf("pitch frequency range [%v, %v] is invalid", cfg.Pitch.MinFrequency, cfg.Pitch.MaxFrequency))
	}
	if _, err := parseMethod(cfg.Pitch.Method); err != nil {
		errs = append(errs, err)
	}
	if _, err := window.ParseType(cfg.Pitch.Window); err != nil {
		errs = append(errs, fmt.Errorf("pitch.window: %w", err))
	}

	if cfg.Onset.Threshold < 0 {
		errs = append(errs, fmt.Errorf("onset.threshold %v must be >= 0", cfg.Onset.Threshold))
	}
	if cfg.Onset.Smoothing < 0 || cfg.Onset.Smoothing >= 1 {
		errs = append(errs, fmt.Errorf("onset.smoothing %v is out of range [0, 1)", cfg.Onset.Smoothing))
	}

	if cfg.Server.Enabled && cfg.Server.ListenAddr == "" {
		errs = append(errs, errors.New("server.listen_addr is required when the server is enabled"))
	}

	if cfg.Display.Highlight < 0 {
		errs = append(errs, fmt.Errorf("display.highlight %v must be >= 0", cfg.Display.Highlight))
	}
	if cfg.Display.GaugeCents <= 0 {
		errs = append(errs, fmt.Errorf("display.gauge_cents %v must be > 0", cfg.Display.GaugeCents))
	}

	if len(cfg.Tuning) > 0 {
		if _, err := tuning.New(cfg.Tuning...); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// TuningSet returns the configured tuning or standard tuning.
func (c *Config) TuningSet() (*tuning.Tuning, error) {
	if len(c.Tuning) == 0 {
		return tuning.Standard(), nil
	}
	return tuning.New(c.Tuning...)
}

// TunerOptions translates the configuration into pipeline options.
// Validate must have passed.
func (c *Config) TunerOptions() ([]tuner.Option, error) {
	method, err := parseMethod(c.Pitch.Method)
	if err != nil {
		return nil, err
	}
	win, err := window.ParseType(c.Pitch.Window)
	if err != nil {
		return nil, fmt.Errorf("pitch.window: %w", err)
	}
	set, err := c.TuningSet()
	if err != nil {
		return nil, err
	}

	return []tuner.Option{
		tuner.WithTuning(set),
		tuner.WithPitchOptions(
			pitch.WithNoiseFloor(c.Pitch.NoiseFloor),
			pitch.WithFrequencyRange(c.Pitch.MinFrequency, c.Pitch.MaxFrequency),
			pitch.WithMethod(method),
			pitch.WithWindow(win),
		),
		tuner.WithOnsetOptions(onset.WithThreshold(c.Onset.Threshold)),
		tuner.WithSmoothing(c.Onset.Smoothing),
	}, nil
}

func parseMethod(name string) (pitch.Method, error) {
	switch strings.ToLower(name) {
	case "", "direct":
		return pitch.MethodDirect, nil
	case "fft":
		return pitch.MethodFFT, nil
	default:
		return 0, fmt.Errorf("pitch.method %q is invalid; valid values: direct, fft", name)
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
