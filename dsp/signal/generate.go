// Package signal generates deterministic test and simulation signals:
// sines, white noise and decaying plucked-string tones.
package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-tuner/dsp/core"
)

// Relative amplitudes of the first harmonics of a plucked string.
var pluckHarmonics = [...]float64{0.7, 0.2, 0.1}

// Generator creates deterministic signals from a shared configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return NewGeneratorWithOptions(opts)
}

// NewGeneratorWithOptions creates a configured signal generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Seed returns the noise seed.
func (g *Generator) Seed() int64 {
	return g.seed
}

// Sine generates a sine wave starting at phase 0.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// Pluck generates a single plucked-string tone: three harmonics under an
// exponential envelope with time constant decay (seconds).
func (g *Generator) Pluck(freqHz, amplitude, decay float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("pluck samples must be > 0: %d", samples)
	}
	v, err := g.NewVoice(decay, 0)
	if err != nil {
		return nil, err
	}
	v.Pluck(freqHz, amplitude)
	out := make([]float64, samples)
	v.Render(out)
	return out, nil
}

// Voice renders a plucked string block by block, keeping phase and
// envelope continuous across blocks. Not safe for concurrent use.
type Voice struct {
	sampleRate float64
	decay      float64
	noiseAmp   float64
	rng        *rand.Rand

	freq  float64
	amp   float64
	phase float64
	env   float64
}

// NewVoice returns a silent voice. decay is the envelope time constant in
// seconds; noise adds white noise of that amplitude to every block.
func (g *Generator) NewVoice(decay, noise float64) (*Voice, error) {
	if !(decay > 0) || math.IsInf(decay, 0) {
		return nil, fmt.Errorf("voice decay must be positive and finite: %f", decay)
	}
	if noise < 0 {
		return nil, fmt.Errorf("voice noise amplitude must be >= 0: %f", noise)
	}
	return &Voice{
		sampleRate: g.cfg.SampleRate,
		decay:      decay,
		noiseAmp:   noise,
		rng:        rand.New(rand.NewSource(g.seed)),
	}, nil
}

// Pluck restarts the envelope at amplitude with a new fundamental.
func (v *Voice) Pluck(freqHz, amplitude float64) {
	v.freq = freqHz
	v.amp = amplitude
	v.env = 1
	v.phase = 0
}

// Mute silences the string; only noise remains.
func (v *Voice) Mute() {
	v.env = 0
}

// Frequency returns the fundamental of the last pluck.
func (v *Voice) Frequency() float64 {
	return v.freq
}

// Render overwrites dst with the next len(dst) samples.
func (v *Voice) Render(dst []float64) {
	step := 2 * math.Pi * v.freq / v.sampleRate
	fall := math.Exp(-1 / (v.decay * v.sampleRate))

	for i := range dst {
		var s float64
		if v.env > 0 {
			for h, a := range pluckHarmonics {
				s += a * math.Sin(float64(h+1)*v.phase)
			}
			s *= v.amp * v.env
			v.env *= fall
			v.phase += step
			if v.phase >= 2*math.Pi {
				v.phase -= 2 * math.Pi
			}
		}
		if v.noiseAmp > 0 {
			s += (v.rng.Float64()*2 - 1) * v.noiseAmp
		}
		dst[i] = s
	}
}
