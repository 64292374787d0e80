package buffer

import (
	"time"

	"github.com/cwbudde/algo-tuner/dsp/core"
)

// Block is a fixed run of mono samples in [-1, 1] together with the rate
// they were captured at. A Block is ephemeral: consumers must not retain it
// after the callback that delivered it returns.
type Block struct {
	samples    []float64
	sampleRate float64
}

// New returns a zero-filled Block of the given length.
func New(length int, sampleRate float64) *Block {
	if length < 0 {
		length = 0
	}
	return &Block{samples: make([]float64, length), sampleRate: sampleRate}
}

// FromSlice wraps an existing slice without copying.
// Mutations to the slice are visible through the Block and vice versa.
func FromSlice(s []float64, sampleRate float64) *Block {
	return &Block{samples: s, sampleRate: sampleRate}
}

// Samples returns the underlying slice.
func (b *Block) Samples() []float64 {
	return b.samples
}

// SampleRate returns the capture rate in Hz.
func (b *Block) SampleRate() float64 {
	return b.sampleRate
}

// SetSampleRate records the capture rate. Devices may report different
// rates, so sources set it on every fill.
func (b *Block) SetSampleRate(sampleRate float64) {
	b.sampleRate = sampleRate
}

// Len returns the current number of samples.
func (b *Block) Len() int {
	return len(b.samples)
}

// Duration returns the wall-clock length of the block, or 0 when the
// sample rate is unusable.
func (b *Block) Duration() time.Duration {
	if b.sampleRate <= 0 || !core.IsFinite(b.sampleRate) {
		return 0
	}
	return time.Duration(float64(len(b.samples)) / b.sampleRate * float64(time.Second))
}

// Resize sets the length to n, reusing existing capacity when possible.
// New elements beyond the previous length are zeroed.
func (b *Block) Resize(n int) {
	if n < 0 {
		n = 0
	}
	oldLen := len(b.samples)
	if n <= cap(b.samples) {
		b.samples = b.samples[:n]
	} else {
		s := make([]float64, n)
		copy(s, b.samples)
		b.samples = s
	}
	// The backing array may hold stale data from an earlier fill.
	if n > oldLen {
		core.Zero(b.samples[oldLen:n])
	}
}

// Zero sets all samples to 0.
func (b *Block) Zero() {
	core.Zero(b.samples)
}

// LoadFloat32 replaces the contents with src converted to float64 and sets
// the sample rate.
func (b *Block) LoadFloat32(src []float32, sampleRate float64) {
	b.samples = core.EnsureLen(b.samples, len(src))
	core.Float32To64(b.samples, src)
	b.sampleRate = sampleRate
}

// Copy returns a deep copy of the block.
func (b *Block) Copy() *Block {
	s := make([]float64, len(b.samples))
	copy(s, b.samples)
	return &Block{samples: s, sampleRate: b.sampleRate}
}
