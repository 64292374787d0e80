package capture

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cwbudde/algo-tuner/dsp/core"
	"github.com/cwbudde/algo-tuner/dsp/signal"
)

// Note is one step of a synthetic performance. A zero Frequency rests.
type Note struct {
	Frequency float64
	Amplitude float64
	Hold      time.Duration
}

// SyntheticConfig configures a Synthetic source.
type SyntheticConfig struct {
	SampleRate float64
	BlockSize  int
	Notes      []Note
	Decay      float64 // envelope time constant in seconds
	Noise      float64 // white noise amplitude
	Seed       int64
	// Paced delivers one block per block period; otherwise blocks are
	// generated as fast as the handler consumes them.
	Paced bool
	// Loop restarts the note list after the last note.
	Loop bool
}

// Synthetic renders plucked notes as if they came from a device.
type Synthetic struct {
	cfg   SyntheticConfig
	voice *signal.Voice

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	errc    chan error
	closed  bool
	started bool
}

// NewSynthetic validates cfg and returns an idle source.
func NewSynthetic(cfg SyntheticConfig) (*Synthetic, error) {
	if !(cfg.SampleRate > 0) || !core.IsFinite(cfg.SampleRate) {
		return nil, fmt.Errorf("capture: synthetic sample rate must be positive and finite: %f", cfg.SampleRate)
	}
	if cfg.BlockSize <= 0 {
		return nil, fmt.Errorf("capture: synthetic block size must be > 0: %d", cfg.BlockSize)
	}
	if len(cfg.Notes) == 0 {
		return nil, errors.New("capture: synthetic source needs at least one note")
	}
	if cfg.Decay == 0 {
		cfg.Decay = 1.5
	}

	notes := make([]Note, len(cfg.Notes))
	for i, n := range cfg.Notes {
		if n.Frequency > 0 && n.Amplitude == 0 {
			n.Amplitude = 0.4
		}
		notes[i] = n
	}
	cfg.Notes = notes

	gen := signal.NewGeneratorWithOptions(
		[]core.ProcessorOption{core.WithSampleRate(cfg.SampleRate), core.WithBlockSize(cfg.BlockSize)},
		signal.WithSeed(cfg.Seed),
	)

	voice, err := gen.NewVoice(cfg.Decay, cfg.Noise)
	if err != nil {
		return nil, fmt.Errorf("capture: %w", err)
	}

	return &Synthetic{
		cfg:   cfg,
		voice: voice,
		errc:  make(chan error, 1),
	}, nil
}

// SampleRate implements Source.
func (s *Synthetic) SampleRate() float64 {
	return s.cfg.SampleRate
}

// Err implements Failer. A non-looping source reports nil once its notes
// are exhausted.
func (s *Synthetic) Err() <-chan error {
	return s.errc
}

// Start implements Source.
func (s *Synthetic) Start(h Handler) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.started {
		return ErrStarted
	}

	s.started = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go s.run(h, s.stop, s.done)

	return nil
}

// Stop implements Source.
func (s *Synthetic) Stop() error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	stop, done := s.stop, s.done
	s.mu.Unlock()

	close(stop)
	<-done

	return nil
}

// Close implements Source.
func (s *Synthetic) Close() error {
	if err := s.Stop(); err != nil {
		return err
	}

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	return nil
}

func (s *Synthetic) run(h Handler, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	period := time.Duration(float64(s.cfg.BlockSize) / s.cfg.SampleRate * float64(time.Second))

	var tick <-chan time.Time
	if s.cfg.Paced {
		t := time.NewTicker(period)
		defer t.Stop()
		tick = t.C
	}

	block := make([]float64, s.cfg.BlockSize)
	out := make([]float32, s.cfg.BlockSize)

	for {
		for _, n := range s.cfg.Notes {
			if n.Frequency > 0 {
				s.voice.Pluck(n.Frequency, n.Amplitude)
			} else {
				s.voice.Mute()
			}

			blocks := max(1, int(n.Hold/period))
			for range blocks {
				if tick != nil {
					select {
					case <-stop:
						return
					case <-tick:
					}
				} else {
					select {
					case <-stop:
						return
					default:
					}
				}

				s.voice.Render(block)
				for i, v := range block {
					out[i] = float32(v)
				}
				h(out, s.cfg.SampleRate)
			}
		}

		if !s.cfg.Loop {
			select {
			case s.errc <- nil:
			default:
			}
			return
		}
	}
}
