// Package display renders tuner readings as a text panel: pitch readout,
// energy meter, deviation gauge and a string row with pluck highlights.
package display

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/cwbudde/algo-tuner/measure/tuner"
	"github.com/cwbudde/algo-tuner/measure/tuning"
)

const (
	DefaultHighlight  = 300 * time.Millisecond
	DefaultGaugeCents = 50.0
	DefaultRefresh    = 50 * time.Millisecond

	gaugeWidth  = 41
	meterWidth  = 20
	clearScreen = "\x1b[H\x1b[2J"
)

// Config configures a Panel.
type Config struct {
	Highlight  time.Duration
	GaugeCents float64
	Refresh    time.Duration
	// ANSI clears the terminal before each frame.
	ANSI bool
}

// Option mutates Config.
type Option func(*Config)

// WithHighlight sets how long a plucked string stays lit.
func WithHighlight(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.Highlight = d
		}
	}
}

// WithGaugeCents sets the gauge half-width.
func WithGaugeCents(limit float64) Option {
	return func(c *Config) {
		if limit > 0 && !math.IsInf(limit, 0) {
			c.GaugeCents = limit
		}
	}
}

// WithRefresh sets the frame interval used by Run.
func WithRefresh(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.Refresh = d
		}
	}
}

// WithANSI enables screen clearing between frames.
func WithANSI(enabled bool) Option {
	return func(c *Config) { c.ANSI = enabled }
}

// Panel holds presentation state derived from readings. It is owned by a
// single goroutine.
type Panel struct {
	cfg        Config
	tuning     *tuning.Tuning
	highlights *Highlights
	latest     tuner.Reading
	seen       bool
	now        func() time.Time
}

// New returns a Panel for t.
func New(t *tuning.Tuning, opts ...Option) *Panel {
	cfg := Config{
		Highlight:  DefaultHighlight,
		GaugeCents: DefaultGaugeCents,
		Refresh:    DefaultRefresh,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if t == nil {
		t = tuning.Standard()
	}

	return &Panel{
		cfg:        cfg,
		tuning:     t,
		highlights: NewHighlights(cfg.Highlight),
		now:        time.Now,
	}
}

// Config returns the active configuration.
func (p *Panel) Config() Config {
	return p.cfg
}

// Update records r as the current reading and lights its plucked string.
func (p *Panel) Update(r tuner.Reading) {
	p.latest = r
	p.seen = true
	if r.Pluck != nil {
		p.highlights.Mark(r.Pluck.String, r.Pluck.At)
	}
}

// Frame renders the panel as of now.
func (p *Panel) Frame(now time.Time) string {
	p.highlights.Expire(now)

	r := p.latest
	var b strings.Builder

	if r.Result != nil {
		fmt.Fprintf(&b, "Pitch:  %.2f Hz\n", r.Frequency)
	} else {
		b.WriteString("Pitch:  —\n")
	}

	fmt.Fprintf(&b, "Energy: %.2f %s\n", r.SmoothedEnergy, meter(r.SmoothedEnergy))

	if r.Result != nil {
		res := r.Result
		fmt.Fprintf(&b, "Target: %s %.2f Hz  %+.1f cents  %s\n",
			res.String.Name, res.String.Frequency, res.Cents, res.Status)
		fmt.Fprintf(&b, "        %s\n", Gauge(res.Cents, p.cfg.GaugeCents, gaugeWidth))
	} else {
		b.WriteString("Target: —\n")
		fmt.Fprintf(&b, "        %s\n", Gauge(math.NaN(), p.cfg.GaugeCents, gaugeWidth))
	}

	b.WriteString(p.stringRow(now))
	b.WriteByte('\n')

	return b.String()
}

// stringRow lists every string; the active one is bracketed and plucked
// ones are starred.
func (p *Panel) stringRow(now time.Time) string {
	active := ""
	if p.latest.Result != nil {
		active = p.latest.Result.String.Name
	}

	refs := p.tuning.Strings()
	cells := make([]string, len(refs))
	for i, ref := range refs {
		cell := ref.Name
		if p.highlights.Lit(ref.Name, now) {
			cell += "*"
		}
		if ref.Name == active {
			cell = "[" + cell + "]"
		} else {
			cell = " " + cell + " "
		}
		cells[i] = cell
	}

	return strings.Join(cells, " ")
}

// Run renders a frame to w every Refresh interval, consuming readings as
// they arrive, until ctx is cancelled or readings is closed.
func (p *Panel) Run(ctx context.Context, w io.Writer, readings <-chan tuner.Reading) error {
	ticker := time.NewTicker(p.cfg.Refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case r, ok := <-readings:
			if !ok {
				return nil
			}
			p.Update(r)
		case <-ticker.C:
			if !p.seen {
				continue
			}
			if err := p.write(w); err != nil {
				return err
			}
		}
	}
}

func (p *Panel) write(w io.Writer) error {
	frame := p.Frame(p.now())
	if p.cfg.ANSI {
		frame = clearScreen + frame
	}
	if _, err := io.WriteString(w, frame); err != nil {
		return fmt.Errorf("display: write frame: %w", err)
	}
	return nil
}

func meter(energy float64) string {
	n := int(math.Round(math.Min(math.Max(energy, 0)*4, 1) * meterWidth))
	return "[" + strings.Repeat("#", n) + strings.Repeat(" ", meterWidth-n) + "]"
}
