// Package app wires a capture source to the tuner and fans each reading
// out to metrics, the terminal panel and the HTTP server.
package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-tuner/dsp/buffer"
	"github.com/cwbudde/algo-tuner/internal/capture"
	"github.com/cwbudde/algo-tuner/internal/display"
	"github.com/cwbudde/algo-tuner/internal/observe"
	"github.com/cwbudde/algo-tuner/internal/server"
	"github.com/cwbudde/algo-tuner/measure/tuner"
)

// ErrNoSource is returned by New without a capture source.
var ErrNoSource = errors.New("app: capture source is required")

// Options configures an App. Only Source is required.
type Options struct {
	Source  capture.Source
	Tuner   *tuner.Tuner
	Metrics *observe.Metrics
	Logger  *slog.Logger

	// Panel renders to Output when both are set.
	Panel  *display.Panel
	Output io.Writer

	// Server listens on ListenAddr when both are set.
	Server     *server.Server
	ListenAddr string

	// Sink, if set, receives every reading on the capture goroutine.
	Sink func(tuner.Reading)
}

// App runs the capture → tuner → consumers pipeline.
type App struct {
	opts     Options
	log      *slog.Logger
	pool     *buffer.Pool
	readings chan tuner.Reading
}

// New validates opts and fills defaults.
func New(opts Options) (*App, error) {
	if opts.Source == nil {
		return nil, ErrNoSource
	}
	if opts.Tuner == nil {
		opts.Tuner = tuner.New()
	}
	if opts.Metrics == nil {
		opts.Metrics = observe.DefaultMetrics()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	a := &App{
		opts: opts,
		log:  opts.Logger.With("component", "app"),
		pool: buffer.NewPool(),
	}
	if opts.Panel != nil && opts.Output != nil {
		a.readings = make(chan tuner.Reading, 1)
	}

	return a, nil
}

// Run blocks until ctx is cancelled, the source ends or any component
// fails. When the source ends on its own the other components are
// stopped and Run returns its error, if any.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		a.log.Info("capture started", "sample_rate", a.opts.Source.SampleRate())
		err := capture.Run(gctx, a.opts.Source, a.handle)
		a.log.Info("capture stopped")
		return err
	})

	if a.readings != nil {
		g.Go(func() error {
			return a.opts.Panel.Run(gctx, a.opts.Output, a.readings)
		})
	}

	if a.opts.Server != nil && a.opts.ListenAddr != "" {
		g.Go(func() error {
			return a.opts.Server.ListenAndServe(gctx, a.opts.ListenAddr)
		})
	}

	return g.Wait()
}

// handle runs on the capture goroutine for every device buffer.
func (a *App) handle(samples []float32, sampleRate float64) {
	ctx := context.Background()
	start := time.Now()

	block := a.pool.Get(len(samples), sampleRate)
	block.LoadFloat32(samples, sampleRate)
	r := a.opts.Tuner.ProcessBlock(block)
	a.pool.Put(block)

	rec := observe.Block{
		Duration: time.Since(start),
		Outcome:  r.Outcome.String(),
		Energy:   r.Energy,
		Plucked:  r.Pluck != nil,
	}
	if r.Result != nil {
		rec.String = r.Result.String.Name
		rec.Cents = r.Result.Cents
	}
	a.opts.Metrics.RecordBlock(ctx, rec)

	if r.Pluck != nil {
		a.log.Debug("pluck", "string", r.Pluck.String, "cents", rec.Cents)
	}

	a.dispatch(ctx, r)
}

// dispatch never blocks the capture goroutine. A slow panel misses
// readings; the next one supersedes them.
func (a *App) dispatch(ctx context.Context, r tuner.Reading) {
	if a.readings != nil {
		select {
		case a.readings <- r:
		default:
			a.opts.Metrics.RecordDropped(ctx, "display")
		}
	}

	if a.opts.Server != nil {
		if err := a.opts.Server.Publish(ctx, r); err != nil {
			a.log.Warn("publish reading", "error", err)
		}
	}

	if a.opts.Sink != nil {
		a.opts.Sink(r)
	}
}
