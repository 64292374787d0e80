// Package capture defines the audio capture boundary: sources deliver mono
// float32 blocks to a handler, and Run owns the start/stop lifecycle.
package capture

import (
	"context"
	"errors"
	"fmt"
)

// Errors shared by sources.
var (
	ErrStarted = errors.New("capture: source already started")
	ErrClosed  = errors.New("capture: source closed")
)

// Handler receives one block per device buffer. It is called synchronously
// on the source's delivery goroutine and must not retain samples.
type Handler func(samples []float32, sampleRate float64)

// Source is an audio input with an explicit lifecycle.
type Source interface {
	// Start begins delivering blocks to h.
	Start(h Handler) error
	// Stop halts delivery. After Stop returns h is not called again.
	Stop() error
	// SampleRate is the rate of delivered blocks in Hz.
	SampleRate() float64
	// Close releases the device. It is safe to call more than once.
	Close() error
}

// Failer is implemented by sources that can fail after Start.
type Failer interface {
	Err() <-chan error
}

// Run starts src and blocks until ctx is done or the source fails. The
// source is always stopped and closed before Run returns.
func Run(ctx context.Context, src Source, h Handler) (err error) {
	defer func() {
		err = errors.Join(err, shutdown(src))
	}()

	if err := src.Start(h); err != nil {
		return fmt.Errorf("capture: start: %w", err)
	}

	var failed <-chan error
	if f, ok := src.(Failer); ok {
		failed = f.Err()
	}

	select {
	case <-ctx.Done():
		return nil
	case err := <-failed:
		if err != nil {
			return fmt.Errorf("capture: source failed: %w", err)
		}
		return nil
	}
}

func shutdown(src Source) error {
	var errs []error
	if err := src.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("capture: stop: %w", err))
	}
	if err := src.Close(); err != nil {
		errs = append(errs, fmt.Errorf("capture: close: %w", err))
	}

	return errors.Join(errs...)
}
