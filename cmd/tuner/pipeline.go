package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cwbudde/algo-tuner/internal/app"
	"github.com/cwbudde/algo-tuner/internal/capture"
	"github.com/cwbudde/algo-tuner/internal/display"
	"github.com/cwbudde/algo-tuner/internal/observe"
	"github.com/cwbudde/algo-tuner/internal/server"
	"github.com/cwbudde/algo-tuner/measure/tuner"
)

const version = "0.1.0"

// runPipeline runs src through the tuner until interrupted or the source
// ends, with the panel and server enabled per cfg.
func runPipeline(src capture.Source, out io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts, err := cfg.TunerOptions()
	if err != nil {
		return err
	}
	t := tuner.New(opts...)

	provider, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceVersion: version,
		Registry:       prometheus.NewRegistry(),
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			log.Warn("metrics shutdown", "error", err)
		}
	}()

	metrics, err := observe.NewMetrics(provider.MeterProvider)
	if err != nil {
		return err
	}

	appOpts := app.Options{
		Source:  src,
		Tuner:   t,
		Metrics: metrics,
		Logger:  log,
	}

	if cfg.Display.Enabled {
		appOpts.Panel = display.New(t.Tuning(),
			display.WithHighlight(cfg.Display.Highlight),
			display.WithGaugeCents(cfg.Display.GaugeCents),
			display.WithRefresh(cfg.Display.Refresh),
			display.WithANSI(isTerminal(out)),
		)
		appOpts.Output = out
	}

	if cfg.Server.Enabled {
		appOpts.Server = server.New(server.Options{
			Tuning:         t.Tuning(),
			AllowedOrigins: cfg.Server.AllowedOrigins,
			MetricsHandler: provider.Handler,
			Metrics:        metrics,
			Logger:         log,
		})
		appOpts.ListenAddr = cfg.Server.ListenAddr
	}

	a, err := app.New(appOpts)
	if err != nil {
		return err
	}

	if err := a.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("stopped")
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
