// Package observe provides the tuner's OpenTelemetry metrics, the
// Prometheus exporter bridge and HTTP middleware.
//
// Tests should build [Metrics] with [NewMetrics] over a provider backed by
// a manual reader rather than the global provider.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/cwbudde/algo-tuner"

// Metrics holds all instruments. Safe for concurrent use.
type Metrics struct {
	// BlockDuration tracks the time spent classifying one block. It must
	// stay well below the block period.
	BlockDuration metric.Float64Histogram

	// Blocks counts processed blocks. Attribute: outcome.
	Blocks metric.Int64Counter

	// Plucks counts pluck events. Attribute: string.
	Plucks metric.Int64Counter

	// CentsOffset records the deviation of matched blocks. Attribute: string.
	CentsOffset metric.Float64Histogram

	// Energy is the latest raw block energy.
	Energy metric.Float64Gauge

	// DroppedReadings counts readings a slow consumer never saw.
	// Attribute: consumer.
	DroppedReadings metric.Int64Counter

	// StreamClients tracks connected WebSocket clients.
	StreamClients metric.Int64UpDownCounter

	// HTTPRequestDuration tracks HTTP handling time. Attributes: method, path.
	HTTPRequestDuration metric.Float64Histogram
}

// blockBuckets are seconds; a 2048-sample block at 44.1 kHz lasts 46 ms.
var blockBuckets = []float64{
	0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05,
}

var centsBuckets = []float64{-50, -25, -10, -5, 0, 5, 10, 25, 50}

// NewMetrics creates all instruments on mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.BlockDuration, err = m.Float64Histogram("tuner.block.duration",
		metric.WithDescription("Time to classify one audio block."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(blockBuckets...),
	); err != nil {
		return nil, err
	}
	if met.CentsOffset, err = m.Float64Histogram("tuner.cents.offset",
		metric.WithDescription("Deviation from the nearest string in cents."),
		metric.WithUnit("{cent}"),
		metric.WithExplicitBucketBoundaries(centsBuckets...),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("tuner.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if met.Blocks, err = m.Int64Counter("tuner.blocks",
		metric.WithDescription("Processed audio blocks by outcome."),
	); err != nil {
		return nil, err
	}
	if met.Plucks, err = m.Int64Counter("tuner.plucks",
		metric.WithDescription("Detected plucks by string."),
	); err != nil {
		return nil, err
	}
	if met.DroppedReadings, err = m.Int64Counter("tuner.readings.dropped",
		metric.WithDescription("Readings dropped because a consumer was busy."),
	); err != nil {
		return nil, err
	}

	if met.Energy, err = m.Float64Gauge("tuner.energy",
		metric.WithDescription("Raw RMS energy of the latest block."),
	); err != nil {
		return nil, err
	}
	if met.StreamClients, err = m.Int64UpDownCounter("tuner.stream.clients",
		metric.WithDescription("Connected WebSocket clients."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns a package-level instance on the global provider.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Block describes one processed block for RecordBlock.
type Block struct {
	Duration time.Duration
	Outcome  string
	Energy   float64
	String   string // matched string, empty when idle
	Cents    float64
	Plucked  bool
}

// RecordBlock records every per-block instrument.
func (m *Metrics) RecordBlock(ctx context.Context, b Block) {
	m.BlockDuration.Record(ctx, b.Duration.Seconds())
	m.Blocks.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", b.Outcome)))
	m.Energy.Record(ctx, b.Energy)

	if b.String == "" {
		return
	}

	str := metric.WithAttributes(attribute.String("string", b.String))
	m.CentsOffset.Record(ctx, b.Cents, str)

	if b.Plucked {
		m.Plucks.Add(ctx, 1, str)
	}
}

// RecordDropped counts a reading skipped by consumer.
func (m *Metrics) RecordDropped(ctx context.Context, consumer string) {
	m.DroppedReadings.Add(ctx, 1, metric.WithAttributes(attribute.String("consumer", consumer)))
}
