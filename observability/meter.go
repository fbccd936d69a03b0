package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// newMeterProvider exports metrics to the OTLP/HTTP endpoint in cfg every
// cfg.Interval, or at the SDK default interval when unset.
func newMeterProvider(ctx context.Context, cfg Config, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}
	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	), nil
}

// Metrics holds the transcription instruments.
type Metrics struct {
	requestTotal    metric.Int64Counter
	requestDuration metric.Float64Histogram
	requestActive   metric.Int64UpDownCounter
	stageDuration   metric.Float64Histogram
	stageErrors     metric.Int64Counter
	audioBytes      metric.Int64Histogram
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	requestTotal, err := meter.Int64Counter("transcription.requests",
		metric.WithDescription("Transcription requests by backend and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.requests counter: %w", err)
	}

	requestDuration, err := meter.Float64Histogram("transcription.duration",
		metric.WithDescription("End-to-end duration of transcription requests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.duration histogram: %w", err)
	}

	requestActive, err := meter.Int64UpDownCounter("transcription.active",
		metric.WithDescription("Transcription requests in flight"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.active counter: %w", err)
	}

	stageDuration, err := meter.Float64Histogram("transcription.stage.duration",
		metric.WithDescription("Duration of each request stage"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.stage.duration histogram: %w", err)
	}

	stageErrors, err := meter.Int64Counter("transcription.stage.errors",
		metric.WithDescription("Stage failures by stage and error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.stage.errors counter: %w", err)
	}

	audioBytes, err := meter.Int64Histogram("transcription.audio.size",
		metric.WithDescription("Size of submitted recordings"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating transcription.audio.size histogram: %w", err)
	}

	return &Metrics{
		requestTotal:    requestTotal,
		requestDuration: requestDuration,
		requestActive:   requestActive,
		stageDuration:   stageDuration,
		stageErrors:     stageErrors,
		audioBytes:      audioBytes,
	}, nil
}

// NewDefaultMetrics creates instruments on the global meter provider, which
// is a no-op until Setup installs an exporting one.
func NewDefaultMetrics() (*Metrics, error) {
	return NewMetrics(otel.Meter(instrumentationName))
}

// RecordRequestStart marks a request in flight and records its payload size.
func (m *Metrics) RecordRequestStart(ctx context.Context, backend string, size int) {
	attrs := metric.WithAttributes(attribute.String(AttrBackend, backend))
	m.requestActive.Add(ctx, 1, attrs)
	m.audioBytes.Record(ctx, int64(size), attrs)
}

// RecordRequestEnd records a finished request.
func (m *Metrics) RecordRequestEnd(ctx context.Context, backend, outcome string, duration time.Duration) {
	m.requestActive.Add(ctx, -1, metric.WithAttributes(attribute.String(AttrBackend, backend)))
	attrs := metric.WithAttributes(
		attribute.String(AttrBackend, backend),
		attribute.String(AttrOutcome, outcome),
	)
	m.requestTotal.Add(ctx, 1, attrs)
	m.requestDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordStage records one stage run. A non-empty errCode counts a failure.
func (m *Metrics) RecordStage(ctx context.Context, backend, stage, errCode string, duration time.Duration) {
	m.stageDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(AttrBackend, backend),
		attribute.String(AttrStage, stage),
	))
	if errCode != "" {
		m.stageErrors.Add(ctx, 1, metric.WithAttributes(
			attribute.String(AttrBackend, backend),
			attribute.String(AttrStage, stage),
			attribute.String(AttrErrorCode, errCode),
		))
	}
}
