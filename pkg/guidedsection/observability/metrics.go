package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records registry metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordResolve records adoption of a backing store.
	RecordResolve(ctx context.Context, store string, entries int)

	// RecordRegistration records a handler registration.
	RecordRegistration(ctx context.Context, replaced bool)

	// RecordDispatch records a dispatch operation with its duration and
	// error status.
	RecordDispatch(ctx context.Context, op string, duration time.Duration, err error)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	resolves        metric.Int64Counter
	registrations   metric.Int64Counter
	dispatches      metric.Int64Counter
	dispatchLatency metric.Float64Histogram
	dispatchErrors  metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("guidedsection")

	resolves, err := meter.Int64Counter("guidedsection.store.resolves",
		metric.WithDescription("Number of backing-store adoptions"),
	)
	if err != nil {
		return nil, err
	}

	registrations, err := meter.Int64Counter("guidedsection.registrations",
		metric.WithDescription("Number of handler registrations"),
	)
	if err != nil {
		return nil, err
	}

	dispatches, err := meter.Int64Counter("guidedsection.dispatches",
		metric.WithDescription("Number of dispatch operations"),
	)
	if err != nil {
		return nil, err
	}

	dispatchLatency, err := meter.Float64Histogram("guidedsection.dispatch.latency_ms",
		metric.WithDescription("Dispatch latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	dispatchErrors, err := meter.Int64Counter("guidedsection.dispatch.errors",
		metric.WithDescription("Number of failed dispatch operations"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		resolves:        resolves,
		registrations:   registrations,
		dispatches:      dispatches,
		dispatchLatency: dispatchLatency,
		dispatchErrors:  dispatchErrors,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordResolve records adoption of a backing store.
func (m *otelMetrics) RecordResolve(ctx context.Context, store string, entries int) {
	m.resolves.Add(ctx, 1, metric.WithAttributes(
		attribute.String("store", store),
		attribute.Int("entries", entries),
	))
}

// RecordRegistration records a handler registration.
func (m *otelMetrics) RecordRegistration(ctx context.Context, replaced bool) {
	m.registrations.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("replaced", replaced),
	))
}

// RecordDispatch records a dispatch operation.
func (m *otelMetrics) RecordDispatch(ctx context.Context, op string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("op", op),
	}

	m.dispatches.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.dispatchLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if err != nil {
		m.dispatchErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}
