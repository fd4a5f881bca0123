package guidedsection

import (
	"log/slog"

	"github.com/randalmurphal/guidedsection/pkg/guidedsection/observability"
)

// Option configures a Registry before first use.
type Option func(*Registry)

// WithCapacity sets the maximum number of registered handler entries.
// Default: DefaultCapacity
//
// The capacity fixes the backing-block layout; changing it after the
// registry has resolved a store is not possible. Values below 1 are
// ignored.
func WithCapacity(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.capacity = n
		}
	}
}

// WithStores sets the ordered list of candidate backing stores the
// resolver probes. Default: a single module-owned memory region sized
// for the configured capacity.
func WithStores(stores ...Store) Option {
	return func(r *Registry) {
		r.stores = stores
	}
}

// WithLogger sets the logger for resolver and dispatch events.
// Default: nil (logging disabled)
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
// Default: observability.NoopMetrics{}
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(r *Registry) {
		if m != nil {
			r.metrics = m
		}
	}
}

// WithSpanManager sets the span manager used around dispatch operations.
// Default: observability.NoopSpanManager{}
func WithSpanManager(s observability.SpanManager) Option {
	return func(r *Registry) {
		if s != nil {
			r.spans = s
		}
	}
}
