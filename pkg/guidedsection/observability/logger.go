// Package observability provides structured logging, metrics, and tracing
// hooks for guidedsection registries.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// LogResolve logs adoption of a backing store. entries is the number of
// handler slots the adopted block already held.
func LogResolve(logger *slog.Logger, store string, entries int) {
	if logger == nil {
		return
	}
	logger.Info("backing store resolved",
		slog.String("store", store),
		slog.Int("entries", entries),
	)
}

// LogProbeRejected logs a candidate store that failed its probe.
func LogProbeRejected(logger *slog.Logger, store string, err error) {
	if logger == nil {
		return
	}
	logger.Debug("backing store candidate rejected",
		slog.String("store", store),
		slog.String("error", err.Error()),
	)
}

// LogResolveFailed logs exhaustion of the candidate list.
func LogResolveFailed(logger *slog.Logger, candidates int) {
	if logger == nil {
		return
	}
	logger.Error("no usable backing store",
		slog.Int("candidates", candidates),
	)
}

// LogRegister logs a handler registration.
func LogRegister(logger *slog.Logger, guid string, replaced bool, entries int) {
	if logger == nil {
		return
	}
	logger.Debug("handler registered",
		slog.String("guid", guid),
		slog.Bool("replaced", replaced),
		slog.Int("entries", entries),
	)
}

// LogDispatch logs a completed dispatch operation.
func LogDispatch(logger *slog.Logger, op, guid string, durationMs float64, err error) {
	if logger == nil {
		return
	}
	if err != nil {
		logger.Error("dispatch failed",
			slog.String("op", op),
			slog.String("guid", guid),
			slog.Float64("duration_ms", durationMs),
			slog.String("error", err.Error()),
		)
		return
	}
	logger.Debug("dispatch completed",
		slog.String("op", op),
		slog.String("guid", guid),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogDispatchMiss logs dispatch of a section with no registered handler.
func LogDispatchMiss(logger *slog.Logger, op, guid string) {
	if logger == nil {
		return
	}
	logger.Debug("no handler for section",
		slog.String("op", op),
		slog.String("guid", guid),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
