package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHandler captures log records for testing.
type testHandler struct {
	buf    *bytes.Buffer
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

func newTestHandler() *testHandler {
	return &testHandler{
		buf:   &bytes.Buffer{},
		level: slog.LevelDebug,
	}
}

func (h *testHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *testHandler) Handle(_ context.Context, r slog.Record) error {
	// Build a map from the record
	data := map[string]any{
		"level": r.Level.String(),
		"msg":   r.Message,
	}

	for _, attr := range h.attrs {
		data[attr.Key] = attr.Value.Any()
	}

	r.Attrs(func(a slog.Attr) bool {
		data[a.Key] = a.Value.Any()
		return true
	})

	enc := json.NewEncoder(h.buf)
	if err := enc.Encode(data); err != nil {
		return err
	}
	return nil
}

func (h *testHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newH := &testHandler{
		buf:    h.buf,
		level:  h.level,
		attrs:  make([]slog.Attr, len(h.attrs)+len(attrs)),
		groups: h.groups,
	}
	copy(newH.attrs, h.attrs)
	copy(newH.attrs[len(h.attrs):], attrs)
	return newH
}

func (h *testHandler) WithGroup(name string) slog.Handler {
	newH := &testHandler{
		buf:    h.buf,
		level:  h.level,
		attrs:  h.attrs,
		groups: append(h.groups, name),
	}
	return newH
}

func (h *testHandler) getLastRecord() map[string]any {
	lines := bytes.Split(h.buf.Bytes(), []byte("\n"))
	for i := len(lines) - 1; i >= 0; i-- {
		if len(lines[i]) > 0 {
			var m map[string]any
			if err := json.Unmarshal(lines[i], &m); err == nil {
				return m
			}
		}
	}
	return nil
}

func TestLogResolve(t *testing.T) {
	t.Run("logs store and entries at INFO level", func(t *testing.T) {
		h := newTestHandler()
		logger := slog.New(h)

		LogResolve(logger, "nvram", 3)

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "INFO", record["level"])
		assert.Equal(t, "backing store resolved", record["msg"])
		assert.Equal(t, "nvram", record["store"])
		assert.Equal(t, float64(3), record["entries"]) // JSON decodes ints as float64
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogResolve(nil, "nvram", 0)
		})
	})
}

func TestLogProbeRejected(t *testing.T) {
	t.Run("logs at DEBUG level with error", func(t *testing.T) {
		h := newTestHandler()
		logger := slog.New(h)
		testErr := errors.New("write protected")

		LogProbeRejected(logger, "rom", testErr)

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "DEBUG", record["level"])
		assert.Equal(t, "backing store candidate rejected", record["msg"])
		assert.Equal(t, "rom", record["store"])
		assert.Equal(t, "write protected", record["error"])
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogProbeRejected(nil, "rom", errors.New("err"))
		})
	})
}

func TestLogResolveFailed(t *testing.T) {
	t.Run("logs candidate count at ERROR level", func(t *testing.T) {
		h := newTestHandler()
		logger := slog.New(h)

		LogResolveFailed(logger, 4)

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "ERROR", record["level"])
		assert.Equal(t, "no usable backing store", record["msg"])
		assert.Equal(t, float64(4), record["candidates"])
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogResolveFailed(nil, 0)
		})
	})
}

func TestLogRegister(t *testing.T) {
	t.Run("logs at DEBUG level", func(t *testing.T) {
		h := newTestHandler()
		logger := slog.New(h)

		LogRegister(logger, "ee4e5898-3914-4259-9d6e-dc7bd79403cf", true, 2)

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "DEBUG", record["level"])
		assert.Equal(t, "handler registered", record["msg"])
		assert.Equal(t, "ee4e5898-3914-4259-9d6e-dc7bd79403cf", record["guid"])
		assert.Equal(t, true, record["replaced"])
		assert.Equal(t, float64(2), record["entries"])
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogRegister(nil, "guid", false, 1)
		})
	})
}

func TestLogDispatch(t *testing.T) {
	t.Run("success logs at DEBUG level", func(t *testing.T) {
		h := newTestHandler()
		logger := slog.New(h)

		LogDispatch(logger, "decode", "guid-a", 1.5, nil)

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "DEBUG", record["level"])
		assert.Equal(t, "dispatch completed", record["msg"])
		assert.Equal(t, "decode", record["op"])
		assert.Equal(t, "guid-a", record["guid"])
		assert.Equal(t, 1.5, record["duration_ms"])
	})

	t.Run("failure logs at ERROR level with error", func(t *testing.T) {
		h := newTestHandler()
		logger := slog.New(h)
		testErr := errors.New("bad compressed stream")

		LogDispatch(logger, "decode", "guid-b", 0.2, testErr)

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "ERROR", record["level"])
		assert.Equal(t, "dispatch failed", record["msg"])
		assert.Equal(t, "bad compressed stream", record["error"])
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogDispatch(nil, "get_info", "guid", 0, errors.New("err"))
		})
	})
}

func TestLogDispatchMiss(t *testing.T) {
	t.Run("logs op and guid at DEBUG level", func(t *testing.T) {
		h := newTestHandler()
		logger := slog.New(h)

		LogDispatchMiss(logger, "get_info", "guid-c")

		record := h.getLastRecord()
		require.NotNil(t, record)
		assert.Equal(t, "DEBUG", record["level"])
		assert.Equal(t, "no handler for section", record["msg"])
		assert.Equal(t, "get_info", record["op"])
		assert.Equal(t, "guid-c", record["guid"])
	})

	t.Run("nil logger does not panic", func(t *testing.T) {
		assert.NotPanics(t, func() {
			LogDispatchMiss(nil, "decode", "guid")
		})
	})
}

func TestTimedOperation(t *testing.T) {
	t.Run("measures duration", func(t *testing.T) {
		done := TimedOperation()
		time.Sleep(10 * time.Millisecond)
		duration := done()

		// Should be at least 10ms
		assert.GreaterOrEqual(t, duration, 10.0)
		// Should be less than 100ms (reasonable upper bound)
		assert.Less(t, duration, 100.0)
	})

	t.Run("can be called multiple times", func(t *testing.T) {
		done := TimedOperation()
		time.Sleep(5 * time.Millisecond)
		d1 := done()
		time.Sleep(5 * time.Millisecond)
		d2 := done()

		// Second call should have larger duration
		assert.Greater(t, d2, d1)
	})
}
