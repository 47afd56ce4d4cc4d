package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

// newTestLogger returns a logger writing through a TruncateHandler into buf.
func newTestLogger(buf *bytes.Buffer, opts ...TruncateHandlerOption) *slog.Logger {
	inner := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(NewTruncateHandler(inner, opts...))
}

// TestTruncateHandler tests attribute value capping.
func TestTruncateHandler(t *testing.T) {
	t.Parallel()

	t.Run("short values pass through unchanged", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		newTestLogger(&buf).Info("probe", "url", "https://example.com/favicon.ico")

		out := buf.String()
		if !strings.Contains(out, "https://example.com/favicon.ico") {
			t.Errorf("expected untouched URL in output, got %q", out)
		}
		if strings.Contains(out, truncationMarker) {
			t.Errorf("short value must not be truncated: %q", out)
		}
	})

	t.Run("long values are capped", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		long := "data:image/png;base64," + strings.Repeat("A", 4096)
		newTestLogger(&buf).Info("probe", "url", long)

		out := buf.String()
		if strings.Contains(out, strings.Repeat("A", 1024)) {
			t.Errorf("expected value to be capped, output has %d bytes", len(out))
		}
		if !strings.Contains(out, truncationMarker) {
			t.Errorf("expected truncation marker in output: %q", out)
		}
	})

	t.Run("custom max length", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		newTestLogger(&buf, WithMaxValueLen(8)).Info("probe", "url", "https://example.com/really-long-path")

		if !strings.Contains(buf.String(), "https://"+truncationMarker) {
			t.Errorf("expected 8-byte cap, got %q", buf.String())
		}
	})

	t.Run("non-string attributes are untouched", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		newTestLogger(&buf, WithMaxValueLen(2)).Info("probe", "status", 200)

		if !strings.Contains(buf.String(), "status=200") {
			t.Errorf("expected numeric attribute to survive, got %q", buf.String())
		}
	})

	t.Run("preloaded attrs are capped too", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := newTestLogger(&buf, WithMaxValueLen(4)).With("target", "abcdefghij")
		logger.Info("probe")

		if !strings.Contains(buf.String(), "abcd"+truncationMarker) {
			t.Errorf("expected WithAttrs value capped, got %q", buf.String())
		}
	})
}
