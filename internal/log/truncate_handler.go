package log

import (
	"context"
	"log/slog"
)

// DefaultMaxValueLen is the attribute value length above which values are
// truncated. Long enough for any reasonable URL, short enough that a
// base64 payload cannot take over a log line.
const DefaultMaxValueLen = 256

// truncationMarker is appended to values that were cut.
const truncationMarker = "...(truncated)"

// TruncateHandler wraps an slog.Handler and caps string attribute values
// at a maximum length. It integrates with standard slog APIs and works
// with any underlying handler (text, JSON, ...), the same wrapper shape
// as any other handler middleware.
type TruncateHandler struct {
	// handler is the underlying slog handler receiving capped records.
	handler slog.Handler

	// maxLen is the maximum string attribute value length.
	maxLen int
}

// TruncateHandlerOption configures a TruncateHandler.
type TruncateHandlerOption func(*TruncateHandler)

// WithMaxValueLen sets the maximum attribute value length.
func WithMaxValueLen(n int) TruncateHandlerOption {
	return func(h *TruncateHandler) {
		if n > 0 {
			h.maxLen = n
		}
	}
}

// NewTruncateHandler creates a TruncateHandler wrapping the given handler.
// If handler is nil, slog.Default()'s handler is used.
func NewTruncateHandler(handler slog.Handler, opts ...TruncateHandlerOption) *TruncateHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	h := &TruncateHandler{handler: handler, maxLen: DefaultMaxValueLen}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Enabled reports whether the handler handles records at the given level.
func (h *TruncateHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle caps the record's attribute values and passes it on.
func (h *TruncateHandler) Handle(ctx context.Context, r slog.Record) error {
	capped := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		capped.AddAttrs(h.truncateAttr(a))
		return true
	})
	return h.handler.Handle(ctx, capped)
}

// WithAttrs returns a new handler with the given attributes capped and
// added to the underlying handler.
func (h *TruncateHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	capped := make([]slog.Attr, 0, len(attrs))
	for _, a := range attrs {
		capped = append(capped, h.truncateAttr(a))
	}
	return &TruncateHandler{handler: h.handler.WithAttrs(capped), maxLen: h.maxLen}
}

// WithGroup returns a new handler with the given group name.
func (h *TruncateHandler) WithGroup(name string) slog.Handler {
	return &TruncateHandler{handler: h.handler.WithGroup(name), maxLen: h.maxLen}
}

// truncateAttr caps one attribute, recursing into groups.
func (h *TruncateHandler) truncateAttr(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		s := a.Value.String()
		if len(s) > h.maxLen {
			return slog.String(a.Key, s[:h.maxLen]+truncationMarker)
		}
		return a
	case slog.KindGroup:
		attrs := a.Value.Group()
		capped := make([]slog.Attr, 0, len(attrs))
		for _, ga := range attrs {
			capped = append(capped, h.truncateAttr(ga))
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(capped...)}
	default:
		return a
	}
}
