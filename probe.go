package extractfavicon

import (
	"context"
	"encoding/base64"
	"io"
	"strings"
	"time"

	"github.com/AlexMili/extract-favicon/internal/imagemeta"
)

// Probing defaults. The byte budget bounds worst-case bandwidth per icon to
// a small constant regardless of actual file size; most format headers
// decode within the first chunk.
const (
	// DefaultByteBudget is the maximum number of response bytes read
	// while probing an image's dimensions. Reading may overshoot by at
	// most one chunk.
	DefaultByteBudget = 2048

	// DefaultChunkSize is how many bytes are read per iteration before
	// re-attempting a header decode.
	DefaultChunkSize = 512
)

// Option tunes the probing and orchestration operations. The zero set of
// options gives each operation its documented defaults.
type Option func(*options)

type options struct {
	byteBudget     int
	chunkSize      int
	force          bool
	sleep          time.Duration
	loadBase64     bool
	mode           Mode
	includeUnknown bool
	sortOrder      SortOrder
}

// WithByteBudget caps the response bytes read while probing one icon.
func WithByteBudget(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.byteBudget = n
		}
	}
}

// WithChunkSize sets the read size between header-decode attempts.
func WithChunkSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

// WithForce re-probes icons whose size or unreachability is already known.
func WithForce(force bool) Option {
	return func(o *options) {
		o.force = force
	}
}

// WithSleep sets the politeness pause between successive network requests.
// It is never applied after the last request of a batch.
func WithSleep(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.sleep = d
		}
	}
}

// WithLoadBase64 makes GuessMissingSizes decode inline data URIs locally.
func WithLoadBase64(load bool) Option {
	return func(o *options) {
		o.loadBase64 = load
	}
}

// WithMode selects the download strategy (all, largest, smallest).
func WithMode(m Mode) Option {
	return func(o *options) {
		o.mode = m
	}
}

// WithIncludeUnknown controls whether candidates with unknown dimensions
// are considered at all. When false they are dropped before any probing.
func WithIncludeUnknown(include bool) Option {
	return func(o *options) {
		o.includeUnknown = include
	}
}

// WithSortOrder sets the pixel-area order of the final result.
func WithSortOrder(s SortOrder) Option {
	return func(o *options) {
		o.sortOrder = s
	}
}

// GuessSize determines an icon's pixel dimensions by reading only the first
// bytes of its response stream.
//
// Icons that already have a known size, or are already known unreachable,
// are returned unchanged unless WithForce is set. Inline data URIs are
// decoded locally without any network activity.
//
// Network failures and non-image responses are recorded on the returned
// record, never returned as errors. Exhausting the byte budget before the
// header decodes leaves the dimensions at 0 with Valid still true: the
// bytes were image-shaped, the prefix was just too short.
func GuessSize(ctx context.Context, c *Client, icon ResolvedIcon, opts ...Option) ResolvedIcon {
	o := options{byteBudget: DefaultByteBudget, chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(&o)
	}
	if c == nil {
		c = NewClient()
	}

	if icon.HasSize() && !o.force {
		c.logger.Debug("size already known, skipping probe", "url", icon.URL)
		return icon
	}
	if icon.Reachable == Unreachable && !o.force {
		c.logger.Debug("known unreachable, skipping probe", "url", icon.URL)
		return icon
	}
	if icon.IsDataURI() {
		return decodeDataIcon(icon)
	}

	resp, err := c.open(ctx, icon.URL)
	if err != nil {
		c.logger.Debug("probe request failed", "url", icon.URL, "error", err)
		out := icon
		out.Reachable = Unreachable
		out.Valid = false
		out.FinalURL = icon.URL
		out.StatusCode = -1
		return out
	}
	defer func() { _ = resp.Body.Close() }()

	out := icon
	out.FinalURL = resp.Request.URL.String()
	out.Redirected = out.FinalURL != icon.URL
	out.StatusCode = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Non-success: no bytes are read.
		out.Reachable = Unreachable
		out.Valid = false
		return out
	}
	if !strings.Contains(resp.Header.Get("Content-Type"), "image") {
		// Success but not image data: reachable yet invalid, and
		// there is nothing useful to read either.
		out.Reachable = Reachable
		out.Valid = false
		return out
	}

	out.Reachable = Reachable
	out.Valid = true

	parser := imagemeta.NewParser()
	chunk := make([]byte, o.chunkSize)
	bytesRead := 0
	for {
		n, readErr := io.ReadFull(resp.Body, chunk)
		if n > 0 {
			bytesRead += n
			if parser.Feed(chunk[:n]) {
				width, height, _ := parser.Size()
				out.Favicon = out.Favicon.withSize(width, height)
				break
			}
		}
		if readErr != nil {
			// Stream ended (or broke) before the header resolved.
			// The truncated prefix was still image-typed, so the
			// icon stays valid with unknown dimensions.
			break
		}
		if bytesRead > o.byteBudget {
			c.logger.Debug("byte budget exhausted before header decode",
				"url", icon.URL, "bytes_read", bytesRead)
			break
		}
	}
	return out
}

// decodeDataIcon resolves an inline data-URI candidate locally: the payload
// is decoded in memory and its header parsed in full. Data URIs are always
// reachable; Valid reflects whether the payload decoded as an image.
func decodeDataIcon(icon ResolvedIcon) ResolvedIcon {
	out := icon
	out.Reachable = Reachable
	out.FinalURL = icon.URL

	payload, ok := dataURIPayload(icon.URL)
	if !ok {
		out.Valid = false
		return out
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Some generators omit padding.
		raw, err = base64.RawStdEncoding.DecodeString(payload)
	}
	if err != nil {
		out.Valid = false
		return out
	}

	width, height, _, err := imagemeta.DecodeSize(raw)
	if err != nil {
		out.Valid = false
		return out
	}
	out.Valid = true
	out.Favicon = out.Favicon.withSize(width, height)
	return out
}

// sleepBetween pauses between successive network requests, returning early
// when the context is cancelled. Politeness, not correctness.
func sleepBetween(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
