package report

import (
	"io"
	"time"

	extractfavicon "github.com/AlexMili/extract-favicon"
)

// Report is the result of processing one target page: the candidates
// that were discovered and, when probing ran, their resolved state.
type Report struct {
	// Target is the page URL the icons were extracted from.
	Target string `json:"target"`

	// ExtractedAt is when the extraction ran.
	ExtractedAt time.Time `json:"extracted_at"`

	// Probed records whether the candidates went through size probing.
	// When false, dimensions reflect only what the markup declared.
	Probed bool `json:"probed"`

	// Icons are the resolved candidates in their final order.
	Icons []extractfavicon.ResolvedIcon `json:"icons"`

	// Error holds a human-readable failure description when the target
	// could not be processed at all.
	Error string `json:"error,omitempty"`
}

// ReachableCount returns how many icons were confirmed reachable.
func (r *Report) ReachableCount() int {
	var n int
	for _, icon := range r.Icons {
		if icon.Reachable == extractfavicon.Reachable {
			n++
		}
	}
	return n
}

// ValidCount returns how many icons were confirmed to be images.
func (r *Report) ValidCount() int {
	var n int
	for _, icon := range r.Icons {
		if icon.Valid {
			n++
		}
	}
	return n
}

// Largest returns the icon with the biggest pixel area, or nil when the
// report is empty or no icon has known dimensions.
func (r *Report) Largest() *extractfavicon.ResolvedIcon {
	var best *extractfavicon.ResolvedIcon
	for i := range r.Icons {
		icon := &r.Icons[i]
		if !icon.HasSize() {
			continue
		}
		if best == nil || icon.Area() > best.Area() {
			best = icon
		}
	}
	return best
}

// Writer defines the interface for report output.
// Implementations write extraction results in various formats.
//
// Design decision: We use an interface to allow different output formats
// and destinations. This enables writing to files, stdout, or network
// connections with the same API.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *Report) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write reports, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(report *Report) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
