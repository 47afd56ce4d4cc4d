package report

import (
	"fmt"
	"io"
	"strings"

	extractfavicon "github.com/AlexMili/extract-favicon"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables additional detail per icon (status codes,
	// redirect targets).
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *Report) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeIcons(&sb, report)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with target information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *Report) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                      FAVICON EXTRACTION REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Target:       %s\n", report.Target))
	sb.WriteString(fmt.Sprintf("Extracted At: %s\n", report.ExtractedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Icons Found:  %d\n", len(report.Icons)))

	if report.Error != "" {
		sb.WriteString(fmt.Sprintf("Status:       ERROR - %s\n", report.Error))
	} else if report.Probed {
		sb.WriteString(fmt.Sprintf("Status:       Probed (%d reachable, %d valid)\n",
			report.ReachableCount(), report.ValidCount()))
	} else {
		sb.WriteString("Status:       Discovered (not probed)\n")
	}

	sb.WriteString("\n")
}

// writeIcons writes one block per icon.
func (w *SimpleWriter) writeIcons(sb *strings.Builder, report *Report) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("ICONS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(report.Icons) == 0 {
		sb.WriteString("  No icons found\n\n")
		return
	}

	for _, icon := range report.Icons {
		sb.WriteString(fmt.Sprintf("  [%s] %s\n", w.iconIndicator(icon), displayURL(icon.URL)))
		sb.WriteString(fmt.Sprintf("    Format: %s\n", orDash(icon.Format)))
		if icon.HasSize() {
			sb.WriteString(fmt.Sprintf("    Size:   %dx%d\n", icon.Width, icon.Height))
		} else {
			sb.WriteString("    Size:   unknown\n")
		}
		if w.verbose {
			sb.WriteString(fmt.Sprintf("    Reachable: %s\n", icon.Reachable.String()))
			if icon.StatusCode != 0 {
				sb.WriteString(fmt.Sprintf("    Status:    %d\n", icon.StatusCode))
			}
			if icon.Redirected {
				sb.WriteString(fmt.Sprintf("    Redirect:  %s\n", icon.FinalURL))
			}
		}
	}
	sb.WriteString("\n")

	if best := report.Largest(); best != nil {
		sb.WriteString(fmt.Sprintf("  Largest: %s (%dx%d)\n\n",
			displayURL(best.URL), best.Width, best.Height))
	}
}

// iconIndicator returns a short marker for an icon's resolution state.
func (w *SimpleWriter) iconIndicator(icon extractfavicon.ResolvedIcon) string {
	switch {
	case icon.Reachable == extractfavicon.Reachable && icon.Valid:
		return "+"
	case icon.Reachable == extractfavicon.Unreachable:
		return "x"
	case icon.Reachable == extractfavicon.Reachable:
		return "~"
	default:
		return "?"
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

// displayURL shortens data URIs, whose payloads can run to kilobytes.
func displayURL(url string) string {
	const maxLen = 80
	if len(url) <= maxLen {
		return url
	}
	return url[:maxLen-3] + "..."
}

// orDash substitutes "-" for empty values in display output.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
