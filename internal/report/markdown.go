package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	extractfavicon "github.com/AlexMili/extract-favicon"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter

	// titleCaser renders enum-ish values (png, reachable) as table-friendly
	// display strings (Png, Reachable).
	titleCaser cases.Caser
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		titleCaser: cases.Title(language.English),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *Report) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeIconsTable(md, report)
	w.writeSummary(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with target information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *Report) {
	md.H1("Favicon Extraction Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Target", "`" + report.Target + "`"},
			{"Extracted At", report.ExtractedAt.Format("2006-01-02 15:04:05 MST")},
			{"Icons Found", strconv.Itoa(len(report.Icons))},
			{"Status", w.statusText(report)},
		},
	})
	md.PlainText("")
}

// statusText returns the status text based on report state.
func (w *MarkdownWriter) statusText(report *Report) string {
	if report.Error != "" {
		return "❌ Error - " + report.Error
	}
	if report.Probed {
		return fmt.Sprintf("✅ Probed (%d reachable, %d valid)",
			report.ReachableCount(), report.ValidCount())
	}
	return "ℹ️ Discovered (not probed)"
}

// writeIconsTable writes the per-icon result table.
func (w *MarkdownWriter) writeIconsTable(md *markdown.Markdown, report *Report) {
	md.H2("Icons")
	md.PlainText("")

	if len(report.Icons) == 0 {
		md.PlainText("No icons found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Icons))
	for i, icon := range report.Icons {
		rows[i] = []string{
			"`" + displayURL(icon.URL) + "`",
			w.displayValue(icon.Format),
			w.sizeText(icon),
			w.titleCaser.String(icon.Reachable.String()),
			w.validText(icon),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"URL", "Format", "Size", "Reachable", "Valid"},
		Rows:   rows,
	})
	md.PlainText("")
}

// sizeText renders an icon's dimensions.
func (w *MarkdownWriter) sizeText(icon extractfavicon.ResolvedIcon) string {
	if !icon.HasSize() {
		return "unknown"
	}
	return fmt.Sprintf("%dx%d", icon.Width, icon.Height)
}

// validText renders an icon's validity marker.
func (w *MarkdownWriter) validText(icon extractfavicon.ResolvedIcon) string {
	if icon.Valid {
		return "✅"
	}
	if icon.Reachable == extractfavicon.ReachabilityUnknown {
		return "❓"
	}
	return "❌"
}

// displayValue title-cases a value or substitutes a dash when empty.
func (w *MarkdownWriter) displayValue(s string) string {
	if s == "" {
		return "-"
	}
	return w.titleCaser.String(strings.ToLower(s))
}

// writeSummary writes the best-candidate summary and an appropriate alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *Report) {
	md.H2("Summary")
	md.PlainText("")

	if best := report.Largest(); best != nil {
		md.PlainTextf("Largest icon: `%s` (%dx%d)", displayURL(best.URL), best.Width, best.Height)
		md.PlainText("")
	}

	switch {
	case report.Error != "":
		md.Cautionf("The target could not be processed: %s", report.Error)
	case len(report.Icons) == 0:
		md.Warning("No favicon candidates were found for this target.")
	case report.Probed && report.ValidCount() == 0:
		md.Warningf("None of the %d candidate(s) resolved to a valid image.", len(report.Icons))
	case report.Probed:
		md.Tipf("%d of %d candidate(s) resolved to valid images.", report.ValidCount(), len(report.Icons))
	default:
		md.Note("Candidates were discovered from markup only; run with probing to verify them.")
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [extract-favicon](https://github.com/AlexMili/extract-favicon)*")
}
