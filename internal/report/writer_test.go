package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	extractfavicon "github.com/AlexMili/extract-favicon"
)

// testReport returns a probed report with a mix of icon outcomes.
func testReport() *Report {
	return &Report{
		Target:      "https://example.com",
		ExtractedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Probed:      true,
		Icons: []extractfavicon.ResolvedIcon{
			{
				Favicon: extractfavicon.Favicon{
					URL:    "https://example.com/favicon.ico",
					Format: "ico",
					Width:  32,
					Height: 32,
				},
				Reachable:  extractfavicon.Reachable,
				Valid:      true,
				StatusCode: 200,
			},
			{
				Favicon: extractfavicon.Favicon{
					URL:    "https://example.com/apple-touch-icon.png",
					Format: "png",
					Width:  180,
					Height: 180,
				},
				Reachable:  extractfavicon.Reachable,
				Valid:      true,
				StatusCode: 200,
				Redirected: true,
				FinalURL:   "https://cdn.example.com/apple-touch-icon.png",
			},
			{
				Favicon: extractfavicon.Favicon{
					URL:    "https://example.com/gone.svg",
					Format: "svg",
				},
				Reachable:  extractfavicon.Unreachable,
				StatusCode: 404,
			},
		},
	}
}

// TestReportCounters tests the report summary helpers.
func TestReportCounters(t *testing.T) {
	t.Parallel()

	r := testReport()

	if got := r.ReachableCount(); got != 2 {
		t.Errorf("got %d reachable, expected 2", got)
	}
	if got := r.ValidCount(); got != 2 {
		t.Errorf("got %d valid, expected 2", got)
	}

	best := r.Largest()
	if best == nil {
		t.Fatal("expected a largest icon")
	}
	if best.URL != "https://example.com/apple-touch-icon.png" {
		t.Errorf("got largest %q", best.URL)
	}

	empty := &Report{Target: "https://example.com"}
	if empty.Largest() != nil {
		t.Error("expected nil largest for empty report")
	}
}

// TestSimpleWriter tests the plain-text output format.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes target and icon details", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewSimpleWriter(&buf).Write(testReport())
		if err != nil {
			t.Fatalf("failed to write: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
		}

		out := buf.String()
		for _, want := range []string{
			"FAVICON EXTRACTION REPORT",
			"https://example.com",
			"Icons Found:  3",
			"2 reachable, 2 valid",
			"https://example.com/favicon.ico",
			"32x32",
			"Largest: https://example.com/apple-touch-icon.png (180x180)",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("verbose adds status and redirect detail", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(testReport()); err != nil {
			t.Fatalf("failed to write: %v", err)
		}

		out := buf.String()
		if !strings.Contains(out, "https://cdn.example.com/apple-touch-icon.png") {
			t.Errorf("expected redirect target in verbose output:\n%s", out)
		}
		if !strings.Contains(out, "404") {
			t.Errorf("expected status code in verbose output:\n%s", out)
		}
	})

	t.Run("empty report says so", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		r := &Report{Target: "https://example.com", ExtractedAt: time.Now()}
		if _, err := NewSimpleWriter(&buf).Write(r); err != nil {
			t.Fatalf("failed to write: %v", err)
		}
		if !strings.Contains(buf.String(), "No icons found") {
			t.Errorf("expected empty notice:\n%s", buf.String())
		}
	})
}

// TestJSONWriter tests the JSON output format.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("compact output round trips", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(testReport()); err != nil {
			t.Fatalf("failed to write: %v", err)
		}

		var got Report
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if got.Target != "https://example.com" || len(got.Icons) != 3 {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("pretty print indents", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(testReport()); err != nil {
			t.Fatalf("failed to write: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"target\"") {
			t.Errorf("expected indented output:\n%s", buf.String())
		}
	})

	t.Run("omits empty error field", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(testReport()); err != nil {
			t.Fatalf("failed to write: %v", err)
		}
		if strings.Contains(buf.String(), `"error"`) {
			t.Errorf("expected error field omitted:\n%s", buf.String())
		}
	})
}

// TestMarkdownWriter tests the Markdown output format.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("renders header, table, and summary", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(testReport()); err != nil {
			t.Fatalf("failed to write: %v", err)
		}

		out := buf.String()
		for _, want := range []string{
			"# Favicon Extraction Report",
			"## Icons",
			"| URL | Format | Size | Reachable | Valid |",
			"Png",
			"180x180",
			"Unreachable",
			"## Summary",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("warns when nothing was found", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		r := &Report{Target: "https://example.com", ExtractedAt: time.Now(), Probed: true}
		if _, err := NewMarkdownWriter(&buf).Write(r); err != nil {
			t.Fatalf("failed to write: %v", err)
		}
		if !strings.Contains(buf.String(), "No icons found") {
			t.Errorf("expected empty notice:\n%s", buf.String())
		}
	})
}

// failWriter fails after a fixed number of writes.
type failWriter struct {
	remaining int
}

func (f *failWriter) Write(_ *Report) (int, error) {
	if f.remaining <= 0 {
		return 0, errors.New("write failed")
	}
	f.remaining--
	return 1, nil
}

// TestMultiWriter tests fan-out writing.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all destinations", func(t *testing.T) {
		t.Parallel()

		var text, jsonBuf bytes.Buffer
		mw := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&jsonBuf))
		if _, err := mw.Write(testReport()); err != nil {
			t.Fatalf("failed to write: %v", err)
		}
		if text.Len() == 0 || jsonBuf.Len() == 0 {
			t.Error("expected both destinations written")
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		mw := NewMultiWriter(&failWriter{}, NewSimpleWriter(&buf))
		if _, err := mw.Write(testReport()); err == nil {
			t.Error("expected error from failing writer")
		}
		if buf.Len() != 0 {
			t.Error("expected later writer to be skipped")
		}
	})
}
