// Package log provides slog handler utilities for the CLI.
//
// The engine logs URLs at debug level, and inline data URIs routinely run
// to tens of kilobytes. TruncateHandler wraps any slog.Handler and caps
// oversized attribute values before they reach the terminal, so a single
// data-URI favicon cannot flood the output.
package log
