// Package main provides the entry point for the extract-favicon CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	applog "github.com/AlexMili/extract-favicon/internal/log"
)

// NewRootCmd creates the root command for extract-favicon.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract-favicon",
		Short: "Discover and resolve the favicons a web page declares",
		Long: `extract-favicon parses a web page for favicon declarations (link and meta
tags, plus the conventional fallback paths) and optionally probes each
candidate to learn its real dimensions without downloading full images.

Probing reads only the first couple of kilobytes of each icon, enough to
decode the image header, and pauses between requests to stay polite.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewExtractCmd())
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates a structured logger based on verbosity setting.
// Attribute values are capped so base64 icon payloads cannot flood the
// terminal.
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	return slog.New(applog.NewTruncateHandler(handler))
}
