package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	extractfavicon "github.com/AlexMili/extract-favicon"
	"github.com/AlexMili/extract-favicon/internal/cache"
	"github.com/AlexMili/extract-favicon/internal/config"
	"github.com/AlexMili/extract-favicon/internal/report"
)

// NewExtractCmd creates the extract command.
func NewExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [page-url]...",
		Short: "Extract favicon candidates from web pages",
		Long: `Extract parses one or more web pages for favicon declarations.

By default only the markup is inspected: icons are listed with whatever
dimensions the page declares. With --probe, candidates missing dimensions
are resolved by reading their image headers. With --download, every
candidate is fully resolved and unreachable or invalid ones are dropped.

Examples:
  # List declared icons without touching them
  extract-favicon extract https://example.com

  # Probe dimensions for icons the markup leaves unsized
  extract-favicon extract --probe https://example.com

  # Resolve everything and keep only the largest working icon
  extract-favicon extract --download --mode largest https://example.com

  # Process several pages concurrently with JSON output
  extract-favicon extract --download --json site1.com site2.com site3.com

Configuration file (.extract-favicon) example:
  user_agent: "mybot/1.0"
  timeout_seconds: 10
  sleep_seconds: 1
  mode: largest
  include_fallbacks: true`,
		Args: cobra.ArbitraryArgs,
		RunE: runExtractCmd,
	}

	// Resolution behavior flags
	cmd.Flags().BoolP("probe", "p", false,
		"Probe icons whose dimensions the markup does not declare")
	cmd.Flags().BoolP("download", "d", false,
		"Fully resolve candidates and drop unreachable or invalid ones (implies probing)")
	cmd.Flags().String("mode", config.DefaultMode,
		"Download strategy: all, largest, or smallest")
	cmd.Flags().String("sort", config.DefaultSort,
		"Final ordering by pixel area: asc or desc")
	cmd.Flags().Bool("include-unknown", true,
		"Keep candidates whose dimensions stay unknown")
	cmd.Flags().BoolP("fallbacks", "f", false,
		"Try conventional paths (/favicon.ico, ...) when the page declares no icons")

	// Network behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Connection timeout for each request")
	cmd.Flags().DurationP("sleep", "s", config.DefaultSleep,
		"Pause between successive probes of the same page")
	cmd.Flags().StringP("user-agent", "A", config.DefaultUserAgent,
		"User-Agent header sent on every request")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of pages processed concurrently")

	// Cache flags
	cmd.Flags().String("cache-dir", "",
		"Probe cache directory (default: XDG data directory)")
	cmd.Flags().Bool("no-cache", false,
		"Disable the probe result cache")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .extract-favicon in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path in addition to stdout (creates directories if needed)")

	return cmd
}

// runExtractCmd executes the extract command.
func runExtractCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	verbose := getVerboseFlag(cmd)
	cfg.Verbose = verbose
	logger := setupLogger(verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runExtract(ctx, cfg, logger)
}

// buildConfig creates a Config from cobra command flags.
// The configuration file (when present) is applied first; flags set
// explicitly on the command line override it.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently continue when no file exists.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.Apply(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	// File-overridable values only win when the flag was set explicitly.
	if cmd.Flags().Changed("timeout") {
		if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("sleep") {
		if cfg.Sleep, err = cmd.Flags().GetDuration("sleep"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("user-agent") {
		if cfg.UserAgent, err = cmd.Flags().GetString("user-agent"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("mode") {
		if cfg.Mode, err = cmd.Flags().GetString("mode"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("sort") {
		if cfg.Sort, err = cmd.Flags().GetString("sort"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("fallbacks") {
		if cfg.IncludeFallbacks, err = cmd.Flags().GetBool("fallbacks"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("cache-dir") {
		if cfg.CacheDir, err = cmd.Flags().GetString("cache-dir"); err != nil {
			return nil, err
		}
	}

	cfg.Probe, err = cmd.Flags().GetBool("probe")
	if err != nil {
		return nil, err
	}

	cfg.Download, err = cmd.Flags().GetBool("download")
	if err != nil {
		return nil, err
	}

	cfg.IncludeUnknown, err = cmd.Flags().GetBool("include-unknown")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.NoCache, err = cmd.Flags().GetBool("no-cache")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	// Get positional arguments (page URLs)
	cfg.Targets = args

	return cfg, nil
}

// runExtract executes the extraction.
func runExtract(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if len(cfg.Targets) == 0 {
		return errors.New("no targets provided (specify one or more page URLs as arguments)")
	}

	logger.Info("starting extraction",
		"targets", cfg.Targets,
		"probe", cfg.Probe,
		"download", cfg.Download,
		"batchSize", cfg.BatchSize,
	)

	// Open the probe cache unless disabled
	var pc *cache.ProbeCache
	if !cfg.NoCache {
		var err error
		pc, err = cache.Open(cfg.CacheDir, cache.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open probe cache: %w", err)
		}
		defer pc.Close() //nolint:errcheck
		logger.Info("probe cache opened", "dir", cfg.CacheDir)
	}

	client := extractfavicon.NewClient(
		extractfavicon.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		extractfavicon.WithUserAgent(cfg.UserAgent),
		extractfavicon.WithLogger(logger),
	)

	// Process targets concurrently when there is more than one, while
	// keeping probing within each page strictly sequential.
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.BatchSize)

	for _, target := range cfg.Targets {
		target := target
		g.Go(func() error {
			rep := processTarget(ctx, client, pc, cfg, logger, target)

			mu.Lock()
			defer mu.Unlock()
			if err := outputReport(cfg, rep); err != nil {
				logger.Error("report failed", "target", target, "error", err)
				return err
			}
			return nil
		})
	}

	return g.Wait()
}

// processTarget extracts and resolves icons for one page. Failures are
// recorded in the report rather than aborting the run: other targets in
// the batch should still be processed.
func processTarget(ctx context.Context, client *extractfavicon.Client, pc *cache.ProbeCache, cfg *config.Config, logger *slog.Logger, target string) *report.Report {
	rep := &report.Report{
		Target:      target,
		ExtractedAt: time.Now(),
		Probed:      cfg.Probe || cfg.Download,
	}

	favicons, err := extractfavicon.FromURL(ctx, client, target, cfg.IncludeFallbacks)
	if err != nil {
		logger.Error("extraction failed", "target", target, "error", err)
		rep.Error = err.Error()
		return rep
	}
	logger.Debug("candidates discovered", "target", target, "count", len(favicons))

	// Known dimensions from earlier runs spare a probe: the resolver
	// skips candidates whose size is already settled.
	applyCache(ctx, pc, favicons, logger)

	opts := []extractfavicon.Option{
		extractfavicon.WithSleep(cfg.Sleep),
		extractfavicon.WithByteBudget(cfg.ByteBudget),
		extractfavicon.WithChunkSize(cfg.ChunkSize),
		extractfavicon.WithIncludeUnknown(cfg.IncludeUnknown),
	}
	if mode, err := extractfavicon.ParseMode(cfg.Mode); err == nil {
		opts = append(opts, extractfavicon.WithMode(mode))
	}
	if order, err := extractfavicon.ParseSortOrder(cfg.Sort); err == nil {
		opts = append(opts, extractfavicon.WithSortOrder(order))
	}

	switch {
	case cfg.Download:
		rep.Icons = extractfavicon.Download(ctx, client, favicons, opts...)
	case cfg.Probe:
		rep.Icons = extractfavicon.GuessMissingSizes(ctx, client, favicons, opts...)
	default:
		rep.Icons = make([]extractfavicon.ResolvedIcon, 0, len(favicons))
		for _, f := range favicons {
			rep.Icons = append(rep.Icons, extractfavicon.NewResolvedIcon(f))
		}
	}

	if rep.Probed {
		storeCache(ctx, pc, rep.Icons, logger)
	}

	return rep
}

// applyCache fills in dimensions remembered from earlier probes.
func applyCache(ctx context.Context, pc *cache.ProbeCache, favicons []extractfavicon.Favicon, logger *slog.Logger) {
	if pc == nil {
		return
	}

	for i := range favicons {
		if favicons[i].HasSize() || favicons[i].IsDataURI() {
			continue
		}
		entry, err := pc.Get(ctx, favicons[i].URL)
		if err != nil {
			logger.Warn("cache lookup failed", "url", favicons[i].URL, "error", err)
			continue
		}
		if entry == nil || !entry.Valid || entry.Width == 0 {
			continue
		}
		favicons[i].Width = entry.Width
		favicons[i].Height = entry.Height
		if favicons[i].Format == "" {
			favicons[i].Format = entry.Format
		}
		logger.Debug("cache hit", "url", favicons[i].URL, "width", entry.Width, "height", entry.Height)
	}
}

// storeCache remembers probe outcomes for future runs. Only icons whose
// reachability was actually settled are worth storing.
func storeCache(ctx context.Context, pc *cache.ProbeCache, icons []extractfavicon.ResolvedIcon, logger *slog.Logger) {
	if pc == nil {
		return
	}

	for _, icon := range icons {
		if icon.Reachable == extractfavicon.ReachabilityUnknown || icon.IsDataURI() {
			continue
		}
		entry := &cache.Entry{
			URL:        icon.URL,
			Format:     icon.Format,
			Width:      icon.Width,
			Height:     icon.Height,
			Valid:      icon.Valid,
			StatusCode: icon.StatusCode,
		}
		if err := pc.Put(ctx, entry); err != nil {
			logger.Warn("cache store failed", "url", icon.URL, "error", err)
		}
	}
}

// outputReport outputs the report in the requested format. The report
// always goes to stdout; with --output it is additionally appended to
// the given file through a MultiWriter.
func outputReport(cfg *config.Config, rep *report.Report) error {
	writers := []report.Writer{newFormatWriter(cfg, os.Stdout)}

	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Append so batch runs collect every target's report in one file.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close() //nolint:errcheck
		writers = append(writers, newFormatWriter(cfg, f))
	}

	_, err := report.NewMultiWriter(writers...).Write(rep)
	return err
}

// newFormatWriter builds the report writer for the requested format.
func newFormatWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
}
