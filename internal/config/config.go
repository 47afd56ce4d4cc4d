package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. Where a value mirrors an engine default
// (byte budget, chunk size) the engine constant is authoritative; these
// exist so the CLI can document them in --help.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "extract-favicon"

	// DefaultTimeout is the per-request timeout. Favicon probes read at
	// most a few kilobytes, so anything slower than this is effectively
	// down.
	DefaultTimeout = 30 * time.Second

	// DefaultSleep is the politeness pause between successive probes of
	// the same batch. Two seconds matches typical crawler etiquette.
	DefaultSleep = 2 * time.Second

	// DefaultByteBudget is the maximum bytes read per icon while
	// probing dimensions.
	DefaultByteBudget = 2048

	// DefaultChunkSize is the read size between header-decode attempts.
	DefaultChunkSize = 512

	// DefaultBatchSize is the number of target pages processed
	// concurrently. Probing within one page stays sequential; this only
	// parallelizes across independent hosts.
	DefaultBatchSize = 4

	// DefaultMode downloads every surviving candidate.
	DefaultMode = "all"

	// DefaultSort ranks the final list smallest-first.
	DefaultSort = "asc"

	// DefaultUserAgent identifies the tool in HTTP requests.
	DefaultUserAgent = "extract-favicon/2.0 (+https://github.com/AlexMili/extract-favicon)"

	// DefaultMaxBodySize caps how much of a page body is read when
	// fetching markup. 5MB covers any sane HTML page.
	DefaultMaxBodySize = 5 * 1024 * 1024
)

// Config holds all options for one CLI invocation.
type Config struct {
	// Targets is the list of page or icon URLs to process.
	Targets []string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// Sleep is the politeness pause between successive probes.
	Sleep time.Duration

	// ByteBudget caps bytes read per icon during size probing.
	ByteBudget int

	// ChunkSize is the read size between header-decode attempts.
	ChunkSize int

	// BatchSize is the number of targets processed concurrently.
	BatchSize int

	// UserAgent is sent on every request.
	UserAgent string

	// Mode is the download strategy: all, largest, or smallest.
	Mode string

	// Sort orders the final result by pixel area: asc or desc.
	Sort string

	// IncludeUnknown keeps candidates with unknown dimensions.
	IncludeUnknown bool

	// IncludeFallbacks adds the conventional fallback catalog when a
	// page declares no icons.
	IncludeFallbacks bool

	// Probe guesses missing sizes by reading icon header bytes.
	Probe bool

	// Download fully resolves candidates via the orchestrator instead
	// of just discovering them. Implies probing.
	Download bool

	// Force re-checks icons whose state is already known.
	Force bool

	// CacheDir is where the probe-result cache database lives.
	// Empty means the XDG default; see DefaultCacheDir.
	CacheDir string

	// NoCache disables the probe-result cache entirely.
	NoCache bool

	// JSONReport outputs a JSON report instead of the plain text one.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport outputs a Markdown report instead of the plain
	// text one. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile writes the report to a file instead of stdout.
	ReportFile string

	// ConfigFilePath is an explicit configuration file path. Empty
	// triggers the FindConfigFile search order.
	ConfigFilePath string

	// Verbose enables slog.LevelDebug output.
	Verbose bool
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		Timeout:        DefaultTimeout,
		Sleep:          DefaultSleep,
		ByteBudget:     DefaultByteBudget,
		ChunkSize:      DefaultChunkSize,
		BatchSize:      DefaultBatchSize,
		UserAgent:      DefaultUserAgent,
		Mode:           DefaultMode,
		Sort:           DefaultSort,
		IncludeUnknown: true,
		CacheDir:       DefaultCacheDir(),
	}
}

// DefaultCacheDir returns the XDG data directory for the probe cache
// (~/.local/share/extract-favicon on Linux).
func DefaultCacheDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return errors.New("at least one target URL is required")
	}
	if c.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if c.Sleep < 0 {
		return errors.New("sleep must not be negative")
	}
	if c.ByteBudget <= 0 {
		return errors.New("byte budget must be positive")
	}
	if c.ChunkSize <= 0 {
		return errors.New("chunk size must be positive")
	}
	if c.BatchSize <= 0 {
		return errors.New("batch size must be positive")
	}
	switch c.Mode {
	case "all", "largest", "smallest":
	default:
		return fmt.Errorf("unknown mode %q (want all, largest, or smallest)", c.Mode)
	}
	switch c.Sort {
	case "asc", "desc":
	default:
		return fmt.Errorf("unknown sort order %q (want asc or desc)", c.Sort)
	}
	if c.JSONReport && c.MarkdownReport {
		return errors.New("--json and --markdown are mutually exclusive")
	}
	return nil
}
