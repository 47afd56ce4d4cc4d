package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// ProbeCache stores the outcome of past icon probes keyed by URL.
// It manages connection pooling and provides lookup and upsert operations.
type ProbeCache struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures ProbeCache behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default cache options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Entry is one cached probe result.
type Entry struct {
	// URL is the icon URL the probe targeted.
	URL string

	// Format is the inferred image format (png, ico, svg, ...).
	Format string

	// Width and Height are the probed dimensions. Zero means the probe
	// ran out of budget before the header resolved.
	Width  int
	Height int

	// Valid records whether the response looked like an image.
	Valid bool

	// StatusCode is the final HTTP status of the probe.
	StatusCode int

	// CheckedAt is when the probe ran.
	CheckedAt time.Time
}

// Open opens or creates a ProbeCache in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the cache doesn't exist, an error is returned.
func Open(dir string, opts Options) (*ProbeCache, error) {
	dbPath := filepath.Join(dir, "favicons.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("cache not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check cache path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	// modernc.org/sqlite connection string: mode=rw prevents creating
	// new files, mode=rwc allows creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}

	// SQLite only supports one writer; a single pooled connection also
	// keeps WAL checkpointing simple.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	pc := &ProbeCache{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := pc.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return pc, nil
}

// Close closes the database connection.
func (pc *ProbeCache) Close() error {
	return pc.db.Close()
}

// Path returns the path of the underlying database file.
func (pc *ProbeCache) Path() string {
	return pc.dbPath
}

// createTables creates the cache schema if it doesn't exist.
func (pc *ProbeCache) createTables() error {
	schema := `
	-- One row per probed icon URL, last write wins
	CREATE TABLE IF NOT EXISTS probes (
		url TEXT PRIMARY KEY,
		format TEXT,
		width INTEGER DEFAULT 0,
		height INTEGER DEFAULT 0,
		valid INTEGER NOT NULL DEFAULT 0,
		status_code INTEGER DEFAULT 0,
		checked_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_probes_checked_at ON probes(checked_at);
	`

	_, err := pc.db.ExecContext(context.Background(), schema)
	return err
}

// Put inserts or updates the probe result for a URL.
func (pc *ProbeCache) Put(ctx context.Context, entry *Entry) error {
	query := `
	INSERT INTO probes (url, format, width, height, valid, status_code)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(url) DO UPDATE SET
		format = excluded.format,
		width = excluded.width,
		height = excluded.height,
		valid = excluded.valid,
		status_code = excluded.status_code,
		checked_at = CURRENT_TIMESTAMP
	`

	_, err := pc.db.ExecContext(ctx, query,
		entry.URL,
		entry.Format,
		entry.Width,
		entry.Height,
		entry.Valid,
		entry.StatusCode,
	)
	if err != nil {
		return fmt.Errorf("failed to store probe result: %w", err)
	}

	return nil
}

// Get retrieves the cached probe result for a URL.
// Returns (nil, nil) on a cache miss.
func (pc *ProbeCache) Get(ctx context.Context, url string) (*Entry, error) {
	query := `
	SELECT url, format, width, height, valid, status_code, checked_at
	FROM probes
	WHERE url = ?
	`

	var entry Entry
	var checkedAt string

	err := pc.db.QueryRowContext(ctx, query, url).Scan(
		&entry.URL,
		&entry.Format,
		&entry.Width,
		&entry.Height,
		&entry.Valid,
		&entry.StatusCode,
		&checkedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read probe result: %w", err)
	}

	entry.CheckedAt = parseTimestamp(checkedAt)
	return &entry, nil
}

// Purge deletes entries older than the given age and returns how many
// rows were removed. A zero or negative age empties the cache.
func (pc *ProbeCache) Purge(ctx context.Context, olderThan time.Duration) (int64, error) {
	var result sql.Result
	var err error

	if olderThan <= 0 {
		result, err = pc.db.ExecContext(ctx, "DELETE FROM probes")
	} else {
		modifier := fmt.Sprintf("-%d seconds", int(olderThan.Seconds()))
		result, err = pc.db.ExecContext(ctx,
			"DELETE FROM probes WHERE checked_at < datetime('now', ?)", modifier)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache: %w", err)
	}

	return result.RowsAffected()
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
