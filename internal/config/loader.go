package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".extract-favicon"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the YAML configuration file shape. Every field is optional and
// overrides the built-in default; flags set explicitly on the command line
// still win (the CLI applies the file before flags).
type File struct {
	// UserAgent overrides the default User-Agent header.
	UserAgent string `yaml:"user_agent"`

	// TimeoutSeconds overrides the per-request timeout.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// SleepSeconds overrides the politeness pause between probes.
	SleepSeconds int `yaml:"sleep_seconds"`

	// Mode overrides the download strategy.
	Mode string `yaml:"mode"`

	// Sort overrides the final result ordering.
	Sort string `yaml:"sort"`

	// IncludeFallbacks enables the conventional fallback catalog.
	IncludeFallbacks *bool `yaml:"include_fallbacks"`

	// CacheDir overrides the probe cache location.
	CacheDir string `yaml:"cache_dir"`
}

// LoadConfigFile loads overrides from a YAML file. If the file does not
// exist it returns ErrConfigNotFound; callers decide whether that matters
// based on whether the path was explicit.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &f, nil
}

// Apply copies the file's overrides onto a Config. Zero values in the file
// leave the Config untouched.
func (f *File) Apply(c *Config) {
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.TimeoutSeconds > 0 {
		c.Timeout = time.Duration(f.TimeoutSeconds) * time.Second
	}
	if f.SleepSeconds > 0 {
		c.Sleep = time.Duration(f.SleepSeconds) * time.Second
	}
	if f.Mode != "" {
		c.Mode = f.Mode
	}
	if f.Sort != "" {
		c.Sort = f.Sort
	}
	if f.IncludeFallbacks != nil {
		c.IncludeFallbacks = *f.IncludeFallbacks
	}
	if f.CacheDir != "" {
		c.CacheDir = f.CacheDir
	}
}

// FindConfigFile searches for the configuration file in order:
//  1. The explicit path, when given.
//  2. DefaultConfigFile in the current directory.
//  3. DefaultConfigFile in the user's home directory.
//
// Returns "" when nothing is found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		candidate := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		candidate := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return ""
}
