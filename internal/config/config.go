// Package config loads the optional YAML configuration for brief2pdf.
//
// Only rendering plumbing is configurable (timeouts, worker count, browser
// location, extra HTML output). Page geometry and styling are fixed.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-brief2pdf/internal/fileutil"
	"github.com/alnah/go-brief2pdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidTimeout  = errors.New("invalid timeout")
	ErrInvalidWorkers  = errors.New("invalid worker count")
)

// DirName is the directory searched under os.UserConfigDir.
const DirName = "go-brief2pdf"

// Limits for config values.
const (
	MaxPathLength    = 4096
	MaxTimeoutLength = 20
	MaxWorkers       = 8
	MaxTimeout       = 10 * time.Minute
)

// Config holds the CLI's persistent settings.
type Config struct {
	Timeout string        `yaml:"timeout"` // Go duration, e.g. "45s" (empty = default)
	Workers int           `yaml:"workers"` // 0 = auto
	Browser BrowserConfig `yaml:"browser"`
	Output  OutputConfig  `yaml:"output"`
}

// BrowserConfig locates and launches Chrome.
type BrowserConfig struct {
	Bin       string `yaml:"bin"`       // Chrome binary (empty = ROD_BROWSER_BIN or managed download)
	NoSandbox bool   `yaml:"noSandbox"` // Needed in most containers
}

// OutputConfig controls extra output files.
type OutputConfig struct {
	HTML bool `yaml:"html"` // Also write the intermediate HTML next to the PDF
}

// DefaultConfig returns the zero configuration: auto workers, default
// timeout, managed browser.
func DefaultConfig() *Config {
	return &Config{}
}

// Validate checks value ranges and lengths.
// Called automatically by LoadConfig, but available for callers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("timeout", c.Timeout, MaxTimeoutLength); err != nil {
		return err
	}
	if _, err := c.TimeoutDuration(); err != nil {
		return err
	}
	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers: %d (must be between 0 and %d)", ErrInvalidWorkers, c.Workers, MaxWorkers)
	}
	if err := validateFieldLength("browser.bin", c.Browser.Bin, MaxPathLength); err != nil {
		return err
	}
	return nil
}

// TimeoutDuration parses Timeout. An empty value yields 0, meaning the
// converter default applies.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	return ParseTimeout(c.Timeout)
}

// ParseTimeout parses a positive Go duration no longer than MaxTimeout.
func ParseTimeout(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeout, s)
	}
	if d <= 0 || d > MaxTimeout {
		return 0, fmt.Errorf("%w: %s (must be > 0 and <= %s)", ErrInvalidTimeout, d, MaxTimeout)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists the files LoadConfig tries for a config name, in order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, DirName, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing file among SearchPaths.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
