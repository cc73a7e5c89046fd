package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/alnah/go-brief2pdf/internal/config"
)

// envPrefix marks environment variables read by brief2pdf.
const envPrefix = "BRIEF2PDF_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string // BRIEF2PDF_CONFIG: config file name or path
	Timeout    string // BRIEF2PDF_TIMEOUT: PDF generation timeout
	Workers    int    // BRIEF2PDF_WORKERS: parallel workers
}

// knownEnvVars lists valid BRIEF2PDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"BRIEF2PDF_CONFIG":  true,
	"BRIEF2PDF_TIMEOUT": true,
	"BRIEF2PDF_WORKERS": true,
}

// loadEnvConfig reads configuration from environment variables.
// The timeout is kept as text and validated with the merged config; a
// workers value that is not a positive integer is ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("BRIEF2PDF_CONFIG"),
		Timeout:    os.Getenv("BRIEF2PDF_TIMEOUT"),
	}

	if workers := os.Getenv("BRIEF2PDF_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized BRIEF2PDF_* variables.
// Helps catch typos like BRIEF2PDF_TIMEUOT.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overrides config file values with environment values.
// CLI flags are applied afterwards by mergeFlags, giving:
// CLI flags > env vars > config file > defaults
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Timeout != "" {
		cfg.Timeout = env.Timeout
	}
	if env.Workers > 0 {
		cfg.Workers = env.Workers
	}
}
