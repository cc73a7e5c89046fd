// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-brief2pdf/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// Browser describes how Chrome was configured for the failed launch.
type Browser struct {
	Bin       string // from config or flag
	NoSandbox bool
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests the settings not already in use.
func ForBrowserConnect(b Browser) string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	sandboxOff := b.NoSandbox || os.Getenv("ROD_NO_SANDBOX") == "1"
	if (inCI || IsInContainer()) && !sandboxOff {
		hints = append(hints, "set browser.noSandbox: true (or ROD_NO_SANDBOX=1) for Docker/CI")
	}

	if b.Bin == "" && os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set browser.bin (or ROD_BROWSER_BIN) to use an installed Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large briefings, use --timeout (e.g. --timeout 2m)")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config with a path, or creating one of the searched user paths.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(filepathSlash(p), "/go-brief2pdf/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// filepathSlash normalises Windows separators for substring matching.
func filepathSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
