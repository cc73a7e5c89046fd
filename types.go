package brief2pdf

import (
	"time"

	"github.com/alnah/go-brief2pdf/internal/blocks"
)

// Page geometry in inches. Briefings are always printed landscape on US
// Letter, so the printable width is the paper height minus both margins.
const (
	PaperWidth   = 8.5
	PaperHeight  = 11.0
	Margin       = 0.5
	ContentWidth = PaperHeight - 2*Margin
)

// Input contains conversion parameters.
type Input struct {
	Markdown  string // Briefing markdown (may be empty: renders a blank page)
	SourceDir string // Directory relative links resolve against; empty leaves them as written
	HTMLOnly  bool   // Skip PDF generation, return HTML only
}

// ConvertResult holds the output of a conversion.
type ConvertResult struct {
	Blocks []blocks.Block // Layout blocks produced by the classifier
	HTML   []byte         // Styled HTML handed to the browser
	PDF    []byte         // nil when Input.HTMLOnly is set
}

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout    time.Duration
	browserBin string
	noSandbox  bool
}

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the page load timeout used when the context has no
// deadline.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("brief2pdf: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithBrowserBin launches the given Chrome binary instead of ROD_BROWSER_BIN
// or the managed download.
func WithBrowserBin(path string) Option {
	return func(c *Converter) {
		c.cfg.browserBin = path
	}
}

// WithNoSandbox disables the Chrome sandbox, which most containers require.
func WithNoSandbox(disable bool) Option {
	return func(c *Converter) {
		c.cfg.noSandbox = disable
	}
}
