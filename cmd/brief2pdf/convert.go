package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	brief2pdf "github.com/alnah/go-brief2pdf"
	"github.com/alnah/go-brief2pdf/internal/config"
	"github.com/alnah/go-brief2pdf/internal/fileutil"
	"github.com/alnah/go-brief2pdf/internal/hints"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage        = errors.New("invalid usage")
	ErrNoInput      = errors.New("no markdown files found")
	ErrReadMarkdown = errors.New("failed to read markdown file")
	ErrWritePDF     = errors.New("failed to write PDF file")
	ErrWriteHTML    = errors.New("failed to write HTML file")
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// CLIConverter is the interface for the conversion service.
type CLIConverter interface {
	Convert(ctx context.Context, input brief2pdf.Input) (*brief2pdf.ConvertResult, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*brief2pdf.Converter)(nil)

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// conversionParams groups settings shared across single and batch conversion.
type conversionParams struct {
	opts     []brief2pdf.Option
	workers  int
	html     bool
	htmlOnly bool
	browser  hints.Browser
}

// run converts input to output. A directory input converts every markdown
// file it contains into the output directory.
func run(ctx context.Context, input, output string, flags *cliFlags, env *Environment) error {
	cfg, err := loadConfig(flags, env)
	if err != nil {
		return err
	}

	params, err := newConversionParams(cfg, flags)
	if err != nil {
		return err
	}

	info, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadMarkdown, err)
	}

	if info.IsDir() {
		return runBatch(ctx, input, output, params, flags, env)
	}
	return runSingle(ctx, input, output, params, flags, env)
}

// runSingle converts one file with a dedicated converter.
func runSingle(ctx context.Context, input, output string, params *conversionParams, flags *cliFlags, env *Environment) error {
	conv, err := brief2pdf.NewConverter(params.opts...)
	if err != nil {
		return err
	}
	defer conv.Close()

	result := convertFile(ctx, conv, FileToConvert{InputPath: input, OutputPath: output}, params)
	if result.Err != nil {
		return result.Err
	}

	printResultsWithWriter([]ConversionResult{result}, flags.quiet, flags.verbose, env)
	return nil
}

// loadConfig resolves settings with precedence:
// CLI flags > env vars > config file > defaults
func loadConfig(flags *cliFlags, env *Environment) (*config.Config, error) {
	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	cfg := config.DefaultConfig()
	if env.Config != nil {
		c := *env.Config
		cfg = &c
	}

	name := flags.config
	if name == "" {
		name = envCfg.ConfigPath
	}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				var searched []string
				if !fileutil.IsFilePath(name) {
					searched = config.SearchPaths(name)
				}
				return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(searched))
			}
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
		if flags.verbose {
			fmt.Fprintf(env.Stderr, "Config: %s\n", name)
		}
	}

	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFlags applies explicitly set CLI flags to config (CLI wins).
func mergeFlags(flags *cliFlags, cfg *config.Config) {
	if flags.timeout != "" {
		cfg.Timeout = flags.timeout
	}
	if flags.workers != 0 {
		cfg.Workers = flags.workers
	}
	if flags.browserBin != "" {
		cfg.Browser.Bin = flags.browserBin
	}
	if flags.noSandbox {
		cfg.Browser.NoSandbox = true
	}
	if flags.html {
		cfg.Output.HTML = true
	}
}

// newConversionParams turns a validated config into converter options.
func newConversionParams(cfg *config.Config, flags *cliFlags) (*conversionParams, error) {
	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	var opts []brief2pdf.Option
	if timeout > 0 {
		opts = append(opts, brief2pdf.WithTimeout(timeout))
	}
	if cfg.Browser.Bin != "" {
		opts = append(opts, brief2pdf.WithBrowserBin(cfg.Browser.Bin))
	}
	if cfg.Browser.NoSandbox {
		opts = append(opts, brief2pdf.WithNoSandbox(true))
	}

	return &conversionParams{
		opts:     opts,
		workers:  cfg.Workers,
		html:     cfg.Output.HTML,
		htmlOnly: flags.htmlOnly,
		browser:  hints.Browser{Bin: cfg.Browser.Bin, NoSandbox: cfg.Browser.NoSandbox},
	}, nil
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, conv CLIConverter, f FileToConvert, params *conversionParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	fail := func(err error) ConversionResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- user-provided or discovered path
	if err != nil {
		return fail(fmt.Errorf("%w: %w", ErrReadMarkdown, err))
	}

	convResult, err := conv.Convert(ctx, brief2pdf.Input{
		Markdown:  string(content),
		SourceDir: filepath.Dir(f.InputPath),
		HTMLOnly:  params.htmlOnly,
	})
	if err != nil {
		return fail(withHint(err, params.browser))
	}

	outDir := filepath.Dir(f.OutputPath)
	if err := os.MkdirAll(outDir, dirPermissions); err != nil {
		return fail(fmt.Errorf("creating output directory: %w%s", err, hints.ForOutputDirectory()))
	}

	// Write HTML output if requested (--html or --html-only)
	if params.htmlOnly || params.html {
		htmlPath := htmlOutputPath(f.OutputPath)
		if err := fileutil.WriteFileAtomic(htmlPath, convResult.HTML, filePermissions); err != nil {
			return fail(fmt.Errorf("%w: %w", ErrWriteHTML, err))
		}
		if params.htmlOnly {
			result.OutputPath = htmlPath
			result.Duration = time.Since(start)
			return result
		}
	}

	if err := fileutil.WriteFileAtomic(f.OutputPath, convResult.PDF, filePermissions); err != nil {
		return fail(fmt.Errorf("%w: %w", ErrWritePDF, err))
	}

	result.Duration = time.Since(start)
	return result
}

// withHint appends an actionable hint to rendering errors.
func withHint(err error, browser hints.Browser) error {
	switch {
	case errors.Is(err, brief2pdf.ErrBrowserConnect):
		if hint := hints.ForBrowserConnect(browser); hint != "" {
			return fmt.Errorf("%w%s", err, hint)
		}
	case errors.Is(err, brief2pdf.ErrPageLoad), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w%s", err, hints.ForTimeout())
	}
	return err
}
