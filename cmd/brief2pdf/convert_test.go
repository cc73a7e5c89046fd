package main

// Notes:
// - loadConfig: precedence flag > env > config file > default. Tests touching
//   BRIEF2PDF_* use t.Setenv and run sequentially.
// - convertFile: exercised with staticMockConverter; files land in t.TempDir().
// - withHint: only the error text changes, the errors.Is chain is preserved.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	brief2pdf "github.com/alnah/go-brief2pdf"
	"github.com/alnah/go-brief2pdf/internal/config"
	"github.com/alnah/go-brief2pdf/internal/hints"
)

// clearEnv unsets every BRIEF2PDF_* variable for the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for name := range knownEnvVars {
		t.Setenv(name, "")
	}
}

// ---------------------------------------------------------------------------
// TestLoadConfig - Settings precedence
// ---------------------------------------------------------------------------

func TestLoadConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "brief.yaml", "timeout: 20s\nworkers: 2\nbrowser:\n  noSandbox: true\noutput:\n  html: true\n")

	tests := []struct {
		name        string
		flags       cliFlags
		env         map[string]string
		wantTimeout string
		wantWorkers int
	}{
		{
			name:        "config file only",
			flags:       cliFlags{config: cfgPath},
			wantTimeout: "20s",
			wantWorkers: 2,
		},
		{
			name:        "env beats config",
			flags:       cliFlags{config: cfgPath},
			env:         map[string]string{"BRIEF2PDF_TIMEOUT": "40s", "BRIEF2PDF_WORKERS": "3"},
			wantTimeout: "40s",
			wantWorkers: 3,
		},
		{
			name:        "flag beats env",
			flags:       cliFlags{config: cfgPath, timeout: "1m", workers: 4},
			env:         map[string]string{"BRIEF2PDF_TIMEOUT": "40s", "BRIEF2PDF_WORKERS": "3"},
			wantTimeout: "1m",
			wantWorkers: 4,
		},
		{
			name:        "config named by env",
			flags:       cliFlags{},
			env:         map[string]string{"BRIEF2PDF_CONFIG": cfgPath},
			wantTimeout: "20s",
			wantWorkers: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			env, _, _ := testEnv()
			cfg, err := loadConfig(&tt.flags, env)
			if err != nil {
				t.Fatalf("loadConfig() error = %v", err)
			}
			if cfg.Timeout != tt.wantTimeout || cfg.Workers != tt.wantWorkers {
				t.Errorf("timeout=%q workers=%d, want %q %d", cfg.Timeout, cfg.Workers, tt.wantTimeout, tt.wantWorkers)
			}
			if !cfg.Browser.NoSandbox || !cfg.Output.HTML {
				t.Errorf("config file values lost: %+v", cfg)
			}
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	env, _, _ := testEnv()
	env.Config.Workers = 1

	cfg, err := loadConfig(&cliFlags{}, env)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Workers != 1 {
		t.Errorf("Workers = %d, want environment default 1", cfg.Workers)
	}

	cfg.Workers = 5
	if env.Config.Workers != 1 {
		t.Error("loadConfig should not alias the environment config")
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	badYAML := writeFile(t, dir, "bad.yaml", "timeout: [\n")
	unknownKey := writeFile(t, dir, "unknown.yaml", "style: dark\n")

	tests := []struct {
		name     string
		flags    cliFlags
		env      map[string]string
		wantErr  error
		wantHint string
	}{
		{
			name:     "missing named config",
			flags:    cliFlags{config: "definitely-missing-brief"},
			wantErr:  config.ErrConfigNotFound,
			wantHint: "hint: use --config",
		},
		{
			name:    "missing config path",
			flags:   cliFlags{config: filepath.Join(dir, "nope.yaml")},
			wantErr: config.ErrConfigNotFound,
		},
		{
			name:    "malformed yaml",
			flags:   cliFlags{config: badYAML},
			wantErr: config.ErrConfigParse,
		},
		{
			name:    "unknown key rejected",
			flags:   cliFlags{config: unknownKey},
			wantErr: config.ErrConfigParse,
		},
		{
			name:    "invalid env timeout",
			env:     map[string]string{"BRIEF2PDF_TIMEOUT": "0s"},
			wantErr: config.ErrInvalidTimeout,
		},
		{
			name:    "negative workers flag",
			flags:   cliFlags{workers: -1},
			wantErr: config.ErrInvalidWorkers,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			env, _, _ := testEnv()
			_, err := loadConfig(&tt.flags, env)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("loadConfig() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantHint != "" && !strings.Contains(err.Error(), tt.wantHint) {
				t.Errorf("error %q should contain %q", err, tt.wantHint)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestMergeFlags - CLI overrides
// ---------------------------------------------------------------------------

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	base := config.Config{
		Timeout: "10s",
		Workers: 2,
		Browser: config.BrowserConfig{Bin: "/usr/bin/chromium"},
	}

	t.Run("unset flags keep config", func(t *testing.T) {
		t.Parallel()

		cfg := base
		mergeFlags(&cliFlags{}, &cfg)
		if cfg != base {
			t.Errorf("mergeFlags() = %+v, want %+v", cfg, base)
		}
	})

	t.Run("set flags win", func(t *testing.T) {
		t.Parallel()

		cfg := base
		mergeFlags(&cliFlags{timeout: "1m", workers: 6, browserBin: "/opt/chrome", noSandbox: true, html: true}, &cfg)
		want := config.Config{
			Timeout: "1m",
			Workers: 6,
			Browser: config.BrowserConfig{Bin: "/opt/chrome", NoSandbox: true},
			Output:  config.OutputConfig{HTML: true},
		}
		if cfg != want {
			t.Errorf("mergeFlags() = %+v, want %+v", cfg, want)
		}
	})
}

// ---------------------------------------------------------------------------
// TestNewConversionParams - Config to converter options
// ---------------------------------------------------------------------------

func TestNewConversionParams(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      config.Config
		flags    cliFlags
		wantOpts int
	}{
		{name: "defaults need no options", wantOpts: 0},
		{name: "timeout", cfg: config.Config{Timeout: "5s"}, wantOpts: 1},
		{
			name:     "browser settings",
			cfg:      config.Config{Browser: config.BrowserConfig{Bin: "/opt/chrome", NoSandbox: true}},
			wantOpts: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			params, err := newConversionParams(&tt.cfg, &tt.flags)
			if err != nil {
				t.Fatalf("newConversionParams() error = %v", err)
			}
			if len(params.opts) != tt.wantOpts {
				t.Errorf("len(opts) = %d, want %d", len(params.opts), tt.wantOpts)
			}
			if params.browser != (hints.Browser{Bin: tt.cfg.Browser.Bin, NoSandbox: tt.cfg.Browser.NoSandbox}) {
				t.Errorf("browser = %+v", params.browser)
			}
		})
	}
}

func TestNewConversionParams_InvalidTimeout(t *testing.T) {
	t.Parallel()

	_, err := newConversionParams(&config.Config{Timeout: "later"}, &cliFlags{})
	if !errors.Is(err, config.ErrInvalidTimeout) {
		t.Errorf("error = %v, want ErrInvalidTimeout", err)
	}
}

// ---------------------------------------------------------------------------
// TestConvertFile - Single file conversion
// ---------------------------------------------------------------------------

func TestConvertFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		params    conversionParams
		output    string
		wantFiles []string
		wantNot   []string
		wantOut   string
	}{
		{
			name:      "PDF only",
			output:    "brief.pdf",
			wantFiles: []string{"brief.pdf"},
			wantNot:   []string{"brief.html"},
			wantOut:   "brief.pdf",
		},
		{
			name:      "PDF and HTML",
			params:    conversionParams{html: true},
			output:    "brief.pdf",
			wantFiles: []string{"brief.pdf", "brief.html"},
			wantOut:   "brief.pdf",
		},
		{
			name:      "HTML only",
			params:    conversionParams{htmlOnly: true},
			output:    "brief.pdf",
			wantFiles: []string{"brief.html"},
			wantNot:   []string{"brief.pdf"},
			wantOut:   "brief.html",
		},
		{
			name:      "nested output directory is created",
			output:    filepath.Join("a", "b", "brief.pdf"),
			wantFiles: []string{filepath.Join("a", "b", "brief.pdf")},
			wantOut:   filepath.Join("a", "b", "brief.pdf"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			in := writeFile(t, dir, "brief.md", "# T")
			conv := &staticMockConverter{pdf: []byte("%PDF-mock"), html: []byte("<html></html>")}

			res := convertFile(context.Background(), conv, FileToConvert{InputPath: in, OutputPath: filepath.Join(dir, tt.output)}, &tt.params)
			if res.Err != nil {
				t.Fatalf("convertFile() error = %v", res.Err)
			}
			if res.OutputPath != filepath.Join(dir, tt.wantOut) {
				t.Errorf("OutputPath = %q, want %q", res.OutputPath, filepath.Join(dir, tt.wantOut))
			}
			for _, f := range tt.wantFiles {
				if _, err := os.Stat(filepath.Join(dir, f)); err != nil {
					t.Errorf("expected %s: %v", f, err)
				}
			}
			for _, f := range tt.wantNot {
				if _, err := os.Stat(filepath.Join(dir, f)); !os.IsNotExist(err) {
					t.Errorf("%s should not exist", f)
				}
			}
			if len(conv.inputs) != 1 || conv.inputs[0].Markdown != "# T" || conv.inputs[0].HTMLOnly != tt.params.htmlOnly {
				t.Errorf("converter inputs = %+v", conv.inputs)
			}
			if len(conv.inputs) == 1 && conv.inputs[0].SourceDir != dir {
				t.Errorf("SourceDir = %q, want %q", conv.inputs[0].SourceDir, dir)
			}
		})
	}
}

func TestConvertFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	in := writeFile(t, dir, "brief.md", "# T")
	blocker := writeFile(t, dir, "blocker", "a file, not a directory")
	if err := os.Mkdir(filepath.Join(dir, "existing-dir"), 0o750); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		input    string
		output   string
		conv     *staticMockConverter
		wantErr  []error
		wantText string
	}{
		{
			name:    "missing input",
			input:   filepath.Join(dir, "missing.md"),
			output:  filepath.Join(dir, "out.pdf"),
			conv:    &staticMockConverter{},
			wantErr: []error{ErrReadMarkdown, os.ErrNotExist},
		},
		{
			name:    "browser failure keeps sentinel",
			input:   in,
			output:  filepath.Join(dir, "out.pdf"),
			conv:    &staticMockConverter{err: brief2pdf.ErrBrowserConnect},
			wantErr: []error{brief2pdf.ErrBrowserConnect},
		},
		{
			name:    "PDF write failure keeps cause",
			input:   in,
			output:  filepath.Join(dir, "existing-dir"),
			conv:    &staticMockConverter{pdf: []byte("%PDF")},
			wantErr: []error{ErrWritePDF},
		},
		{
			name:     "output directory cannot be created",
			input:    in,
			output:   filepath.Join(blocker, "out.pdf"),
			conv:     &staticMockConverter{pdf: []byte("%PDF")},
			wantText: "creating output directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res := convertFile(context.Background(), tt.conv, FileToConvert{InputPath: tt.input, OutputPath: tt.output}, &conversionParams{})
			if res.Err == nil {
				t.Fatal("expected error, got nil")
			}
			for _, want := range tt.wantErr {
				if !errors.Is(res.Err, want) {
					t.Errorf("error = %v, want %v in chain", res.Err, want)
				}
			}
			if tt.wantText != "" && !strings.Contains(res.Err.Error(), tt.wantText) {
				t.Errorf("error %q should contain %q", res.Err, tt.wantText)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWithHint - Hint suffixes keep the error chain
// ---------------------------------------------------------------------------

func TestWithHint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantHint string
	}{
		{"page load suggests timeout", brief2pdf.ErrPageLoad, "--timeout"},
		{"deadline suggests timeout", context.DeadlineExceeded, "--timeout"},
		{"other errors unchanged", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := withHint(tt.err, hints.Browser{})
			if !errors.Is(got, tt.err) {
				t.Errorf("withHint() lost the error chain: %v", got)
			}
			if tt.wantHint == "" {
				if got.Error() != tt.err.Error() {
					t.Errorf("withHint() = %q, want unchanged", got)
				}
				return
			}
			if !strings.Contains(got.Error(), tt.wantHint) {
				t.Errorf("withHint() = %q, want hint %q", got, tt.wantHint)
			}
		})
	}
}
