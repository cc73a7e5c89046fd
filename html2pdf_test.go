package brief2pdf

// Notes:
// - rodConverter is tested with a mock pdfRenderer; no browser is launched
// - buildPDFOptions is asserted field by field since the page geometry is fixed
// - browserBin and sandboxDisabled read the environment, so those tests use
//   t.Setenv and cannot run in parallel

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// mockRenderer implements pdfRenderer for testing.
type mockRenderer struct {
	Result     []byte
	Err        error
	CalledWith string
	Content    string
	Closed     bool
}

func (m *mockRenderer) RenderFromFile(ctx context.Context, filePath string) ([]byte, error) {
	m.CalledWith = filePath
	// The temp file is removed after rendering, so capture it now.
	data, err := os.ReadFile(filePath)
	if err == nil {
		m.Content = string(data)
	}
	return m.Result, m.Err
}

func (m *mockRenderer) Close() error {
	m.Closed = true
	return nil
}

// ---------------------------------------------------------------------------
// TestRodConverter_ToPDF - Temp file staging
// ---------------------------------------------------------------------------

func TestRodConverter_ToPDF(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		html    string
		mock    *mockRenderer
		wantErr bool
	}{
		{
			name: "successful render returns PDF bytes",
			html: "<html><body>Test</body></html>",
			mock: &mockRenderer{Result: []byte("%PDF-1.4 fake pdf content")},
		},
		{
			name:    "renderer error propagates",
			html:    "<html></html>",
			mock:    &mockRenderer{Err: errors.New("browser crashed")},
			wantErr: true,
		},
		{
			name: "empty HTML is valid",
			html: "",
			mock: &mockRenderer{Result: []byte("%PDF-1.4")},
		},
		{
			name: "unicode content succeeds",
			html: "<html><body>• Résumé</body></html>",
			mock: &mockRenderer{Result: []byte("%PDF-1.4 unicode")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			conv := &rodConverter{renderer: tt.mock}
			got, err := conv.ToPDF(context.Background(), tt.html)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ToPDF() error = %v", err)
			}
			if string(got) != string(tt.mock.Result) {
				t.Errorf("ToPDF() = %q, want %q", got, tt.mock.Result)
			}

			name := filepath.Base(tt.mock.CalledWith)
			if !strings.HasPrefix(name, "brief2pdf-") || !strings.HasSuffix(name, ".html") {
				t.Errorf("temp file %q should be brief2pdf-*.html", name)
			}
			if tt.mock.Content != tt.html {
				t.Errorf("renderer read %q, want %q", tt.mock.Content, tt.html)
			}
			if _, err := os.Stat(tt.mock.CalledWith); !os.IsNotExist(err) {
				t.Errorf("temp file %s should be removed after rendering", tt.mock.CalledWith)
			}
		})
	}
}

func TestRodConverter_Close(t *testing.T) {
	t.Parallel()

	mock := &mockRenderer{}
	conv := &rodConverter{renderer: mock}
	if err := conv.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !mock.Closed {
		t.Error("Close() should close the renderer")
	}

	if err := (&rodConverter{}).Close(); err != nil {
		t.Errorf("Close() with nil renderer error = %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestBuildPDFOptions - Fixed page geometry
// ---------------------------------------------------------------------------

func TestBuildPDFOptions(t *testing.T) {
	t.Parallel()

	opts := buildPDFOptions()

	if !opts.Landscape {
		t.Error("Landscape should be true")
	}
	if !opts.PrintBackground {
		t.Error("PrintBackground should be true")
	}

	floats := []struct {
		name string
		got  *float64
		want float64
	}{
		{"PaperWidth", opts.PaperWidth, 8.5},
		{"PaperHeight", opts.PaperHeight, 11},
		{"MarginTop", opts.MarginTop, 0.5},
		{"MarginBottom", opts.MarginBottom, 0.5},
		{"MarginLeft", opts.MarginLeft, 0.5},
		{"MarginRight", opts.MarginRight, 0.5},
	}
	for _, f := range floats {
		if f.got == nil {
			t.Errorf("%s is nil", f.name)
			continue
		}
		if *f.got != f.want {
			t.Errorf("%s = %v, want %v", f.name, *f.got, f.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestRodRenderer - Browser launch settings
// ---------------------------------------------------------------------------

func TestNewRodRenderer(t *testing.T) {
	t.Parallel()

	r := newRodRenderer(converterConfig{timeout: 5 * time.Second, browserBin: "/usr/bin/chromium", noSandbox: true})
	if r.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", r.timeout)
	}
	if r.bin != "/usr/bin/chromium" {
		t.Errorf("bin = %q, want /usr/bin/chromium", r.bin)
	}
	if !r.noSandbox {
		t.Error("noSandbox should be true")
	}
}

func TestRodRenderer_BrowserBin(t *testing.T) {
	t.Setenv("ROD_BROWSER_BIN", "/env/chrome")

	if got := (&rodRenderer{}).browserBin(); got != "/env/chrome" {
		t.Errorf("browserBin() = %q, want env value", got)
	}
	if got := (&rodRenderer{bin: "/opt/chrome"}).browserBin(); got != "/opt/chrome" {
		t.Errorf("browserBin() = %q, configured bin should win", got)
	}
}

func TestRodRenderer_SandboxDisabled(t *testing.T) {
	tests := []struct {
		name      string
		renderer  rodRenderer
		ci        string
		noSandbox string
		bin       string
		want      bool
	}{
		{name: "default keeps sandbox", want: false},
		{name: "option disables", renderer: rodRenderer{noSandbox: true}, want: true},
		{name: "CI disables", ci: "true", want: true},
		{name: "CI other value keeps sandbox", ci: "1", want: false},
		{name: "ROD_NO_SANDBOX disables", noSandbox: "1", want: true},
		{name: "custom bin from env disables", bin: "/usr/bin/chromium", want: true},
		{name: "custom bin from option disables", renderer: rodRenderer{bin: "/opt/chrome"}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CI", tt.ci)
			t.Setenv("ROD_NO_SANDBOX", tt.noSandbox)
			t.Setenv("ROD_BROWSER_BIN", tt.bin)

			if got := tt.renderer.sandboxDisabled(); got != tt.want {
				t.Errorf("sandboxDisabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRodRenderer_RenderFromFile_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &rodRenderer{timeout: time.Second}
	_, err := r.RenderFromFile(ctx, "/nonexistent.html")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if r.browser != nil {
		t.Error("browser should not be launched for a cancelled context")
	}
}

func TestRodRenderer_CloseWithoutBrowser(t *testing.T) {
	t.Parallel()

	if err := (&rodRenderer{}).Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
