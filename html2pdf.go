package brief2pdf

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-brief2pdf/internal/fileutil"
	"github.com/alnah/go-brief2pdf/internal/process"
)

// pdfConverter abstracts HTML to PDF conversion to allow different backends.
type pdfConverter interface {
	ToPDF(ctx context.Context, htmlContent string) ([]byte, error)
	Close() error
}

// pdfRenderer abstracts PDF rendering from an HTML file to enable testing without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string) ([]byte, error)
	Close() error
}

// rodRenderer implements pdfRenderer using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodRenderer struct {
	browser   *rod.Browser
	launcher  *launcher.Launcher
	timeout   time.Duration
	bin       string
	noSandbox bool
}

// newRodRenderer creates a rodRenderer from the converter configuration.
func newRodRenderer(cfg converterConfig) *rodRenderer {
	return &rodRenderer{
		timeout:   cfg.timeout,
		bin:       cfg.browserBin,
		noSandbox: cfg.noSandbox,
	}
}

// browserBin returns the configured binary, falling back to ROD_BROWSER_BIN.
func (r *rodRenderer) browserBin() string {
	if r.bin != "" {
		return r.bin
	}
	return os.Getenv("ROD_BROWSER_BIN")
}

// sandboxDisabled reports whether Chrome must run without its sandbox.
// A custom binary usually means a container image, where the sandbox is
// unavailable.
func (r *rodRenderer) sandboxDisabled() bool {
	return r.noSandbox ||
		os.Getenv("CI") == "true" ||
		os.Getenv("ROD_NO_SANDBOX") == "1" ||
		r.browserBin() != ""
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()
	if bin := r.browserBin(); bin != "" {
		l = l.Bin(bin)
	}
	if r.sandboxDisabled() {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launcher = l

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		r.stopLauncher()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.browser = browser
	return nil
}

// Close releases browser resources and kills the Chrome process tree.
func (r *rodRenderer) Close() error {
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	r.stopLauncher()
	return err
}

// stopLauncher kills Chrome and any helper processes it spawned, then
// removes the temporary user data directory.
func (r *rodRenderer) stopLauncher() {
	if r.launcher == nil {
		return
	}
	pid := r.launcher.PID()
	r.launcher.Kill()
	process.KillProcessGroup(pid)
	r.launcher.Cleanup()
	r.launcher = nil
}

// RenderFromFile opens a local HTML file in headless Chrome and renders it to PDF.
// Returns explicit errors instead of panicking when browser operations fail.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	// Context deadline wins over the configured timeout
	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	p := page.Context(ctx).Timeout(timeout)
	if err := p.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := p.PDF(buildPDFOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}

	return pdfBuf, nil
}

// buildPDFOptions returns the fixed print settings: landscape US Letter,
// 0.5in margins, backgrounds on (table header shading).
func buildPDFOptions() *proto.PagePrintToPDF {
	return &proto.PagePrintToPDF{
		Landscape:       true,
		PaperWidth:      floatPtr(PaperWidth),
		PaperHeight:     floatPtr(PaperHeight),
		MarginTop:       floatPtr(Margin),
		MarginBottom:    floatPtr(Margin),
		MarginLeft:      floatPtr(Margin),
		MarginRight:     floatPtr(Margin),
		PrintBackground: true,
	}
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

// rodConverter converts HTML to PDF through a pdfRenderer, staging the HTML
// in a temp file so relative URLs and large documents load like a real page.
type rodConverter struct {
	renderer pdfRenderer
}

// newRodConverter creates a rodConverter with production renderer.
func newRodConverter(cfg converterConfig) *rodConverter {
	return &rodConverter{
		renderer: newRodRenderer(cfg),
	}
}

// ToPDF converts HTML content to PDF bytes using headless Chrome.
func (c *rodConverter) ToPDF(ctx context.Context, htmlContent string) ([]byte, error) {
	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return c.renderer.RenderFromFile(ctx, tmpPath)
}

// Close releases browser resources.
func (c *rodConverter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}
