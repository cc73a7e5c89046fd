package brief2pdf

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/alnah/go-brief2pdf/internal/assets"
	"github.com/alnah/go-brief2pdf/internal/blocks"
	"github.com/alnah/go-brief2pdf/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.BriefingPreprocessor)(nil)
	_ pipeline.HTMLRenderer         = (*pipeline.BlockRenderer)(nil)
	_ pipeline.LinkResolver         = (*pipeline.FileLinkResolver)(nil)
	_ pipeline.CSSInjector          = (*pipeline.CSSInjection)(nil)
	_ pdfConverter                  = (*rodConverter)(nil)
	_ pdfRenderer                   = (*rodRenderer)(nil)
)

// Converter orchestrates the briefing-to-PDF conversion pipeline.
// Create with NewConverter(), use Convert() for conversion, and Close() when done.
// A Converter owns one browser and must not be used concurrently; use
// ConverterPool for parallel work.
type Converter struct {
	cfg          converterConfig
	css          string
	preprocessor pipeline.MarkdownPreprocessor
	htmlRenderer pipeline.HTMLRenderer
	linkResolver pipeline.LinkResolver
	cssInjector  pipeline.CSSInjector
	pdfConverter pdfConverter
}

// NewConverter creates a Converter with default configuration.
// The browser is not started until the first PDF is rendered.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg:          converterConfig{timeout: defaultTimeout},
		preprocessor: &pipeline.BriefingPreprocessor{},
		htmlRenderer: pipeline.NewBlockRenderer(),
		linkResolver: &pipeline.FileLinkResolver{},
		cssInjector:  &pipeline.CSSInjection{},
	}

	for _, opt := range opts {
		opt(c)
	}

	css, err := assets.DefaultStyle()
	if err != nil {
		return nil, fmt.Errorf("loading stylesheet: %w", err)
	}
	c.css = css

	// Create PDF converter if not injected (e.g., by tests)
	if c.pdfConverter == nil {
		c.pdfConverter = newRodConverter(c.cfg)
	}

	return c, nil
}

// Convert runs the full pipeline and returns the blocks, HTML and PDF.
// The context is used for cancellation and timeout.
// If input.HTMLOnly is true, PDF generation is skipped.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := validateInput(input); err != nil {
		return nil, err
	}

	mdContent := c.preprocessor.PreprocessMarkdown(ctx, input.Markdown)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	doc := blocks.Parse(mdContent)

	htmlContent, err := c.htmlRenderer.RenderHTML(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHTMLConversion, err)
	}

	htmlContent, err = c.linkResolver.ResolveLinks(ctx, htmlContent, input.SourceDir)
	if err != nil {
		return nil, fmt.Errorf("%w: resolving links: %w", ErrHTMLConversion, err)
	}

	htmlContent = c.cssInjector.InjectCSS(ctx, htmlContent, c.css)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	res := &ConvertResult{
		Blocks: doc,
		HTML:   []byte(htmlContent),
	}

	if input.HTMLOnly {
		return res, nil
	}

	pdfBytes, err := c.pdfConverter.ToPDF(ctx, htmlContent)
	if err != nil {
		return nil, fmt.Errorf("converting to PDF: %w", err)
	}

	res.PDF = pdfBytes
	return res, nil
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.pdfConverter != nil {
		return c.pdfConverter.Close()
	}
	return nil
}

// validateInput checks the markdown at the library trust boundary.
// Empty input is valid and renders a blank page.
func validateInput(input Input) error {
	if !utf8.ValidString(input.Markdown) {
		return ErrInvalidEncoding
	}
	return nil
}
