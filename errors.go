package brief2pdf

import "errors"

// Sentinel errors for library operations.
var (
	ErrInvalidEncoding = errors.New("markdown is not valid UTF-8")
	ErrHTMLConversion  = errors.New("HTML conversion failed")
	ErrPDFGeneration   = errors.New("PDF generation failed")
	ErrBrowserConnect  = errors.New("failed to connect to browser")
	ErrPageCreate      = errors.New("failed to create browser page")
	ErrPageLoad        = errors.New("failed to load page")
	ErrConverterInit   = errors.New("failed to initialize converter")
	ErrPoolClosed      = errors.New("converter pool is closed")
)
