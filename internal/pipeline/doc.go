// Package pipeline implements the briefing-to-HTML stages of the conversion.
//
// This package handles:
//   - Markdown preprocessing (line ending normalization, BOM removal)
//   - Rendering layout blocks into a standalone HTML5 document
//   - Resolving relative link targets against the briefing's directory
//   - CSS injection into HTML documents
//
// Classification of the markdown into blocks lives in internal/blocks. PDF
// generation is handled by the root brief2pdf package using headless Chrome
// (go-rod), which owns page geometry and pagination.
package pipeline
