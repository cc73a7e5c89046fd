package blocks

import "github.com/alnah/go-brief2pdf/internal/markup"

// Table geometry in inches. PageWidth is the printable width of a landscape
// US Letter page with 0.5in margins.
const (
	PageWidth      = 10.0
	MinColumnWidth = 0.8
	MaxColumnWidth = 3.0
)

// EstimateWidths sizes table columns from their content.
//
// Each column gets a share of pageWidth proportional to its longest visible
// cell, clamped to [minWidth, maxWidth]. If the clamped widths overflow the
// page they are all scaled down by the same factor; they are never scaled up.
// Rows shorter than the widest row count their missing cells as empty.
// Returns nil for a grid without columns.
func EstimateWidths(rows [][]string, pageWidth, minWidth, maxWidth float64) []float64 {
	cols := 0
	for _, row := range rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return nil
	}

	maxChars := make([]int, cols)
	for _, row := range rows {
		for i, cell := range row {
			maxChars[i] = max(maxChars[i], markup.VisibleLen(cell))
		}
	}

	total := 0
	for _, n := range maxChars {
		total += n
	}
	if total == 0 {
		total = 1
	}

	widths := make([]float64, cols)
	sum := 0.0
	for i, n := range maxChars {
		w := float64(n) / float64(total) * pageWidth
		w = min(max(w, minWidth), maxWidth)
		widths[i] = w
		sum += w
	}

	if sum > pageWidth {
		scale := pageWidth / sum
		for i := range widths {
			widths[i] *= scale
		}
	}
	return widths
}
