package blocks

import (
	"slices"
	"strings"
	"unicode"

	"github.com/alnah/go-brief2pdf/internal/markup"
)

// Mode is the classifier state.
type Mode int

// Classifier modes.
const (
	Scanning Mode = iota
	InTable
)

func (m Mode) String() string {
	if m == InTable {
		return "InTable"
	}
	return "Scanning"
}

// State is the classifier state between lines. The zero value is Scanning.
// Rows holds the table collected so far and is only set InTable.
type State struct {
	Mode Mode
	Rows [][]string
}

// Line prefixes.
const (
	titlePrefix    = "# "
	heading1Prefix = "## "
	heading2Prefix = "### "
	rulePrefix     = "---"
	rowMarker      = "|"
	dashBullet     = "- "
	starBullet     = "* "
)

// Classify consumes one line and returns the next state and the blocks the
// line produced. It never mutates s.
//
// Rules, first match wins:
//
//  1. InTable and the line is blank or not a row: the table is closed and
//     emitted with its spacer. A blank line stops there; any other line is
//     then classified as if Scanning.
//  2. blank: nothing
//  3. "# ": Title, then a spacer
//  4. "## ": Heading1
//  5. "### ": Heading2
//  6. "---": spacer only
//  7. "|": separator rows are skipped, other rows are collected (InTable)
//  8. "- " or "* ": Bullet
//  9. digits then ".": NumberedItem
//  10. anything else: Paragraph
func Classify(s State, line string) (State, []Block) {
	line = strings.TrimSpace(line)

	if s.Mode == InTable && !strings.HasPrefix(line, rowMarker) {
		out := closeTable(s.Rows)
		if line == "" {
			return State{}, out
		}
		next, more := classifyLine(State{}, line)
		return next, append(out, more...)
	}
	return classifyLine(s, line)
}

// Finish flushes a table that is still open at end of input.
func Finish(s State) []Block {
	if s.Mode != InTable {
		return nil
	}
	return closeTable(s.Rows)
}

// Parse classifies a whole document split on '\n'.
func Parse(text string) []Block {
	var (
		st  State
		out []Block
		doc []Block
	)
	for _, line := range strings.Split(text, "\n") {
		st, out = Classify(st, line)
		doc = append(doc, out...)
	}
	return append(doc, Finish(st)...)
}

func classifyLine(s State, line string) (State, []Block) {
	switch {
	case line == "":
		return s, nil

	case strings.HasPrefix(line, titlePrefix):
		return s, []Block{
			{Kind: KindTitle, Text: markup.Heading(line[len(titlePrefix):])},
			Spacer(TitleSpacing),
		}

	case strings.HasPrefix(line, heading1Prefix):
		return s, []Block{{Kind: KindHeading1, Text: markup.Heading(line[len(heading1Prefix):])}}

	case strings.HasPrefix(line, heading2Prefix):
		return s, []Block{{Kind: KindHeading2, Text: markup.Heading(line[len(heading2Prefix):])}}

	case strings.HasPrefix(line, rulePrefix):
		return s, []Block{Spacer(RuleSpacing)}

	case strings.HasPrefix(line, rowMarker):
		if isSeparatorRow(line) {
			return s, nil
		}
		// Clip forces append to copy, so the caller's state keeps its rows.
		rows := append(slices.Clip(s.Rows), splitRow(line))
		return State{Mode: InTable, Rows: rows}, nil

	case strings.HasPrefix(line, dashBullet), strings.HasPrefix(line, starBullet):
		return s, []Block{{Kind: KindBullet, Text: BulletGlyph + markup.Inline(line[2:])}}
	}

	if label, rest, ok := cutOrdinal(line); ok {
		return s, []Block{{Kind: KindNumberedItem, Label: label, Text: markup.Bold(rest)}}
	}
	return s, []Block{{Kind: KindParagraph, Text: markup.Inline(line)}}
}

// closeTable finalizes collected rows into a Table block and its spacer.
// Every row is forced to the first row's column count: short rows are padded
// with empty cells and surplus cells are dropped.
func closeTable(rows [][]string) []Block {
	if len(rows) == 0 {
		return nil
	}
	cols := len(rows[0])
	grid := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, cols)
		copy(cells, row)
		grid[i] = cells
	}
	return []Block{
		{
			Kind: KindTable,
			Table: &Table{
				Rows:   grid,
				Widths: EstimateWidths(grid, PageWidth, MinColumnWidth, MaxColumnWidth),
			},
		},
		Spacer(TableSpacing),
	}
}

// isSeparatorRow reports whether line is a header rule such as "|---|:--:|".
func isSeparatorRow(line string) bool {
	if len(line) < 3 || !strings.HasSuffix(line, rowMarker) {
		return false
	}
	for _, r := range line[1 : len(line)-1] {
		if r != '-' && r != ':' && r != '|' && !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// splitRow splits a table row into trimmed cell markup. The empty field
// before the leading pipe is dropped, as is the one after a trailing pipe.
func splitRow(line string) []string {
	fields := strings.Split(line, rowMarker)[1:]
	if strings.HasSuffix(line, rowMarker) {
		fields = fields[:len(fields)-1]
	}
	cells := make([]string, len(fields))
	for i, f := range fields {
		cells[i] = markup.Cell(strings.TrimSpace(f))
	}
	return cells
}

// cutOrdinal splits "12. text" into "12" and "text". Only ASCII digits form
// an ordinal; other Unicode digits leave the line a paragraph.
func cutOrdinal(line string) (label, rest string, ok bool) {
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(line) || line[i] != '.' {
		return "", "", false
	}
	return line[:i], strings.TrimLeftFunc(line[i+1:], unicode.IsSpace), true
}
