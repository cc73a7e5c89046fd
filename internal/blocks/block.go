// Package blocks turns briefing markdown into an ordered list of layout blocks.
//
// Parsing is a single lookahead-free pass over the lines of a document. Each
// line is fed to Classify together with the current State; the state is
// either Scanning or InTable, the latter carrying the table rows collected
// so far. Finish flushes a table left open at end of input.
//
//	st := blocks.State{}
//	var doc []blocks.Block
//	for _, line := range lines {
//	    var out []blocks.Block
//	    st, out = blocks.Classify(st, line)
//	    doc = append(doc, out...)
//	}
//	doc = append(doc, blocks.Finish(st)...)
//
// Parse does exactly that for a whole document.
package blocks

import "fmt"

// Kind identifies a block variant.
type Kind int

// Block kinds.
const (
	KindTitle Kind = iota
	KindHeading1
	KindHeading2
	KindParagraph
	KindBullet
	KindNumberedItem
	KindTable
	KindSpacer
)

var kindNames = [...]string{
	KindTitle:        "Title",
	KindHeading1:     "Heading1",
	KindHeading2:     "Heading2",
	KindParagraph:    "Paragraph",
	KindBullet:       "Bullet",
	KindNumberedItem: "NumberedItem",
	KindTable:        "Table",
	KindSpacer:       "Spacer",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Spacer heights in points.
const (
	TitleSpacing = 10.0 // after a title
	TableSpacing = 10.0 // after a table
	RuleSpacing  = 6.0  // horizontal rule
)

// BulletGlyph prefixes the text of every bullet.
const BulletGlyph = "• "

// Block is one unit of output. Which fields are set depends on Kind:
// text-bearing kinds use Text, NumberedItem also uses Label, Table uses
// Table and Spacer uses Height.
type Block struct {
	Kind   Kind
	Text   string  // inline markup
	Label  string  // ordinal exactly as written in the source, e.g. "3"
	Table  *Table  // KindTable only
	Height float64 // KindSpacer only, points
}

// Table is a rectangular grid of cell markup with one width per column.
type Table struct {
	Rows   [][]string
	Widths []float64 // inches
}

// Columns returns the column count.
func (t *Table) Columns() int {
	if t == nil || len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

// Spacer returns a spacer block of the given height in points.
func Spacer(height float64) Block {
	return Block{Kind: KindSpacer, Height: height}
}

func (b Block) String() string {
	switch b.Kind {
	case KindSpacer:
		return fmt.Sprintf("Spacer(%g)", b.Height)
	case KindNumberedItem:
		return fmt.Sprintf("NumberedItem(%s, %q)", b.Label, b.Text)
	case KindTable:
		if b.Table == nil {
			return "Table(<nil>)"
		}
		return fmt.Sprintf("Table(%q, %v)", b.Table.Rows, b.Table.Widths)
	default:
		return fmt.Sprintf("%s(%q)", b.Kind, b.Text)
	}
}
