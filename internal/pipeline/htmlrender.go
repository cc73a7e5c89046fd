package pipeline

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-brief2pdf/internal/blocks"
	"github.com/alnah/go-brief2pdf/internal/markup"
)

// Sentinel errors for HTML rendering.
var (
	ErrHTMLRender   = errors.New("HTML rendering failed")
	ErrUnknownBlock = errors.New("unknown block kind")
)

// defaultDocumentTitle is used when the briefing has no "# " title.
const defaultDocumentTitle = "Document"

// htmlTemplate wraps the rendered blocks in a complete HTML5 document.
// The <title> becomes the PDF's document title.
const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
%s</body>
</html>`

// HTMLRenderer abstracts block to HTML rendering.
type HTMLRenderer interface {
	RenderHTML(ctx context.Context, doc []blocks.Block) (string, error)
}

// BlockRenderer renders layout blocks as HTML elements styled by the
// briefing stylesheet classes.
type BlockRenderer struct{}

// NewBlockRenderer creates a BlockRenderer.
func NewBlockRenderer() *BlockRenderer {
	return &BlockRenderer{}
}

// RenderHTML converts blocks to a standalone HTML5 document.
func (r *BlockRenderer) RenderHTML(ctx context.Context, doc []blocks.Block) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var body strings.Builder
	for i, b := range doc {
		if err := writeBlock(&body, b); err != nil {
			return "", fmt.Errorf("%w: block %d: %w", ErrHTMLRender, i, err)
		}
	}

	return fmt.Sprintf(htmlTemplate, documentTitle(doc), body.String()), nil
}

// documentTitle returns the escaped visible text of the first title block.
func documentTitle(doc []blocks.Block) string {
	for _, b := range doc {
		if b.Kind != blocks.KindTitle {
			continue
		}
		if title := strings.TrimSpace(markup.Visible(b.Text)); title != "" {
			return html.EscapeString(title)
		}
	}
	return defaultDocumentTitle
}

func writeBlock(w *strings.Builder, b blocks.Block) error {
	switch b.Kind {
	case blocks.KindTitle:
		fmt.Fprintf(w, "<h1 class=\"title\">%s</h1>\n", spansToHTML(b.Text))
	case blocks.KindHeading1:
		fmt.Fprintf(w, "<h2>%s</h2>\n", spansToHTML(b.Text))
	case blocks.KindHeading2:
		fmt.Fprintf(w, "<h3>%s</h3>\n", spansToHTML(b.Text))
	case blocks.KindParagraph:
		fmt.Fprintf(w, "<p class=\"body\">%s</p>\n", spansToHTML(b.Text))
	case blocks.KindBullet:
		fmt.Fprintf(w, "<p class=\"bullet\">%s</p>\n", spansToHTML(b.Text))
	case blocks.KindNumberedItem:
		fmt.Fprintf(w, "<p class=\"bullet numbered\">%s. %s</p>\n", html.EscapeString(b.Label), spansToHTML(b.Text))
	case blocks.KindTable:
		writeTable(w, b.Table)
	case blocks.KindSpacer:
		fmt.Fprintf(w, "<div class=\"spacer\" style=\"height: %.1fpt\"></div>\n", b.Height)
	default:
		return fmt.Errorf("%w: %v", ErrUnknownBlock, b.Kind)
	}
	return nil
}

// writeTable renders a table with fixed column widths in inches. The first
// row is the header row. Tables without columns render nothing.
func writeTable(w *strings.Builder, t *blocks.Table) {
	cols := t.Columns()
	if cols == 0 {
		return
	}

	total := 0.0
	for _, width := range t.Widths {
		total += width
	}

	fmt.Fprintf(w, "<table style=\"width: %.3fin\">\n<colgroup>", total)
	for _, width := range t.Widths {
		fmt.Fprintf(w, "<col style=\"width: %.3fin\">", width)
	}
	w.WriteString("</colgroup>\n")

	w.WriteString("<thead>\n")
	writeRow(w, "th", t.Rows[0])
	w.WriteString("</thead>\n")

	if len(t.Rows) > 1 {
		w.WriteString("<tbody>\n")
		for _, row := range t.Rows[1:] {
			writeRow(w, "td", row)
		}
		w.WriteString("</tbody>\n")
	}
	w.WriteString("</table>\n")
}

func writeRow(w *strings.Builder, cellTag string, cells []string) {
	w.WriteString("<tr>")
	for _, cell := range cells {
		fmt.Fprintf(w, "<%s>%s</%s>", cellTag, spansToHTML(cell), cellTag)
	}
	w.WriteString("</tr>\n")
}

// spansToHTML maps inline span markup to HTML. Text between tags is already
// escaped, so only the tags themselves are rewritten.
func spansToHTML(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for {
		open := strings.IndexByte(s, '<')
		if open < 0 {
			break
		}
		end := strings.IndexByte(s[open:], '>')
		if end < 0 {
			break
		}
		b.WriteString(s[:open])
		b.WriteString(translateTag(s[open+1 : open+end]))
		s = s[open+end+1:]
	}
	b.WriteString(s)
	return b.String()
}

func translateTag(tag string) string {
	switch "<" + tag + ">" {
	case markup.BoldOpen:
		return "<b>"
	case markup.BoldClose:
		return "</b>"
	case markup.SuperOpen:
		return "<sup>"
	case markup.SuperClose:
		return "</sup>"
	case markup.LinkClose:
		return "</a>"
	}
	if href, ok := markup.LinkTarget(tag); ok {
		return `<a class="link" href="` + linkHref(href) + `">`
	}
	return ""
}

// linkHref percent-encodes a link target the way goldmark does for markdown
// links, then escapes it for use in an attribute.
func linkHref(escaped string) string {
	raw := html.UnescapeString(escaped)
	return string(util.EscapeHTML(util.URLEscape([]byte(raw), false)))
}
