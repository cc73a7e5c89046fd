// Package markup rewrites one line of briefing text into inline span markup.
//
// Markup is plain text with the HTML special characters escaped, plus three
// span kinds:
//
//	<b>Key</b>                              bold, from **Key**
//	<super>[1]</super>                      footnote marker, from [1]
//	<a href="https://x" color="blue">x</a>  hyperlink, from [x](https://x)
//
// Because every literal '<' of the source is escaped, any '<' left in a
// markup string opens one of these tags. Markup is produced once and handed
// to the renderer; it is never parsed back into briefing syntax.
//
// There is no escape syntax: a literal "**text**" or "[12]" in the source
// always becomes a span.
package markup

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark/util"
)

// Span tags.
const (
	BoldOpen   = "<b>"
	BoldClose  = "</b>"
	SuperOpen  = "<super>"
	SuperClose = "</super>"
	LinkClose  = "</a>"

	// LinkColor is written on every hyperlink span.
	LinkColor = "blue"
)

const boldDelim = "**"

// linkPlaceholder stands in for a hyperlink during the bold pass. NUL never
// survives in source text: Inline strips it first.
const linkPlaceholder = "\x00"

type link struct {
	label, url string
}

// Bold escapes s and turns each **text** pair into a bold span.
// Used for headings, numbered items and table cells.
func Bold(s string) string {
	return bold(escape(s))
}

// Inline applies the full transform used for paragraphs and bullets.
// Footnote markers and hyperlinks are found in one left-to-right pass, then
// the bold pass runs with each hyperlink held as a placeholder, so a bold
// span can wrap a link or footnote but never reaches into a URL. Link labels
// get their own bold pass.
func Inline(s string) string {
	text, links := brackets(strings.ReplaceAll(escape(s), linkPlaceholder, ""))
	text = bold(text)
	if len(links) == 0 {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + 32*len(links))
	for _, l := range links {
		i := strings.Index(text, linkPlaceholder)
		b.WriteString(text[:i])
		b.WriteString(Link(l.url))
		b.WriteString(bold(l.label))
		b.WriteString(LinkClose)
		text = text[i+len(linkPlaceholder):]
	}
	b.WriteString(text)
	return b.String()
}

// Cell is the transform for table cells. Footnote markers stay literal.
func Cell(s string) string {
	return Bold(s)
}

// Heading is the transform for titles and headings.
func Heading(s string) string {
	return Bold(s)
}

// Link returns the opening tag of a hyperlink span. href must already be escaped.
func Link(href string) string {
	return `<a href="` + href + `" color="` + LinkColor + `">`
}

// LinkTarget extracts the href from the inside of an opening link tag
// (the text between '<' and '>'). Reports false for any other tag.
func LinkTarget(tag string) (string, bool) {
	const prefix = `a href="`
	if !strings.HasPrefix(tag, prefix) {
		return "", false
	}
	rest := tag[len(prefix):]
	end := strings.IndexByte(rest, '"')
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// Visible returns the text a reader sees: tags removed, entities decoded.
func Visible(s string) string {
	if !strings.ContainsAny(s, "<&") {
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
		s = s[open+end+1:]
	}
	b.WriteString(s)
	return html.UnescapeString(b.String())
}

// VisibleLen counts the characters of Visible(s).
func VisibleLen(s string) int {
	return utf8.RuneCountInString(Visible(s))
}

func escape(s string) string {
	return string(util.EscapeHTML([]byte(s)))
}

// bold rewrites **text** where text is non-empty and holds no '*'.
// A failed candidate advances by one byte, so "***a**" yields "*<b>a</b>".
func bold(s string) string {
	if !strings.Contains(s, boldDelim) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for {
		open := strings.Index(s, boldDelim)
		if open < 0 {
			break
		}
		rest := s[open+len(boldDelim):]
		n := strings.IndexByte(rest, '*')
		if n > 0 && strings.HasPrefix(rest[n:], boldDelim) {
			b.WriteString(s[:open])
			b.WriteString(BoldOpen)
			b.WriteString(rest[:n])
			b.WriteString(BoldClose)
			s = rest[n+len(boldDelim):]
			continue
		}
		b.WriteString(s[:open+1])
		s = s[open+1:]
	}
	b.WriteString(s)
	return b.String()
}

// brackets rewrites [N] into footnote markers and replaces each
// [label](url) with linkPlaceholder, returning the links in order. When both
// could start at the same '[', the hyperlink wins.
func brackets(s string) (string, []link) {
	if !strings.Contains(s, "[") {
		return s, nil
	}
	var links []link
	var b strings.Builder
	b.Grow(len(s) + 16)
	for {
		open := strings.IndexByte(s, '[')
		if open < 0 {
			break
		}
		b.WriteString(s[:open])
		s = s[open:]

		if label, url, n, ok := matchLink(s); ok {
			links = append(links, link{label: label, url: url})
			b.WriteString(linkPlaceholder)
			s = s[n:]
			continue
		}
		if marker, ok := matchFootnote(s); ok {
			b.WriteString(SuperOpen)
			b.WriteString(marker)
			b.WriteString(SuperClose)
			s = s[len(marker):]
			continue
		}
		b.WriteByte('[')
		s = s[1:]
	}
	b.WriteString(s)
	return b.String(), links
}

// matchLink matches "[label](url)" at the start of s. label runs to the
// first ']' and url to the first ')'; both must be non-empty.
func matchLink(s string) (label, url string, n int, ok bool) {
	closeLabel := strings.IndexByte(s, ']')
	if closeLabel < 2 || closeLabel+1 >= len(s) || s[closeLabel+1] != '(' {
		return "", "", 0, false
	}
	rest := s[closeLabel+2:]
	closeURL := strings.IndexByte(rest, ')')
	if closeURL < 1 {
		return "", "", 0, false
	}
	return s[1:closeLabel], rest[:closeURL], closeLabel + 2 + closeURL + 1, true
}

// matchFootnote matches "[digits]" at the start of s and returns it.
func matchFootnote(s string) (string, bool) {
	i := 1
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 1 || i >= len(s) || s[i] != ']' {
		return "", false
	}
	return s[:i+1], true
}
