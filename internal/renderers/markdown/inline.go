package markdown

import (
	"fmt"
	"html"
	"strings"
	"unicode"

	"github.com/custodia-labs/notionexport/internal/core/domain"
)

// inline renders rich text spans as Markdown.
func inline(spans []domain.RichText, resolver domain.LinkResolver) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(span(s, resolver))
	}
	return b.String()
}

func span(s domain.RichText, resolver domain.LinkResolver) string {
	if s.Equation {
		return "$" + s.Text + "$"
	}

	if s.Ref != nil && s.Ref.ID != "" {
		ref := *s.Ref
		if ref.Title == "" {
			ref.Title = s.Text
		}
		label := s.Text
		if strings.TrimSpace(label) == "" {
			label = resolver.Label(ref)
		}
		return fmt.Sprintf("[%s](%s)", style(domain.EscapeLinkText(label), s.Annotations), resolver.Href(ref))
	}

	text := style(s.Text, s.Annotations)
	if s.Link != "" {
		return fmt.Sprintf("[%s](%s)", text, s.Link)
	}
	return text
}

// style wraps text in Markdown emphasis. Surrounding whitespace is kept
// outside the markers, since "**bold **" does not parse as emphasis.
func style(text string, a domain.Annotations) string {
	core := strings.TrimFunc(text, unicode.IsSpace)
	if core == "" {
		return text
	}
	start := strings.Index(text, core)
	lead, trail := text[:start], text[start+len(core):]

	if a.Code {
		core = "`" + core + "`"
	}
	if a.Bold {
		core = "**" + core + "**"
	}
	if a.Italic {
		core = "*" + core + "*"
	}
	if a.Strikethrough {
		core = "~~" + core + "~~"
	}
	if a.Underline {
		core = "<u>" + core + "</u>"
	}
	return lead + core + trail
}

// inlineHTML renders rich text spans as HTML, for use inside table cells.
func inlineHTML(spans []domain.RichText, resolver domain.LinkResolver) string {
	var b strings.Builder
	for _, s := range spans {
		text := html.EscapeString(s.Text)
		if s.Equation {
			text = "<code>" + text + "</code>"
		}
		a := s.Annotations
		if a.Code {
			text = "<code>" + text + "</code>"
		}
		if a.Bold {
			text = "<strong>" + text + "</strong>"
		}
		if a.Italic {
			text = "<em>" + text + "</em>"
		}
		if a.Strikethrough {
			text = "<s>" + text + "</s>"
		}
		if a.Underline {
			text = "<u>" + text + "</u>"
		}

		href := s.Link
		if s.Ref != nil && s.Ref.ID != "" {
			ref := *s.Ref
			if ref.Title == "" {
				ref.Title = s.Text
			}
			href = resolver.Href(ref)
		}
		if href != "" {
			text = fmt.Sprintf(`<a href="%s">%s</a>`, html.EscapeString(href), text)
		}
		b.WriteString(text)
	}
	return b.String()
}

// table renders a table block and its rows as an HTML fragment.
func table(blk *domain.ContentBlock, resolver domain.LinkResolver) string {
	var b strings.Builder
	b.WriteString("<table>\n")
	first := true
	for i := range blk.Children {
		row := &blk.Children[i]
		if row.Type != domain.BlockTableRow {
			continue
		}
		cellTag := "td"
		if first && blk.HasColumnHeader {
			cellTag = "th"
		}
		first = false

		b.WriteString("<tr>\n")
		for _, cell := range row.Cells {
			fmt.Fprintf(&b, "<%s>%s</%s>\n", cellTag, inlineHTML(cell, resolver), cellTag)
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</table>")
	return b.String()
}
