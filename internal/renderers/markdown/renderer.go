package markdown

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/notionexport/internal/core/domain"
	"github.com/custodia-labs/notionexport/internal/core/ports/driven"
)

// Ensure Renderer implements the interface.
var _ driven.Renderer = (*Renderer)(nil)

// maxHeadingLevel is the deepest heading rendered; deeper ones collapse.
const maxHeadingLevel = 3

// Renderer converts blocks to Markdown.
type Renderer struct{}

// New creates a new Markdown renderer.
func New() *Renderer {
	return &Renderer{}
}

// Extension returns the Markdown file extension.
func (r *Renderer) Extension() string {
	return ".md"
}

// Render renders blocks as Markdown. The result ends with a single newline
// unless there is nothing to render.
func (r *Renderer) Render(blocks []domain.ContentBlock, resolver domain.LinkResolver) string {
	out := strings.TrimRight(render(blocks, resolver), "\n")
	if out == "" {
		return ""
	}
	return out + "\n"
}

// render renders a sequence of sibling blocks. Consecutive list-like
// blocks are separated by a single newline, everything else by a blank line.
func render(blocks []domain.ContentBlock, resolver domain.LinkResolver) string {
	var b strings.Builder
	ordinal := 0
	prevListLike := false
	for i := range blocks {
		blk := &blocks[i]

		if blk.Type == domain.BlockNumberedItem {
			ordinal++
		} else {
			ordinal = 0
		}

		chunk := renderBlock(blk, ordinal, resolver)
		if strings.TrimSpace(chunk) == "" {
			continue
		}

		listLike := isListLike(blk.Type)
		if b.Len() > 0 {
			if listLike && prevListLike {
				b.WriteString("\n")
			} else {
				b.WriteString("\n\n")
			}
		}
		b.WriteString(chunk)
		prevListLike = listLike
	}
	return b.String()
}

func isListLike(t domain.BlockType) bool {
	switch t {
	case domain.BlockBulletedItem, domain.BlockNumberedItem, domain.BlockToDo,
		domain.BlockLinkToPage, domain.BlockChildPage, domain.BlockChildDatabase:
		return true
	default:
		return false
	}
}

//nolint:gocyclo // One case per block type
func renderBlock(blk *domain.ContentBlock, ordinal int, resolver domain.LinkResolver) string {
	text := inline(blk.RichText, resolver)

	switch blk.Type {
	case domain.BlockParagraph:
		return joinParts(text, render(blk.Children, resolver))

	case domain.BlockHeading1, domain.BlockHeading2, domain.BlockHeading3:
		return joinParts(heading(blk.Type, text), render(blk.Children, resolver))

	case domain.BlockBulletedItem:
		return listItem("-", text, blk.Children, resolver)

	case domain.BlockNumberedItem:
		return listItem(strconv.Itoa(max(ordinal, 1))+".", text, blk.Children, resolver)

	case domain.BlockToDo:
		marker := "- [ ]"
		if blk.Checked {
			marker = "- [x]"
		}
		return listItem(marker, text, blk.Children, resolver)

	case domain.BlockToggle:
		return toggle(text, render(blk.Children, resolver))

	case domain.BlockCode:
		return codeFence(domain.PlainText(blk.RichText), blk.Language)

	case domain.BlockQuote:
		return quote(joinParts(text, render(blk.Children, resolver)))

	case domain.BlockCallout:
		if blk.Icon != "" {
			text = strings.TrimSpace(blk.Icon + " " + text)
		}
		return quote(joinParts(text, render(blk.Children, resolver)))

	case domain.BlockDivider:
		return "---"

	case domain.BlockEquation:
		expr := domain.PlainText(blk.RichText)
		if expr == "" {
			return ""
		}
		return "$$\n" + expr + "\n$$"

	case domain.BlockTable:
		return table(blk, resolver)

	case domain.BlockImage:
		if blk.URL == "" {
			return ""
		}
		alt := strings.TrimSpace(inline(blk.Caption, resolver))
		if alt == "" {
			alt = "image"
		}
		return fmt.Sprintf("![%s](%s)", alt, blk.URL)

	case domain.BlockFile, domain.BlockPDF, domain.BlockVideo, domain.BlockAudio:
		if blk.URL == "" {
			return ""
		}
		label := strings.TrimSpace(inline(blk.Caption, resolver))
		if label == "" {
			label = string(blk.Type)
		}
		return fmt.Sprintf("[%s](%s)", label, blk.URL)

	case domain.BlockBookmark, domain.BlockEmbed, domain.BlockLinkPreview:
		if blk.URL == "" {
			return ""
		}
		label := strings.TrimSpace(inline(blk.Caption, resolver))
		if label == "" {
			label = blk.URL
		}
		return fmt.Sprintf("[%s](%s)", label, blk.URL)

	case domain.BlockLinkToPage, domain.BlockChildPage, domain.BlockChildDatabase:
		return documentLink(blk, resolver)

	case domain.BlockTableOfContent:
		return ""

	default:
		if level, ok := headingLevel(blk.Type); ok {
			return joinParts(strings.Repeat("#", min(level, maxHeadingLevel))+" "+text, render(blk.Children, resolver))
		}
		// Containers (columns, synced blocks) and unknown types:
		// whatever text they carry, then their children.
		return joinParts(text, render(blk.Children, resolver))
	}
}

func heading(t domain.BlockType, text string) string {
	level, _ := headingLevel(t)
	return strings.TrimRight(strings.Repeat("#", min(level, maxHeadingLevel))+" "+text, " ")
}

// headingLevel parses the level out of heading_N types.
func headingLevel(t domain.BlockType) (int, bool) {
	rest, ok := strings.CutPrefix(string(t), "heading_")
	if !ok {
		return 0, false
	}
	level, err := strconv.Atoi(rest)
	if err != nil || level < 1 {
		return 0, false
	}
	return level, true
}

func listItem(marker, text string, children []domain.ContentBlock, resolver domain.LinkResolver) string {
	line := strings.TrimRight(marker+" "+text, " ")
	nested := render(children, resolver)
	if strings.TrimSpace(nested) == "" {
		return line
	}
	return line + "\n" + indent(nested, len(marker)+1)
}

func toggle(summary, body string) string {
	var b strings.Builder
	b.WriteString("<details>\n")
	fmt.Fprintf(&b, "<summary>%s</summary>\n", summary)
	if strings.TrimSpace(body) != "" {
		b.WriteString("\n")
		b.WriteString(body)
		b.WriteString("\n\n")
	}
	b.WriteString("</details>")
	return b.String()
}

// codeFence picks a fence longer than any backtick run in the code.
func codeFence(code, language string) string {
	fence := "```"
	for strings.Contains(code, fence) {
		fence += "`"
	}
	if strings.EqualFold(language, "plain text") {
		language = ""
	}
	return fence + language + "\n" + code + "\n" + fence
}

func quote(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = ">"
			continue
		}
		lines[i] = "> " + line
	}
	return strings.Join(lines, "\n")
}

func documentLink(blk *domain.ContentBlock, resolver domain.LinkResolver) string {
	if blk.Ref == nil || blk.Ref.ID == "" {
		if blk.Title != "" {
			return "- " + blk.Title
		}
		return ""
	}
	ref := *blk.Ref
	if ref.Title == "" {
		ref.Title = blk.Title
	}
	return fmt.Sprintf("- [%s](%s)", domain.EscapeLinkText(resolver.Label(ref)), resolver.Href(ref))
}

func joinParts(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}

// indent pads every non-blank line by n spaces.
func indent(text string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}
