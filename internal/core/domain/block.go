package domain

// BlockType tags a content block. The set mirrors Notion's block types;
// unrecognised types are carried through with their original tag.
type BlockType string

// Known block types.
const (
	BlockParagraph      BlockType = "paragraph"
	BlockHeading1       BlockType = "heading_1"
	BlockHeading2       BlockType = "heading_2"
	BlockHeading3       BlockType = "heading_3"
	BlockBulletedItem   BlockType = "bulleted_list_item"
	BlockNumberedItem   BlockType = "numbered_list_item"
	BlockToDo           BlockType = "to_do"
	BlockToggle         BlockType = "toggle"
	BlockCode           BlockType = "code"
	BlockQuote          BlockType = "quote"
	BlockCallout        BlockType = "callout"
	BlockDivider        BlockType = "divider"
	BlockTable          BlockType = "table"
	BlockTableRow       BlockType = "table_row"
	BlockImage          BlockType = "image"
	BlockFile           BlockType = "file"
	BlockPDF            BlockType = "pdf"
	BlockVideo          BlockType = "video"
	BlockAudio          BlockType = "audio"
	BlockBookmark       BlockType = "bookmark"
	BlockEmbed          BlockType = "embed"
	BlockLinkPreview    BlockType = "link_preview"
	BlockEquation       BlockType = "equation"
	BlockLinkToPage     BlockType = "link_to_page"
	BlockChildPage      BlockType = "child_page"
	BlockChildDatabase  BlockType = "child_database"
	BlockColumnList     BlockType = "column_list"
	BlockColumn         BlockType = "column"
	BlockSyncedBlock    BlockType = "synced_block"
	BlockTableOfContent BlockType = "table_of_contents"
)

// ContentBlock is one node of a document's content tree.
type ContentBlock struct {
	// ID is the block identifier.
	ID string

	// Type is the block tag.
	Type BlockType

	// RichText is the block's inline content.
	RichText []RichText

	// Caption holds captions of media and bookmark blocks.
	Caption []RichText

	// Children are nested blocks (list items, toggles, table rows).
	Children []ContentBlock

	// HasChildren is reported by the source; Children is only filled
	// once the crawler has fetched them.
	HasChildren bool

	// Checked is the completion flag of to-do items.
	Checked bool

	// Language is the code block language.
	Language string

	// URL is the asset or bookmark target.
	URL string

	// Icon is a callout's emoji icon.
	Icon string

	// Title is the title of child-page and child-database blocks.
	Title string

	// Ref is the target of link-to-page and child-document blocks.
	Ref *DocumentRef

	// Cells are the cells of a table row.
	Cells [][]RichText

	// HasColumnHeader marks the first row of a table as a header.
	HasColumnHeader bool
}

// ReferencesDocument reports whether the block itself points at another document.
func (b *ContentBlock) ReferencesDocument() bool {
	switch b.Type {
	case BlockLinkToPage, BlockChildPage, BlockChildDatabase:
		return b.Ref != nil && b.Ref.ID != ""
	default:
		return false
	}
}

// DescendsIntoChildren reports whether children of this block belong to the
// same document. Child pages and databases are documents of their own.
func (b *ContentBlock) DescendsIntoChildren() bool {
	return b.HasChildren && b.Type != BlockChildPage && b.Type != BlockChildDatabase
}

// Annotations are inline style flags.
type Annotations struct {
	Bold          bool
	Italic        bool
	Strikethrough bool
	Underline     bool
	Code          bool
}

// RichText is one inline span.
type RichText struct {
	// Text is the plain text of the span.
	Text string

	// Annotations are the style flags.
	Annotations Annotations

	// Link is an external URL the span links to.
	Link string

	// Ref is set when the span mentions another document.
	Ref *DocumentRef

	// Equation marks the span as an inline equation expression.
	Equation bool
}

// PlainText concatenates the text of the spans.
func PlainText(spans []RichText) string {
	n := 0
	for _, s := range spans {
		n += len(s.Text)
	}
	buf := make([]byte, 0, n)
	for _, s := range spans {
		buf = append(buf, s.Text...)
	}
	return string(buf)
}
