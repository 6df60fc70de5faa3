package notion

import (
	"encoding/json"

	"github.com/jomei/notionapi"

	"github.com/custodia-labs/notionexport/internal/core/domain"
)

// convertBlock converts a typed notionapi block. Children are not
// converted here; the crawler fetches them separately.
//
//nolint:gocyclo // One case per block type
func convertBlock(b notionapi.Block) domain.ContentBlock {
	out := domain.ContentBlock{
		ID:          canonicalID(string(b.GetID())),
		Type:        domain.BlockType(b.GetType()),
		HasChildren: b.GetHasChildren(),
	}

	switch v := b.(type) {
	case *notionapi.ParagraphBlock:
		out.RichText = convertRichText(v.Paragraph.RichText)
	case *notionapi.Heading1Block:
		out.RichText = convertRichText(v.Heading1.RichText)
	case *notionapi.Heading2Block:
		out.RichText = convertRichText(v.Heading2.RichText)
	case *notionapi.Heading3Block:
		out.RichText = convertRichText(v.Heading3.RichText)
	case *notionapi.BulletedListItemBlock:
		out.RichText = convertRichText(v.BulletedListItem.RichText)
	case *notionapi.NumberedListItemBlock:
		out.RichText = convertRichText(v.NumberedListItem.RichText)
	case *notionapi.ToDoBlock:
		out.RichText = convertRichText(v.ToDo.RichText)
		out.Checked = v.ToDo.Checked
	case *notionapi.ToggleBlock:
		out.RichText = convertRichText(v.Toggle.RichText)
	case *notionapi.QuoteBlock:
		out.RichText = convertRichText(v.Quote.RichText)
	case *notionapi.CalloutBlock:
		out.RichText = convertRichText(v.Callout.RichText)
		if icon := v.Callout.Icon; icon != nil && icon.Emoji != nil {
			out.Icon = string(*icon.Emoji)
		}
	case *notionapi.CodeBlock:
		out.RichText = convertRichText(v.Code.RichText)
		out.Caption = convertRichText(v.Code.Caption)
		out.Language = v.Code.Language
	case *notionapi.BookmarkBlock:
		out.URL = v.Bookmark.URL
		out.Caption = convertRichText(v.Bookmark.Caption)
	case *notionapi.TableBlock:
		out.HasColumnHeader = v.Table.HasColumnHeader
	case *notionapi.TableRowBlock:
		out.Cells = make([][]domain.RichText, 0, len(v.TableRow.Cells))
		for _, cell := range v.TableRow.Cells {
			out.Cells = append(out.Cells, convertRichText(cell))
		}
	case *notionapi.LinkToPageBlock:
		out.Ref = linkToPageRef(v.LinkToPage)
	case *notionapi.ChildPageBlock:
		out.Title = v.ChildPage.Title
		out.Ref = &domain.DocumentRef{ID: out.ID, Title: out.Title, Kind: domain.KindPage}
	case *notionapi.ChildDatabaseBlock:
		out.Title = v.ChildDatabase.Title
		out.Ref = &domain.DocumentRef{ID: out.ID, Title: out.Title, Kind: domain.KindCollection}
	default:
		applyPayload(&out, b)
	}
	return out
}

func linkToPageRef(link notionapi.LinkToPage) *domain.DocumentRef {
	switch string(link.Type) {
	case "page_id":
		return &domain.DocumentRef{ID: canonicalID(string(link.PageID)), Kind: domain.KindPage}
	case "database_id":
		return &domain.DocumentRef{ID: canonicalID(string(link.DatabaseID)), Kind: domain.KindCollection}
	default:
		return nil
	}
}

// payload is the common shape of block bodies that have no dedicated
// case: media, embeds, equations and types added after this client.
type payload struct {
	RichText   []notionapi.RichText  `json:"rich_text"`
	Caption    []notionapi.RichText  `json:"caption"`
	Type       string                `json:"type"`
	URL        string                `json:"url"`
	Expression string                `json:"expression"`
	File       *notionapi.FileObject `json:"file"`
	External   *notionapi.FileObject `json:"external"`
}

// applyPayload reads the type-keyed body of a block from its JSON form.
func applyPayload(out *domain.ContentBlock, b notionapi.Block) {
	raw, err := json.Marshal(b)
	if err != nil {
		return
	}
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return
	}
	body, ok := envelope[string(out.Type)]
	if !ok {
		return
	}
	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return
	}

	out.RichText = convertRichText(p.RichText)
	out.Caption = convertRichText(p.Caption)
	switch {
	case p.URL != "":
		out.URL = p.URL
	case p.Type == "external" && p.External != nil:
		out.URL = p.External.URL
	case p.Type == "file" && p.File != nil:
		out.URL = p.File.URL
	}
	if p.Expression != "" && len(out.RichText) == 0 {
		out.RichText = []domain.RichText{{Text: p.Expression}}
	}
}

// convertRichText converts spans, turning page and database mentions and
// links to Notion pages into document references.
func convertRichText(rts []notionapi.RichText) []domain.RichText {
	if len(rts) == 0 {
		return nil
	}
	out := make([]domain.RichText, 0, len(rts))
	for _, rt := range rts {
		s := domain.RichText{Text: rt.PlainText}
		if s.Text == "" && rt.Text != nil {
			s.Text = rt.Text.Content
		}
		if a := rt.Annotations; a != nil {
			s.Annotations = domain.Annotations{
				Bold:          a.Bold,
				Italic:        a.Italic,
				Strikethrough: a.Strikethrough,
				Underline:     a.Underline,
				Code:          a.Code,
			}
		}

		switch {
		case rt.Mention != nil && string(rt.Mention.Type) == "page" && rt.Mention.Page != nil:
			s.Ref = &domain.DocumentRef{
				ID:    canonicalID(string(rt.Mention.Page.ID)),
				Title: rt.PlainText,
				Kind:  domain.KindPage,
				URL:   rt.Href,
			}
		case rt.Mention != nil && string(rt.Mention.Type) == "database" && rt.Mention.Database != nil:
			s.Ref = &domain.DocumentRef{
				ID:    canonicalID(string(rt.Mention.Database.ID)),
				Title: rt.PlainText,
				Kind:  domain.KindCollection,
				URL:   rt.Href,
			}
		case string(rt.Type) == "equation":
			s.Equation = true
		case rt.Href != "":
			if id, absolute, ok := PageRefFromHref(rt.Href); ok {
				s.Ref = &domain.DocumentRef{ID: id, Title: rt.PlainText, URL: absolute}
			} else {
				s.Link = rt.Href
			}
		}
		out = append(out, s)
	}
	return out
}
