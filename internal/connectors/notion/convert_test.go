package notion

import (
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/notionexport/internal/core/domain"
)

const (
	otherCompact   = "fedcba9876543210fedcba9876543210"
	otherCanonical = "fedcba98-7654-3210-fedc-ba9876543210"
)

func basic(t notionapi.BlockType, hasChildren bool) notionapi.BasicBlock {
	return notionapi.BasicBlock{Object: "block", ID: compact, Type: t, HasChildren: hasChildren}
}

func TestConvertBlock_Paragraph(t *testing.T) {
	b := &notionapi.ParagraphBlock{
		BasicBlock: basic("paragraph", true),
		Paragraph: notionapi.Paragraph{RichText: []notionapi.RichText{
			{Type: "text", PlainText: "bold", Annotations: &notionapi.Annotations{Bold: true}},
			{Type: "text", PlainText: "site", Href: "https://example.com"},
			{Type: "text", PlainText: "inner", Href: "/" + otherCompact},
			{
				Type:      "mention",
				PlainText: "Other",
				Mention:   &notionapi.Mention{Type: "page", Page: &notionapi.PageMention{ID: otherCompact}},
			},
			{Type: "equation", PlainText: "x^2"},
		}},
	}

	out := convertBlock(b)

	assert.Equal(t, canonical, out.ID)
	assert.Equal(t, domain.BlockParagraph, out.Type)
	assert.True(t, out.HasChildren)
	require.Len(t, out.RichText, 5)

	assert.True(t, out.RichText[0].Annotations.Bold)
	assert.Equal(t, "https://example.com", out.RichText[1].Link)
	assert.Nil(t, out.RichText[1].Ref)

	require.NotNil(t, out.RichText[2].Ref)
	assert.Equal(t, otherCanonical, out.RichText[2].Ref.ID)
	assert.Equal(t, "https://www.notion.so/"+otherCompact, out.RichText[2].Ref.URL)
	assert.Empty(t, out.RichText[2].Link)

	require.NotNil(t, out.RichText[3].Ref)
	assert.Equal(t, otherCanonical, out.RichText[3].Ref.ID)
	assert.Equal(t, "Other", out.RichText[3].Ref.Title)
	assert.False(t, out.RichText[3].Ref.TitleKnown)
	assert.Equal(t, domain.KindPage, out.RichText[3].Ref.Kind)

	assert.True(t, out.RichText[4].Equation)
}

func TestConvertBlock_ToDo(t *testing.T) {
	b := &notionapi.ToDoBlock{
		BasicBlock: basic("to_do", false),
		ToDo: notionapi.ToDo{
			RichText: []notionapi.RichText{{Type: "text", PlainText: "ship"}},
			Checked:  true,
		},
	}

	out := convertBlock(b)

	assert.Equal(t, domain.BlockToDo, out.Type)
	assert.True(t, out.Checked)
	assert.Equal(t, "ship", domain.PlainText(out.RichText))
}

func TestConvertBlock_DocumentReferences(t *testing.T) {
	t.Run("child page", func(t *testing.T) {
		b := &notionapi.ChildPageBlock{BasicBlock: basic("child_page", true)}
		b.ChildPage.Title = "Sub"

		out := convertBlock(b)

		require.NotNil(t, out.Ref)
		assert.Equal(t, canonical, out.Ref.ID)
		assert.Equal(t, "Sub", out.Title)
		assert.True(t, out.ReferencesDocument())
		assert.False(t, out.DescendsIntoChildren())
	})

	t.Run("link to database", func(t *testing.T) {
		out := convertBlock(&notionapi.LinkToPageBlock{
			BasicBlock: basic("link_to_page", false),
			LinkToPage: notionapi.LinkToPage{Type: "database_id", DatabaseID: otherCompact},
		})

		require.NotNil(t, out.Ref)
		assert.Equal(t, otherCanonical, out.Ref.ID)
		assert.Equal(t, domain.KindCollection, out.Ref.Kind)
	})

	t.Run("link to nothing", func(t *testing.T) {
		out := convertBlock(&notionapi.LinkToPageBlock{
			BasicBlock: basic("link_to_page", false),
			LinkToPage: notionapi.LinkToPage{Type: "comment_id"},
		})
		assert.Nil(t, out.Ref)
	})
}

func TestConvertRichText_Empty(t *testing.T) {
	assert.Nil(t, convertRichText(nil))
}

func TestConvertRichText_FallsBackToContent(t *testing.T) {
	out := convertRichText([]notionapi.RichText{{Type: "text", Text: &notionapi.Text{Content: "raw"}}})

	require.Len(t, out, 1)
	assert.Equal(t, "raw", out[0].Text)
}
