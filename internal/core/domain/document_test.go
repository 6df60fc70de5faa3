package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDocumentNode_Exportable tests which registry entries are written
func TestDocumentNode_Exportable(t *testing.T) {
	blocks := []ContentBlock{{Type: BlockParagraph, RichText: []RichText{{Text: "x"}}}}

	tests := []struct {
		name string
		node DocumentNode
		want bool
	}{
		{"accessible with content", DocumentNode{Accessibility: AccessAccessible, Blocks: blocks, Slug: "a"}, true},
		{"empty", DocumentNode{Accessibility: AccessAccessible, Slug: "a"}, false},
		{"no slug", DocumentNode{Accessibility: AccessAccessible, Blocks: blocks}, false},
		{"forbidden", DocumentNode{Accessibility: AccessForbidden, Blocks: blocks, Slug: "a"}, false},
		{"unknown", DocumentNode{Accessibility: AccessUnknown, Slug: "a"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.node.Exportable())
		})
	}
}

// TestDocumentNode_DisplayTitle tests the placeholder for blank titles
func TestDocumentNode_DisplayTitle(t *testing.T) {
	assert.Equal(t, "Roadmap", (&DocumentNode{Title: " Roadmap "}).DisplayTitle())
	assert.Equal(t, "Untitled", (&DocumentNode{Title: "  "}).DisplayTitle())
}

// TestContentBlock_References tests child documents are not descended into
func TestContentBlock_References(t *testing.T) {
	child := ContentBlock{Type: BlockChildPage, HasChildren: true, Ref: &DocumentRef{ID: "c"}}
	assert.True(t, child.ReferencesDocument())
	assert.False(t, child.DescendsIntoChildren())

	toggle := ContentBlock{Type: BlockToggle, HasChildren: true}
	assert.False(t, toggle.ReferencesDocument())
	assert.True(t, toggle.DescendsIntoChildren())

	dangling := ContentBlock{Type: BlockLinkToPage, Ref: &DocumentRef{}}
	assert.False(t, dangling.ReferencesDocument())
}

// TestPlainText tests span concatenation
func TestPlainText(t *testing.T) {
	assert.Equal(t, "ab c", PlainText([]RichText{{Text: "a"}, {Text: "b "}, {Text: "c"}}))
	assert.Empty(t, PlainText(nil))
}
