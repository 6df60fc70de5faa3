package driven

import "github.com/custodia-labs/notionexport/internal/core/domain"

// Renderer converts a document's block tree into output text.
// Implementations must be pure: no I/O, only the blocks and the resolver.
type Renderer interface {
	// Render renders blocks, resolving document references through resolver.
	Render(blocks []domain.ContentBlock, resolver domain.LinkResolver) string

	// Extension is the output file extension, including the dot.
	Extension() string
}
