package driven

import (
	"context"

	"github.com/custodia-labs/notionexport/internal/core/domain"
)

// Source is the remote document service the crawler walks.
// Implementations are stateless across calls apart from shared pacing.
type Source interface {
	// Fetch retrieves a document's metadata: its kind, title and URL.
	Fetch(ctx context.Context, id string) (*RawDocument, error)

	// ListChildren returns one page of child blocks of a block or page.
	ListChildren(ctx context.Context, blockID, cursor string) (*Page[domain.ContentBlock], error)

	// ListMembers returns one page of documents contained in a collection.
	ListMembers(ctx context.Context, collectionID, cursor string) (*Page[domain.DocumentRef], error)
}

// RawDocument is the metadata payload of a fetched document.
type RawDocument struct {
	ID    string
	Kind  domain.Kind
	Title string
	URL   string
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	// Items are the results of this page.
	Items []T

	// NextCursor is the cursor of the next page, empty on the last page.
	NextCursor string
}

// HasMore reports whether another page follows.
func (p *Page[T]) HasMore() bool {
	return p != nil && p.NextCursor != ""
}
