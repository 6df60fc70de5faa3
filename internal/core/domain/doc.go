// Package domain defines the core entities of the Notion exporter.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DocumentNode: one exportable unit (a page or a collection)
//   - DocumentRef: a reference to a document discovered during traversal
//   - ContentBlock: one node of a document's content tree
//   - RichText: an inline span within a block
//   - FetchError: a classified failure from the remote service
//   - Summary: the outcome of an export run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
