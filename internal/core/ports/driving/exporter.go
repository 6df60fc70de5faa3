package driving

import (
	"context"

	"github.com/custodia-labs/notionexport/internal/core/domain"
)

// TraversalOrder selects how the crawler picks the next document.
type TraversalOrder string

const (
	// OrderBreadthFirst visits documents in discovery order.
	OrderBreadthFirst TraversalOrder = "bfs"

	// OrderDepthFirst visits the most recently discovered document first.
	OrderDepthFirst TraversalOrder = "dfs"
)

// ExportOptions configures one export run.
type ExportOptions struct {
	// RootID is the canonical id of the root page or collection.
	RootID string

	// RewriteLinks rewrites links to exported documents as relative paths.
	RewriteLinks bool

	// Workers bounds the number of concurrent document fetches.
	Workers int

	// Order is the traversal order.
	Order TraversalOrder
}

// Exporter runs an export: discovery followed by rendering.
type Exporter interface {
	// Run exports everything reachable from opts.RootID.
	// A non-nil error means the run aborted; the summary is still returned.
	Run(ctx context.Context, opts ExportOptions) (*domain.Summary, error)
}
