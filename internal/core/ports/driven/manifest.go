package driven

import (
	"context"

	"github.com/custodia-labs/notionexport/internal/core/domain"
)

// ManifestStore persists a record of each export run.
type ManifestStore interface {
	// Record stores the summary of a finished run.
	Record(ctx context.Context, summary *domain.Summary) error

	// Close releases resources.
	Close() error
}
