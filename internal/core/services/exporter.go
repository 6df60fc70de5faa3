package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/notionexport/internal/core/domain"
	"github.com/custodia-labs/notionexport/internal/core/ports/driven"
	"github.com/custodia-labs/notionexport/internal/core/ports/driving"
	"github.com/custodia-labs/notionexport/internal/logger"
)

// Ensure ExportService implements the interface.
var _ driving.Exporter = (*ExportService)(nil)

// ExportService runs the two phases of an export: discovery, then render.
type ExportService struct {
	source   driven.Source
	renderer driven.Renderer
	writer   driven.FileWriter
	manifest driven.ManifestStore
	now      func() time.Time
}

// NewExportService creates an export service. manifest may be nil.
// source should classify its errors; wrap raw transports in RetryingSource.
func NewExportService(
	source driven.Source,
	renderer driven.Renderer,
	writer driven.FileWriter,
	manifest driven.ManifestStore,
) *ExportService {
	return &ExportService{
		source:   source,
		renderer: renderer,
		writer:   writer,
		manifest: manifest,
		now:      time.Now,
	}
}

// Run discovers everything reachable from the root and exports it.
// Nothing is written when discovery aborts.
func (s *ExportService) Run(ctx context.Context, opts driving.ExportOptions) (*domain.Summary, error) {
	summary := &domain.Summary{
		RunID:     uuid.NewString(),
		RootID:    opts.RootID,
		StartedAt: s.now(),
	}

	crawler := NewCrawler(s.source).
		WithWorkers(opts.Workers).
		WithOrder(opts.Order)

	registry, err := crawler.Discover(ctx, domain.DocumentRef{ID: opts.RootID})
	if registry != nil {
		summary.Documents = registry.Snapshot()
	}
	if err != nil {
		summary.Err = err
		s.finish(ctx, summary)
		return summary, err
	}

	NewExportWriter(s.renderer, s.writer, opts.RewriteLinks).ExportAll(registry, summary)
	s.finish(ctx, summary)

	logger.Info("Export complete: %d files, %d skipped", len(summary.Files), len(summary.Skipped))
	return summary, nil
}

// finish finalises the summary and records it in the manifest, if any.
func (s *ExportService) finish(ctx context.Context, summary *domain.Summary) {
	summary.FinishedAt = s.now()
	summary.Finalise()

	if s.manifest == nil {
		return
	}
	if err := s.manifest.Record(ctx, summary); err != nil {
		logger.Warn("record manifest: %v", err)
	}
}
