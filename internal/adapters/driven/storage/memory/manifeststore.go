package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/notionexport/internal/core/domain"
	"github.com/custodia-labs/notionexport/internal/core/ports/driven"
)

// Ensure ManifestStore implements the interface.
var _ driven.ManifestStore = (*ManifestStore)(nil)

// ManifestStore keeps recorded run summaries in memory.
type ManifestStore struct {
	mu   sync.Mutex
	runs []domain.Summary
	err  error
}

// NewManifestStore creates an empty manifest store.
func NewManifestStore() *ManifestStore {
	return &ManifestStore{}
}

// FailWith makes subsequent Record calls return err.
func (s *ManifestStore) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// Record stores a copy of the summary.
func (s *ManifestStore) Record(_ context.Context, summary *domain.Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.runs = append(s.runs, *summary)
	return nil
}

// Runs returns the recorded summaries in order.
func (s *ManifestStore) Runs() []domain.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Summary, len(s.runs))
	copy(out, s.runs)
	return out
}

// Close is a no-op.
func (s *ManifestStore) Close() error {
	return nil
}
