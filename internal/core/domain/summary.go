package domain

import (
	"sort"
	"time"
)

// RunStatus is the completion status of an export run.
type RunStatus int

const (
	// StatusOK means every reachable document was exported.
	StatusOK RunStatus = iota

	// StatusPartial means some documents were skipped or failed to write.
	StatusPartial

	// StatusAborted means a fatal failure stopped the run.
	StatusAborted
)

// String returns the status name.
func (s RunStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusPartial:
		return "partial"
	case StatusAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// ExitCode returns the process exit code for the status.
func (s RunStatus) ExitCode() int {
	return int(s)
}

// Skip records a document that was not exported.
type Skip struct {
	ID     string
	Title  string
	Reason FailureKind
	Detail string
}

// ExportedFile records a written output file.
type ExportedFile struct {
	ID    string
	Title string
	Path  string
}

// Summary is the outcome of an export run.
type Summary struct {
	RunID      string
	RootID     string
	StartedAt  time.Time
	FinishedAt time.Time
	Status     RunStatus
	Documents  []DocumentNode
	Files      []ExportedFile
	IndexPath  string
	Skipped    []Skip
	Err        error
}

// AddSkip records a skipped document.
func (s *Summary) AddSkip(skip Skip) {
	s.Skipped = append(s.Skipped, skip)
}

// Finalise sorts the skip list and derives the status.
func (s *Summary) Finalise() {
	sort.Slice(s.Skipped, func(i, j int) bool {
		if s.Skipped[i].ID != s.Skipped[j].ID {
			return s.Skipped[i].ID < s.Skipped[j].ID
		}
		return s.Skipped[i].Reason < s.Skipped[j].Reason
	})
	switch {
	case s.Err != nil:
		s.Status = StatusAborted
	case len(s.Skipped) > 0:
		s.Status = StatusPartial
	default:
		s.Status = StatusOK
	}
}
