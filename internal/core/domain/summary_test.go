package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummary_Finalise(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		s := &Summary{}
		s.Finalise()
		assert.Equal(t, StatusOK, s.Status)
		assert.Equal(t, 0, s.Status.ExitCode())
	})

	t.Run("partial sorts skips", func(t *testing.T) {
		s := &Summary{}
		s.AddSkip(Skip{ID: "b", Reason: FailureNotFound})
		s.AddSkip(Skip{ID: "a", Reason: FailureWrite})
		s.AddSkip(Skip{ID: "a", Reason: FailureForbidden})
		s.Finalise()

		assert.Equal(t, StatusPartial, s.Status)
		assert.Equal(t, 1, s.Status.ExitCode())
		assert.Equal(t, []Skip{
			{ID: "a", Reason: FailureForbidden},
			{ID: "a", Reason: FailureWrite},
			{ID: "b", Reason: FailureNotFound},
		}, s.Skipped)
	})

	t.Run("error wins", func(t *testing.T) {
		s := &Summary{Err: errors.New("boom")}
		s.AddSkip(Skip{ID: "a"})
		s.Finalise()
		assert.Equal(t, StatusAborted, s.Status)
		assert.Equal(t, 2, s.Status.ExitCode())
	})
}

func TestRunStatus_String(t *testing.T) {
	assert.Equal(t, "ok", StatusOK.String())
	assert.Equal(t, "partial", StatusPartial.String())
	assert.Equal(t, "aborted", StatusAborted.String())
	assert.Equal(t, "unknown", RunStatus(9).String())
}
