package notion

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/notionexport/internal/core/domain"
)

func TestClassify(t *testing.T) {
	var syntaxErr error = &json.SyntaxError{Offset: 3}

	tests := []struct {
		name string
		err  error
		want domain.FailureKind
	}{
		{"nil", nil, ""},
		{"rate limited", &RateLimitError{Wait: time.Second}, domain.FailureRateLimited},
		{"rate limited through transport", fmt.Errorf("get page: %w",
			&url.Error{Op: "Get", URL: "https://api.notion.com", Err: &RateLimitError{}}), domain.FailureRateLimited},
		{"server error", &ServerError{StatusCode: 502}, domain.FailureTransient},
		{"unauthorized", &notionapi.Error{Status: 401}, domain.FailureAuth},
		{"forbidden", &notionapi.Error{Status: 403}, domain.FailureForbidden},
		{"not found", fmt.Errorf("get page: %w", &notionapi.Error{Status: 404}), domain.FailureNotFound},
		{"bad request", &notionapi.Error{Status: 400}, domain.FailureNotFound},
		{"conflict", &notionapi.Error{Status: 409}, domain.FailureTransient},
		{"api 503", &notionapi.Error{Status: 503}, domain.FailureTransient},
		{"unprocessable", &notionapi.Error{Status: 422}, domain.FailureMalformed},
		{"missing token", domain.ErrAuthRequired, domain.FailureAuth},
		{"missing cursor", fmt.Errorf("list: %w", ErrMissingCursor), domain.FailureMalformed},
		{"bad json", syntaxErr, domain.FailureMalformed},
		{"network", errors.New("dial tcp: connection refused"), domain.FailureTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(&notionapi.Error{Status: 404}))
	assert.False(t, IsNotFound(&notionapi.Error{Status: 403}))
}

func TestRateLimitError_Message(t *testing.T) {
	assert.Equal(t, "notion: rate limited", (&RateLimitError{}).Error())
	assert.Contains(t, (&RateLimitError{Wait: 2 * time.Second}).Error(), "retry after 2s")
	assert.Equal(t, 2*time.Second, (&RateLimitError{Wait: 2 * time.Second}).RetryAfter())
}
