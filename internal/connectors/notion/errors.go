package notion

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jomei/notionapi"

	"github.com/custodia-labs/notionexport/internal/core/domain"
)

// Notion-specific errors.
var (
	// ErrMissingCursor indicates a listing claimed more results without a cursor.
	ErrMissingCursor = errors.New("notion: has_more set without next_cursor")
)

// RateLimitError represents a 429 response with its Retry-After hint.
type RateLimitError struct {
	Wait time.Duration
}

func (e *RateLimitError) Error() string {
	if e.Wait > 0 {
		return fmt.Sprintf("notion: rate limited, retry after %s", e.Wait)
	}
	return "notion: rate limited"
}

// RetryAfter returns the server-provided delay, zero if none was given.
func (e *RateLimitError) RetryAfter() time.Duration {
	return e.Wait
}

// ServerError represents a 5xx response.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("notion: server error %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Classify maps an error from the client to a failure kind.
func Classify(err error) domain.FailureKind {
	if err == nil {
		return ""
	}

	var rateErr *RateLimitError
	if errors.As(err, &rateErr) {
		return domain.FailureRateLimited
	}
	var serverErr *ServerError
	if errors.As(err, &serverErr) {
		return domain.FailureTransient
	}
	var apiErr *notionapi.Error
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.Status)
	}

	switch {
	case errors.Is(err, domain.ErrAuthRequired), errors.Is(err, domain.ErrAuthInvalid):
		return domain.FailureAuth
	case errors.Is(err, domain.ErrMalformed), errors.Is(err, ErrMissingCursor):
		return domain.FailureMalformed
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return domain.FailureMalformed
	}

	// Network failures and anything unrecognised are worth another try.
	return domain.FailureTransient
}

// classifyStatus maps an HTTP status from a Notion error object.
func classifyStatus(status int) domain.FailureKind {
	switch {
	case status == http.StatusUnauthorized:
		return domain.FailureAuth
	case status == http.StatusForbidden:
		return domain.FailureForbidden
	case status == http.StatusNotFound, status == http.StatusBadRequest:
		return domain.FailureNotFound
	case status == http.StatusTooManyRequests:
		return domain.FailureRateLimited
	case status == http.StatusConflict, status >= http.StatusInternalServerError:
		return domain.FailureTransient
	default:
		return domain.FailureMalformed
	}
}

// IsNotFound checks if the error indicates a missing or unreadable id.
func IsNotFound(err error) bool {
	return Classify(err) == domain.FailureNotFound
}
