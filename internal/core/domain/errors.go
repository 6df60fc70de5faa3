package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the integration may not read the entity.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformed indicates the remote service returned an unexpected payload.
	ErrMalformed = errors.New("malformed response")

	// ErrAuthInvalid indicates the authentication credentials are invalid.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrAuthRequired indicates no credential was configured.
	ErrAuthRequired = errors.New("authentication required")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrAborted indicates the run stopped on a fatal failure.
	ErrAborted = errors.New("export aborted")
)

// FailureKind classifies a failure for retry and recovery decisions.
type FailureKind string

const (
	// FailureTransient is a momentary network or server fault. Retried.
	FailureTransient FailureKind = "TRANSIENT"

	// FailureRateLimited is a rate-limit response. Retried with backoff.
	FailureRateLimited FailureKind = "RATE_LIMITED"

	// FailureRateLimitExceeded means rate-limit retries were exhausted.
	FailureRateLimitExceeded FailureKind = "RATE_LIMIT_EXCEEDED"

	// FailureForbidden means access was denied. Terminal for the document.
	FailureForbidden FailureKind = "FORBIDDEN"

	// FailureNotFound means the target does not exist. Terminal for the document.
	FailureNotFound FailureKind = "NOT_FOUND"

	// FailureAuth means the credential is bad. Aborts the run.
	FailureAuth FailureKind = "AUTH"

	// FailureMalformed means the payload had an unexpected shape. Aborts the run.
	FailureMalformed FailureKind = "MALFORMED"

	// FailureWrite means an output file could not be written.
	FailureWrite FailureKind = "WRITE_FAILURE"
)

// Retryable reports whether another attempt may succeed.
func (k FailureKind) Retryable() bool {
	return k == FailureTransient || k == FailureRateLimited
}

// Fatal reports whether the failure aborts the whole run.
func (k FailureKind) Fatal() bool {
	return k == FailureAuth || k == FailureMalformed
}

// Inaccessible reports whether the failure describes the target itself.
func (k FailureKind) Inaccessible() bool {
	return k == FailureForbidden || k == FailureNotFound
}

// Accessibility maps a terminal failure onto the document's accessibility.
func (k FailureKind) Accessibility() Accessibility {
	switch k {
	case FailureForbidden:
		return AccessForbidden
	case FailureNotFound:
		return AccessNotFound
	default:
		return AccessFailed
	}
}

// Sentinel returns the domain sentinel matching the failure kind, if any.
func (k FailureKind) Sentinel() error {
	switch k {
	case FailureForbidden:
		return ErrForbidden
	case FailureNotFound:
		return ErrNotFound
	case FailureAuth:
		return ErrAuthInvalid
	case FailureMalformed:
		return ErrMalformed
	case FailureRateLimited, FailureRateLimitExceeded:
		return ErrRateLimited
	default:
		return nil
	}
}

// FetchError is a classified failure from the remote service.
type FetchError struct {
	// Kind is the failure classification.
	Kind FailureKind

	// Ref names the resource that was being fetched.
	Ref string

	// Attempts is the number of attempts made.
	Attempts int

	// Err is the underlying error.
	Err error
}

func (e *FetchError) Error() string {
	if e.Attempts > 1 {
		return fmt.Sprintf("fetch %s: %s after %d attempts: %v", e.Ref, e.Kind, e.Attempts, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.Ref, e.Kind, e.Err)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is matches the domain sentinel for the failure kind.
func (e *FetchError) Is(target error) bool {
	s := e.Kind.Sentinel()
	return s != nil && s == target
}

// KindOf extracts the failure kind from err. Errors that are not
// FetchErrors are treated as transient.
func KindOf(err error) FailureKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return FailureTransient
}
