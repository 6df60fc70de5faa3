package services

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/custodia-labs/notionexport/internal/core/domain"
	"github.com/custodia-labs/notionexport/internal/core/ports/driven"
	"github.com/custodia-labs/notionexport/internal/logger"
)

// Ensure RetryingSource implements the interface.
var _ driven.Source = (*RetryingSource)(nil)

const (
	// DefaultMaxAttempts is the default attempt bound per request.
	DefaultMaxAttempts = 6

	// DefaultBaseDelay is the delay before the second attempt.
	DefaultBaseDelay = 600 * time.Millisecond

	// DefaultMaxDelay caps computed backoff delays.
	DefaultMaxDelay = 30 * time.Second

	// MaxRetryAfter caps server-provided retry hints.
	MaxRetryAfter = 60 * time.Second
)

// RetryPolicy parameterises exponential backoff.
type RetryPolicy struct {
	// MaxAttempts bounds the number of attempts, including the first.
	MaxAttempts int

	// BaseDelay is the delay after the first failed attempt.
	BaseDelay time.Duration

	// MaxDelay caps the computed delay.
	MaxDelay time.Duration
}

// DefaultRetryPolicy returns conservative defaults.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		MaxDelay:    DefaultMaxDelay,
	}
}

// Backoff returns the delay after attempt n (0-indexed) with up to 50% jitter.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	base := p.BaseDelay << uint(attempt)
	if base <= 0 || base > p.MaxDelay {
		base = p.MaxDelay
	}
	if base <= 1 {
		return base
	}
	return base + time.Duration(rand.Int64N(int64(base)/2))
}

// Classifier maps a transport error to a failure kind.
type Classifier func(err error) domain.FailureKind

// retryAfterer is implemented by errors carrying a server retry hint.
type retryAfterer interface {
	RetryAfter() time.Duration
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RetryingSource decorates a Source with classification and retries.
// Every error it returns is a *domain.FetchError.
type RetryingSource struct {
	next     driven.Source
	classify Classifier
	policy   RetryPolicy
	sleep    Sleeper
}

// NewRetryingSource wraps next. classify decides which failures are retried.
func NewRetryingSource(next driven.Source, classify Classifier, policy RetryPolicy) *RetryingSource {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &RetryingSource{
		next:     next,
		classify: classify,
		policy:   policy,
		sleep:    sleepContext,
	}
}

// WithSleeper replaces the wait function. Tests use it to skip delays.
func (s *RetryingSource) WithSleeper(sleep Sleeper) *RetryingSource {
	s.sleep = sleep
	return s
}

// Fetch retrieves document metadata with retries.
func (s *RetryingSource) Fetch(ctx context.Context, id string) (*driven.RawDocument, error) {
	var doc *driven.RawDocument
	err := s.do(ctx, id, func() error {
		var err error
		doc, err = s.next.Fetch(ctx, id)
		return err
	})
	return doc, err
}

// ListChildren lists one page of child blocks with retries.
func (s *RetryingSource) ListChildren(
	ctx context.Context, blockID, cursor string,
) (*driven.Page[domain.ContentBlock], error) {
	var page *driven.Page[domain.ContentBlock]
	err := s.do(ctx, blockID, func() error {
		var err error
		page, err = s.next.ListChildren(ctx, blockID, cursor)
		return err
	})
	return page, err
}

// ListMembers lists one page of collection members with retries.
func (s *RetryingSource) ListMembers(
	ctx context.Context, collectionID, cursor string,
) (*driven.Page[domain.DocumentRef], error) {
	var page *driven.Page[domain.DocumentRef]
	err := s.do(ctx, collectionID, func() error {
		var err error
		page, err = s.next.ListMembers(ctx, collectionID, cursor)
		return err
	})
	return page, err
}

// do runs call until it succeeds, fails terminally, or attempts run out.
func (s *RetryingSource) do(ctx context.Context, ref string, call func() error) error {
	var (
		err  error
		kind domain.FailureKind
	)
	for attempt := 0; attempt < s.policy.MaxAttempts; attempt++ {
		err = call()
		if err == nil {
			return nil
		}
		if cerr := ctx.Err(); cerr != nil {
			return &domain.FetchError{Kind: domain.FailureTransient, Ref: ref, Attempts: attempt + 1, Err: cerr}
		}

		kind = s.kindOf(err)
		if !kind.Retryable() {
			return &domain.FetchError{Kind: kind, Ref: ref, Attempts: attempt + 1, Err: err}
		}
		if attempt == s.policy.MaxAttempts-1 {
			break
		}

		delay := s.policy.Backoff(attempt)
		var hinted retryAfterer
		if errors.As(err, &hinted) && hinted.RetryAfter() > 0 {
			delay = min(hinted.RetryAfter(), MaxRetryAfter)
		}
		logger.Debug("retrying %s after %s (attempt %d/%d): %v",
			ref, delay, attempt+1, s.policy.MaxAttempts, err)

		if werr := s.sleep(ctx, delay); werr != nil {
			return &domain.FetchError{Kind: domain.FailureTransient, Ref: ref, Attempts: attempt + 1, Err: werr}
		}
	}

	if kind == domain.FailureRateLimited {
		kind = domain.FailureRateLimitExceeded
	}
	return &domain.FetchError{Kind: kind, Ref: ref, Attempts: s.policy.MaxAttempts, Err: err}
}

// kindOf classifies err, honouring errors that are already classified.
func (s *RetryingSource) kindOf(err error) domain.FailureKind {
	var fe *domain.FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	if s.classify == nil {
		return domain.FailureTransient
	}
	return s.classify(err)
}
