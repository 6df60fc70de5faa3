package notion

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// HeaderRetryAfter is the retry-after header (seconds or HTTP date).
	HeaderRetryAfter = "Retry-After"

	// maxDrain bounds how much of an error body is read before closing.
	maxDrain = 64 << 10
)

// RateLimiter paces requests and surfaces rate-limit and server errors
// as transport errors. It is shared by all workers.
type RateLimiter struct {
	mu      sync.Mutex
	base    http.RoundTripper
	bucket  *rate.Limiter
	retryAt time.Time
	now     func() time.Time
}

// NewRateLimiter creates a pacing transport over base.
func NewRateLimiter(base http.RoundTripper, requestsPerSecond float64, burst int) *RateLimiter {
	if base == nil {
		base = http.DefaultTransport
	}
	return &RateLimiter{
		base:   base,
		bucket: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
		now:    time.Now,
	}
}

// RoundTrip implements http.RoundTripper.
func (r *RateLimiter) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := r.Wait(req.Context()); err != nil {
		return nil, err
	}

	resp, err := r.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		wait := parseRetryAfter(resp.Header.Get(HeaderRetryAfter), r.now())
		r.RecordRateLimit(wait)
		discard(resp)
		return nil, &RateLimitError{Wait: wait}
	case resp.StatusCode >= http.StatusInternalServerError:
		discard(resp)
		return nil, &ServerError{StatusCode: resp.StatusCode}
	}
	return resp, nil
}

// Wait blocks until a request may be sent: first any backoff recorded
// from a 429, then the token bucket.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if d := retryAt.Sub(r.now()); d > 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	return r.bucket.Wait(ctx)
}

// RecordRateLimit pauses all requests for d.
func (r *RateLimiter) RecordRateLimit(d time.Duration) {
	if d <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if at := r.now().Add(d); at.After(r.retryAt) {
		r.retryAt = at
	}
}

// parseRetryAfter accepts delta-seconds or an HTTP date.
func parseRetryAfter(value string, now time.Time) time.Duration {
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		if seconds < 0 {
			return 0
		}
		return time.Duration(seconds) * time.Second
	}
	if at, err := http.ParseTime(value); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}

func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrain))
	_ = resp.Body.Close()
}
