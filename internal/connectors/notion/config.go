package notion

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/custodia-labs/notionexport/internal/core/domain"
)

const (
	// DefaultVersion is the Notion API version sent with every request.
	DefaultVersion = "2022-06-28"

	// DefaultRequestsPerSecond matches Notion's documented average limit.
	DefaultRequestsPerSecond = 3.0

	// DefaultBurst is the token bucket size.
	DefaultBurst = 3

	// DefaultTimeout is the per-request HTTP timeout.
	DefaultTimeout = 30 * time.Second

	// DefaultPageSize is the maximum page size Notion accepts.
	DefaultPageSize = 100
)

// Config holds client configuration.
type Config struct {
	// Token is the integration secret. Ignored when TokenSource is set.
	Token string

	// TokenSource supplies bearer tokens, e.g. a refreshing OAuth source.
	TokenSource oauth2.TokenSource

	// Version is the Notion-Version header value.
	Version string

	// RequestsPerSecond is the proactive pacing rate.
	RequestsPerSecond float64

	// Burst is the pacing burst size.
	Burst int

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// PageSize is the page size for paginated listings.
	PageSize int

	// Transport is the underlying transport. Defaults to http.DefaultTransport.
	Transport http.RoundTripper
}

// withDefaults fills unset fields.
func (c Config) withDefaults() Config {
	if c.Version == "" {
		c.Version = DefaultVersion
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if c.Burst <= 0 {
		c.Burst = DefaultBurst
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.PageSize <= 0 || c.PageSize > DefaultPageSize {
		c.PageSize = DefaultPageSize
	}
	if c.Transport == nil {
		c.Transport = http.DefaultTransport
	}
	return c
}

// Validate checks that the configuration can be used.
func (c Config) Validate() error {
	if c.Token == "" && c.TokenSource == nil {
		return fmt.Errorf("%w: missing Notion token", domain.ErrAuthRequired)
	}
	return nil
}

// tokenSource returns the configured source, or a static one for Token.
func (c Config) tokenSource() oauth2.TokenSource {
	if c.TokenSource != nil {
		return c.TokenSource
	}
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.Token, TokenType: "Bearer"})
}
