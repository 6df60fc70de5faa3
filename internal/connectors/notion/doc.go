// Package notion implements the document source for Notion workspaces.
//
// The client wraps [github.com/jomei/notionapi] and implements
// [driven.Source]: it retrieves pages and databases, lists block children
// and database members one page at a time, and converts Notion's typed
// blocks into [domain.ContentBlock] trees.
//
// # Rate Limiting
//
// Notion allows an average of three requests per second per integration.
// Requests go through a shared pacing transport:
//
//  1. Proactive throttling: a token bucket (golang.org/x/time/rate) spaces
//     requests out across all workers.
//
//  2. Reactive handling: a 429 response is turned into a [RateLimitError]
//     carrying the Retry-After hint, and every request waits until that
//     point has passed.
//
// Retrying is not done here. The core wraps the client in a retrying
// decorator parameterised by [Classify].
//
// # Error Handling
//
//   - 429: RATE_LIMITED, retried after the hinted delay
//   - 5xx and network errors: TRANSIENT, retried with backoff
//   - 403: FORBIDDEN, the document is skipped
//   - 400, 404: NOT_FOUND, the document is skipped
//   - 401: AUTH, the run aborts
//   - undecodable payloads: MALFORMED, the run aborts
//
// # Identifiers
//
// Page references may be given as Notion URLs, 32-character hex ids or
// hyphenated UUIDs. [NormaliseID] turns all of them into canonical
// lowercase UUIDs, which are the registry keys.
package notion
