package interfaces

import "context"

// TLSMode is the certificate policy currently used by a Transport
type TLSMode string

const (
	// TLSStrict verifies certificates and hostnames
	TLSStrict TLSMode = "strict"

	// TLSPermissive skips verification and accepts weaker ciphers
	TLSPermissive TLSMode = "permissive"
)

// Response is a fully read HTTP response.
// Non-2xx statuses are returned as responses, not errors.
type Response struct {
	StatusCode  int
	Body        []byte
	Length      int
	ContentType string
}

// Transport fetches pages from upstream sources.
// Implementations classify failures into the error kinds in core/errors
// (TLSError, ConnectError, TimeoutError) so the orchestrator can decide whether to advance.
type Transport interface {
	// Fetch performs a GET request. headers override the session defaults.
	Fetch(ctx context.Context, url string, headers map[string]string) (*Response, error)

	// EnablePermissiveTLS swaps the session to the permissive TLS policy.
	// Calling it again is a no-op. Returns an error when the fallback is forbidden.
	EnablePermissiveTLS() error

	// TLSMode reports the current policy.
	TLSMode() TLSMode

	// Close releases idle connections.
	Close() error
}

// RateLimiter enforces a minimum delay between upstream requests
type RateLimiter interface {
	// Wait blocks until the next request may be sent.
	// Returns an error only when ctx is done first.
	Wait(ctx context.Context) error
}

// BrowserDriver is the collaborator used by manual search
type BrowserDriver interface {
	Navigate(ctx context.Context, url string) error
	PageSource() (string, error)
	Close() error
}
