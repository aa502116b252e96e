package search

import (
	"context"
	"sync"
	"time"

	"github.com/byfranke/PastebinSearch/core/interfaces"
)

// mockTransport is a mock implementation of the Transport interface.
// fetchFunc sees the TLS mode in effect for each request.
type mockTransport struct {
	fetchFunc func(ctx context.Context, url string, mode interfaces.TLSMode) (*interfaces.Response, error)
	enableErr error

	mu          sync.Mutex
	mode        interfaces.TLSMode
	calls       map[string]int
	modes       []interfaces.TLSMode
	headers     map[string]map[string]string
	enableCalls int
}

func newMockTransport(fetch func(ctx context.Context, url string, mode interfaces.TLSMode) (*interfaces.Response, error)) *mockTransport {
	return &mockTransport{
		fetchFunc: fetch,
		mode:      interfaces.TLSStrict,
		calls:     make(map[string]int),
		headers:   make(map[string]map[string]string),
	}
}

func (m *mockTransport) Fetch(ctx context.Context, url string, headers map[string]string) (*interfaces.Response, error) {
	m.mu.Lock()
	m.calls[url]++
	m.modes = append(m.modes, m.mode)
	m.headers[url] = headers
	mode := m.mode
	m.mu.Unlock()

	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, url, mode)
	}
	return htmlResponse(""), nil
}

func (m *mockTransport) EnablePermissiveTLS() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enableCalls++
	if m.enableErr != nil {
		return m.enableErr
	}
	m.mode = interfaces.TLSPermissive
	return nil
}

func (m *mockTransport) TLSMode() interfaces.TLSMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

func (m *mockTransport) Close() error { return nil }

func (m *mockTransport) callsTo(url string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[url]
}

// mockLimiter counts Wait calls
type mockLimiter struct {
	waits int
}

func (m *mockLimiter) Wait(ctx context.Context) error {
	m.waits++
	return ctx.Err()
}

// fakeClock is a settable clock
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func htmlResponse(body string) *interfaces.Response {
	return &interfaces.Response{
		StatusCode:  200,
		Body:        []byte(body),
		Length:      len(body),
		ContentType: "text/html; charset=utf-8",
	}
}

func statusResponse(code int) *interfaces.Response {
	return &interfaces.Response{StatusCode: code}
}
