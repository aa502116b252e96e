package engine

import (
	"context"
	"sync"

	"github.com/byfranke/PastebinSearch/core/interfaces"
)

// mockTransport is a mock implementation of the Transport interface
type mockTransport struct {
	fetchFunc func(ctx context.Context, url string) (*interfaces.Response, error)

	mu     sync.Mutex
	calls  map[string]int
	closed bool
}

func newMockTransport(fetch func(ctx context.Context, url string) (*interfaces.Response, error)) *mockTransport {
	return &mockTransport{fetchFunc: fetch, calls: make(map[string]int)}
}

func (m *mockTransport) Fetch(ctx context.Context, url string, headers map[string]string) (*interfaces.Response, error) {
	m.mu.Lock()
	m.calls[url]++
	m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.fetchFunc(ctx, url)
}

func (m *mockTransport) EnablePermissiveTLS() error  { return nil }
func (m *mockTransport) TLSMode() interfaces.TLSMode { return interfaces.TLSStrict }

func (m *mockTransport) Close() error {
	m.closed = true
	return nil
}

func (m *mockTransport) callsTo(url string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[url]
}

// mockDriver is a mock implementation of the BrowserDriver interface
type mockDriver struct {
	source  string
	visited []string
	closed  bool
}

func (m *mockDriver) Navigate(ctx context.Context, url string) error {
	m.visited = append(m.visited, url)
	return ctx.Err()
}

func (m *mockDriver) PageSource() (string, error) { return m.source, nil }

func (m *mockDriver) Close() error {
	m.closed = true
	return nil
}

func htmlResponse(status int, body string) *interfaces.Response {
	return &interfaces.Response{
		StatusCode:  status,
		Body:        []byte(body),
		Length:      len(body),
		ContentType: "text/html; charset=utf-8",
	}
}
