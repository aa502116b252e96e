package security

import (
	"context"

	"github.com/byfranke/PastebinSearch/core/interfaces"
)

// mockTransport is a mock implementation of the Transport interface
type mockTransport struct {
	fetchFunc func(ctx context.Context, url string, headers map[string]string) (*interfaces.Response, error)
	fetched   []string
}

func (m *mockTransport) Fetch(ctx context.Context, url string, headers map[string]string) (*interfaces.Response, error) {
	m.fetched = append(m.fetched, url)
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, url, headers)
	}
	return &interfaces.Response{StatusCode: 404}, nil
}

func (m *mockTransport) EnablePermissiveTLS() error  { return nil }
func (m *mockTransport) TLSMode() interfaces.TLSMode { return interfaces.TLSStrict }
func (m *mockTransport) Close() error                { return nil }

// mockLimiter counts Wait calls
type mockLimiter struct {
	waits   int
	waitErr error
}

func (m *mockLimiter) Wait(ctx context.Context) error {
	m.waits++
	if m.waitErr != nil {
		return m.waitErr
	}
	return ctx.Err()
}

func textResponse(body string) *interfaces.Response {
	return &interfaces.Response{
		StatusCode:  200,
		Body:        []byte(body),
		Length:      len(body),
		ContentType: "text/plain; charset=utf-8",
	}
}
