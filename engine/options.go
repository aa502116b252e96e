// ABOUTME: Configuration options for the search engine facade
// ABOUTME: Functional options replace the collaborators New would otherwise build from config

package engine

import (
	"time"

	"github.com/byfranke/PastebinSearch/core/interfaces"
	"github.com/byfranke/PastebinSearch/core/search"
)

// Option is a functional option for configuring the engine
type Option func(*settings) error

// settings holds the collaborators supplied by options.
// nil fields are built from the configuration.
type settings struct {
	transport  interfaces.Transport
	store      interfaces.Cache
	logger     interfaces.Logger
	driver     interfaces.BrowserDriver
	strategies []search.Strategy
	now        func() time.Time
}

// WithTransport sets a custom upstream transport
func WithTransport(transport interfaces.Transport) Option {
	return func(s *settings) error {
		if transport == nil {
			return NewError(ErrorTypeConfiguration, "transport cannot be nil")
		}
		s.transport = transport
		return nil
	}
}

// WithCache sets the byte store behind the result cache, overriding cache.type
func WithCache(store interfaces.Cache) Option {
	return func(s *settings) error {
		if store == nil {
			return NewError(ErrorTypeConfiguration, "cache cannot be nil")
		}
		s.store = store
		return nil
	}
}

// WithLogger sets a custom logger
func WithLogger(logger interfaces.Logger) Option {
	return func(s *settings) error {
		s.logger = logger
		return nil
	}
}

// WithBrowserDriver sets the driver used by ManualSearch
func WithBrowserDriver(driver interfaces.BrowserDriver) Option {
	return func(s *settings) error {
		if driver == nil {
			return NewError(ErrorTypeConfiguration, "browser driver cannot be nil")
		}
		s.driver = driver
		return nil
	}
}

// WithStrategies replaces the default strategy list
func WithStrategies(strategies []search.Strategy) Option {
	return func(s *settings) error {
		if len(strategies) == 0 {
			return NewError(ErrorTypeConfiguration, "at least one strategy is required")
		}
		s.strategies = strategies
		return nil
	}
}

// WithClock replaces time.Now for timestamps, filters and cache expiry
func WithClock(now func() time.Time) Option {
	return func(s *settings) error {
		s.now = now
		return nil
	}
}
