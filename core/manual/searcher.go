// ABOUTME: Manual search drives a browser collaborator through the site's own search page
// ABOUTME: Used when automated strategies are exhausted; never returns an empty list

package manual

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/byfranke/PastebinSearch/core/domain"
	coreerrors "github.com/byfranke/PastebinSearch/core/errors"
	"github.com/byfranke/PastebinSearch/core/interfaces"
	"github.com/byfranke/PastebinSearch/core/parsers"
	"github.com/byfranke/PastebinSearch/core/search"
	"github.com/byfranke/PastebinSearch/core/site"
)

// Searcher runs manual searches through a BrowserDriver
type Searcher struct {
	driver interfaces.BrowserDriver
	site   *site.Site
	parse  parsers.ParseFunc
	now    func() time.Time
	logger interfaces.Logger
}

// Option configures a Searcher
type Option func(*Searcher)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(m *Searcher) { m.now = now }
}

// WithLogger sets the logger
func WithLogger(logger interfaces.Logger) Option {
	return func(m *Searcher) { m.logger = logger }
}

// NewSearcher creates a manual searcher
func NewSearcher(driver interfaces.BrowserDriver, st *site.Site, opts ...Option) *Searcher {
	m := &Searcher{
		driver: driver,
		site:   st,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = interfaces.LoggerOrNop(m.logger)

	p := parsers.New(st, parsers.WithClock(m.now))
	m.parse = parsers.Chain(p.ArchiveAs(domain.SourceManual), p.RawLinksAs(domain.SourceManual))
	return m
}

// Search loads the site search page for term and parses whatever the browser rendered.
// When nothing parses the result is the ManualHelp sentinel.
func (m *Searcher) Search(ctx context.Context, term string) ([]domain.SearchResult, error) {
	if strings.TrimSpace(term) == "" {
		return nil, &coreerrors.ValidationError{Field: "term", Message: "search term cannot be empty"}
	}

	target := m.site.URL("search?q=" + url.QueryEscape(term))
	if err := m.driver.Navigate(ctx, target); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("navigating to %s: %w", target, err)
	}

	source, err := m.driver.PageSource()
	if err != nil {
		return nil, fmt.Errorf("reading page source: %w", err)
	}

	results := m.parse(source, term)
	m.logger.Info("Manual search completed", map[string]interface{}{
		"term":    term,
		"url":     target,
		"results": len(results),
	})
	if len(results) == 0 {
		return []domain.SearchResult{search.ManualHelp(m.site, term, m.now())}, nil
	}
	return search.Rank(results, term, m.now()), nil
}

// Close releases the browser driver
func (m *Searcher) Close() error {
	return m.driver.Close()
}
