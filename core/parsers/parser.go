// ABOUTME: HTML and feed parsers turning upstream pages into search results
// ABOUTME: One parser per page shape, each returning an empty list instead of an error

package parsers

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/byfranke/PastebinSearch/core/domain"
	"github.com/byfranke/PastebinSearch/core/relevance"
	"github.com/byfranke/PastebinSearch/core/site"
	htmlutil "github.com/byfranke/PastebinSearch/pkg/utils/html"
)

// DefaultSyntax is used when a page gives no syntax information
const DefaultSyntax = "text"

// ParseFunc extracts results for term from a fetched page
type ParseFunc func(body, term string) []domain.SearchResult

// Parser holds what every page shape needs: the site for link resolution and a clock
type Parser struct {
	site *site.Site
	now  func() time.Time
}

// Option configures a Parser
type Option func(*Parser)

// WithClock replaces time.Now for discovery timestamps
func WithClock(now func() time.Time) Option {
	return func(p *Parser) { p.now = now }
}

// New creates a parser for s
func New(s *site.Site, opts ...Option) *Parser {
	p := &Parser{site: s, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Chain returns a parser that tries each parser in order and keeps the first non-empty result
func Chain(parsers ...ParseFunc) ParseFunc {
	return func(body, term string) []domain.SearchResult {
		for _, parse := range parsers {
			if results := parse(body, term); len(results) > 0 {
				return results
			}
		}
		return nil
	}
}

// tryParseEntry runs parse for a single page entry.
// A panic inside parse is contained and reported as ok=false so one bad entry never drops the page.
func tryParseEntry(parse func() (domain.SearchResult, bool)) (result domain.SearchResult, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			result, ok = domain.SearchResult{}, false
		}
	}()
	return parse()
}

func (p *Parser) document(body string) (*goquery.Document, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, false
	}
	return doc, true
}

func (p *Parser) newResult(title, url, term string, source domain.Source, discovered time.Time) domain.SearchResult {
	title = domain.TruncateTitle(htmlutil.CollapseSpace(title))
	return domain.SearchResult{
		Title:        title,
		URL:          url,
		PublishedAt:  discovered,
		SyntaxHint:   DefaultSyntax,
		Relevance:    relevance.Score(title, term),
		SearchTerm:   term,
		DiscoveredAt: discovered,
		Source:       source,
	}
}

// collector keeps results unique by URL and stops at a cap
type collector struct {
	max     int
	seen    map[string]bool
	results []domain.SearchResult
}

func newCollector(max int) *collector {
	return &collector{max: max, seen: make(map[string]bool)}
}

// add reports whether more results may be added
func (c *collector) add(r domain.SearchResult) bool {
	if c.full() {
		return false
	}
	if !c.seen[r.URL] {
		c.seen[r.URL] = true
		c.results = append(c.results, r)
	}
	return !c.full()
}

func (c *collector) full() bool {
	return c.max > 0 && len(c.results) >= c.max
}
