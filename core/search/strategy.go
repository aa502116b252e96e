// ABOUTME: Strategy descriptors for the search orchestrator
// ABOUTME: Each strategy pairs a URL template and header set with the parser for that page shape

package search

import (
	"net/url"
	"strings"

	"github.com/byfranke/PastebinSearch/core/domain"
	"github.com/byfranke/PastebinSearch/core/parsers"
	"github.com/byfranke/PastebinSearch/core/site"
)

// TermPlaceholder is replaced by the query-escaped search term in URL templates
const TermPlaceholder = "{term}"

const (
	chromeUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	firefoxUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0"
)

// Strategy is one way of finding pastes for a term
type Strategy struct {
	Name        string
	Source      domain.Source
	URLTemplate string

	// Headers override the transport defaults for this strategy only
	Headers map[string]string

	Parse parsers.ParseFunc
}

// URL expands the template for term
func (s Strategy) URL(term string) string {
	return strings.ReplaceAll(s.URLTemplate, TermPlaceholder, url.QueryEscape(term))
}

// DefaultStrategies returns the built-in strategies in priority order
func DefaultStrategies(st *site.Site, p *parsers.Parser) []Strategy {
	siteQuery := "site%3A" + st.Host() + "+" + TermPlaceholder
	archive := parsers.Chain(p.Archive, p.RawLinks)

	return []Strategy{
		{
			Name:        "site_search",
			Source:      domain.SourceArchive,
			URLTemplate: st.URL("search?q=" + TermPlaceholder),
			Parse:       archive,
		},
		{
			Name:        "archive",
			Source:      domain.SourceArchive,
			URLTemplate: st.URL("archive"),
			Parse:       archive,
		},
		{
			Name:        "trending",
			Source:      domain.SourceArchive,
			URLTemplate: st.URL("trending"),
			Parse:       archive,
		},
		{
			Name:        "bing",
			Source:      domain.SourceMirrorA,
			URLTemplate: "https://www.bing.com/search?q=" + siteQuery,
			Headers:     map[string]string{"User-Agent": chromeUserAgent},
			Parse:       p.Mirror(domain.SourceMirrorA),
		},
		{
			Name:        "duckduckgo",
			Source:      domain.SourceMirrorB,
			URLTemplate: "https://html.duckduckgo.com/html/?q=" + siteQuery,
			Headers: map[string]string{
				"User-Agent":      firefoxUserAgent,
				"Accept-Language": "en-US,en;q=0.5",
			},
			Parse: p.Mirror(domain.SourceMirrorB),
		},
		{
			Name:        "bing_rss",
			Source:      domain.SourceFeed,
			URLTemplate: "https://www.bing.com/search?format=rss&q=" + siteQuery,
			Headers: map[string]string{
				"User-Agent": chromeUserAgent,
				"Accept":     "application/rss+xml, application/xml;q=0.9, */*;q=0.8",
			},
			Parse: p.Feed,
		},
	}
}
