package parsers

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/byfranke/PastebinSearch/core/domain"
)

const (
	maxMirrorResults = 20
	minMirrorTitle   = 5
)

// redirectParams hold the target URL in search engine click-tracking links
var redirectParams = []string{"uddg", "q", "url", "u"}

// Mirror returns a parser for a general search engine results page tagged with source
func (p *Parser) Mirror(source domain.Source) ParseFunc {
	return func(body, term string) []domain.SearchResult {
		return p.mirror(body, term, source)
	}
}

func (p *Parser) mirror(body, term string, source domain.Source) []domain.SearchResult {
	doc, ok := p.document(body)
	if !ok {
		return nil
	}
	now := p.now()

	c := newCollector(maxMirrorResults)
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		r, ok := tryParseEntry(func() (domain.SearchResult, bool) {
			href, _ := a.Attr("href")
			target := p.unwrapRedirect(href)
			if strings.Contains(target, "/search?") {
				return domain.SearchResult{}, false
			}
			u, ok := p.site.Normalize(target)
			if !ok {
				return domain.SearchResult{}, false
			}

			r := p.newResult(a.Text(), u, term, source, now)
			if utf8.RuneCountInString(r.Title) <= minMirrorTitle || p.isURLEcho(r.Title) {
				return domain.SearchResult{}, false
			}
			if r.Relevance <= 0 {
				return domain.SearchResult{}, false
			}
			r.SyntaxHint = GuessSyntax(r.Title)
			return r, true
		})
		if !ok {
			return true
		}
		return c.add(r)
	})
	return c.results
}

// unwrapRedirect returns the paste site URL wrapped in a click-tracking link, or href itself
func (p *Parser) unwrapRedirect(href string) string {
	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil || u.RawQuery == "" {
		return href
	}
	if strings.Contains(strings.ToLower(u.Host), p.site.Host()) {
		return href
	}

	query := u.Query()
	for _, key := range redirectParams {
		target := query.Get(key)
		lower := strings.ToLower(target)
		if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "//") {
			if strings.Contains(lower, p.site.Host()) {
				return target
			}
		}
	}
	return href
}

// isURLEcho reports anchors whose text is just the link itself
func (p *Parser) isURLEcho(title string) bool {
	lower := strings.ToLower(title)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") ||
		strings.Contains(lower, p.site.Host()+"/")
}
