package parsers

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/byfranke/PastebinSearch/core/domain"
)

const (
	maxRawLinks     = 10
	minRawLinkTitle = 3
)

// navigationTexts are site chrome link labels, never paste titles
var navigationTexts = map[string]bool{
	"home": true, "login": true, "sign in": true, "signup": true, "sign up": true,
	"api": true, "tools": true, "faq": true, "contact": true, "archive": true,
	"trending": true, "pastebin": true, "paste": true, "new paste": true,
	"raw": true, "download": true, "clone": true, "embed": true, "print": true,
	"report": true,
}

// RawLinks is the last resort parser: it keeps any anchor whose href carries a paste ID
func (p *Parser) RawLinks(body, term string) []domain.SearchResult {
	return p.rawLinks(body, term, domain.SourceRawExtract)
}

// RawLinksAs returns a raw link parser that tags results with source
func (p *Parser) RawLinksAs(source domain.Source) ParseFunc {
	return func(body, term string) []domain.SearchResult {
		return p.rawLinks(body, term, source)
	}
}

func (p *Parser) rawLinks(body, term string, source domain.Source) []domain.SearchResult {
	doc, ok := p.document(body)
	if !ok {
		return nil
	}
	now := p.now()

	c := newCollector(maxRawLinks)
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		r, ok := tryParseEntry(func() (domain.SearchResult, bool) {
			href, _ := a.Attr("href")
			id, ok := p.site.PasteID(href)
			if !ok {
				return domain.SearchResult{}, false
			}

			r := p.newResult(a.Text(), p.site.PasteURL(id), term, source, now)
			if utf8.RuneCountInString(r.Title) <= minRawLinkTitle || navigationTexts[strings.ToLower(r.Title)] {
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
