package parsers

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/byfranke/PastebinSearch/core/domain"
	"github.com/byfranke/PastebinSearch/pkg/utils/parse"
	timeutil "github.com/byfranke/PastebinSearch/pkg/utils/time"
)

// archiveSelectors are tried in order; the first one that matches any element wins
var archiveSelectors = []string{
	"table.maintable tr",
	".table-responsive table tr",
	"article",
	".paste_box_line",
	`div[class*="paste"]`,
}

// Archive parses the site's own listing and search pages
func (p *Parser) Archive(body, term string) []domain.SearchResult {
	return p.archive(body, term, domain.SourceArchive)
}

// ArchiveAs returns an archive parser that tags results with source
func (p *Parser) ArchiveAs(source domain.Source) ParseFunc {
	return func(body, term string) []domain.SearchResult {
		return p.archive(body, term, source)
	}
}

func (p *Parser) archive(body, term string, source domain.Source) []domain.SearchResult {
	doc, ok := p.document(body)
	if !ok {
		return nil
	}
	now := p.now()

	var entries *goquery.Selection
	for _, selector := range archiveSelectors {
		if found := doc.Find(selector); found.Length() > 0 {
			entries = found
			break
		}
	}
	if entries == nil {
		return p.anchorFallback(doc, term, source, now)
	}

	c := newCollector(0)
	entries.Each(func(_ int, entry *goquery.Selection) {
		r, ok := tryParseEntry(func() (domain.SearchResult, bool) {
			if goquery.NodeName(entry) == "tr" {
				return p.tableRow(entry, term, source, now)
			}
			return p.block(entry, term, source, now)
		})
		if ok {
			c.add(r)
		}
	})
	return c.results
}

// tableRow reads a listing row: link, date, size and an optional syntax column
func (p *Parser) tableRow(row *goquery.Selection, term string, source domain.Source, now time.Time) (domain.SearchResult, bool) {
	cells := row.ChildrenFiltered("td")
	if cells.Length() < 3 {
		return domain.SearchResult{}, false
	}

	link := cells.Eq(0).Find("a[href]").First()
	href, _ := link.Attr("href")
	u, ok := p.site.Normalize(href)
	if !ok {
		return domain.SearchResult{}, false
	}

	r := p.newResult(link.Text(), u, term, source, now)
	if r.Relevance <= 0 {
		return domain.SearchResult{}, false
	}
	r.PublishedAt = timeutil.ParseAt(cells.Eq(1).Text(), now)
	r.SizeBytes = parse.BytesOrZero(cells.Eq(2).Text())
	if cells.Length() > 3 {
		if syntax := strings.TrimSpace(cells.Eq(3).Text()); syntax != "" {
			r.SyntaxHint = strings.ToLower(syntax)
		}
	}
	return r, true
}

// block reads a card style entry using its first paste link
func (p *Parser) block(entry *goquery.Selection, term string, source domain.Source, now time.Time) (domain.SearchResult, bool) {
	var (
		u     string
		title string
	)
	entry.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		normalized, ok := p.site.Normalize(href)
		if !ok {
			return true
		}
		u, title = normalized, a.Text()
		return false
	})
	if u == "" {
		return domain.SearchResult{}, false
	}
	if strings.TrimSpace(title) == "" {
		title = entry.Find("h1, h2, h3, h4").First().Text()
	}

	r := p.newResult(title, u, term, source, now)
	if r.Relevance <= 0 {
		return domain.SearchResult{}, false
	}

	if t := entry.Find("time").First(); t.Length() > 0 {
		stamp, ok := t.Attr("datetime")
		if !ok {
			stamp = t.Text()
		}
		r.PublishedAt = timeutil.ParseAt(stamp, now)
	}
	r.SizeBytes = parse.BytesOrZero(entry.Find(`[class*="size"]`).First().Text())
	if syntax := strings.TrimSpace(entry.Find(`[class*="syntax"], [class*="lang"]`).First().Text()); syntax != "" {
		r.SyntaxHint = strings.ToLower(syntax)
	}
	return r, true
}

// anchorFallback scans every link when no known layout matched, keeping titles that contain term
func (p *Parser) anchorFallback(doc *goquery.Document, term string, source domain.Source, now time.Time) []domain.SearchResult {
	lowerTerm := strings.ToLower(strings.TrimSpace(term))
	if lowerTerm == "" {
		return nil
	}

	c := newCollector(0)
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		u, ok := p.site.Normalize(href)
		if !ok {
			return
		}
		r := p.newResult(a.Text(), u, term, source, now)
		if r.Title == "" || !strings.Contains(strings.ToLower(r.Title), lowerTerm) {
			return
		}
		c.add(r)
	})
	return c.results
}
