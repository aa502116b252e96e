package parsers

import (
	"github.com/byfranke/PastebinSearch/core/domain"
	htmlutil "github.com/byfranke/PastebinSearch/pkg/utils/html"
	"github.com/mmcdole/gofeed"
)

const maxFeedResults = 20

// Feed parses an RSS or Atom search feed, keeping items that link to pastes
func (p *Parser) Feed(body, term string) []domain.SearchResult {
	feed, err := gofeed.NewParser().ParseString(body)
	if err != nil {
		return nil
	}
	now := p.now()

	c := newCollector(maxFeedResults)
	for _, item := range feed.Items {
		r, ok := tryParseEntry(func() (domain.SearchResult, bool) {
			u, ok := p.site.Normalize(item.Link)
			if !ok {
				return domain.SearchResult{}, false
			}

			r := p.newResult(htmlutil.StripHTML(item.Title), u, term, domain.SourceFeed, now)
			if r.Relevance <= 0 {
				return domain.SearchResult{}, false
			}
			switch {
			case item.PublishedParsed != nil:
				r.PublishedAt = item.PublishedParsed.UTC()
			case item.UpdatedParsed != nil:
				r.PublishedAt = item.UpdatedParsed.UTC()
			}
			r.SyntaxHint = GuessSyntax(r.Title)
			return r, true
		})
		if ok && !c.add(r) {
			break
		}
	}
	return c.results
}
