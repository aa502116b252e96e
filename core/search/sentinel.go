package search

import (
	"fmt"
	"time"

	"github.com/byfranke/PastebinSearch/core/domain"
	"github.com/byfranke/PastebinSearch/core/parsers"
	"github.com/byfranke/PastebinSearch/core/site"
)

// NoResults is returned when every strategy came back empty.
// Callers must not treat it as paste content.
func NoResults(st *site.Site, term string, now time.Time) domain.SearchResult {
	return sentinel(st.URL("no-results"), fmt.Sprintf("No automated results for: %s", term), 1.0, domain.SourceNoResults, term, now)
}

// ManualHelp points the caller at manual search mode
func ManualHelp(st *site.Site, term string, now time.Time) domain.SearchResult {
	return sentinel(st.URL("help-manual"), `Try: manual "your_search_term" for browser-based search`, 0.9, domain.SourceHelp, term, now)
}

// Exhausted returns the sentinel pair for a search that found nothing
func Exhausted(st *site.Site, term string, now time.Time) []domain.SearchResult {
	return []domain.SearchResult{
		NoResults(st, term, now),
		ManualHelp(st, term, now),
	}
}

func sentinel(url, title string, relevance float64, source domain.Source, term string, now time.Time) domain.SearchResult {
	return domain.SearchResult{
		Title:        domain.TruncateTitle(title),
		URL:          url,
		PublishedAt:  now,
		SyntaxHint:   parsers.DefaultSyntax,
		Relevance:    relevance,
		SearchTerm:   term,
		DiscoveredAt: now,
		Source:       source,
	}
}
