// ABOUTME: Mappers for converting between domain models and API DTOs
// ABOUTME: Provides clean separation between business logic and API layer

package mappers

import (
	"github.com/byfranke/PastebinSearch/api/dto/responses"
	"github.com/byfranke/PastebinSearch/core/domain"
)

// ToSearchResultResponse converts a domain SearchResult to its DTO
func ToSearchResultResponse(r domain.SearchResult) responses.SearchResultResponse {
	response := responses.SearchResultResponse{
		Title:        r.Title,
		URL:          r.URL,
		PublishedAt:  r.PublishedAt,
		SizeBytes:    r.SizeBytes,
		SyntaxHint:   r.SyntaxHint,
		Relevance:    r.Relevance,
		Source:       string(r.Source),
		DiscoveredAt: r.DiscoveredAt,
		RiskLevel:    string(r.RiskLevel),
	}
	for _, f := range r.SecurityFlags {
		response.Flags = append(response.Flags, responses.SecurityFlagResponse{
			Category:   string(f.Category),
			Excerpt:    f.MatchExcerpt,
			LineNumber: f.LineNumber,
			Severity:   string(f.Severity),
		})
	}
	return response
}

// ToSearchResponse builds the search response for term
func ToSearchResponse(term string, results []domain.SearchResult) *responses.SearchResponse {
	response := &responses.SearchResponse{
		Query:   term,
		Count:   len(results),
		Results: make([]responses.SearchResultResponse, 0, len(results)),
	}

	exhausted := len(results) > 0
	for _, r := range results {
		response.Results = append(response.Results, ToSearchResultResponse(r))
		if !r.IsSentinel() {
			exhausted = false
		}
	}
	response.Exhausted = exhausted

	return response
}

// ToConnectivityResponse converts a probe report to its DTO
func ToConnectivityResponse(report domain.ConnectivityReport) *responses.ConnectivityResponse {
	return &responses.ConnectivityResponse{
		Reachable:    report.Reachable,
		TLSOK:        report.TLSOK,
		ResponseTime: report.ResponseTimeSeconds(),
		ErrorDetail:  report.ErrorDetail,
		SuggestedFix: report.SuggestedFix,
	}
}
