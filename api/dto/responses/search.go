// ABOUTME: Response DTOs for search and diagnostic API endpoints
// ABOUTME: Provides structured responses with JSON serialization

package responses

import "time"

// SearchResultResponse represents one paste reference in API responses
type SearchResultResponse struct {
	Title        string                 `json:"title" doc:"Paste title"`
	URL          string                 `json:"url" doc:"Absolute paste URL"`
	PublishedAt  time.Time              `json:"published_at" doc:"Best-effort publication time"`
	SizeBytes    int64                  `json:"size_bytes" doc:"Paste size in bytes, 0 when unknown"`
	SyntaxHint   string                 `json:"syntax_hint" doc:"Content language guess"`
	Relevance    float64                `json:"relevance" doc:"Title relevance to the search term, 0 to 1"`
	Source       string                 `json:"source" doc:"Strategy that produced the result"`
	DiscoveredAt time.Time              `json:"discovered_at" doc:"When the result was found"`
	RiskLevel    string                 `json:"risk_level,omitempty" doc:"Aggregated risk after a security scan"`
	Flags        []SecurityFlagResponse `json:"security_flags,omitempty" doc:"Sensitive matches found by the scanner"`
}

// SecurityFlagResponse represents one scanner match
type SecurityFlagResponse struct {
	Category   string `json:"category" doc:"credentials, database or crypto"`
	Excerpt    string `json:"match_excerpt" doc:"Matched text, at most 100 characters"`
	LineNumber int    `json:"line_number" doc:"1-based line of the match"`
	Severity   string `json:"severity" doc:"low, medium or high"`
}

// SearchResponse represents the response for both search endpoints
type SearchResponse struct {
	Query   string                 `json:"query" doc:"Search term as received"`
	Count   int                    `json:"count" doc:"Number of results"`
	Results []SearchResultResponse `json:"results" doc:"Results ordered by relevance"`

	// Exhausted is true when every strategy failed and Results holds the guidance entries
	Exhausted bool `json:"exhausted" doc:"True when no strategy produced results"`
}

// ConnectivityResponse represents the outcome of a connectivity probe
type ConnectivityResponse struct {
	Reachable    bool    `json:"reachable" doc:"Whether the paste site answered"`
	TLSOK        bool    `json:"tls_ok" doc:"Whether strict certificate verification succeeded"`
	ResponseTime float64 `json:"response_time_seconds" doc:"Probe latency in seconds"`
	ErrorDetail  string  `json:"error_detail,omitempty" doc:"Failure description"`
	SuggestedFix string  `json:"suggested_fix,omitempty" doc:"Suggested remedy"`
}
