// ABOUTME: Search domain models for paste discovery results
// ABOUTME: Defines results, sources, security flags and risk levels shared by every component

package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTitleLength bounds the length of a result title in runes
const MaxTitleLength = 100

// Source identifies which strategy produced a result
type Source string

const (
	SourceArchive    Source = "archive"
	SourceMirrorA    Source = "search_engine_mirror_A"
	SourceMirrorB    Source = "search_engine_mirror_B"
	SourceFeed       Source = "search_engine_feed"
	SourceRawExtract Source = "raw_extract"
	SourceManual     Source = "manual"
	SourceNoResults  Source = "no_results"
	SourceHelp       Source = "help"
)

// IsSentinel reports whether the source marks a synthetic result rather than discovered content
func (s Source) IsSentinel() bool {
	return s == SourceNoResults || s == SourceHelp
}

// RiskLevel is the aggregated risk of a scanned paste
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
	RiskUnknown  RiskLevel = "unknown"
)

// SearchResult represents one discovered paste reference
type SearchResult struct {
	// Title is the display name, truncated to MaxTitleLength
	Title string `json:"title"`

	// URL is absolute and points into the site's paste namespace unless the result is a sentinel
	URL string `json:"url"`

	// PublishedAt is best effort and defaults to DiscoveredAt
	PublishedAt time.Time `json:"published_at"`

	// SizeBytes is 0 when unknown
	SizeBytes int64 `json:"size_bytes"`

	// SyntaxHint is the content language guess, "text" by default
	SyntaxHint string `json:"syntax_hint"`

	// Relevance is computed from Title against SearchTerm, in [0, 1]
	Relevance float64 `json:"relevance"`

	SearchTerm   string    `json:"search_term"`
	DiscoveredAt time.Time `json:"discovered_at"`
	Source       Source    `json:"source"`

	// SecurityFlags and RiskLevel are only set after a security scan
	SecurityFlags []SecurityFlag `json:"security_flags,omitempty"`
	RiskLevel     RiskLevel      `json:"risk_level,omitempty"`
}

// IsSentinel reports whether the result is a synthetic no_results or help entry
func (r SearchResult) IsSentinel() bool {
	return r.Source.IsSentinel()
}

// Scanned reports whether the result went through the security scanner
func (r SearchResult) Scanned() bool {
	return r.RiskLevel != ""
}

// TruncateTitle trims surrounding whitespace and bounds the title to MaxTitleLength runes
func TruncateTitle(title string) string {
	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) <= MaxTitleLength {
		return title
	}
	runes := []rune(title)
	return string(runes[:MaxTitleLength])
}

// CloneResults returns a deep copy of results, including security flags
func CloneResults(results []SearchResult) []SearchResult {
	if results == nil {
		return nil
	}
	out := make([]SearchResult, len(results))
	for i, r := range results {
		out[i] = r
		if r.SecurityFlags != nil {
			out[i].SecurityFlags = append([]SecurityFlag(nil), r.SecurityFlags...)
		}
	}
	return out
}
