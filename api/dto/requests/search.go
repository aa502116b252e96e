// ABOUTME: Request DTOs for search API endpoints
// ABOUTME: Converts the advanced search body into the domain filter set

package requests

import "github.com/byfranke/PastebinSearch/core/domain"

// AdvancedSearchRequest represents the request body for an advanced search
type AdvancedSearchRequest struct {
	// Query is validated by the engine so blank and oversized terms get the same error as GET /search
	Query string `json:"query" doc:"Search term, at most 200 characters"`

	DateRangeDays *int `json:"date_range_days,omitempty" minimum:"0" doc:"Keep pastes published within the last N days"`

	SizeRange *SizeRangeRequest `json:"size_range,omitempty" doc:"Inclusive byte size range"`

	SyntaxTypes []string `json:"syntax_types,omitempty" doc:"Allowed syntax hints, case-insensitive"`

	SecurityScan bool `json:"security_scan,omitempty" doc:"Fetch raw content and attach security flags"`

	Limit int `json:"limit,omitempty" minimum:"0" doc:"Maximum number of results, 0 uses the server default"`
}

// SizeRangeRequest is an inclusive byte size range
type SizeRangeRequest struct {
	Min int64 `json:"min" minimum:"0" doc:"Minimum size in bytes"`
	Max int64 `json:"max" minimum:"0" doc:"Maximum size in bytes"`
}

// ToFilters converts the request into domain filters
func (r *AdvancedSearchRequest) ToFilters() domain.Filters {
	filters := domain.Filters{
		DateRangeDays: r.DateRangeDays,
		SyntaxTypes:   r.SyntaxTypes,
		SecurityScan:  r.SecurityScan,
		Limit:         r.Limit,
	}
	if r.SizeRange != nil {
		filters.SizeRange = &domain.SizeRange{Min: r.SizeRange.Min, Max: r.SizeRange.Max}
	}
	return filters
}
