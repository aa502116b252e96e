// ABOUTME: Filter set accepted by advanced search
// ABOUTME: Provides validation and the canonical form used to build cache keys

package domain

import (
	"fmt"
	"sort"
	"strings"
)

// SizeRange is an inclusive byte-size range
type SizeRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// Contains reports whether size lies within the range
func (r SizeRange) Contains(size int64) bool {
	return size >= r.Min && size <= r.Max
}

// Filters narrows the result set of an advanced search
type Filters struct {
	// DateRangeDays keeps results published within the last N days
	DateRangeDays *int `json:"date_range_days,omitempty"`

	SizeRange *SizeRange `json:"size_range,omitempty"`

	// SyntaxTypes is an allow-list of syntax hints, matched case-insensitively
	SyntaxTypes []string `json:"syntax_types,omitempty"`

	SecurityScan bool `json:"security_scan,omitempty"`

	// Limit overrides the configured default result cap when positive
	Limit int `json:"limit,omitempty"`
}

// MaxDateRangeDays bounds DateRangeDays to one century
const MaxDateRangeDays = 36500

// FilterError describes an invalid filter value
type FilterError struct {
	Field   string
	Message string
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("invalid filter %s: %s", e.Field, e.Message)
}

// Validate checks filter values for consistency
func (f Filters) Validate() error {
	if f.DateRangeDays != nil && *f.DateRangeDays < 0 {
		return &FilterError{Field: "date_range_days", Message: "must not be negative"}
	}
	if f.DateRangeDays != nil && *f.DateRangeDays > MaxDateRangeDays {
		return &FilterError{Field: "date_range_days", Message: fmt.Sprintf("must not exceed %d", MaxDateRangeDays)}
	}
	if f.SizeRange != nil {
		if f.SizeRange.Min < 0 || f.SizeRange.Max < 0 {
			return &FilterError{Field: "size_range", Message: "bounds must not be negative"}
		}
		if f.SizeRange.Min > f.SizeRange.Max {
			return &FilterError{Field: "size_range", Message: "min exceeds max"}
		}
	}
	for _, s := range f.SyntaxTypes {
		if strings.TrimSpace(s) == "" {
			return &FilterError{Field: "syntax_types", Message: "contains an empty entry"}
		}
	}
	if f.Limit < 0 {
		return &FilterError{Field: "limit", Message: "must not be negative"}
	}
	return nil
}

// Canonical returns a map form of the filter set with only the fields that are set.
// Syntax types are lower-cased, deduplicated and sorted.
// encoding/json sorts map keys, so marshaling the result is deterministic.
func (f Filters) Canonical() map[string]interface{} {
	out := map[string]interface{}{}
	if f.DateRangeDays != nil {
		out["date_range_days"] = *f.DateRangeDays
	}
	if f.SizeRange != nil {
		out["size_range"] = []int64{f.SizeRange.Min, f.SizeRange.Max}
	}
	if len(f.SyntaxTypes) > 0 {
		seen := make(map[string]bool, len(f.SyntaxTypes))
		types := make([]string, 0, len(f.SyntaxTypes))
		for _, s := range f.SyntaxTypes {
			s = strings.ToLower(strings.TrimSpace(s))
			if !seen[s] {
				seen[s] = true
				types = append(types, s)
			}
		}
		sort.Strings(types)
		out["syntax_types"] = types
	}
	if f.SecurityScan {
		out["security_scan"] = true
	}
	if f.Limit > 0 {
		out["limit"] = f.Limit
	}
	return out
}

// AllowsSyntax reports whether hint passes the syntax allow-list
func (f Filters) AllowsSyntax(hint string) bool {
	if len(f.SyntaxTypes) == 0 {
		return true
	}
	for _, s := range f.SyntaxTypes {
		if strings.EqualFold(strings.TrimSpace(s), hint) {
			return true
		}
	}
	return false
}
