// ABOUTME: Time parsing utilities for flexible date/time parsing
// ABOUTME: Handles absolute, ordinal and relative dates found in paste listings and search pages

package time

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Common time formats found in archive tables, search engine snippets and feeds
var timeFormats = []string{
	time.RFC3339,
	time.RFC3339Nano,
	time.RFC1123,
	time.RFC1123Z,
	time.RFC822,
	time.RFC822Z,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02 Jan 2006 15:04:05 MST",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"Mon, 2 Jan 2006 15:04:05 -0700",
}

var (
	ordinalSuffix   = regexp.MustCompile(`(\d{1,2})(st|nd|rd|th)\b`)
	relativePattern = regexp.MustCompile(`(?i)^(\d+|an?)\s*(sec|second|min|minute|hour|hr|day|week|month|year)s?\.?\s+ago$`)
)

var relativeUnits = map[string]time.Duration{
	"sec":    time.Second,
	"second": time.Second,
	"min":    time.Minute,
	"minute": time.Minute,
	"hour":   time.Hour,
	"hr":     time.Hour,
	"day":    24 * time.Hour,
	"week":   7 * 24 * time.Hour,
	"month":  30 * 24 * time.Hour,
	"year":   365 * 24 * time.Hour,
}

// ParseFlexibleTime attempts to parse an absolute time string using various formats.
// Ordinal day suffixes ("Jan 2nd, 2023") are accepted.
func ParseFlexibleTime(timeStr string) time.Time {
	timeStr = strings.Join(strings.Fields(timeStr), " ")
	if timeStr == "" {
		return time.Time{}
	}

	timeStr = ordinalSuffix.ReplaceAllString(timeStr, "$1")

	for _, format := range timeFormats {
		if t, err := time.Parse(format, timeStr); err == nil {
			return t
		}
	}

	return time.Time{}
}

// ParseRelative parses phrases like "5 min ago", "an hour ago", "today" and "yesterday" against now
func ParseRelative(timeStr string, now time.Time) (time.Time, bool) {
	s := strings.ToLower(strings.Join(strings.Fields(timeStr), " "))
	switch s {
	case "":
		return time.Time{}, false
	case "just now", "now", "today":
		return now, true
	case "yesterday":
		return now.Add(-24 * time.Hour), true
	}

	m := relativePattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}

	n := 1
	if m[1] != "a" && m[1] != "an" {
		v, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
		n = v
	}

	return now.Add(-time.Duration(n) * relativeUnits[m[2]]), true
}

// ParseWithDefault attempts to parse a time string, returning a default if parsing fails
func ParseWithDefault(timeStr string, defaultTime time.Time) time.Time {
	if parsed := ParseFlexibleTime(timeStr); !parsed.IsZero() {
		return parsed
	}
	return defaultTime
}

// ParseAt parses absolute or relative time strings against now, returning now if parsing fails
func ParseAt(timeStr string, now time.Time) time.Time {
	if parsed := ParseFlexibleTime(timeStr); !parsed.IsZero() {
		return parsed
	}
	if parsed, ok := ParseRelative(timeStr, now); ok {
		return parsed
	}
	return now
}
