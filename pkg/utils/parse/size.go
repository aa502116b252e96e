// ABOUTME: Utility functions for parsing human readable sizes and numbers
// ABOUTME: Provides safe parsing with zero defaults for values scraped from listings

package parse

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var sizePattern = regexp.MustCompile(`(?i)^([0-9]+(?:[.,][0-9]+)?)\s*(b|bytes?|kb|kib|k|mb|mib|m|gb|gib|g)?$`)

var sizeUnits = map[string]float64{
	"":      1,
	"b":     1,
	"byte":  1,
	"bytes": 1,
	"k":     1 << 10,
	"kb":    1 << 10,
	"kib":   1 << 10,
	"m":     1 << 20,
	"mb":    1 << 20,
	"mib":   1 << 20,
	"g":     1 << 30,
	"gb":    1 << 30,
	"gib":   1 << 30,
}

// IntOrZero safely parses an integer from a string, returning 0 if parsing fails
func IntOrZero(s string) int {
	v, _ := strconv.Atoi(strings.TrimSpace(s))
	return v
}

// BytesOrZero parses sizes such as "2.5 KB", "512 B" or "1,2 MB" using binary multiples.
// Returns 0 if the string is not a size or does not fit in an int64.
func BytesOrZero(s string) int64 {
	m := sizePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0
	}

	value, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
	if err != nil {
		return 0
	}

	size := math.Round(value * sizeUnits[strings.ToLower(m[2])])
	if math.IsNaN(size) || size < 0 || size >= math.MaxInt64 {
		return 0
	}
	return int64(size)
}
