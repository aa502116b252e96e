// ABOUTME: Relevance scoring of result titles against the search term
// ABOUTME: Pure functions shared by every parser and the orchestrator

package relevance

import "strings"

// Score returns 1.0 when the whole term occurs in the title (case-insensitive),
// otherwise the fraction of distinct term words that also appear in the title.
// A term with no words scores 0.
func Score(title, term string) float64 {
	t := strings.ToLower(strings.TrimSpace(term))
	if t == "" {
		return 0
	}

	lowerTitle := strings.ToLower(title)
	if strings.Contains(lowerTitle, t) {
		return 1.0
	}

	termWords := wordSet(t)
	if len(termWords) == 0 {
		return 0
	}

	titleWords := wordSet(lowerTitle)
	overlap := 0
	for w := range termWords {
		if titleWords[w] {
			overlap++
		}
	}

	return float64(overlap) / float64(len(termWords))
}

// Matches reports whether the title has any relevance to the term
func Matches(title, term string) bool {
	return Score(title, term) > 0
}

func wordSet(s string) map[string]bool {
	fields := strings.Fields(s)
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}
