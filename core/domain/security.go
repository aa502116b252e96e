// ABOUTME: Security flag model produced by the content scanner
// ABOUTME: Flags are derived from pattern matches against raw paste bodies

package domain

// FlagCategory groups scanner patterns
type FlagCategory string

const (
	CategoryCredentials FlagCategory = "credentials"
	CategoryDatabase    FlagCategory = "database"
	CategoryCrypto      FlagCategory = "crypto"
)

// Severity of a single flag
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// MaxExcerptLength bounds SecurityFlag.MatchExcerpt
const MaxExcerptLength = 100

// SecurityFlag is one sensitive-looking match inside a paste body
type SecurityFlag struct {
	Category     FlagCategory `json:"category"`
	MatchExcerpt string       `json:"match_excerpt"`
	LineNumber   int          `json:"line_number"`
	Severity     Severity     `json:"severity"`
}
