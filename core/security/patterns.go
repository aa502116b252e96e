package security

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/byfranke/PastebinSearch/core/domain"
)

// pattern is one sensitive assignment shape, for example "password = ..."
type pattern struct {
	category domain.FlagCategory
	keyword  string
	re       *regexp.Regexp
}

func assignment(names string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(` + names + `)\s*[=:]\s*['"]?([^\s'"]+)`)
}

var patterns = []pattern{
	{domain.CategoryCredentials, "password", assignment(`password|pass|pwd`)},
	{domain.CategoryCredentials, "username", assignment(`username|user|login`)},
	{domain.CategoryCredentials, "api_key", assignment(`api[_-]?key`)},
	{domain.CategoryCredentials, "secret_key", assignment(`secret[_-]?key`)},
	{domain.CategoryCredentials, "access_token", assignment(`access[_-]?token`)},

	{domain.CategoryDatabase, "host", assignment(`server|host`)},
	{domain.CategoryDatabase, "database", assignment(`database|db[_-]?name`)},
	{domain.CategoryDatabase, "connection_string", assignment(`connection[_-]?string`)},

	{domain.CategoryCrypto, "private_key", assignment(`private[_-]?key`)},
	{domain.CategoryCrypto, "wallet_address", assignment(`wallet[_-]?address`)},
	{domain.CategoryCrypto, "seed_phrase", assignment(`mnemonic|seed[_-]?phrase`)},
}

var (
	highRisk   = map[string]bool{"password": true, "private_key": true, "secret_key": true, "access_token": true}
	mediumRisk = map[string]bool{"username": true, "api_key": true, "database": true, "connection_string": true}
)

// SeverityOf maps a pattern keyword to its severity tier
func SeverityOf(keyword string) domain.Severity {
	switch {
	case highRisk[keyword]:
		return domain.SeverityHigh
	case mediumRisk[keyword]:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}

// Analyze returns one flag per pattern match in content, in pattern order
func Analyze(content string) []domain.SecurityFlag {
	flags := []domain.SecurityFlag{}
	for _, p := range patterns {
		for _, loc := range p.re.FindAllStringIndex(content, -1) {
			flags = append(flags, domain.SecurityFlag{
				Category:     p.category,
				MatchExcerpt: excerpt(content[loc[0]:loc[1]]),
				LineNumber:   strings.Count(content[:loc[0]], "\n") + 1,
				Severity:     SeverityOf(p.keyword),
			})
		}
	}
	return flags
}

// RiskLevel aggregates flag severities: any high is critical, more than two medium is high
func RiskLevel(flags []domain.SecurityFlag) domain.RiskLevel {
	var high, medium int
	for _, f := range flags {
		switch f.Severity {
		case domain.SeverityHigh:
			high++
		case domain.SeverityMedium:
			medium++
		}
	}

	switch {
	case high > 0:
		return domain.RiskCritical
	case medium > 2:
		return domain.RiskHigh
	case medium > 0:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}

func excerpt(match string) string {
	if utf8.RuneCountInString(match) <= domain.MaxExcerptLength {
		return match
	}
	return string([]rune(match)[:domain.MaxExcerptLength])
}
