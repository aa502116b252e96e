package parsers

import (
	"strings"
	"unicode"
)

// syntaxKeywords is ordered: the first language with a matching keyword wins
var syntaxKeywords = []struct {
	syntax   string
	keywords []string
}{
	{"python", []string{"python", "py", "django", "flask", "pip"}},
	{"javascript", []string{"javascript", "js", "node", "nodejs", "react", "vue", "angular"}},
	{"sql", []string{"sql", "database", "mysql", "postgres", "postgresql", "oracle"}},
	{"php", []string{"php", "laravel", "wordpress", "symfony"}},
	{"java", []string{"java", "spring", "maven", "gradle"}},
	{"cpp", []string{"cpp", "c++", "cplus"}},
	{"c", []string{"c", "clang", "gcc"}},
	{"json", []string{"json", "api", "config", "settings"}},
	{"xml", []string{"xml", "soap", "rss"}},
	{"bash", []string{"bash", "shell", "script", "sh"}},
	{"powershell", []string{"powershell", "ps1"}},
	{"log", []string{"log", "logs", "error", "debug", "trace"}},
}

// GuessSyntax infers a content language from keywords in a title, defaulting to "text"
func GuessSyntax(title string) string {
	words := map[string]bool{}
	for _, w := range strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+'
	}) {
		words[w] = true
	}

	for _, entry := range syntaxKeywords {
		for _, kw := range entry.keywords {
			if words[kw] {
				return entry.syntax
			}
		}
	}
	return DefaultSyntax
}
