// ABOUTME: HTML utilities for stripping tags and decoding entities
// ABOUTME: Reduces markup from feed titles and scraped anchors to plain text

package html

import (
	"strings"

	"golang.org/x/net/html"
)

// StripHTML removes tags, drops script and style content, decodes entities and collapses whitespace
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return CollapseSpace(s)
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return CollapseSpace(b.String())
		case html.StartTagToken:
			if name, _ := z.TagName(); isRawTag(name) {
				skip++
			}
			b.WriteByte(' ')
		case html.EndTagToken:
			if name, _ := z.TagName(); isRawTag(name) && skip > 0 {
				skip--
			}
			b.WriteByte(' ')
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

// CollapseSpace trims s and replaces every whitespace run with a single space
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isRawTag(name []byte) bool {
	n := string(name)
	return n == "script" || n == "style"
}
