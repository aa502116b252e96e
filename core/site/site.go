// ABOUTME: Paste site addressing rules
// ABOUTME: Resolves links into the paste namespace and derives raw content URLs

package site

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// DefaultBaseURL is the public paste site
const DefaultBaseURL = "https://pastebin.com"

var pasteIDPattern = regexp.MustCompile(`^[A-Za-z0-9]{8,}$`)

// reserved holds first path segments that are site pages, not pastes
var reserved = map[string]bool{
	"archive": true, "trending": true, "search": true, "login": true, "signup": true,
	"api": true, "tools": true, "faq": true, "contact": true, "doc_api": true,
	"pro": true, "languages": true, "settings": true, "messages": true, "u": true,
	"dl": true, "print": true, "embed": true, "clone": true, "report": true,
	"passmailer": true, "night_mode": true, "help-manual": true, "no-results": true,
}

// Site describes the paste host
type Site struct {
	base *url.URL
	host string
}

// New parses baseURL, which must be an absolute http(s) URL
func New(baseURL string) (*Site, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("base url %q must be absolute http(s)", baseURL)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return &Site{base: u, host: bareHost(u.Host)}, nil
}

// Default returns the site for DefaultBaseURL
func Default() *Site {
	s, _ := New(DefaultBaseURL)
	return s
}

// BaseURL returns the scheme and host without a trailing slash
func (s *Site) BaseURL() string {
	return s.base.String()
}

// Host returns the host without a leading "www."
func (s *Site) Host() string {
	return s.host
}

// URL joins path onto the base URL
func (s *Site) URL(path string) string {
	return s.BaseURL() + "/" + strings.TrimLeft(path, "/")
}

// PasteURL returns the canonical URL of a paste ID
func (s *Site) PasteURL(id string) string {
	return s.URL(id)
}

// Normalize resolves href against the base URL and returns the canonical paste URL.
// ok is false when href does not point at a paste on this site.
func (s *Site) Normalize(href string) (string, bool) {
	id, ok := s.PasteID(href)
	if !ok {
		return "", false
	}
	return s.PasteURL(id), true
}

// PasteID extracts the paste ID from an absolute, scheme-less or site-relative link
func (s *Site) PasteID(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	if strings.HasPrefix(strings.ToLower(href), s.host+"/") || strings.HasPrefix(strings.ToLower(href), "www."+s.host+"/") {
		href = "//" + href
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	u := s.base.ResolveReference(ref)
	if bareHost(u.Host) != s.host {
		return "", false
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) == 2 && segments[0] == "raw" {
		segments = segments[1:]
	}
	if len(segments) != 1 || reserved[strings.ToLower(segments[0])] {
		return "", false
	}
	if !pasteIDPattern.MatchString(segments[0]) {
		return "", false
	}
	return segments[0], true
}

// IsPasteURL reports whether u points at a paste on this site
func (s *Site) IsPasteURL(u string) bool {
	_, ok := s.PasteID(u)
	return ok
}

// RawURL returns the unrendered content URL for a paste URL.
// URLs that are not pastes are returned unchanged.
func (s *Site) RawURL(pasteURL string) string {
	id, ok := s.PasteID(pasteURL)
	if !ok {
		return pasteURL
	}
	return s.URL("raw/" + id)
}

func bareHost(host string) string {
	host = strings.ToLower(host)
	if h, _, found := strings.Cut(host, ":"); found {
		host = h
	}
	return strings.TrimPrefix(host, "www.")
}
