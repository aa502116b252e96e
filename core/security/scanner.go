// ABOUTME: Security scanner fetching raw paste bodies and flagging sensitive content
// ABOUTME: Fetches are sequential and rate limited; failures mark a result as unknown risk

package security

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/byfranke/PastebinSearch/core/domain"
	coreerrors "github.com/byfranke/PastebinSearch/core/errors"
	"github.com/byfranke/PastebinSearch/core/interfaces"
	"github.com/byfranke/PastebinSearch/core/site"
	htmlutil "github.com/byfranke/PastebinSearch/pkg/utils/html"
	readability "github.com/go-shiori/go-readability"
)

// Scanner enriches search results with security flags
type Scanner struct {
	transport interfaces.Transport
	limiter   interfaces.RateLimiter
	site      *site.Site
	logger    interfaces.Logger
}

// NewScanner creates a scanner using the transport and limiter from deps
func NewScanner(deps interfaces.Dependencies, s *site.Site) *Scanner {
	return &Scanner{
		transport: deps.Transport,
		limiter:   deps.Limiter,
		site:      s,
		logger:    interfaces.LoggerOrNop(deps.Logger),
	}
}

// Scan returns copies of results with SecurityFlags and RiskLevel set.
// Sentinel results pass through untouched. The only error is ctx ending.
func (s *Scanner) Scan(ctx context.Context, results []domain.SearchResult) ([]domain.SearchResult, error) {
	out := domain.CloneResults(results)
	for i := range out {
		if out[i].IsSentinel() {
			continue
		}
		if err := s.scanOne(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Scanner) scanOne(ctx context.Context, r *domain.SearchResult) error {
	content, err := s.fetch(ctx, r.URL)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn("Could not fetch paste for security scan", map[string]interface{}{
			"url":   r.URL,
			"error": err.Error(),
		})
		r.SecurityFlags = []domain.SecurityFlag{}
		r.RiskLevel = domain.RiskUnknown
		return nil
	}

	r.SecurityFlags = Analyze(content)
	r.RiskLevel = RiskLevel(r.SecurityFlags)

	if len(r.SecurityFlags) > 0 {
		s.logger.Info("Sensitive content flagged", map[string]interface{}{
			"url":        r.URL,
			"flags":      len(r.SecurityFlags),
			"risk_level": string(r.RiskLevel),
		})
	}
	return nil
}

func (s *Scanner) fetch(ctx context.Context, pasteURL string) (string, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	rawURL := s.site.RawURL(pasteURL)
	resp, err := s.transport.Fetch(ctx, rawURL, nil)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", &coreerrors.HTTPError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	if isHTML(resp) {
		return htmlText(resp.Body, rawURL), nil
	}
	return string(resp.Body), nil
}

func isHTML(resp *interfaces.Response) bool {
	if strings.Contains(strings.ToLower(resp.ContentType), "text/html") {
		return true
	}
	head := bytes.ToLower(bytes.TrimSpace(resp.Body[:min(len(resp.Body), 512)]))
	return bytes.HasPrefix(head, []byte("<!doctype html")) || bytes.HasPrefix(head, []byte("<html"))
}

// htmlText reduces a rendered page to its main text, falling back to plain tag stripping
func htmlText(body []byte, pageURL string) string {
	u, _ := url.Parse(pageURL)
	article, err := readability.FromReader(bytes.NewReader(body), u)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		return article.TextContent
	}
	return htmlutil.StripHTML(string(body))
}
