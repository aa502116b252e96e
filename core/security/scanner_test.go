package security

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/byfranke/PastebinSearch/core/domain"
	coreerrors "github.com/byfranke/PastebinSearch/core/errors"
	"github.com/byfranke/PastebinSearch/core/interfaces"
	"github.com/byfranke/PastebinSearch/core/site"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_PasswordIsCritical(t *testing.T) {
	flags := Analyze("password=hunter2")

	require.Len(t, flags, 1)
	assert.Equal(t, domain.CategoryCredentials, flags[0].Category)
	assert.Equal(t, domain.SeverityHigh, flags[0].Severity)
	assert.Equal(t, 1, flags[0].LineNumber)
	assert.Equal(t, "password=hunter2", flags[0].MatchExcerpt)
	assert.Equal(t, domain.RiskCritical, RiskLevel(flags))
}

func TestAnalyze_LineNumbersAndCategories(t *testing.T) {
	content := strings.Join([]string{
		"# deploy notes",
		"db_name: prod",
		"host = 10.0.0.5",
		`wallet_address: "0xabc"`,
	}, "\n")

	flags := Analyze(content)

	require.Len(t, flags, 3)
	assert.Equal(t, domain.SecurityFlag{Category: domain.CategoryDatabase, MatchExcerpt: "host = 10.0.0.5", LineNumber: 3, Severity: domain.SeverityLow}, flags[0])
	assert.Equal(t, domain.SecurityFlag{Category: domain.CategoryDatabase, MatchExcerpt: "db_name: prod", LineNumber: 2, Severity: domain.SeverityMedium}, flags[1])
	assert.Equal(t, domain.CategoryCrypto, flags[2].Category)
	assert.Equal(t, 4, flags[2].LineNumber)
	assert.Equal(t, domain.RiskMedium, RiskLevel(flags))
}

func TestAnalyze_TruncatesExcerpt(t *testing.T) {
	flags := Analyze("api_key=" + strings.Repeat("k", 300))

	require.Len(t, flags, 1)
	assert.Len(t, flags[0].MatchExcerpt, domain.MaxExcerptLength)
}

func TestAnalyze_NoMatches(t *testing.T) {
	flags := Analyze("just a grocery list\nmilk\neggs")

	assert.NotNil(t, flags)
	assert.Empty(t, flags)
	assert.Equal(t, domain.RiskLow, RiskLevel(flags))
}

func TestRiskLevel(t *testing.T) {
	medium := domain.SecurityFlag{Severity: domain.SeverityMedium}
	low := domain.SecurityFlag{Severity: domain.SeverityLow}
	high := domain.SecurityFlag{Severity: domain.SeverityHigh}

	tests := []struct {
		name  string
		flags []domain.SecurityFlag
		want  domain.RiskLevel
	}{
		{"none", nil, domain.RiskLow},
		{"only low", []domain.SecurityFlag{low, low}, domain.RiskLow},
		{"one medium", []domain.SecurityFlag{medium, low}, domain.RiskMedium},
		{"two medium", []domain.SecurityFlag{medium, medium}, domain.RiskMedium},
		{"three medium", []domain.SecurityFlag{medium, medium, medium}, domain.RiskHigh},
		{"one high", []domain.SecurityFlag{low, high}, domain.RiskCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RiskLevel(tt.flags))
		})
	}
}

func TestSeverityOf(t *testing.T) {
	assert.Equal(t, domain.SeverityHigh, SeverityOf("private_key"))
	assert.Equal(t, domain.SeverityMedium, SeverityOf("connection_string"))
	assert.Equal(t, domain.SeverityLow, SeverityOf("seed_phrase"))
}

func TestScanner_Scan(t *testing.T) {
	transport := &mockTransport{
		fetchFunc: func(ctx context.Context, url string, headers map[string]string) (*interfaces.Response, error) {
			switch url {
			case "https://pastebin.com/raw/Leaky123":
				return textResponse("user: admin\npassword=hunter2\n"), nil
			case "https://pastebin.com/raw/Gone1234":
				return &interfaces.Response{StatusCode: 404}, nil
			default:
				return nil, &coreerrors.ConnectError{URL: url, Cause: errors.New("connection reset")}
			}
		},
	}
	limiter := &mockLimiter{}
	scanner := NewScanner(interfaces.Dependencies{Transport: transport, Limiter: limiter}, site.Default())

	input := []domain.SearchResult{
		{Title: "leaky", URL: "https://pastebin.com/Leaky123", Source: domain.SourceArchive},
		{Title: "help", URL: "https://pastebin.com/help-manual", Source: domain.SourceHelp},
		{Title: "gone", URL: "https://pastebin.com/Gone1234", Source: domain.SourceArchive},
		{Title: "reset", URL: "https://pastebin.com/Reset123", Source: domain.SourceArchive},
	}

	out, err := scanner.Scan(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, out, 4)

	assert.Equal(t, domain.RiskCritical, out[0].RiskLevel)
	require.Len(t, out[0].SecurityFlags, 2)
	assert.Equal(t, 2, out[0].SecurityFlags[0].LineNumber)

	assert.False(t, out[1].Scanned(), "sentinels are not scanned")

	assert.Equal(t, domain.RiskUnknown, out[2].RiskLevel)
	assert.NotNil(t, out[2].SecurityFlags)
	assert.Empty(t, out[2].SecurityFlags)
	assert.Equal(t, domain.RiskUnknown, out[3].RiskLevel)

	assert.Equal(t, 3, limiter.waits)
	assert.NotContains(t, transport.fetched, "https://pastebin.com/raw/help-manual")
	assert.False(t, input[0].Scanned(), "input slice must not be modified")
}

func TestScanner_HTMLBodyIsReducedToText(t *testing.T) {
	page := `<!DOCTYPE html><html><head><title>paste</title><style>.x{password:none}</style></head>
<body><article><h1>Config</h1><p>Here is the config we use in production for the service.</p>
<p>secret_key=abc123def</p><p>Please rotate it soon, it has been shared around the team.</p></article></body></html>`
	transport := &mockTransport{
		fetchFunc: func(ctx context.Context, url string, headers map[string]string) (*interfaces.Response, error) {
			return &interfaces.Response{StatusCode: 200, Body: []byte(page), ContentType: "text/html"}, nil
		},
	}
	scanner := NewScanner(interfaces.Dependencies{Transport: transport}, site.Default())

	out, err := scanner.Scan(context.Background(), []domain.SearchResult{{URL: "https://pastebin.com/Html1234", Source: domain.SourceArchive}})
	require.NoError(t, err)

	require.NotEmpty(t, out[0].SecurityFlags)
	for _, f := range out[0].SecurityFlags {
		assert.NotContains(t, f.MatchExcerpt, "<")
	}
	assert.Equal(t, domain.RiskCritical, out[0].RiskLevel)
}

func TestScanner_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	scanner := NewScanner(interfaces.Dependencies{Transport: &mockTransport{}, Limiter: &mockLimiter{}}, site.Default())

	_, err := scanner.Scan(ctx, []domain.SearchResult{{URL: "https://pastebin.com/Leaky123", Source: domain.SourceArchive}})
	assert.ErrorIs(t, err, context.Canceled)
}
