package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/byfranke/PastebinSearch/api/dto/responses"
	"github.com/byfranke/PastebinSearch/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v3"
)

func runAdvanced(t *testing.T, args ...string) (domain.Filters, string) {
	t.Helper()
	var (
		filters domain.Filters
		term    string
	)
	cmd := AdvancedCommand()
	cmd.Action = func(ctx context.Context, c *cli.Command) error {
		var err error
		term, err = termFrom(c)
		filters = filtersFrom(c)
		return err
	}
	require.NoError(t, cmd.Run(context.Background(), append([]string{"advanced"}, args...)))
	return filters, term
}

func TestFiltersFrom_Defaults(t *testing.T) {
	filters, term := runAdvanced(t, "database", "leak")

	assert.Equal(t, "database leak", term)
	assert.Nil(t, filters.DateRangeDays)
	assert.Nil(t, filters.SizeRange)
	assert.Empty(t, filters.SyntaxTypes)
	assert.False(t, filters.SecurityScan)
	assert.NoError(t, filters.Validate())
}

func TestFiltersFrom_AllFlags(t *testing.T) {
	filters, _ := runAdvanced(t,
		"--days", "7",
		"--min-size", "1024",
		"--syntax", "sql", "--syntax", "json",
		"--scan",
		"--limit", "5",
		"aws keys",
	)

	require.NotNil(t, filters.DateRangeDays)
	assert.Equal(t, 7, *filters.DateRangeDays)
	require.NotNil(t, filters.SizeRange)
	assert.Equal(t, int64(1024), filters.SizeRange.Min)
	assert.True(t, filters.SizeRange.Contains(1<<40), "open upper bound")
	assert.Equal(t, []string{"sql", "json"}, filters.SyntaxTypes)
	assert.True(t, filters.SecurityScan)
	assert.Equal(t, 5, filters.Limit)
}

func TestTermFrom_RequiresTerm(t *testing.T) {
	cmd := SearchCommand()
	cmd.Action = func(ctx context.Context, c *cli.Command) error {
		_, err := termFrom(c)
		return err
	}
	assert.ErrorIs(t, cmd.Run(context.Background(), []string{"search"}), errNoTerm)
}

func TestRenderResults(t *testing.T) {
	results := []domain.SearchResult{{
		Title:       "DB Leak 2023",
		URL:         "https://pastebin.com/AbCdEf12",
		SizeBytes:   2560,
		SyntaxHint:  "sql",
		Relevance:   0.5,
		Source:      domain.SourceArchive,
		PublishedAt: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		RiskLevel:   domain.RiskCritical,
		SecurityFlags: []domain.SecurityFlag{{
			Category:     domain.CategoryCredentials,
			MatchExcerpt: "password=hunter2",
			LineNumber:   2,
			Severity:     domain.SeverityHigh,
		}},
	}}

	out := renderResults("database leak", results)

	assert.Contains(t, out, `1 results for "database leak"`)
	assert.Contains(t, out, "https://pastebin.com/AbCdEf12")
	assert.Contains(t, out, "2.5 KB")
	assert.Contains(t, out, "risk: critical")
	assert.Contains(t, out, "password=hunter2")
}

func TestRenderResults_ShowsSentinelsAsHints(t *testing.T) {
	results := []domain.SearchResult{
		{Title: "No automated results for: x", Source: domain.SourceNoResults},
		{Title: `Try: manual "your_search_term" for browser-based search`, Source: domain.SourceHelp},
	}

	out := renderResults("x", results)

	assert.Contains(t, out, `0 results for "x"`)
	assert.Contains(t, out, "No automated results for: x")
	assert.Contains(t, out, "browser-based search")
	assert.NotContains(t, out, "relevance")
}

func TestPrintResults_JSON(t *testing.T) {
	var buf bytes.Buffer
	results := []domain.SearchResult{{Title: "a leak", URL: "https://pastebin.com/AbCdEf12", Source: domain.SourceRawExtract}}

	require.NoError(t, printResults(&buf, "leak", results, true))

	var out responses.SearchResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, "leak", out.Query)
	assert.Equal(t, "raw_extract", out.Results[0].Source)
}

func TestRenderReport(t *testing.T) {
	out := renderReport("https://pastebin.com", domain.ConnectivityReport{
		Reachable:    true,
		TLSOK:        false,
		ResponseTime: 250 * time.Millisecond,
		SuggestedFix: "SSL verification disabled - connection working",
	})

	assert.Contains(t, out, "reachable in 0.25s")
	assert.Contains(t, out, "not verified")
	assert.Contains(t, out, "Suggested fix: SSL verification disabled")
	assert.False(t, strings.Contains(out, "unreachable"))
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", formatSize(512))
	assert.Equal(t, "2.5 KB", formatSize(2560))
	assert.Equal(t, "1.0 MB", formatSize(1<<20))
}
