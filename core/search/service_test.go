package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/byfranke/PastebinSearch/core/cache"
	"github.com/byfranke/PastebinSearch/core/domain"
	coreerrors "github.com/byfranke/PastebinSearch/core/errors"
	"github.com/byfranke/PastebinSearch/core/interfaces"
	"github.com/byfranke/PastebinSearch/core/site"
	"github.com/byfranke/PastebinSearch/infrastructure/cache/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	baseURL        = "https://pastebin.com"
	siteSearchURL  = "https://pastebin.com/search?q=database+leak"
	archiveURL     = "https://pastebin.com/archive"
	trendingURL    = "https://pastebin.com/trending"
	bingURL        = "https://www.bing.com/search?q=site%3Apastebin.com+database+leak"
	duckduckgoURL  = "https://html.duckduckgo.com/html/?q=site%3Apastebin.com+database+leak"
	bingRSSURL     = "https://www.bing.com/search?format=rss&q=site%3Apastebin.com+database+leak"
	testSearchTerm = "database leak"
)

var strategyURLs = []string{siteSearchURL, archiveURL, trendingURL, bingURL, duckduckgoURL, bingRSSURL}

// page pads body past the near-empty threshold
func page(body string) string {
	return "<html><body>" + body + "<!-- " + strings.Repeat("padding ", 200) + "--></body></html>"
}

func archiveRow(id, title, date, size, syntax string) string {
	return fmt.Sprintf(`<tr><td><a href="/%s">%s</a></td><td>%s</td><td>%s</td><td>%s</td></tr>`, id, title, date, size, syntax)
}

func archivePage(rows ...string) string {
	return page(`<table class="maintable">` + strings.Join(rows, "") + `</table>`)
}

type testHarness struct {
	service   *SearchService
	transport *mockTransport
	limiter   *mockLimiter
	clock     *fakeClock
	sleeps    []time.Duration
}

func newHarness(t *testing.T, routes map[string]func(mode interfaces.TLSMode) (*interfaces.Response, error), opts ...Option) *testHarness {
	t.Helper()
	h := &testHarness{
		limiter: &mockLimiter{},
		clock:   &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)},
	}
	h.transport = newMockTransport(func(ctx context.Context, url string, mode interfaces.TLSMode) (*interfaces.Response, error) {
		if route, ok := routes[url]; ok {
			return route(mode)
		}
		if url == baseURL {
			return statusResponse(200), nil
		}
		return htmlResponse("<html>blocked</html>"), nil
	})

	all := append([]Option{
		WithClock(h.clock.Now),
		WithSleep(func(ctx context.Context, d time.Duration) error {
			h.sleeps = append(h.sleeps, d)
			return ctx.Err()
		}),
	}, opts...)

	h.service = NewSearchService(interfaces.Dependencies{
		Transport: h.transport,
		Limiter:   h.limiter,
	}, site.Default(), all...)
	return h
}

func respond(body string) func(interfaces.TLSMode) (*interfaces.Response, error) {
	return func(interfaces.TLSMode) (*interfaces.Response, error) { return htmlResponse(body), nil }
}

func TestNewSearchService(t *testing.T) {
	service := NewSearchService(interfaces.Dependencies{}, nil)

	if service == nil {
		t.Fatal("NewSearchService returned nil")
	}
	if service.State() != StateIdle {
		t.Errorf("State() = %v, want %v", service.State(), StateIdle)
	}
	if got := len(service.Strategies()); got != 6 {
		t.Errorf("default strategies = %d, want 6", got)
	}
}

func TestValidateQuery_EmptyQuery(t *testing.T) {
	service := &SearchService{}

	err := service.validateQuery("   ")

	if !coreerrors.IsValidation(err) {
		t.Errorf("validateQuery should return a validation error for a blank term, got %v", err)
	}
}

func TestValidateQuery_TooLong(t *testing.T) {
	service := &SearchService{}

	err := service.validateQuery(strings.Repeat("a", maxQueryLength+1))

	if !coreerrors.IsValidation(err) {
		t.Error("validateQuery should return error for an overlong term")
	}
}

func TestValidateQuery_ValidQuery(t *testing.T) {
	service := &SearchService{}

	for _, query := range []string{"a", "password", "database leak", "api_key=", "contraseña"} {
		if err := service.validateQuery(query); err != nil {
			t.Errorf("validateQuery returned error for valid query %q: %v", query, err)
		}
	}
}

func TestDefaultStrategies_URLs(t *testing.T) {
	service := NewSearchService(interfaces.Dependencies{}, site.Default())

	var urls []string
	for _, s := range service.Strategies() {
		urls = append(urls, s.URL(testSearchTerm))
	}
	assert.Equal(t, strategyURLs, urls)
}

func TestSearch_EndToEnd(t *testing.T) {
	h := newHarness(t, map[string]func(interfaces.TLSMode) (*interfaces.Response, error){
		siteSearchURL: respond(archivePage(archiveRow("AbCd1234", "DB Leak 2023", "2023-01-01", "2.5 KB", ""))),
	})

	results, err := h.service.Search(context.Background(), testSearchTerm, 0)
	require.NoError(t, err)

	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, "DB Leak 2023", r.Title)
	assert.Equal(t, "https://pastebin.com/AbCd1234", r.URL)
	assert.Equal(t, int64(2560), r.SizeBytes)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), r.PublishedAt)
	assert.Equal(t, 0.5, r.Relevance)
	assert.Equal(t, domain.SourceArchive, r.Source)
	assert.Equal(t, testSearchTerm, r.SearchTerm)
	assert.Equal(t, h.clock.Now(), r.DiscoveredAt)
	assert.Equal(t, StateSuccess, h.service.State())
	assert.Equal(t, "site_search", h.service.CurrentStrategy())
}

func TestSearch_ShortCircuitsOnFirstSuccess(t *testing.T) {
	h := newHarness(t, map[string]func(interfaces.TLSMode) (*interfaces.Response, error){
		siteSearchURL: respond(archivePage(archiveRow("AbCd1234", "DB Leak 2023", "today", "1 KB", ""))),
		bingURL:       respond(page(`<a href="https://pastebin.com/Other123">database leak mirror</a>`)),
	})

	_, err := h.service.Search(context.Background(), testSearchTerm, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, h.transport.callsTo(siteSearchURL))
	for _, u := range strategyURLs[1:] {
		assert.Equal(t, 0, h.transport.callsTo(u), "strategy %s should not run", u)
	}
	assert.Equal(t, 1, h.limiter.waits)
}

func TestSearch_ExhaustionReturnsSentinels(t *testing.T) {
	h := newHarness(t, nil)

	results, err := h.service.Search(context.Background(), testSearchTerm, 1)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, domain.SourceNoResults, results[0].Source)
	assert.Equal(t, "https://pastebin.com/no-results", results[0].URL)
	assert.Equal(t, 1.0, results[0].Relevance)
	assert.Equal(t, domain.SourceHelp, results[1].Source)
	assert.Equal(t, 0.9, results[1].Relevance)
	assert.Equal(t, StateExhausted, h.service.State())

	for _, u := range strategyURLs {
		assert.Equal(t, 1, h.transport.callsTo(u))
	}
	assert.Equal(t, len(strategyURLs), h.limiter.waits)
}

func TestSearch_TLSFallbackFlipsOnce(t *testing.T) {
	tlsErr := func(url string) error {
		return &coreerrors.TLSError{URL: url, Cause: errors.New("x509: certificate signed by unknown authority")}
	}
	h := newHarness(t, map[string]func(interfaces.TLSMode) (*interfaces.Response, error){
		siteSearchURL: func(mode interfaces.TLSMode) (*interfaces.Response, error) {
			if mode == interfaces.TLSStrict {
				return nil, tlsErr(siteSearchURL)
			}
			return htmlResponse(archivePage(archiveRow("AbCd1234", "database leak", "today", "1 KB", ""))), nil
		},
		trendingURL: func(interfaces.TLSMode) (*interfaces.Response, error) {
			return nil, tlsErr(trendingURL)
		},
		bingURL: respond(page(`<a href="https://pastebin.com/Mirror12">database leak on a mirror</a>`)),
	})

	results, err := h.service.Search(context.Background(), testSearchTerm, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, h.transport.enableCalls)
	assert.Equal(t, 1, h.transport.callsTo(siteSearchURL), "the failed strategy is not retried")

	// probe, then site_search in strict; everything after runs permissive
	require.Len(t, h.transport.modes, 5)
	assert.Equal(t, interfaces.TLSStrict, h.transport.modes[0])
	assert.Equal(t, interfaces.TLSStrict, h.transport.modes[1])
	for _, mode := range h.transport.modes[2:] {
		assert.Equal(t, interfaces.TLSPermissive, mode)
	}

	require.Len(t, results, 1)
	assert.Equal(t, domain.SourceMirrorA, results[0].Source)
}

func TestSearch_TLSFallbackForbidden(t *testing.T) {
	h := newHarness(t, map[string]func(interfaces.TLSMode) (*interfaces.Response, error){
		siteSearchURL: func(interfaces.TLSMode) (*interfaces.Response, error) {
			return nil, &coreerrors.TLSError{URL: siteSearchURL, Cause: errors.New("tls: handshake failure")}
		},
		archiveURL: respond(archivePage(archiveRow("AbCd1234", "database leak", "today", "1 KB", ""))),
	})
	h.transport.enableErr = errors.New("forbidden")

	results, err := h.service.Search(context.Background(), testSearchTerm, 0)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, interfaces.TLSStrict, h.transport.TLSMode())
}

func TestSearch_StatusHandling(t *testing.T) {
	h := newHarness(t, map[string]func(interfaces.TLSMode) (*interfaces.Response, error){
		siteSearchURL: respond("tiny"),
		archiveURL:    func(interfaces.TLSMode) (*interfaces.Response, error) { return statusResponse(403), nil },
		trendingURL:   func(interfaces.TLSMode) (*interfaces.Response, error) { return statusResponse(429), nil },
		bingURL: func(interfaces.TLSMode) (*interfaces.Response, error) {
			return nil, &coreerrors.ConnectError{URL: bingURL, Cause: errors.New("connection refused")}
		},
		duckduckgoURL: func(interfaces.TLSMode) (*interfaces.Response, error) {
			return nil, &coreerrors.TimeoutError{URL: duckduckgoURL, Cause: errors.New("i/o timeout")}
		},
		bingRSSURL: respond(`<?xml version="1.0"?><rss version="2.0"><channel><title>x</title>
<description>` + strings.Repeat("padding ", 200) + `</description>
<item><title>Database leak dump</title><link>https://pastebin.com/FeedItem1</link></item>
</channel></rss>`),
	})

	results, err := h.service.Search(context.Background(), testSearchTerm, 0)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, domain.SourceFeed, results[0].Source)
	assert.Equal(t, []time.Duration{DefaultRateLimitBackoff}, h.sleeps)
	for _, u := range strategyURLs {
		assert.Equal(t, 1, h.transport.callsTo(u))
	}
}

func TestSearch_CancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h := newHarness(t, map[string]func(interfaces.TLSMode) (*interfaces.Response, error){
		siteSearchURL: func(interfaces.TLSMode) (*interfaces.Response, error) {
			cancel()
			return statusResponse(429), nil
		},
	})

	_, err := h.service.Search(ctx, testSearchTerm, 0)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, h.transport.callsTo(archiveURL))
}

func TestSearch_UnreachableFailsFast(t *testing.T) {
	reachable := false
	h := newHarness(t, map[string]func(interfaces.TLSMode) (*interfaces.Response, error){
		baseURL: func(interfaces.TLSMode) (*interfaces.Response, error) {
			if reachable {
				return statusResponse(200), nil
			}
			return nil, &coreerrors.ConnectError{URL: baseURL, Cause: errors.New("no such host")}
		},
	})

	_, err := h.service.Search(context.Background(), testSearchTerm, 0)

	require.True(t, coreerrors.IsUnreachable(err))
	assert.True(t, coreerrors.IsConnect(err), "cause stays classified")
	var unreachable *coreerrors.UnreachableError
	require.ErrorAs(t, err, &unreachable)
	assert.Equal(t, "Check internet connection and DNS settings", unreachable.SuggestedFix)
	for _, u := range strategyURLs {
		assert.Equal(t, 0, h.transport.callsTo(u))
	}

	reachable = true
	_, err = h.service.Search(context.Background(), testSearchTerm, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, h.transport.callsTo(baseURL))

	_, err = h.service.Search(context.Background(), testSearchTerm, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, h.transport.callsTo(baseURL), "probe runs once per service")
}

func TestSearch_RanksAndLimits(t *testing.T) {
	h := newHarness(t, map[string]func(interfaces.TLSMode) (*interfaces.Response, error){
		siteSearchURL: respond(archivePage(
			archiveRow("Partial1", "leak notes", "today", "1 KB", ""),
			archiveRow("Exact123", "big database leak", "today", "1 KB", ""),
			archiveRow("Partial2", "database notes", "today", "1 KB", ""),
		)),
	}, WithOptions(Options{DefaultLimit: 2, MaxResults: 5}))

	results, err := h.service.Search(context.Background(), testSearchTerm, 0)
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "https://pastebin.com/Exact123", results[0].URL)
	assert.Equal(t, "https://pastebin.com/Partial1", results[1].URL, "ties keep page order")

	results, err = h.service.Search(context.Background(), testSearchTerm, 50)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestSearch_CacheIdempotence(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	resultCache := cache.NewResultCache(memory.NewMemoryCache(), time.Hour, cache.WithClock(clock.Now))
	h := newHarness(t, map[string]func(interfaces.TLSMode) (*interfaces.Response, error){
		siteSearchURL: respond(archivePage(archiveRow("AbCd1234", "DB Leak 2023", "2023-01-01", "2.5 KB", ""))),
	}, WithCache(resultCache), WithClock(clock.Now))

	first, err := h.service.Search(context.Background(), testSearchTerm, 0)
	require.NoError(t, err)
	second, err := h.service.Search(context.Background(), testSearchTerm, 0)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, h.transport.callsTo(siteSearchURL))

	clock.Advance(time.Hour)
	_, err = h.service.Search(context.Background(), testSearchTerm, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, h.transport.callsTo(siteSearchURL), "expired entry triggers a fresh fetch")
}

func TestSearch_SentinelsAreNotCached(t *testing.T) {
	resultCache := cache.NewResultCache(memory.NewMemoryCache(), time.Hour)
	h := newHarness(t, nil, WithCache(resultCache))

	_, err := h.service.Search(context.Background(), testSearchTerm, 0)
	require.NoError(t, err)
	_, err = h.service.Search(context.Background(), testSearchTerm, 0)
	require.NoError(t, err)

	assert.Equal(t, 2, h.transport.callsTo(siteSearchURL))
}

func TestSearch_CollectAll(t *testing.T) {
	h := newHarness(t, map[string]func(interfaces.TLSMode) (*interfaces.Response, error){
		siteSearchURL: respond(archivePage(
			archiveRow("Shared12", "database notes", "today", "1 KB", ""),
			archiveRow("Site1234", "database leak one", "today", "1 KB", ""),
		)),
		bingURL: respond(page(`<a href="https://pastebin.com/Shared12">database leak shared</a>
<a href="https://pastebin.com/Mirror12">database leak on a mirror</a>`)),
	}, WithOptions(Options{DefaultLimit: 50, MaxResults: 200, CollectAll: true}))

	results, err := h.service.Search(context.Background(), testSearchTerm, 0)
	require.NoError(t, err)

	var urls []string
	for _, r := range results {
		urls = append(urls, r.URL)
	}
	assert.Equal(t, []string{
		"https://pastebin.com/Site1234",
		"https://pastebin.com/Shared12",
		"https://pastebin.com/Mirror12",
	}, urls)
	for _, u := range strategyURLs {
		assert.Equal(t, 1, h.transport.callsTo(u))
	}
}

func TestSearch_CollectAllStopsAfterConsecutiveFailures(t *testing.T) {
	h := newHarness(t, map[string]func(interfaces.TLSMode) (*interfaces.Response, error){
		siteSearchURL: respond(archivePage(archiveRow("Site1234", "database leak", "today", "1 KB", ""))),
	}, WithOptions(Options{DefaultLimit: 50, MaxResults: 200, CollectAll: true, MaxConsecutiveFailures: 2}))

	results, err := h.service.Search(context.Background(), testSearchTerm, 0)
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, 1, h.transport.callsTo(trendingURL))
	assert.Equal(t, 0, h.transport.callsTo(bingURL))
}

func advancedHarness(t *testing.T, opts ...Option) *testHarness {
	return newHarness(t, map[string]func(interfaces.TLSMode) (*interfaces.Response, error){
		siteSearchURL: respond(archivePage(
			archiveRow("Small123", "database leak small", "5 min ago", "200 B", "SQL"),
			archiveRow("Medium12", "database leak medium", "2023-01-01", "2.5 KB", "Python"),
			archiveRow("Large123", "database leak large", "yesterday", "3 MB", "SQL"),
		)),
		"https://pastebin.com/raw/Small123": func(interfaces.TLSMode) (*interfaces.Response, error) {
			return &interfaces.Response{StatusCode: 200, Body: []byte("db_name=prod\npassword=hunter2"), ContentType: "text/plain"}, nil
		},
	}, opts...)
}

func TestAdvancedSearch_SizeRange(t *testing.T) {
	ranges := []domain.SizeRange{{Min: 0, Max: 1024}, {Min: 1024, Max: 4096}, {Min: 2560, Max: 2560}, {Min: 0, Max: 10 << 20}, {Min: 5000, Max: 6000}}

	for _, sr := range ranges {
		t.Run(fmt.Sprintf("%d-%d", sr.Min, sr.Max), func(t *testing.T) {
			h := advancedHarness(t)
			sizeRange := sr

			results, err := h.service.AdvancedSearch(context.Background(), testSearchTerm, domain.Filters{SizeRange: &sizeRange})
			require.NoError(t, err)

			for _, r := range results {
				assert.True(t, sr.Min <= r.SizeBytes && r.SizeBytes <= sr.Max, "size %d outside %v", r.SizeBytes, sr)
			}
		})
	}
}

func TestAdvancedSearch_DateAndSyntax(t *testing.T) {
	h := advancedHarness(t)
	days := 7

	results, err := h.service.AdvancedSearch(context.Background(), testSearchTerm, domain.Filters{
		DateRangeDays: &days,
		SyntaxTypes:   []string{"sql"},
	})
	require.NoError(t, err)

	var urls []string
	for _, r := range results {
		urls = append(urls, r.URL)
	}
	assert.ElementsMatch(t, []string{"https://pastebin.com/Small123", "https://pastebin.com/Large123"}, urls)
}

func TestAdvancedSearch_SecurityScan(t *testing.T) {
	h := advancedHarness(t)

	results, err := h.service.AdvancedSearch(context.Background(), testSearchTerm, domain.Filters{
		SecurityScan: true,
		SizeRange:    &domain.SizeRange{Min: 0, Max: 1024},
	})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, domain.RiskCritical, results[0].RiskLevel)
	require.Len(t, results[0].SecurityFlags, 2)
	assert.Equal(t, 1, h.transport.callsTo("https://pastebin.com/raw/Small123"))
	assert.Equal(t, 0, h.transport.callsTo("https://pastebin.com/raw/Large123"), "filtered results are not fetched")
}

func TestAdvancedSearch_Limit(t *testing.T) {
	h := advancedHarness(t)

	results, err := h.service.AdvancedSearch(context.Background(), testSearchTerm, domain.Filters{Limit: 2})
	require.NoError(t, err)

	assert.Len(t, results, 2)
}

func TestAdvancedSearch_InvalidFilters(t *testing.T) {
	for _, days := range []int{-1, domain.MaxDateRangeDays + 1, 200000} {
		t.Run(fmt.Sprintf("days=%d", days), func(t *testing.T) {
			h := advancedHarness(t)
			days := days

			_, err := h.service.AdvancedSearch(context.Background(), testSearchTerm, domain.Filters{DateRangeDays: &days})

			var validation *coreerrors.ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, "date_range_days", validation.Field)
			assert.Equal(t, 0, h.transport.callsTo(baseURL), "invalid input never reaches the network")
		})
	}
}

func TestAdvancedSearch_WidestDateRangeKeepsOldPastes(t *testing.T) {
	h := advancedHarness(t)
	days := domain.MaxDateRangeDays

	results, err := h.service.AdvancedSearch(context.Background(), testSearchTerm, domain.Filters{DateRangeDays: &days})
	require.NoError(t, err)

	assert.Len(t, results, 3)
}

func TestAdvancedSearch_CachesFilteredResults(t *testing.T) {
	resultCache := cache.NewResultCache(memory.NewMemoryCache(), time.Hour)
	h := advancedHarness(t, WithCache(resultCache))
	filters := domain.Filters{SyntaxTypes: []string{"python"}}

	first, err := h.service.AdvancedSearch(context.Background(), testSearchTerm, filters)
	require.NoError(t, err)
	second, err := h.service.AdvancedSearch(context.Background(), testSearchTerm, filters)
	require.NoError(t, err)
	plain, err := h.service.Search(context.Background(), testSearchTerm, 0)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, plain, 3)
	assert.Equal(t, 1, h.transport.callsTo(siteSearchURL))
}

func TestTestConnectivity(t *testing.T) {
	h := newHarness(t, nil)

	report := h.service.TestConnectivity(context.Background())

	assert.True(t, report.Reachable)
	assert.True(t, report.TLSOK)

	_, err := h.service.Search(context.Background(), testSearchTerm, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, h.transport.callsTo(baseURL), "a successful diagnostic counts as the probe")
}
