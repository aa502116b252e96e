// ABOUTME: Search service runs the ordered strategy list against the paste site and its mirrors
// ABOUTME: Provides caching, post-filtering and optional security scanning independent of any caller

package search

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/byfranke/PastebinSearch/core/diagnostic"
	"github.com/byfranke/PastebinSearch/core/domain"
	coreerrors "github.com/byfranke/PastebinSearch/core/errors"
	"github.com/byfranke/PastebinSearch/core/interfaces"
	"github.com/byfranke/PastebinSearch/core/parsers"
	"github.com/byfranke/PastebinSearch/core/ratelimit"
	"github.com/byfranke/PastebinSearch/core/relevance"
	"github.com/byfranke/PastebinSearch/core/security"
	"github.com/byfranke/PastebinSearch/core/site"
)

const (
	// DefaultMinBodySize is the body length at or below which a 200 response is treated as a block page
	DefaultMinBodySize = 1000

	// DefaultRateLimitBackoff is slept after a 429 before moving on
	DefaultRateLimitBackoff = 10 * time.Second

	maxQueryLength = 200
)

// State of the orchestrator
type State string

const (
	StateIdle      State = "idle"
	StateProbing   State = "probing"
	StateTrying    State = "trying"
	StateSuccess   State = "success"
	StateExhausted State = "exhausted"
)

// ResultCache is the snapshot store consulted before any strategy runs
type ResultCache interface {
	Get(ctx context.Context, term string, filters domain.Filters) ([]domain.SearchResult, bool)
	Put(ctx context.Context, term string, filters domain.Filters, results []domain.SearchResult) error
}

// Options holds the tunables read from configuration
type Options struct {
	DefaultLimit int
	MaxResults   int

	MinBodySize      int
	RateLimitBackoff time.Duration

	// CollectAll keeps going after the first successful strategy and merges results by URL
	CollectAll bool

	// MaxConsecutiveFailures stops a CollectAll run after that many empty strategies, 0 means never
	MaxConsecutiveFailures int
}

// DefaultOptions mirrors the configuration defaults
func DefaultOptions() Options {
	return Options{
		DefaultLimit:     50,
		MaxResults:       200,
		MinBodySize:      DefaultMinBodySize,
		RateLimitBackoff: DefaultRateLimitBackoff,
	}
}

// SearchService handles paste discovery operations
type SearchService struct {
	deps       interfaces.Dependencies
	site       *site.Site
	opts       Options
	strategies []Strategy
	cache      ResultCache
	prober     *diagnostic.Prober
	scanner    *security.Scanner
	logger     interfaces.Logger
	now        func() time.Time
	sleep      func(ctx context.Context, d time.Duration) error

	mu      sync.Mutex
	state   State
	current int
	probed  bool
}

// Option configures a SearchService
type Option func(*SearchService)

// WithOptions replaces DefaultOptions
func WithOptions(opts Options) Option {
	return func(s *SearchService) { s.opts = opts }
}

// WithStrategies replaces DefaultStrategies
func WithStrategies(strategies []Strategy) Option {
	return func(s *SearchService) { s.strategies = strategies }
}

// WithCache enables result caching
func WithCache(c ResultCache) Option {
	return func(s *SearchService) { s.cache = c }
}

// WithClock replaces time.Now for discovery timestamps and date filters
func WithClock(now func() time.Time) Option {
	return func(s *SearchService) { s.now = now }
}

// WithSleep replaces the context-aware sleep used for the 429 backoff
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(s *SearchService) { s.sleep = sleep }
}

// NewSearchService creates a new search service instance.
// deps.Transport is required; a nil Limiter never waits.
func NewSearchService(deps interfaces.Dependencies, st *site.Site, opts ...Option) *SearchService {
	if st == nil {
		st = site.Default()
	}
	if deps.Limiter == nil {
		deps.Limiter = ratelimit.New(0)
	}

	s := &SearchService{
		deps:   deps,
		site:   st,
		opts:   DefaultOptions(),
		logger: interfaces.LoggerOrNop(deps.Logger),
		now:    time.Now,
		sleep:  ratelimit.Sleep,
		state:  StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.opts.MinBodySize <= 0 {
		s.opts.MinBodySize = DefaultMinBodySize
	}
	if s.opts.RateLimitBackoff < 0 {
		s.opts.RateLimitBackoff = 0
	}
	if s.strategies == nil {
		s.strategies = DefaultStrategies(st, parsers.New(st, parsers.WithClock(s.now)))
	}
	s.prober = diagnostic.NewProber(deps, st, diagnostic.WithClock(s.now))
	s.scanner = security.NewScanner(deps, st)
	return s
}

// validateQuery validates search query parameters
func (s *SearchService) validateQuery(term string) error {
	if strings.TrimSpace(term) == "" {
		return &coreerrors.ValidationError{Field: "term", Message: "search term cannot be empty"}
	}

	if utf8.RuneCountInString(term) > maxQueryLength {
		return &coreerrors.ValidationError{Field: "term", Message: "search term cannot exceed 200 characters"}
	}

	return nil
}

// limit resolves a caller supplied limit against the configured default and cap
func (s *SearchService) limit(requested int) int {
	limit := requested
	if limit <= 0 {
		limit = s.opts.DefaultLimit
	}
	if s.opts.MaxResults > 0 && limit > s.opts.MaxResults {
		limit = s.opts.MaxResults
	}
	return limit
}

// State reports where the last search stopped
func (s *SearchService) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentStrategy returns the name of the strategy last tried, empty before any search
func (s *SearchService) CurrentStrategy() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateIdle || s.state == StateProbing || s.current >= len(s.strategies) {
		return ""
	}
	return s.strategies[s.current].Name
}

func (s *SearchService) setState(state State, current int) {
	s.mu.Lock()
	s.state = state
	s.current = current
	s.mu.Unlock()
}

// Strategies returns the strategy list in priority order
func (s *SearchService) Strategies() []Strategy {
	return append([]Strategy(nil), s.strategies...)
}

// Search finds pastes mentioning term. limit <= 0 uses the configured default.
// Exhaustion is not an error: it yields the NoResults and ManualHelp sentinels.
func (s *SearchService) Search(ctx context.Context, term string, limit int) ([]domain.SearchResult, error) {
	if err := s.validateQuery(term); err != nil {
		return nil, err
	}

	results, err := s.base(ctx, term)
	if err != nil {
		return nil, err
	}
	return truncate(results, s.limit(limit)), nil
}

// AdvancedSearch runs Search and then applies filters in order: date cutoff, size range,
// syntax allow-list, limit and finally the optional security scan.
func (s *SearchService) AdvancedSearch(ctx context.Context, term string, filters domain.Filters) ([]domain.SearchResult, error) {
	if err := s.validateQuery(term); err != nil {
		return nil, err
	}
	if err := filters.Validate(); err != nil {
		var fe *domain.FilterError
		if errors.As(err, &fe) {
			return nil, &coreerrors.ValidationError{Field: fe.Field, Message: fe.Message}
		}
		return nil, err
	}

	if cached, ok := s.cacheGet(ctx, term, filters); ok {
		return cached, nil
	}

	base, err := s.base(ctx, term)
	if err != nil {
		return nil, err
	}

	results := truncate(s.applyFilters(base, filters), s.limit(filters.Limit))

	if filters.SecurityScan {
		results, err = s.scanner.Scan(ctx, results)
		if err != nil {
			return nil, err
		}
	}

	s.cachePut(ctx, term, filters, results)
	return results, nil
}

// Scan runs the security scanner over results
func (s *SearchService) Scan(ctx context.Context, results []domain.SearchResult) ([]domain.SearchResult, error) {
	return s.scanner.Scan(ctx, results)
}

// TestConnectivity probes the site root
func (s *SearchService) TestConnectivity(ctx context.Context) domain.ConnectivityReport {
	report, _ := s.prober.Probe(ctx)
	if report.Reachable {
		s.mu.Lock()
		s.probed = true
		s.mu.Unlock()
	}
	return report
}

// base returns the unfiltered, untruncated result list for term from the cache or the strategies
func (s *SearchService) base(ctx context.Context, term string) ([]domain.SearchResult, error) {
	if cached, ok := s.cacheGet(ctx, term, domain.Filters{}); ok {
		s.logger.Debug("Serving search from cache", map[string]interface{}{
			"term":    term,
			"results": len(cached),
		})
		return cached, nil
	}

	if err := s.ensureReachable(ctx); err != nil {
		return nil, err
	}

	results, err := s.runStrategies(ctx, term)
	if err != nil {
		return nil, err
	}

	s.cachePut(ctx, term, domain.Filters{}, results)
	return results, nil
}

// ensureReachable runs the connectivity probe once per service.
// A failed probe is retried on the next search.
func (s *SearchService) ensureReachable(ctx context.Context) error {
	s.mu.Lock()
	probed := s.probed
	s.mu.Unlock()
	if probed {
		return nil
	}

	s.setState(StateProbing, 0)
	report, err := s.prober.Probe(ctx)
	if report.Reachable {
		s.mu.Lock()
		s.probed = true
		s.mu.Unlock()
		return nil
	}

	s.setState(StateIdle, 0)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return &coreerrors.UnreachableError{
		Detail:       report.ErrorDetail,
		SuggestedFix: report.SuggestedFix,
		Cause:        err,
	}
}

func (s *SearchService) runStrategies(ctx context.Context, term string) ([]domain.SearchResult, error) {
	var (
		collected []domain.SearchResult
		seen      = make(map[string]bool)
		failures  int
	)

	for i, strategy := range s.strategies {
		s.setState(StateTrying, i)

		results, err := s.tryStrategy(ctx, strategy, term)
		if err != nil {
			s.setState(StateIdle, i)
			return nil, err
		}

		if len(results) == 0 {
			failures++
			if s.opts.CollectAll && s.opts.MaxConsecutiveFailures > 0 && failures >= s.opts.MaxConsecutiveFailures {
				break
			}
			continue
		}
		failures = 0

		results = s.rank(results, term)
		s.logger.Info("Strategy produced results", map[string]interface{}{
			"strategy": strategy.Name,
			"term":     term,
			"results":  len(results),
		})

		if !s.opts.CollectAll {
			s.setState(StateSuccess, i)
			return results, nil
		}
		for _, r := range results {
			if !seen[r.URL] {
				seen[r.URL] = true
				collected = append(collected, r)
			}
		}
	}

	if len(collected) > 0 {
		s.setState(StateSuccess, len(s.strategies)-1)
		return collected, nil
	}

	s.setState(StateExhausted, len(s.strategies))
	s.logger.Warn("All strategies exhausted", map[string]interface{}{
		"term":       term,
		"strategies": len(s.strategies),
	})
	return Exhausted(s.site, term, s.now()), nil
}

// tryStrategy runs one strategy. Upstream failures come back as an empty list;
// the only error returned is the context ending.
func (s *SearchService) tryStrategy(ctx context.Context, strategy Strategy, term string) ([]domain.SearchResult, error) {
	if err := s.deps.Limiter.Wait(ctx); err != nil {
		return nil, err
	}

	target := strategy.URL(term)
	fields := map[string]interface{}{
		"strategy": strategy.Name,
		"url":      target,
	}

	resp, err := s.deps.Transport.Fetch(ctx, target, strategy.Headers)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		fields["error"] = err.Error()

		if coreerrors.IsTLS(err) && s.deps.Transport.TLSMode() == interfaces.TLSStrict {
			if enableErr := s.deps.Transport.EnablePermissiveTLS(); enableErr != nil {
				fields["fallback_error"] = enableErr.Error()
				s.logger.Warn("TLS failure and permissive fallback unavailable", fields)
			} else {
				s.logger.Warn("TLS failure, switched to permissive TLS for remaining strategies", fields)
			}
			return nil, nil
		}

		s.logger.Warn("Strategy failed", fields)
		return nil, nil
	}

	fields["status"] = resp.StatusCode
	fields["bytes"] = len(resp.Body)

	switch {
	case resp.StatusCode == http.StatusOK:
		if len(resp.Body) <= s.opts.MinBodySize {
			s.logger.Debug("Strategy returned a near-empty page", fields)
			return nil, nil
		}
		return safeParse(strategy.Parse, string(resp.Body), term), nil
	case resp.StatusCode == http.StatusTooManyRequests:
		s.logger.Warn("Strategy rate limited upstream, backing off", fields)
		if err := s.sleep(ctx, s.opts.RateLimitBackoff); err != nil {
			return nil, err
		}
		return nil, nil
	default:
		s.logger.Warn("Strategy returned non-success status", fields)
		return nil, nil
	}
}

// safeParse turns a parser panic into an empty result
func safeParse(parse parsers.ParseFunc, body, term string) (results []domain.SearchResult) {
	if parse == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			results = nil
		}
	}()
	return parse(body, term)
}

func (s *SearchService) rank(results []domain.SearchResult, term string) []domain.SearchResult {
	return Rank(results, term, s.now())
}

// Rank re-scores results against term, stamps them and sorts by relevance keeping page order on ties.
// The input slice is not modified.
func Rank(results []domain.SearchResult, term string, now time.Time) []domain.SearchResult {
	ranked := make([]domain.SearchResult, len(results))
	for i, r := range results {
		r.Relevance = relevance.Score(r.Title, term)
		r.SearchTerm = term
		if r.DiscoveredAt.IsZero() {
			r.DiscoveredAt = now
		}
		if r.PublishedAt.IsZero() {
			r.PublishedAt = r.DiscoveredAt
		}
		ranked[i] = r
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Relevance > ranked[j].Relevance
	})
	return ranked
}

func (s *SearchService) applyFilters(results []domain.SearchResult, filters domain.Filters) []domain.SearchResult {
	var cutoff time.Time
	if filters.DateRangeDays != nil {
		cutoff = s.now().AddDate(0, 0, -*filters.DateRangeDays)
	}

	filtered := make([]domain.SearchResult, 0, len(results))
	for _, r := range results {
		if !cutoff.IsZero() && r.PublishedAt.Before(cutoff) {
			continue
		}
		if filters.SizeRange != nil && !filters.SizeRange.Contains(r.SizeBytes) {
			continue
		}
		if !filters.AllowsSyntax(r.SyntaxHint) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

func (s *SearchService) cacheGet(ctx context.Context, term string, filters domain.Filters) ([]domain.SearchResult, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(ctx, term, filters)
}

func (s *SearchService) cachePut(ctx context.Context, term string, filters domain.Filters, results []domain.SearchResult) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Put(ctx, term, filters, results); err != nil {
		s.logger.Warn("Failed to cache search results", map[string]interface{}{
			"term":  term,
			"error": err.Error(),
		})
	}
}

// truncate caps results at limit. The sentinel pair is always returned whole.
func truncate(results []domain.SearchResult, limit int) []domain.SearchResult {
	if len(results) > 0 && results[0].IsSentinel() {
		return results
	}
	if limit > 0 && len(results) > limit {
		return results[:limit]
	}
	return results
}

var _ interfaces.SearchEngine = (*SearchService)(nil)
