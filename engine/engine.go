// ABOUTME: Library facade wiring configuration into a ready-to-use paste search engine
// ABOUTME: Offers search, advanced search, diagnostics and manual search without HTTP dependencies

package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	resultcache "github.com/byfranke/PastebinSearch/core/cache"
	"github.com/byfranke/PastebinSearch/core/domain"
	"github.com/byfranke/PastebinSearch/core/interfaces"
	"github.com/byfranke/PastebinSearch/core/manual"
	"github.com/byfranke/PastebinSearch/core/ratelimit"
	"github.com/byfranke/PastebinSearch/core/search"
	"github.com/byfranke/PastebinSearch/core/site"
	"github.com/byfranke/PastebinSearch/pkg/config"
)

// Engine is the main entry point for library users.
// It is not safe for concurrent searches; callers serialise or use one engine each.
type Engine struct {
	cfg       *config.Config
	site      *site.Site
	service   *search.SearchService
	results   *resultcache.ResultCache
	manual    *manual.Searcher
	transport interfaces.Transport
	store     interfaces.Cache
	logger    interfaces.Logger

	ownsTransport bool
	ownsStore     bool

	mu     sync.Mutex
	closed bool
}

// New creates an engine from cfg, which defaults to config.Default() when nil
func New(cfg *config.Config, options ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, NewError(ErrorTypeConfiguration, "invalid configuration").WithCause(err)
	}

	var s settings
	for _, opt := range options {
		if err := opt(&s); err != nil {
			return nil, err
		}
	}
	if s.logger == nil {
		s.logger = DefaultLogger(cfg.Log)
	}
	if s.now == nil {
		s.now = time.Now
	}

	st, err := site.New(cfg.Site.BaseURL)
	if err != nil {
		return nil, NewError(ErrorTypeConfiguration, "invalid site base url").WithCause(err)
	}

	e := &Engine{
		cfg:    cfg,
		site:   st,
		logger: s.logger,
	}

	e.transport = s.transport
	if e.transport == nil {
		session, err := DefaultTransport(cfg, s.logger)
		if err != nil {
			return nil, NewError(ErrorTypeConfiguration, "creating transport").WithCause(err)
		}
		e.transport = session
		e.ownsTransport = true
	}

	driver := s.driver
	if driver == nil {
		driver, err = DefaultBrowserDriver(cfg, s.logger)
		if err != nil {
			e.Close()
			return nil, NewError(ErrorTypeConfiguration, "creating browser driver").WithCause(err)
		}
	}
	e.manual = manual.NewSearcher(driver, st,
		manual.WithClock(s.now),
		manual.WithLogger(s.logger),
	)

	searchOpts := []search.Option{
		search.WithOptions(search.Options{
			DefaultLimit:           cfg.Search.DefaultLimit,
			MaxResults:             cfg.Search.MaxResults,
			MinBodySize:            search.DefaultMinBodySize,
			RateLimitBackoff:       search.DefaultRateLimitBackoff,
			CollectAll:             cfg.Search.CollectAll,
			MaxConsecutiveFailures: cfg.Search.MaxConsecutiveFailures,
		}),
		search.WithClock(s.now),
	}
	if s.strategies != nil {
		searchOpts = append(searchOpts, search.WithStrategies(s.strategies))
	}

	if cfg.Advanced.CacheEnabled {
		e.store = s.store
		if e.store == nil {
			e.store = DefaultCache(cfg.Cache, s.logger)
			e.ownsStore = true
		}
		e.results = resultcache.NewResultCache(e.store, cfg.Advanced.CacheDuration.Duration,
			resultcache.WithClock(s.now),
			resultcache.WithLogger(s.logger),
		)
		searchOpts = append(searchOpts, search.WithCache(e.results))
	}

	deps := interfaces.Dependencies{
		Cache:     e.store,
		Transport: e.transport,
		Limiter:   ratelimit.New(cfg.Search.RateLimit.Duration),
		Logger:    s.logger,
	}
	e.service = search.NewSearchService(deps, st, searchOpts...)

	s.logger.Debug("Search engine ready", map[string]interface{}{
		"site":          st.BaseURL(),
		"strategies":    len(e.service.Strategies()),
		"cache_enabled": cfg.Advanced.CacheEnabled,
		"ssl_verify":    cfg.Advanced.SSLVerify,
		"rate_limit":    cfg.Search.RateLimit.Duration.String(),
	})

	return e, nil
}

func (e *Engine) checkOpen() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	return nil
}

// Search runs the strategy list for term and returns at most limit results.
// limit <= 0 uses the configured default.
func (e *Engine) Search(ctx context.Context, term string, limit int) ([]domain.SearchResult, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}
	results, err := e.service.Search(ctx, term, limit)
	if err != nil {
		return nil, classify("search", err)
	}
	return results, nil
}

// AdvancedSearch searches, then applies filters and the optional security scan
func (e *Engine) AdvancedSearch(ctx context.Context, term string, filters domain.Filters) ([]domain.SearchResult, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}
	results, err := e.service.AdvancedSearch(ctx, term, filters)
	if err != nil {
		return nil, classify("advanced search", err)
	}
	return results, nil
}

// TestConnectivity probes the paste site root
func (e *Engine) TestConnectivity(ctx context.Context) domain.ConnectivityReport {
	if err := e.checkOpen(); err != nil {
		return domain.ConnectivityReport{ErrorDetail: err.Error()}
	}
	return e.service.TestConnectivity(ctx)
}

// ManualSearch loads the site search page through the browser driver
func (e *Engine) ManualSearch(ctx context.Context, term string) ([]domain.SearchResult, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}
	results, err := e.manual.Search(ctx, term)
	if err != nil {
		return nil, classify("manual search", err)
	}
	return results, nil
}

// Scan fetches the raw content of each result and attaches security flags
func (e *Engine) Scan(ctx context.Context, results []domain.SearchResult) ([]domain.SearchResult, error) {
	if err := e.checkOpen(); err != nil {
		return nil, err
	}
	scanned, err := e.service.Scan(ctx, results)
	if err != nil {
		return nil, classify("scan", err)
	}
	return scanned, nil
}

// ClearCache removes the snapshots this engine wrote
func (e *Engine) ClearCache(ctx context.Context) error {
	if err := e.checkOpen(); err != nil {
		return err
	}
	if e.results == nil {
		return ErrNoCache
	}
	if err := e.results.Clear(ctx); err != nil {
		return classify("clear cache", err)
	}
	e.logger.Info("Result cache cleared", nil)
	return nil
}

// TLSMode reports the transport's current certificate policy
func (e *Engine) TLSMode() interfaces.TLSMode {
	return e.transport.TLSMode()
}

// State reports the orchestrator state of the last search
func (e *Engine) State() search.State {
	return e.service.State()
}

// Site returns the paste site the engine searches
func (e *Engine) Site() *site.Site {
	return e.site
}

// Close releases the browser driver and every collaborator the engine created itself.
// Calling Close twice is a no-op.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	var errs []error
	if e.manual != nil {
		errs = append(errs, e.manual.Close())
	}
	if e.ownsTransport && e.transport != nil {
		errs = append(errs, e.transport.Close())
	}
	if e.ownsStore {
		errs = append(errs, closeIfCloser(e.store))
	}
	return errors.Join(errs...)
}

var _ interfaces.SearchEngine = (*Engine)(nil)
