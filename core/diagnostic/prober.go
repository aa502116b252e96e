// ABOUTME: Connectivity diagnostic probing the paste site root
// ABOUTME: Classifies failures into user guidance and falls back to permissive TLS when allowed

package diagnostic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/byfranke/PastebinSearch/core/domain"
	coreerrors "github.com/byfranke/PastebinSearch/core/errors"
	"github.com/byfranke/PastebinSearch/core/interfaces"
	"github.com/byfranke/PastebinSearch/core/site"
)

// DefaultTimeout bounds each probe request
const DefaultTimeout = 10 * time.Second

const (
	FixTLSFallbackWorking = "SSL verification disabled - connection working"
	FixTLSFallbackDenied  = "Try disabling SSL verification in advanced settings"
	FixFallbackFailed     = "Check internet connection and firewall settings"
	FixConnect            = "Check internet connection and DNS settings"
	FixTimeout            = "Check internet connection or try increasing timeout"
	FixUnknown            = "Check logs and try restarting the application"
)

// Prober checks whether the paste site can be reached at all
type Prober struct {
	transport interfaces.Transport
	site      *site.Site
	timeout   time.Duration
	now       func() time.Time
	logger    interfaces.Logger
}

// Option configures a Prober
type Option func(*Prober)

// WithTimeout replaces DefaultTimeout
func WithTimeout(d time.Duration) Option {
	return func(p *Prober) { p.timeout = d }
}

// WithClock replaces time.Now for response time measurement
func WithClock(now func() time.Time) Option {
	return func(p *Prober) { p.now = now }
}

// NewProber creates a prober for s using the transport from deps
func NewProber(deps interfaces.Dependencies, s *site.Site, opts ...Option) *Prober {
	p := &Prober{
		transport: deps.Transport,
		site:      s,
		timeout:   DefaultTimeout,
		now:       time.Now,
		logger:    interfaces.LoggerOrNop(deps.Logger),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe fetches the site root. Any HTTP response counts as reachable.
// When the site is unreachable the returned error is the classified cause.
func (p *Prober) Probe(ctx context.Context) (domain.ConnectivityReport, error) {
	start := p.now()
	var report domain.ConnectivityReport

	err := p.fetch(ctx)
	if err == nil {
		report.Reachable = true
		report.TLSOK = p.transport.TLSMode() == interfaces.TLSStrict
		if !report.TLSOK {
			report.SuggestedFix = FixTLSFallbackWorking
		}
		report.ResponseTime = p.now().Sub(start)
		return report, nil
	}

	if ctx.Err() != nil {
		return report, ctx.Err()
	}

	switch {
	case coreerrors.IsTLS(err):
		report.ErrorDetail = fmt.Sprintf("SSL Error: %v", err)
		if enableErr := p.transport.EnablePermissiveTLS(); enableErr != nil {
			report.SuggestedFix = FixTLSFallbackDenied
			break
		}

		retryErr := p.fetch(ctx)
		if retryErr == nil {
			report.Reachable = true
			report.TLSOK = false
			report.ErrorDetail = ""
			report.SuggestedFix = FixTLSFallbackWorking
			report.ResponseTime = p.now().Sub(start)
			return report, nil
		}
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		report.ErrorDetail = fmt.Sprintf("SSL and fallback failed: %v", retryErr)
		report.SuggestedFix = FixFallbackFailed
		err = retryErr
	case coreerrors.IsTimeout(err):
		report.ErrorDetail = "Connection timeout"
		report.SuggestedFix = FixTimeout
	case coreerrors.IsConnect(err):
		report.ErrorDetail = fmt.Sprintf("Connection Error: %v", err)
		report.SuggestedFix = FixConnect
	default:
		report.ErrorDetail = fmt.Sprintf("Unknown error: %v", err)
		report.SuggestedFix = FixUnknown
	}

	report.ResponseTime = p.now().Sub(start)
	p.logger.Warn("Connectivity probe failed", map[string]interface{}{
		"url":           p.site.BaseURL(),
		"error":         report.ErrorDetail,
		"suggested_fix": report.SuggestedFix,
	})
	return report, err
}

func (p *Prober) fetch(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	_, err := p.transport.Fetch(probeCtx, p.site.BaseURL(), nil)
	if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return &coreerrors.TimeoutError{URL: p.site.BaseURL(), Cause: err}
	}
	return err
}
