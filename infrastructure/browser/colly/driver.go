// ABOUTME: Browser driver backed by gocolly/colly for manual searches
// ABOUTME: Keeps the last fetched page in memory and spaces visits with a colly limit rule

package colly

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/byfranke/PastebinSearch/core/interfaces"
	"github.com/gocolly/colly"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultMaxBodySize = 5 * 1024 * 1024
)

// ErrClosed is returned by Navigate after Close
var ErrClosed = errors.New("browser driver is closed")

// ErrNoPage is returned by PageSource before a successful Navigate
var ErrNoPage = errors.New("no page loaded")

// Options configures a Driver
type Options struct {
	UserAgent string
	Timeout   time.Duration

	// Delay is the minimum spacing between visits to the same domain
	Delay time.Duration

	MaxBodySize int
	Logger      interfaces.Logger
}

// Driver implements interfaces.BrowserDriver
type Driver struct {
	collector *colly.Collector
	logger    interfaces.Logger

	mu     sync.Mutex
	page   string
	loaded bool
	closed bool
}

// NewDriver creates a synchronous collector-backed driver
func NewDriver(opts Options) (*Driver, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = defaultMaxBodySize
	}

	collectorOpts := []func(*colly.Collector){
		colly.MaxBodySize(opts.MaxBodySize),
		colly.Async(false),
		colly.AllowURLRevisit(),
	}
	if opts.UserAgent != "" {
		collectorOpts = append(collectorOpts, colly.UserAgent(opts.UserAgent))
	}
	c := colly.NewCollector(collectorOpts...)
	c.SetRequestTimeout(opts.Timeout)

	if opts.Delay > 0 {
		if err := c.Limit(&colly.LimitRule{DomainGlob: "*", Delay: opts.Delay}); err != nil {
			return nil, fmt.Errorf("setting visit delay: %w", err)
		}
	}

	d := &Driver{
		collector: c,
		logger:    interfaces.LoggerOrNop(opts.Logger),
	}

	c.OnResponse(func(r *colly.Response) {
		d.mu.Lock()
		d.page = string(r.Body)
		d.loaded = true
		d.mu.Unlock()
	})

	c.OnError(func(r *colly.Response, err error) {
		d.logger.Debug("Browser visit failed", map[string]interface{}{
			"url":    r.Request.URL.String(),
			"status": r.StatusCode,
			"error":  err.Error(),
		})
	})

	return d, nil
}

// Navigate loads url, replacing the current page
func (d *Driver) Navigate(ctx context.Context, url string) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrClosed
	}
	d.page, d.loaded = "", false
	d.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := d.collector.Visit(url); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("visiting %s: %w", url, err)
	}
	return ctx.Err()
}

// PageSource returns the body of the last page loaded
func (d *Driver) PageSource() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.loaded {
		return "", ErrNoPage
	}
	return d.page, nil
}

// Close marks the driver closed; later navigations fail
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.page, d.loaded = "", false
	return nil
}

var _ interfaces.BrowserDriver = (*Driver)(nil)
