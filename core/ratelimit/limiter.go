// ABOUTME: Minimum-interval rate limiter gating every upstream request
// ABOUTME: Token bucket of size one built on golang.org/x/time/rate with an injectable clock

package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter makes each Wait return at least interval after the previous one returned
type Limiter struct {
	interval time.Duration
	limiter  *rate.Limiter
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

// Option configures a Limiter
type Option func(*Limiter)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// WithSleep replaces the context-aware sleep
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(l *Limiter) { l.sleep = sleep }
}

// New creates a limiter. An interval of zero or less never waits.
func New(interval time.Duration, opts ...Option) *Limiter {
	l := &Limiter{
		interval: interval,
		now:      time.Now,
		sleep:    Sleep,
	}
	for _, opt := range opts {
		opt(l)
	}
	if interval > 0 {
		l.limiter = rate.NewLimiter(rate.Every(interval), 1)
	}
	return l
}

// Interval returns the configured minimum delay
func (l *Limiter) Interval() time.Duration {
	return l.interval
}

// Wait blocks until the next request may be sent or ctx is done
func (l *Limiter) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if l.limiter == nil {
		return nil
	}

	now := l.now()
	r := l.limiter.ReserveN(now, 1)
	delay := r.DelayFrom(now)
	if delay <= 0 {
		return nil
	}

	if err := l.sleep(ctx, delay); err != nil {
		r.CancelAt(l.now())
		return err
	}
	return nil
}

// Sleep pauses for d or until ctx is done
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
