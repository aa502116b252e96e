// ABOUTME: Cache entry and connectivity report models
// ABOUTME: Snapshots stored by the result cache and the output of the connectivity probe

package domain

import "time"

// CacheEntry is an immutable snapshot of one search outcome
type CacheEntry struct {
	Key      string         `json:"key"`
	Results  []SearchResult `json:"results"`
	CachedAt time.Time      `json:"cached_at"`
}

// ValidAt reports whether the entry is still fresh at now for the given ttl
func (e CacheEntry) ValidAt(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.CachedAt) < ttl
}

// ConnectivityReport is the outcome of probing the paste site
type ConnectivityReport struct {
	Reachable    bool          `json:"reachable"`
	TLSOK        bool          `json:"tls_ok"`
	ResponseTime time.Duration `json:"-"`
	ErrorDetail  string        `json:"error_detail,omitempty"`
	SuggestedFix string        `json:"suggested_fix,omitempty"`
}

// ResponseTimeSeconds returns the probe latency in seconds
func (r ConnectivityReport) ResponseTimeSeconds() float64 {
	return r.ResponseTime.Seconds()
}
