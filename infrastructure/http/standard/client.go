// ABOUTME: Transport session owning one HTTP client with browser headers and a swappable TLS policy
// ABOUTME: Negotiates content encodings from detected capabilities and classifies transport failures

package standard

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/byfranke/PastebinSearch/core/interfaces"
	"github.com/byfranke/PastebinSearch/pkg/featureflags"
	"golang.org/x/net/http/httpproxy"
	"golang.org/x/net/publicsuffix"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultMaxBodySize = 10 << 20
)

// ErrPermissiveForbidden is returned by EnablePermissiveTLS when strict verification is mandatory
var ErrPermissiveForbidden = errors.New("permissive tls fallback is disabled by configuration")

// ProxySettings configures outbound proxying.
// When Enabled is true and both URLs are empty, the environment proxy variables are used.
type ProxySettings struct {
	Enabled    bool
	HTTPProxy  string
	HTTPSProxy string
}

// Options configures a Session
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Proxy     ProxySettings

	// AllowPermissive permits EnablePermissiveTLS to swap policies
	AllowPermissive bool

	// MaxBodySize truncates decoded bodies, 0 means 10 MiB
	MaxBodySize int64

	// Capabilities selects optional encodings, usually from DetectCapabilities
	Capabilities featureflags.Set

	// TLSConfig is cloned into the strict policy, mainly to inject test root CAs
	TLSConfig *tls.Config

	Logger interfaces.Logger
}

// Session implements interfaces.Transport
type Session struct {
	mu     sync.Mutex
	opts   Options
	client *http.Client
	mode   interfaces.TLSMode
	logger interfaces.Logger
}

// NewSession creates a session in strict TLS mode
func NewSession(opts Options) (*Session, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxBodySize <= 0 {
		opts.MaxBodySize = defaultMaxBodySize
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	s := &Session{
		opts:   opts,
		mode:   interfaces.TLSStrict,
		logger: interfaces.LoggerOrNop(opts.Logger),
	}
	s.client = &http.Client{
		Timeout:   opts.Timeout,
		Jar:       jar,
		Transport: s.newTransport(interfaces.TLSStrict),
	}
	return s, nil
}

func (s *Session) newTransport(mode interfaces.TLSMode) *http.Transport {
	var tlsConfig *tls.Config
	if s.opts.TLSConfig != nil {
		tlsConfig = s.opts.TLSConfig.Clone()
	} else {
		tlsConfig = &tls.Config{}
	}

	switch mode {
	case interfaces.TLSPermissive:
		tlsConfig.InsecureSkipVerify = true
		tlsConfig.MinVersion = tls.VersionTLS10
		tlsConfig.CipherSuites = allCipherSuites()
	default:
		if tlsConfig.MinVersion == 0 {
			tlsConfig.MinVersion = tls.VersionTLS12
		}
	}

	return &http.Transport{
		Proxy:                 s.proxyFunc(),
		TLSClientConfig:       tlsConfig,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
		// bodies are decoded in readBody
		DisableCompression: true,
	}
}

func (s *Session) proxyFunc() func(*http.Request) (*url.URL, error) {
	p := s.opts.Proxy
	if !p.Enabled {
		return nil
	}
	if p.HTTPProxy == "" && p.HTTPSProxy == "" {
		return http.ProxyFromEnvironment
	}

	cfg := &httpproxy.Config{
		HTTPProxy:  p.HTTPProxy,
		HTTPSProxy: p.HTTPSProxy,
		NoProxy:    os.Getenv("NO_PROXY"),
	}
	proxy := cfg.ProxyFunc()
	return func(req *http.Request) (*url.URL, error) {
		return proxy(req.URL)
	}
}

// allCipherSuites returns secure and insecure suites for the permissive policy
func allCipherSuites() []uint16 {
	var ids []uint16
	for _, cs := range tls.CipherSuites() {
		ids = append(ids, cs.ID)
	}
	for _, cs := range tls.InsecureCipherSuites() {
		ids = append(ids, cs.ID)
	}
	return ids
}

// Fetch performs a GET request with the default browser headers merged with headers
func (s *Session) Fetch(ctx context.Context, rawURL string, headers map[string]string) (*interfaces.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", rawURL, err)
	}

	for k, v := range s.defaultHeaders() {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	s.mu.Lock()
	client := s.client
	mode := s.mode
	s.mu.Unlock()

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		classified := classify(ctx, rawURL, err)
		s.logger.Debug("Upstream request failed", map[string]interface{}{
			"url":      rawURL,
			"tls_mode": string(mode),
			"duration": time.Since(start).String(),
			"error":    classified.Error(),
		})
		return nil, classified
	}
	defer resp.Body.Close()

	body, err := s.readBody(resp)
	if err != nil {
		return nil, classify(ctx, rawURL, err)
	}

	s.logger.Debug("Upstream request completed", map[string]interface{}{
		"url":      rawURL,
		"status":   resp.StatusCode,
		"bytes":    len(body),
		"encoding": resp.Header.Get("Content-Encoding"),
		"tls_mode": string(mode),
		"duration": time.Since(start).String(),
	})

	return &interfaces.Response{
		StatusCode:  resp.StatusCode,
		Body:        body,
		Length:      len(body),
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// EnablePermissiveTLS swaps in the permissive policy once
func (s *Session) EnablePermissiveTLS() error {
	if !s.opts.AllowPermissive {
		return ErrPermissiveForbidden
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode == interfaces.TLSPermissive {
		return nil
	}

	if old, ok := s.client.Transport.(*http.Transport); ok {
		old.CloseIdleConnections()
	}
	s.client = &http.Client{
		Timeout:   s.client.Timeout,
		Jar:       s.client.Jar,
		Transport: s.newTransport(interfaces.TLSPermissive),
	}
	s.mode = interfaces.TLSPermissive

	s.logger.Warn("TLS verification disabled after strict handshake failure", nil)
	return nil
}

// TLSMode reports the current policy
func (s *Session) TLSMode() interfaces.TLSMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Capabilities returns the encoding capabilities the session negotiates with
func (s *Session) Capabilities() featureflags.Set {
	return s.opts.Capabilities
}

// Close releases idle connections
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client.CloseIdleConnections()
	return nil
}

// AcceptEncoding lists the encodings this session can decode
func (s *Session) AcceptEncoding() string {
	encodings := []string{"gzip", "deflate"}
	if s.opts.Capabilities.Has(featureflags.Brotli) {
		encodings = append(encodings, "br")
	}
	if s.opts.Capabilities.Has(featureflags.Zstd) {
		encodings = append(encodings, "zstd")
	}
	return strings.Join(encodings, ", ")
}

func (s *Session) readBody(resp *http.Response) ([]byte, error) {
	reader, closeFn, err := s.decoder(resp.Header.Get("Content-Encoding"), resp.Body)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	return io.ReadAll(io.LimitReader(reader, s.opts.MaxBodySize))
}

var _ interfaces.Transport = (*Session)(nil)
