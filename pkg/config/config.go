// ABOUTME: Configuration management with TOML file and environment variable support
// ABOUTME: Defines search, TLS, cache, logging and server settings consumed by the engine

package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "PASTESEARCH_"

// DefaultUserAgent is a current desktop Chrome user agent
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Config holds all application configuration
type Config struct {
	Search   SearchConfig   `toml:"search"`
	Advanced AdvancedConfig `toml:"advanced"`
	Site     SiteConfig     `toml:"site"`
	Cache    CacheConfig    `toml:"cache"`
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
}

// SearchConfig holds upstream request settings
type SearchConfig struct {
	// Timeout bounds every upstream request
	Timeout Duration `toml:"timeout"`

	// RateLimit is the minimum delay between upstream requests
	RateLimit Duration `toml:"rate_limit"`

	// DefaultLimit caps results when the caller gives no limit
	DefaultLimit int `toml:"default_limit"`

	// MaxResults is the hard cap on any caller supplied limit
	MaxResults int `toml:"max_results"`

	UserAgent string      `toml:"user_agent"`
	Proxy     ProxyConfig `toml:"proxy"`

	// CollectAll keeps trying strategies after the first success and merges their results
	CollectAll bool `toml:"collect_all"`

	// MaxConsecutiveFailures stops a CollectAll run early, 0 means never
	MaxConsecutiveFailures int `toml:"max_consecutive_failures"`
}

// ProxyConfig holds outbound proxy settings
type ProxyConfig struct {
	Enabled    bool   `toml:"enabled"`
	HTTPProxy  string `toml:"http_proxy"`
	HTTPSProxy string `toml:"https_proxy"`
}

// AdvancedConfig holds TLS and cache policy
type AdvancedConfig struct {
	// SSLVerify forbids the permissive TLS fallback when true
	SSLVerify bool `toml:"ssl_verify"`

	CacheEnabled  bool     `toml:"cache_enabled"`
	CacheDuration Duration `toml:"cache_duration"`
}

// SiteConfig identifies the paste site
type SiteConfig struct {
	BaseURL string `toml:"base_url"`
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (memory/redis/sqlite)
	Type string `toml:"type"`

	Redis  RedisConfig  `toml:"redis"`
	SQLite SQLiteConfig `toml:"sqlite"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Address  string `toml:"address"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`

	// Prefix namespaces snapshot keys, empty means "pastesearch:"
	Prefix string `toml:"prefix"`
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	Path string `toml:"path"`
}

// LogConfig holds logger settings
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `toml:"level"`

	// Format is text or json
	Format string `toml:"format"`
}

// ServerConfig holds HTTP API configuration
type ServerConfig struct {
	Port       string   `toml:"port"`
	RateLimit  int      `toml:"rate_limit"`
	RateWindow Duration `toml:"rate_window"`
}

// Duration wraps time.Duration so it can be written as "30s" in TOML
type Duration struct {
	time.Duration
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText accepts Go duration strings or a bare number of seconds
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = parseDuration(string(text))
	return err
}

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	return time.ParseDuration(s)
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Search: SearchConfig{
			Timeout:      Duration{30 * time.Second},
			RateLimit:    Duration{3 * time.Second},
			DefaultLimit: 50,
			MaxResults:   200,
			UserAgent:    DefaultUserAgent,
		},
		Advanced: AdvancedConfig{
			SSLVerify:     false,
			CacheEnabled:  true,
			CacheDuration: Duration{time.Hour},
		},
		Site: SiteConfig{
			BaseURL: "https://pastebin.com",
		},
		Cache: CacheConfig{
			Type: "memory",
			Redis: RedisConfig{
				Address: "localhost:6379",
			},
			SQLite: SQLiteConfig{
				Path: "pastesearch-cache.db",
			},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Port:       "8000",
			RateLimit:  30,
			RateWindow: Duration{time.Minute},
		},
	}
}

// DefaultPath returns the per-user config file location
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("getting user config directory: %w", err)
	}
	return filepath.Join(dir, "pastesearch", "config.toml"), nil
}

// Load builds the configuration from defaults, the TOML file at path and the environment.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config file: %w", err)
		default:
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("unmarshaling config: %w", err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from defaults and environment variables only
func LoadFromEnv() (*Config, error) {
	return Load("")
}

// Save writes the configuration as TOML
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

func (c *Config) applyEnv() error {
	var err error
	setString(&c.Search.UserAgent, "USER_AGENT")
	setString(&c.Search.Proxy.HTTPProxy, "HTTP_PROXY")
	setString(&c.Search.Proxy.HTTPSProxy, "HTTPS_PROXY")
	setString(&c.Site.BaseURL, "BASE_URL")
	setString(&c.Cache.Type, "CACHE_TYPE")
	setString(&c.Cache.Redis.Address, "REDIS_ADDRESS")
	setString(&c.Cache.Redis.Password, "REDIS_PASSWORD")
	setString(&c.Cache.SQLite.Path, "SQLITE_PATH")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")
	setString(&c.Server.Port, "PORT")

	for _, f := range []func() error{
		func() error { return setDuration(&c.Search.Timeout, "TIMEOUT") },
		func() error { return setDuration(&c.Search.RateLimit, "RATE_LIMIT") },
		func() error { return setDuration(&c.Advanced.CacheDuration, "CACHE_DURATION") },
		func() error { return setInt(&c.Search.DefaultLimit, "DEFAULT_LIMIT") },
		func() error { return setInt(&c.Search.MaxResults, "MAX_RESULTS") },
		func() error { return setInt(&c.Cache.Redis.DB, "REDIS_DB") },
		func() error { return setBool(&c.Search.Proxy.Enabled, "PROXY_ENABLED") },
		func() error { return setBool(&c.Advanced.SSLVerify, "SSL_VERIFY") },
		func() error { return setBool(&c.Advanced.CacheEnabled, "CACHE_ENABLED") },
		func() error { return setBool(&c.Search.CollectAll, "COLLECT_ALL") },
	} {
		if err = f(); err != nil {
			return err
		}
	}
	return nil
}

func setString(dst *string, key string) {
	if value := os.Getenv(EnvPrefix + key); value != "" {
		*dst = value
	}
}

func setInt(dst *int, key string) error {
	value := os.Getenv(EnvPrefix + key)
	if value == "" {
		return nil
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parsing %s%s: %w", EnvPrefix, key, err)
	}
	*dst = v
	return nil
}

func setBool(dst *bool, key string) error {
	value := os.Getenv(EnvPrefix + key)
	if value == "" {
		return nil
	}
	v, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("parsing %s%s: %w", EnvPrefix, key, err)
	}
	*dst = v
	return nil
}

func setDuration(dst *Duration, key string) error {
	value := os.Getenv(EnvPrefix + key)
	if value == "" {
		return nil
	}
	v, err := parseDuration(value)
	if err != nil {
		return fmt.Errorf("parsing %s%s: %w", EnvPrefix, key, err)
	}
	dst.Duration = v
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Search.Timeout.Duration <= 0 {
		return errors.New("timeout must be positive")
	}

	if c.Search.RateLimit.Duration < 0 {
		return errors.New("rate limit cannot be negative")
	}

	if c.Search.DefaultLimit < 1 {
		return errors.New("default limit must be at least 1")
	}

	if c.Search.MaxResults < c.Search.DefaultLimit {
		return errors.New("max results cannot be lower than the default limit")
	}

	if c.Advanced.CacheEnabled && c.Advanced.CacheDuration.Duration <= 0 {
		return errors.New("cache duration must be positive when the cache is enabled")
	}

	u, err := url.Parse(c.Site.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.New("site base url must be an absolute http(s) url")
	}

	switch c.Cache.Type {
	case "memory":
	case "redis":
		if c.Cache.Redis.Address == "" {
			return errors.New("redis address cannot be empty when using redis cache")
		}
	case "sqlite":
		if c.Cache.SQLite.Path == "" {
			return errors.New("sqlite path cannot be empty when using sqlite cache")
		}
	default:
		return errors.New("cache type must be 'memory', 'redis' or 'sqlite'")
	}

	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	return nil
}
