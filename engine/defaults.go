// ABOUTME: Default implementations for engine dependencies
// ABOUTME: Builds the logger, transport, cache backend and browser driver from configuration

package engine

import (
	"io"

	"github.com/byfranke/PastebinSearch/core/interfaces"
	"github.com/byfranke/PastebinSearch/infrastructure/browser/colly"
	"github.com/byfranke/PastebinSearch/infrastructure/cache/memory"
	"github.com/byfranke/PastebinSearch/infrastructure/cache/redis"
	"github.com/byfranke/PastebinSearch/infrastructure/cache/sqlite"
	"github.com/byfranke/PastebinSearch/infrastructure/http/standard"
	logruslogger "github.com/byfranke/PastebinSearch/infrastructure/logger/logrus"
	"github.com/byfranke/PastebinSearch/pkg/config"
	"github.com/byfranke/PastebinSearch/pkg/featureflags"
)

// FeaturePrefix prefixes the capability override variables, e.g. PASTESEARCH_FEATURE_BROTLI=false
const FeaturePrefix = config.EnvPrefix + "FEATURE_"

// DefaultLogger creates the logrus logger described by cfg
func DefaultLogger(cfg config.LogConfig) interfaces.Logger {
	return logruslogger.New(logruslogger.Options{
		Level:  cfg.Level,
		Format: cfg.Format,
	})
}

// DefaultTransport creates a strict-TLS session.
// The permissive fallback is allowed only when ssl_verify is off.
func DefaultTransport(cfg *config.Config, logger interfaces.Logger) (*standard.Session, error) {
	return standard.NewSession(standard.Options{
		Timeout:   cfg.Search.Timeout.Duration,
		UserAgent: cfg.Search.UserAgent,
		Proxy: standard.ProxySettings{
			Enabled:    cfg.Search.Proxy.Enabled,
			HTTPProxy:  cfg.Search.Proxy.HTTPProxy,
			HTTPSProxy: cfg.Search.Proxy.HTTPSProxy,
		},
		AllowPermissive: !cfg.Advanced.SSLVerify,
		Capabilities:    standard.DetectCapabilities(featureflags.NewEnvManager(FeaturePrefix)),
		Logger:          logger,
	})
}

// DefaultCache creates the backend named by cfg.Type.
// Redis and SQLite failures fall back to memory with a logged error.
func DefaultCache(cfg config.CacheConfig, logger interfaces.Logger) interfaces.Cache {
	switch cfg.Type {
	case "redis":
		redisCache, err := redis.NewRedisCache(cfg.Redis)
		if err != nil {
			logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			return memory.NewMemoryCache()
		}
		logger.Info("Using Redis cache", map[string]interface{}{
			"address": cfg.Redis.Address,
		})
		return redisCache
	case "sqlite":
		sqliteCache, err := sqlite.NewSQLiteCache(cfg.SQLite.Path)
		if err != nil {
			logger.Error("Failed to create SQLite cache, falling back to memory", map[string]interface{}{
				"error": err.Error(),
			})
			return memory.NewMemoryCache()
		}
		logger.Info("Using SQLite cache", map[string]interface{}{
			"path": cfg.SQLite.Path,
		})
		return sqliteCache
	default:
		logger.Debug("Using memory cache", nil)
		return memory.NewMemoryCache()
	}
}

// DefaultBrowserDriver creates the colly driver used by manual search.
// Visits are spaced by the configured rate limit.
func DefaultBrowserDriver(cfg *config.Config, logger interfaces.Logger) (interfaces.BrowserDriver, error) {
	driver, err := colly.NewDriver(colly.Options{
		UserAgent: cfg.Search.UserAgent,
		Timeout:   cfg.Search.Timeout.Duration,
		Delay:     cfg.Search.RateLimit.Duration,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}
	return driver, nil
}

func closeIfCloser(v interface{}) error {
	if c, ok := v.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
