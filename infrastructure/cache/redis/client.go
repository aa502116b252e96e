// ABOUTME: Redis snapshot store for the result cache
// ABOUTME: Shares cached search snapshots between processes under a key prefix

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/byfranke/PastebinSearch/core/interfaces"
	"github.com/byfranke/PastebinSearch/pkg/config"
	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces snapshot keys when the config leaves it empty
const DefaultPrefix = "pastesearch:"

const dialCheckTimeout = 5 * time.Second

// RedisCache implements interfaces.Cache on a Redis database
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects to cfg.Address and fails when the server does not answer a ping
func NewRedisCache(cfg config.RedisConfig) (*RedisCache, error) {
	if cfg.Address == "" {
		return nil, errors.New("redis address cannot be empty")
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), dialCheckTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", cfg.Address, err)
	}

	return &RedisCache{client: client, prefix: prefix}, nil
}

func (c *RedisCache) key(k string) string {
	return c.prefix + k
}

// Get returns the snapshot under key or interfaces.ErrCacheMiss
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, interfaces.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return val, nil
}

// Set stores a snapshot; Redis expires it after ttl, 0 keeps it
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// Delete removes a snapshot; a missing key is not an error
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		return fmt.Errorf("deleting snapshot: %w", err)
	}
	return nil
}

// Len counts keys under the prefix
func (c *RedisCache) Len(ctx context.Context) (int, error) {
	var n int
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		n++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("scanning snapshots: %w", err)
	}
	return n, nil
}

// Close closes the connection pool
func (c *RedisCache) Close() error {
	return c.client.Close()
}

var _ interfaces.Cache = (*RedisCache)(nil)
