// Package redis provides the shared Redis connection plus the cache and
// rate-limit helpers built on top of it. Every helper degrades to a no-op
// when Redis is switched off in config, so callers never branch on
// availability themselves.
package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zodiacal/horoscope-api/pkg/config"
)

const connectTimeout = 5 * time.Second

// Client wraps go-redis behind an enabled flag.
// ⭐ SSOT: the Redis connection is managed here and nowhere else
type Client struct {
	rdb     *redis.Client
	enabled bool
}

// New dials Redis according to config. With REDIS_ENABLED=false it
// returns a disabled client and never touches the network.
func New(cfg *config.Config) (*Client, error) {
	if !cfg.Redis.Enabled {
		return &Client{}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return &Client{rdb: rdb, enabled: true}, nil
}

// Disabled returns a client that behaves as if Redis were switched off.
// Intended for tests and the memory-backend development mode.
func Disabled() *Client {
	return &Client{}
}

// Enabled reports whether an actual connection sits behind this client.
func (c *Client) Enabled() bool {
	return c.enabled
}

// Ping verifies the connection. A disabled client reports healthy so it
// never fails a health check it is not part of.
func (c *Client) Ping(ctx context.Context) error {
	if !c.enabled {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

// Redis exposes the raw client for the cache and rate limiter.
func (c *Client) Redis() *redis.Client {
	return c.rdb
}

// Close releases the connection pool.
func (c *Client) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
