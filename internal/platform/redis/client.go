// Package redis opens the connection backing the Redis audit stream store.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"caseflow/internal/platform/config"
)

// Defaults applied when the config leaves a knob at zero. The audit stream
// is a light append/read workload, so the pool stays small.
const (
	defaultPoolSize    = 10
	defaultDialTimeout = 5 * time.Second
)

// Client wraps the go-redis client with a health probe for readiness checks.
type Client struct {
	*redis.Client
}

// Open connects using the configured URL and verifies the connection with a
// bounded ping. Returns nil when no URL is configured.
func Open(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	opts.PoolSize = cfg.PoolSize
	if opts.PoolSize == 0 {
		opts.PoolSize = defaultPoolSize
	}
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout
	if opts.DialTimeout == 0 {
		opts.DialTimeout = defaultDialTimeout
	}
	opts.ReadTimeout = cfg.ReadTimeout
	opts.WriteTimeout = cfg.WriteTimeout

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{Client: client}, nil
}

// Health reports whether the connection still answers.
func (c *Client) Health(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

func (c *Client) Close() error {
	return c.Client.Close()
}
