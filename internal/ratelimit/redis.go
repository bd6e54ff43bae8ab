package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces the counters stored in Redis.
const DefaultRedisPrefix = "asimov:ratelimit:"

// RedisConfig holds Redis limiter settings.
type RedisConfig struct {
	// URL is the Redis connection URL (e.g., "redis://localhost:6379/0")
	URL      string
	Requests int
	Window   time.Duration
	// Prefix defaults to DefaultRedisPrefix.
	Prefix string
}

// RedisLimiter counts requests per key in fixed windows shared by all instances.
type RedisLimiter struct {
	client   *redis.Client
	requests int
	window   time.Duration
	prefix   string
	now      func() time.Time
}

// NewRedisLimiter connects to Redis and verifies the connection.
func NewRedisLimiter(cfg RedisConfig) (*RedisLimiter, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	l := newRedisLimiter(client, cfg)
	slog.Info("redis rate limiter connected", "prefix", l.prefix, "requests", l.requests, "window", l.window)
	return l, nil
}

func newRedisLimiter(client *redis.Client, cfg RedisConfig) *RedisLimiter {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisLimiter{
		client:   client,
		requests: cfg.Requests,
		window:   cfg.Window,
		prefix:   prefix,
		now:      time.Now,
	}
}

// windowKey returns the counter key for key in the window containing now, and the window end.
func (l *RedisLimiter) windowKey(key string, now time.Time) (string, time.Time) {
	start := now.Truncate(l.window)
	return l.prefix + key + ":" + strconv.FormatInt(start.Unix(), 10), start.Add(l.window)
}

// Allow increments key's counter for the current window.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	now := l.now()
	counterKey, windowEnd := l.windowKey(key, now)

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, counterKey)
		pipe.ExpireNX(ctx, counterKey, l.window)
		return nil
	})
	if err != nil {
		return Decision{}, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	count := int(incr.Val())
	d := Decision{Limit: l.requests}
	if count <= l.requests {
		d.Allowed = true
		d.Remaining = l.requests - count
		return d, nil
	}
	d.RetryAfter = windowEnd.Sub(now)
	return d, nil
}

// Close closes the Redis connection.
func (l *RedisLimiter) Close() error {
	if l.client != nil {
		return l.client.Close()
	}
	return nil
}
