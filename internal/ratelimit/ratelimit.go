// Package ratelimit throttles inbound requests per client.
// Supports an in-process token bucket and a Redis fixed window for multi-instance deployments.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	// RetryAfter is set when Allowed is false.
	RetryAfter time.Duration
}

// Limiter decides whether a client identified by key may proceed.
// Implementations must be safe for concurrent use.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)

	// Close releases any resources held by the limiter.
	Close() error
}
