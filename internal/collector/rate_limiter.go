package collector

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter caps the page fetch rate so collection runs do not
// starve shared ClickHouse clusters.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a token bucket limiter allowing rps fetches
// per second with a burst of twice the rate. A non-positive rps
// disables limiting.
func NewRateLimiter(rps int) *RateLimiter {
	if rps <= 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(rps), rps*2)}
}

// Wait blocks until the limiter allows the next fetch.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// Allow reports whether a fetch may proceed without blocking.
func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}
