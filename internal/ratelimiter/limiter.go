package ratelimiter

import (
	"context"

	"golang.org/x/time/rate"
)

// ProbeLimiter is a single token bucket shared by every view's probe, so a
// room full of open tabs cannot hammer the backend under test.
// Burst is set equal to the rate so no extra burst capacity is allowed
// beyond the configured per-second maximum.
type ProbeLimiter struct {
	limiter *rate.Limiter
}

// New creates a ProbeLimiter allowing ratePerSec probes per second.
func New(ratePerSec int) *ProbeLimiter {
	return &ProbeLimiter{
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), ratePerSec),
	}
}

// Wait blocks until a token is granted.
// Returns a non-nil error only if ctx is cancelled while waiting.
func (pl *ProbeLimiter) Wait(ctx context.Context) error {
	return pl.limiter.Wait(ctx)
}
