package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper is implemented by *session.Registry.
type Sweeper interface {
	Sweep(now time.Time, ttl time.Duration) int
}

// Janitor periodically tears down view instances whose browser has gone
// away, cancelling any ping they still have outstanding.
type Janitor struct {
	sessions Sweeper
	ttl      time.Duration
	interval time.Duration
	logger   *zap.Logger
}

func NewJanitor(sessions Sweeper, ttl, interval time.Duration, logger *zap.Logger) *Janitor {
	return &Janitor{sessions: sessions, ttl: ttl, interval: interval, logger: logger}
}

// Run ticks every interval and sweeps idle sessions.
// Stops cleanly when ctx is cancelled.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	j.logger.Info("session janitor started",
		zap.Duration("interval", j.interval),
		zap.Duration("ttl", j.ttl))

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("session janitor stopping")
			return
		case now := <-ticker.C:
			j.sweep(now)
		}
	}
}

func (j *Janitor) sweep(now time.Time) {
	if n := j.sessions.Sweep(now, j.ttl); n > 0 {
		j.logger.Info("closed idle sessions", zap.Int("count", n))
	}
}
