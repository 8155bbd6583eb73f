package probe

import (
	"context"
	"time"

	"github.com/grillz/web/internal/domain"
)

// HealthPath is appended verbatim to the configured base URL.
const HealthPath = "/health"

// Probe checks the backend once and reports a settled Outcome.
// It never returns a Go error: every failure is folded into Outcome.Err
// so callers can render it directly.
type Probe interface {
	Check(ctx context.Context) domain.Outcome
}

// Waiter gates outbound calls. *ratelimiter.ProbeLimiter satisfies it.
type Waiter interface {
	Wait(ctx context.Context) error
}

// Hooks lets the metrics package observe probes without this package
// importing prometheus.
type Hooks struct {
	OnStart   func()
	OnSettled func(kind string, latency time.Duration)
}

func (h Hooks) start() {
	if h.OnStart != nil {
		h.OnStart()
	}
}

func (h Hooks) settled(out domain.Outcome, latency time.Duration) {
	if h.OnSettled != nil {
		h.OnSettled(out.Kind(), latency)
	}
}
