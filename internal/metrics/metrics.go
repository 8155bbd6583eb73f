package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/grillz/web/internal/domain"
	"github.com/grillz/web/internal/probe"
)

// Metrics groups all Prometheus instruments used across the application.
// Registered once at startup via New(); passed by pointer wherever needed.
type Metrics struct {
	ProbesTotal    *prometheus.CounterVec
	ProbeLatency   prometheus.Histogram
	ProbesInFlight prometheus.Gauge
	ViewsActive    prometheus.Gauge
}

// New registers all instruments with the given Prometheus registerer and
// returns the populated Metrics struct.
// Using a custom registry (instead of prometheus.DefaultRegisterer) keeps
// tests isolated and avoids global state.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ProbesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "grillz_probes_total",
			Help: "Settled backend health probes, by outcome kind (ok, config, request, transport, parse, unknown).",
		}, []string{"kind"}),

		ProbeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "grillz_probe_duration_seconds",
			Help:    "Time from probe start to settlement, including rate limiter wait.",
			Buckets: prometheus.DefBuckets,
		}),

		ProbesInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "grillz_probes_in_flight",
			Help: "Probes started but not yet settled.",
		}),

		ViewsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "grillz_views_active",
			Help: "Live per-session view instances.",
		}),
	}

	reg.MustRegister(
		m.ProbesTotal,
		m.ProbeLatency,
		m.ProbesInFlight,
		m.ViewsActive,
	)

	return m
}

// ProbeHooks returns the callbacks expected by probe.WithHooks.
// Centralises the prometheus observation calls so the probe stays import-free.
func (m *Metrics) ProbeHooks() probe.Hooks {
	return probe.Hooks{
		OnStart: func() {
			m.ProbesInFlight.Inc()
		},
		OnSettled: func(kind string, latency time.Duration) {
			if kind != domain.KindOK && !domain.ErrorKind(kind).IsValid() {
				kind = string(domain.KindUnknown)
			}
			m.ProbesInFlight.Dec()
			m.ProbesTotal.WithLabelValues(kind).Inc()
			m.ProbeLatency.Observe(latency.Seconds())
		},
	}
}

// SetViewsActive matches session.Registry's OnChange signature.
func (m *Metrics) SetViewsActive(n int) {
	m.ViewsActive.Set(float64(n))
}
