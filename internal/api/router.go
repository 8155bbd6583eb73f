package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/grillz/web/internal/api/handler"
	apimw "github.com/grillz/web/internal/api/middleware"
	"github.com/grillz/web/internal/session"
)

// NewRouter wires the chi router, attaches all middleware, and registers
// every route. It is the single source of truth for the HTTP surface area.
func NewRouter(
	sessions *session.Registry,
	reg prometheus.Gatherer,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- global middleware (applied to every route) ---
	r.Use(chimw.Recoverer)             // recover panics, return 500
	r.Use(chimw.RealIP)                // trust X-Forwarded-For / X-Real-IP
	r.Use(chimw.RequestSize(64 << 10)) // the ping form carries no body worth reading
	r.Use(apimw.CorrelationID)         // X-Correlation-ID inject / echo
	r.Use(apimw.RequestLogger(logger))

	// --- handler instances ---
	ph := handler.NewPageHandler(sessions, logger)
	lh := handler.NewLiveHandler(sessions, logger)
	hh := handler.NewHealthHandler()

	// --- routes ---
	r.Get("/", ph.Show)
	r.Post("/ping", ph.Ping)
	r.Get("/ws", lh.Stream)

	r.Get("/livez", hh.Live)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return r
}
