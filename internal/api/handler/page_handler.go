package handler

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	apimw "github.com/grillz/web/internal/api/middleware"
	"github.com/grillz/web/internal/session"
	"github.com/grillz/web/internal/ui"
	"github.com/grillz/web/internal/view"
)

// PageHandler serves the smoke-test page and its ping form.
type PageHandler struct {
	sessions *session.Registry
	logger   *zap.Logger
}

func NewPageHandler(sessions *session.Registry, logger *zap.Logger) *PageHandler {
	return &PageHandler{sessions: sessions, logger: logger}
}

// Show handles GET /
func (h *PageHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, v := h.sessions.Acquire(sessionID(r))
	setSessionCookie(w, r, id)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := ui.Page(w, view.Render(v.State())); err != nil {
		apimw.Logger(r.Context(), h.logger).Error("render page failed", zap.Error(err))
	}
}

// Ping handles POST /ping
//
// The action runs in the background and the browser is redirected back to
// the page, which shows the in-flight state and is refreshed over /ws.
// With ?wait=1 the redirect happens only after settlement. A client that
// disconnects while waiting does not cancel the ping.
func (h *PageHandler) Ping(w http.ResponseWriter, r *http.Request) {
	id, v := h.sessions.Acquire(sessionID(r))
	setSessionCookie(w, r, id)

	var err error
	if r.URL.Query().Get("wait") == "1" {
		_, err = v.Ping(r.Context())
	} else {
		err = v.Start()
	}

	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// Client went away; the ping still settles into the view.
		return
	case errors.Is(err, view.ErrInFlight):
		// Stale page submitted while a ping is outstanding; the button
		// would have been disabled, so there is nothing to do.
		h.logger.Debug("ping ignored: already in flight", zap.String("session", id))
	default:
		apimw.Logger(r.Context(), h.logger).Warn("ping failed to start", zap.Error(err))
		mapError(w, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
