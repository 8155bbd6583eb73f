package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/grillz/web/internal/session"
	"github.com/grillz/web/internal/ui"
	"github.com/grillz/web/internal/view"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// LiveHandler pushes the re-rendered panel to an open page every time its
// view's state changes.
type LiveHandler struct {
	sessions *session.Registry
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewLiveHandler(sessions *session.Registry, logger *zap.Logger) *LiveHandler {
	return &LiveHandler{
		sessions: sessions,
		upgrader: websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 4096},
		logger:   logger,
	}
}

// Stream handles GET /ws
func (h *LiveHandler) Stream(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	v, err := h.sessions.Lookup(id)
	if err != nil {
		mapError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error.
		h.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	updates, unsubscribe := v.Subscribe()
	defer unsubscribe()

	// The page never sends anything; reading only detects the close.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := h.push(conn, v.State()); err != nil {
		return
	}

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-gone:
			return
		case s, ok := <-updates:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"),
					time.Now().Add(writeWait))
				return
			}
			h.sessions.Touch(id)
			if err := h.push(conn, s); err != nil {
				return
			}
		case <-ticker.C:
			h.sessions.Touch(id)
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (h *LiveHandler) push(conn *websocket.Conn, s view.State) error {
	panel, err := ui.Panel(view.Render(s))
	if err != nil {
		h.logger.Error("render panel failed", zap.Error(err))
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, panel); err != nil {
		h.logger.Debug("websocket write failed", zap.Error(err))
		return err
	}
	return nil
}
