package handler

import "net/http"

// HealthHandler serves this service's own liveness probe. It is not the
// backend /health endpoint that the page pings.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

// Live handles GET /livez
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
