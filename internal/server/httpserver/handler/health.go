package handler

import (
	"net/http"
	"time"

	"github.com/yndnr/printlink-go/internal/core/domain"
	"github.com/yndnr/printlink-go/internal/infra/buildinfo"
)

// handleHealth handles GET /health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, HealthResponse{
		Status:      "healthy",
		Version:     buildinfo.Version,
		Connections: h.svc.ActiveConnections(),
		Time:        time.Now().UTC().Format(time.RFC3339),
	})
}

// handleReady handles GET /ready.
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if !h.svc.Accepting() {
		h.writeError(w, r, http.StatusServiceUnavailable, domain.ErrServiceUnavailable.Code, "shutting down", nil)
		return
	}
	h.writeJSON(w, r, http.StatusOK, HealthResponse{
		Status:      "ready",
		Version:     buildinfo.Version,
		Connections: h.svc.ActiveConnections(),
		Time:        time.Now().UTC().Format(time.RFC3339),
	})
}
