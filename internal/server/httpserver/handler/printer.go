package handler

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/yndnr/printlink-go/internal/core/domain"
	"github.com/yndnr/printlink-go/internal/core/service"
)

const maxTimeoutMS = math.MaxInt64 / int64(time.Millisecond)

// handleConnect handles POST /v1/connections.
func (h *Handler) handleConnect(w http.ResponseWriter, r *http.Request) {
	var req ConnectRequest
	if !h.decode(w, r, &req) {
		return
	}

	// Larger values wrap when converted to nanoseconds.
	if req.TimeoutMS > maxTimeoutMS {
		h.handleServiceError(w, r, domain.ErrInvalidArgument.WithDetails("timeout_ms out of range"))
		return
	}

	resp, err := h.svc.Connect(r.Context(), &service.ConnectRequest{
		Host:    req.Host,
		Port:    req.Port,
		Timeout: time.Duration(req.TimeoutMS) * time.Millisecond,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusCreated, ConnectResponse{
		ID:      resp.ID,
		Success: resp.Success,
	})
}

// handleSend handles POST /v1/connections/{id}/send.
func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if !h.decode(w, r, &req) {
		return
	}

	err := h.svc.Send(r.Context(), &service.SendRequest{
		ID:       r.PathValue("id"),
		Payload:  req.Payload,
		Encoding: req.Encoding,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, nil)
}

// handleDisconnect handles DELETE /v1/connections/{id} and
// POST /v1/connections/{id}/disconnect.
func (h *Handler) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Disconnect(r.Context(), r.PathValue("id")); err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, nil)
}

// handleReset handles POST /v1/connections/reset.
func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	resp := h.svc.ResetAll(r.Context())
	h.writeJSON(w, r, http.StatusOK, ResetResponse{
		ClearedCount: resp.Cleared,
		Message:      resp.Message,
	})
}

// handleStatus handles GET /v1/status.
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	verbose := false
	if v := r.URL.Query().Get("verbose"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			h.handleServiceError(w, r, domain.ErrInvalidArgument.WithDetails("verbose must be a boolean"))
			return
		}
		verbose = b
	}

	st := h.svc.Status(r.Context(), verbose)
	resp := StatusResponse{
		Count:    st.Count,
		IDs:      st.IDs,
		Platform: st.Platform,
	}
	if resp.IDs == nil {
		resp.IDs = []string{}
	}
	for _, c := range st.Connections {
		cr := ConnectionResponse{
			ID:        c.ID,
			Host:      c.Host,
			Port:      c.Port,
			CreatedAt: c.CreatedAt,
			BytesSent: c.BytesSent,
		}
		if !c.LastSendAt.IsZero() {
			last := c.LastSendAt
			cr.LastSendAt = &last
		}
		resp.Connections = append(resp.Connections, cr)
	}

	h.writeJSON(w, r, http.StatusOK, resp)
}
