package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yndnr/printlink-go/internal/core/domain"
	"github.com/yndnr/printlink-go/internal/core/service"
	"github.com/yndnr/printlink-go/internal/telemetry/logger"
)

// maxBodyBytes bounds request bodies. Payloads are base64 text, so this
// allows a little over 6MiB of raw print data per send.
const maxBodyBytes = 8 << 20

// PrinterService is the subset of service.PrinterService the handlers use.
type PrinterService interface {
	Connect(ctx context.Context, req *service.ConnectRequest) (*service.ConnectResponse, error)
	Send(ctx context.Context, req *service.SendRequest) error
	Disconnect(ctx context.Context, id string) error
	ResetAll(ctx context.Context) *service.ResetResponse
	Status(ctx context.Context, verbose bool) *service.StatusResponse
	ActiveConnections() int
	Accepting() bool
}

// Handler serves the printer connection API.
type Handler struct {
	svc      PrinterService
	logger   *slog.Logger
	validate *validator.Validate
	mux      *http.ServeMux
}

// New creates a new Handler backed by svc.
func New(svc PrinterService, l *slog.Logger) *Handler {
	if l == nil {
		l = slog.Default()
	}
	h := &Handler{
		svc:      svc,
		logger:   l,
		validate: newValidator(),
		mux:      http.NewServeMux(),
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /ready", h.handleReady)

	h.mux.HandleFunc("POST /v1/connections", h.handleConnect)
	h.mux.HandleFunc("POST /v1/connections/reset", h.handleReset)
	h.mux.HandleFunc("POST /v1/connections/{id}/send", h.handleSend)
	h.mux.HandleFunc("POST /v1/connections/{id}/disconnect", h.handleDisconnect)
	h.mux.HandleFunc("DELETE /v1/connections/{id}", h.handleDisconnect)
	h.mux.HandleFunc("GET /v1/status", h.handleStatus)
}

// writeJSON writes a JSON response with standard envelope format.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := getRequestID(r)
	response := NewResponse(requestID, data)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

// writeError writes an error response with standard envelope format.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	requestID := getRequestID(r)
	response := NewErrorResponse(requestID, code, message, details)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// decode reads a JSON body into dst and runs struct validation.
// It writes the error response itself and reports whether to continue.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, r, http.StatusRequestEntityTooLarge, domain.ErrInvalidArgument.Code, "request body too large", nil)
			return false
		}
		h.writeError(w, r, http.StatusBadRequest, domain.ErrInvalidArgument.Code, "invalid request body", nil)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		h.handleServiceError(w, r, validationError(err))
		return false
	}
	return true
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationError converts validator output into the matching domain error.
// A failed "required" tag means the field was absent; anything else means
// it was present but unusable.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.ErrInvalidArgument.WithCause(err)
	}
	fe := verrs[0]
	field := fe.Field()
	if fe.Tag() == "required" {
		return domain.ErrMissingArgument.WithDetails(field + " is required")
	}
	return domain.ErrInvalidArgument.WithDetails(field + " failed " + fe.Tag() + " check")
}

// getRequestID returns the id assigned by the RequestID middleware.
func getRequestID(r *http.Request) string {
	if id := logger.RequestIDFromContext(r.Context()); id != "" {
		return id
	}
	return r.Header.Get("X-Request-ID")
}

// handleServiceError converts service errors to HTTP responses.
func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var de *domain.DomainError
	if errors.As(err, &de) {
		status := de.Status()
		if status >= http.StatusInternalServerError && status != http.StatusBadGateway && status != http.StatusGatewayTimeout {
			h.logger.Error("request failed", "request_id", getRequestID(r), "code", de.Code, "error", err)
		}
		var details any
		if de.Details != "" {
			details = de.Details
		}
		h.writeError(w, r, status, de.Code, de.Message, details)
		return
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		// Client went away; the response is unlikely to be read.
		h.writeError(w, r, http.StatusServiceUnavailable, domain.ErrServiceUnavailable.Code, "request cancelled", nil)
		return
	}

	h.logger.Error("internal error", "request_id", getRequestID(r), "error", err)
	h.writeError(w, r, http.StatusInternalServerError, domain.ErrInternalServer.Code, domain.ErrInternalServer.Message, nil)
}
