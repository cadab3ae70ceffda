package localserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yndnr/printlink-go/internal/core/domain"
	"github.com/yndnr/printlink-go/internal/core/service"
	"github.com/yndnr/printlink-go/internal/telemetry/logger"
)

// PrinterService is the subset of service.PrinterService the admin
// commands use.
type PrinterService interface {
	Disconnect(ctx context.Context, id string) error
	ResetAll(ctx context.Context) *service.ResetResponse
	Status(ctx context.Context, verbose bool) *service.StatusResponse
}

// errUnknownCommand is returned for unrecognised commands.
var errUnknownCommand = errors.New("unknown command")

const helpText = `commands:
  status              count and ids of live connections
  reset               close every connection
  disconnect <id>     close one connection
  loglevel [level]    show or set the log level (debug|info|warn|error)
  ping                liveness check
  help                this text
  quit                close the session`

// Handler handles local management commands.
type Handler struct {
	svc PrinterService
}

// NewHandler creates a new Handler.
func NewHandler(svc PrinterService) *Handler {
	return &Handler{svc: svc}
}

// Execute runs one command and writes a single-line (or help) reply.
// The returned error is only for write failures and unknown commands.
func (h *Handler) Execute(ctx context.Context, w io.Writer, cmd string, args []string) error {
	var reply string
	switch strings.ToLower(cmd) {
	case "status":
		reply = h.handleStatus(ctx)
	case "reset":
		reply = h.handleReset(ctx)
	case "disconnect":
		reply = h.handleDisconnect(ctx, args)
	case "loglevel":
		reply = h.handleLogLevel(args)
	case "ping":
		reply = "pong"
	case "help":
		reply = helpText
	default:
		if _, err := fmt.Fprintf(w, "error: unknown command: %s\n", cmd); err != nil {
			return err
		}
		return fmt.Errorf("%w: %s", errUnknownCommand, cmd)
	}
	_, err := io.WriteString(w, reply+"\n")
	return err
}

func (h *Handler) handleStatus(ctx context.Context) string {
	st := h.svc.Status(ctx, false)
	return "count=" + strconv.Itoa(st.Count) + " ids=" + strings.Join(st.IDs, ",")
}

func (h *Handler) handleReset(ctx context.Context) string {
	resp := h.svc.ResetAll(ctx)
	return "cleared=" + strconv.Itoa(resp.Cleared)
}

func (h *Handler) handleDisconnect(ctx context.Context, args []string) string {
	if len(args) == 0 {
		return errorLine(domain.ErrMissingArgument.WithDetails("id is required"))
	}
	if err := h.svc.Disconnect(ctx, args[0]); err != nil {
		return errorLine(err)
	}
	return "ok"
}

func (h *Handler) handleLogLevel(args []string) string {
	if len(args) == 0 {
		return "level=" + logger.GetLevel()
	}
	if err := logger.SetLevel(args[0]); err != nil {
		return errorLine(domain.ErrInvalidArgument.WithDetails(err.Error()))
	}
	return "ok"
}

func errorLine(err error) string {
	return "error: " + err.Error()
}
