package service

import (
	"context"
	"errors"
	"net"
	"syscall"

	"github.com/yndnr/printlink-go/internal/core/domain"
	"github.com/yndnr/printlink-go/internal/telemetry/logger"
)

// runTeardown closes conns on the executor and waits for it, or for ctx.
// Once the executor is closed the teardown runs on the calling goroutine.
func (s *PrinterService) runTeardown(ctx context.Context, l logger.Logger, conns []*domain.Connection, reason string) {
	if len(conns) == 0 {
		return
	}

	fn := func(context.Context) (struct{}, error) {
		for _, conn := range conns {
			s.teardown(l, conn, reason)
		}
		return struct{}{}, nil
	}

	ch, err := Submit(s.exec, fn)
	if err != nil {
		_, _ = fn(ctx)
		return
	}
	_, _ = Await(ctx, ch)
}

// teardown runs the ordered shutdown on a connection that the caller has
// removed from the registry: CloseWrite, CloseRead, then Close. Every step
// runs even if an earlier one failed.
func (s *PrinterService) teardown(l logger.Logger, conn *domain.Connection, reason string) {
	defer s.releaseSlot()

	sock := conn.Socket
	if sock != nil && !sock.IsClosed() {
		s.bestEffort(l, conn, "close_write", sock.CloseWrite)
		s.bestEffort(l, conn, "close_read", sock.CloseRead)
		s.bestEffort(l, conn, "close", sock.Close)
	}

	s.metrics.RecordTeardown(reason)
	l.Info("connection closed", "conn_id", conn.ID, "reason", reason, "bytes_sent", conn.BytesSent())
}

// bestEffort runs a cleanup step, logging and counting its error.
func (s *PrinterService) bestEffort(l logger.Logger, conn *domain.Connection, step string, fn func() error) {
	err := fn()
	if err == nil {
		return
	}

	s.metrics.RecordTeardownStepError(step)
	if isExpectedCloseError(err) {
		l.Debug("teardown step failed", "conn_id", conn.ID, "step", step, "error", err)
		return
	}
	l.Warn("teardown step failed", "conn_id", conn.ID, "step", step, "error", err)
}

// isExpectedCloseError reports errors that are normal on a socket the
// printer has already dropped.
func isExpectedCloseError(err error) bool {
	return errors.Is(err, net.ErrClosed) ||
		errors.Is(err, syscall.ENOTCONN) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE)
}
