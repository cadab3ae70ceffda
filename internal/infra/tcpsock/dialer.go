package tcpsock

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"time"

	"github.com/yndnr/printlink-go/internal/core/domain"
)

// Options configures a Dialer.
type Options struct {
	// ReuseAddress sets SO_REUSEADDR on the local socket.
	ReuseAddress bool

	// WriteTimeout bounds a single Send. Zero uses the connect timeout.
	WriteTimeout time.Duration
}

// Dialer opens configured TCP sockets to printers.
type Dialer struct {
	opts Options
}

// NewDialer creates a Dialer.
func NewDialer(opts Options) *Dialer {
	return &Dialer{opts: opts}
}

// Dial connects to host:port within timeout.
//
// A handshake that does not finish in time, or a ctx deadline, yields
// domain.ErrConnectTimeout. Any other failure yields domain.ErrConnectFailed.
// On error no descriptor is left open.
func (d *Dialer) Dial(ctx context.Context, host string, port int, timeout time.Duration) (domain.Socket, error) {
	addr := domain.JoinHostPort(host, port)

	nd := &net.Dialer{
		Timeout:   timeout,
		KeepAlive: -1,
		Control:   controlFunc(d.opts),
	}

	conn, err := nd.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, classifyDialError(err, addr, timeout)
	}

	tc, ok := conn.(*net.TCPConn)
	if !ok {
		_ = conn.Close()
		return nil, domain.ErrConnectFailed.WithDetails(fmt.Sprintf("Connection failed to %s - not a TCP connection", addr))
	}

	// Re-applied through the portable API; harmless if Control already did it.
	_ = tc.SetKeepAlive(false)
	_ = tc.SetNoDelay(true)
	_ = tc.SetLinger(0)

	ioTimeout := d.opts.WriteTimeout
	if ioTimeout <= 0 {
		ioTimeout = timeout
	}
	return newSocket(tc, ioTimeout), nil
}

func classifyDialError(err error, addr string, timeout time.Duration) error {
	if isTimeout(err) {
		return domain.ErrConnectTimeout.
			WithDetails(fmt.Sprintf("Connection timeout after %dms to %s", timeout.Milliseconds(), addr)).
			WithCause(err)
	}
	return domain.ErrConnectFailed.
		WithDetails(fmt.Sprintf("Connection failed to %s - %s", addr, describe(err))).
		WithCause(err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func describe(err error) string {
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return "connection refused"
	case errors.Is(err, syscall.EHOSTUNREACH):
		return "host unreachable"
	case errors.Is(err, syscall.ENETUNREACH):
		return "network unreachable"
	case errors.Is(err, context.Canceled):
		return "canceled"
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "unknown host " + dnsErr.Name
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Err != nil {
		return opErr.Err.Error()
	}
	return err.Error()
}
