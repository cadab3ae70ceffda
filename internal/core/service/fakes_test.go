package service

import (
	"context"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yndnr/printlink-go/internal/core/domain"
	"github.com/yndnr/printlink-go/internal/storage/memory"
	"github.com/yndnr/printlink-go/internal/telemetry/logger"
	"github.com/yndnr/printlink-go/internal/telemetry/metric"
)

type fakeSocket struct {
	mu      sync.Mutex
	steps   []string
	written []byte

	sendErr  error
	stepErr  error
	closed   atomic.Bool
	shutdown atomic.Int32 // CloseWrite calls
}

func (s *fakeSocket) record(step string) {
	s.mu.Lock()
	s.steps = append(s.steps, step)
	s.mu.Unlock()
}

func (s *fakeSocket) Send(p []byte) (int, error) {
	if s.closed.Load() {
		return 0, net.ErrClosed
	}
	if s.sendErr != nil {
		return 0, s.sendErr
	}
	s.mu.Lock()
	s.written = append(s.written, p...)
	s.mu.Unlock()
	return len(p), nil
}

func (s *fakeSocket) CloseWrite() error {
	s.shutdown.Add(1)
	s.record("close_write")
	return s.stepErr
}

func (s *fakeSocket) CloseRead() error {
	s.record("close_read")
	return s.stepErr
}

func (s *fakeSocket) Close() error {
	s.record("close")
	s.closed.Store(true)
	return s.stepErr
}

func (s *fakeSocket) IsClosed() bool       { return s.closed.Load() }
func (s *fakeSocket) RemoteAddr() net.Addr { return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 9100} }

func (s *fakeSocket) Steps() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.steps...)
}

func (s *fakeSocket) Written() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.written...)
}

type dialCall struct {
	host    string
	port    int
	timeout time.Duration
}

type fakeDialer struct {
	mu      sync.Mutex
	calls   []dialCall
	sockets []*fakeSocket

	// dial overrides the default behaviour of returning a fresh fakeSocket.
	dial func(ctx context.Context, host string, port int, timeout time.Duration) (domain.Socket, error)

	// newSocket customises sockets created by the default behaviour.
	newSocket func() *fakeSocket
}

func (d *fakeDialer) Dial(ctx context.Context, host string, port int, timeout time.Duration) (domain.Socket, error) {
	d.mu.Lock()
	d.calls = append(d.calls, dialCall{host, port, timeout})
	d.mu.Unlock()

	if d.dial != nil {
		return d.dial(ctx, host, port, timeout)
	}

	sock := &fakeSocket{}
	if d.newSocket != nil {
		sock = d.newSocket()
	}
	d.mu.Lock()
	d.sockets = append(d.sockets, sock)
	d.mu.Unlock()
	return sock, nil
}

func (d *fakeDialer) Calls() []dialCall {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]dialCall(nil), d.calls...)
}

func (d *fakeDialer) Sockets() []*fakeSocket {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*fakeSocket(nil), d.sockets...)
}

func newTestLogger(t *testing.T) logger.Logger {
	t.Helper()
	l, err := logger.New(logger.Config{Level: "debug", Format: "json", Output: io.Discard})
	require.NoError(t, err)
	return l
}

func newTestService(t *testing.T, d Dialer, cfg PrinterServiceConfig) (*PrinterService, *memory.Registry) {
	t.Helper()
	reg := memory.NewRegistry()
	svc := NewPrinterService(reg, d, cfg,
		WithLogger(newTestLogger(t)),
		WithMetrics(metric.NewRegistry()),
	)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = svc.Shutdown(ctx)
	})
	return svc, reg
}

func mustConnect(t *testing.T, svc *PrinterService) string {
	t.Helper()
	resp, err := svc.Connect(context.Background(), &ConnectRequest{Host: "127.0.0.1", Port: 9100})
	require.NoError(t, err)
	require.True(t, resp.Success)
	return resp.ID
}

var errBrokenPipe = errors.New("write: broken pipe")
