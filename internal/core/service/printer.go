package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/yndnr/printlink-go/internal/core/domain"
	"github.com/yndnr/printlink-go/internal/telemetry/logger"
	"github.com/yndnr/printlink-go/internal/telemetry/metric"
)

// Dialer opens printer sockets.
type Dialer interface {
	// Dial connects to host:port, failing after timeout. The returned
	// socket is fully established.
	Dial(ctx context.Context, host string, port int, timeout time.Duration) (domain.Socket, error)
}

// ConnectionRegistry defines the storage interface for live connections.
type ConnectionRegistry interface {
	// Insert registers an established connection.
	Insert(conn *domain.Connection) error

	// Lookup returns a connection without removing it.
	Lookup(id string) (*domain.Connection, bool)

	// Remove atomically removes and returns a connection.
	Remove(id string) (*domain.Connection, bool)

	// DrainAll atomically removes and returns every connection.
	DrainAll() []*domain.Connection

	// Size returns the number of registered connections.
	Size() int

	// Connections returns a consistent snapshot of registered connections.
	Connections() []*domain.Connection
}

// PrinterServiceConfig holds the limits applied by PrinterService.
type PrinterServiceConfig struct {
	// DefaultTimeout applies when a connect request carries none.
	DefaultTimeout time.Duration

	// MaxTimeout rejects larger caller timeouts. Zero disables the check.
	MaxTimeout time.Duration

	// MaxConnections caps registered plus in-progress connections.
	// Zero means unlimited.
	MaxConnections int
}

// DefaultPrinterServiceConfig returns the default limits.
func DefaultPrinterServiceConfig() PrinterServiceConfig {
	return PrinterServiceConfig{
		DefaultTimeout: domain.DefaultConnectTimeout,
		MaxTimeout:     60 * time.Second,
	}
}

// Teardown reasons.
const (
	reasonDisconnect  = "disconnect"
	reasonReset       = "reset"
	reasonSendFailure = "send_failure"
	reasonOrphan      = "orphan"
	reasonStale       = "stale"
)

// ResetMessage is returned by a successful ResetAll.
const ResetMessage = "All connections cleared successfully"

// PrinterService manages the lifecycle of printer connections.
type PrinterService struct {
	registry ConnectionRegistry
	dialer   Dialer
	exec     *Executor
	cfg      PrinterServiceConfig
	slots    *semaphore.Weighted
	metrics  *metric.Registry
	log      logger.Logger
}

// Option configures a PrinterService.
type Option func(*PrinterService)

// WithExecutor sets the executor used for units of work.
func WithExecutor(e *Executor) Option {
	return func(s *PrinterService) {
		s.exec = e
	}
}

// WithMetrics sets the metrics registry.
func WithMetrics(m *metric.Registry) Option {
	return func(s *PrinterService) {
		s.metrics = m
	}
}

// WithLogger sets the service logger.
func WithLogger(l logger.Logger) Option {
	return func(s *PrinterService) {
		s.log = l
	}
}

// NewPrinterService creates a new PrinterService.
func NewPrinterService(registry ConnectionRegistry, dialer Dialer, cfg PrinterServiceConfig, opts ...Option) *PrinterService {
	if cfg.DefaultTimeout <= 0 {
		cfg.DefaultTimeout = domain.DefaultConnectTimeout
	}

	s := &PrinterService{
		registry: registry,
		dialer:   dialer,
		cfg:      cfg,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.exec == nil {
		s.exec = NewExecutor(0)
	}
	if s.log == nil {
		s.log = logger.Default()
	}
	if cfg.MaxConnections > 0 {
		s.slots = semaphore.NewWeighted(int64(cfg.MaxConnections))
	}
	return s
}

// ============================================================================
// Connect Operation
// ============================================================================

// ConnectRequest contains parameters for opening a printer connection.
type ConnectRequest struct {
	Host    string        // Required
	Port    int           // Required, 1-65535
	Timeout time.Duration // Optional, defaults to config value
}

// ConnectResponse contains the result of a connect.
type ConnectResponse struct {
	ID      string
	Success bool
}

// Connect opens a connection to a printer and registers it.
//
// The connection is registered only once the handshake has completed. On
// timeout or failure nothing is registered and the socket is released.
func (s *PrinterService) Connect(ctx context.Context, req *ConnectRequest) (*ConnectResponse, error) {
	// 1. Validate input
	timeout, err := s.validateConnect(req)
	if err != nil {
		s.metrics.RecordConnect("invalid")
		return nil, err
	}
	host := strings.TrimSpace(req.Host)

	// 2. Reserve a slot
	if !s.acquireSlot() {
		s.metrics.RecordConnect("rejected")
		return nil, domain.ErrCapacityExceeded.WithDetails(fmt.Sprintf("max_connections=%d", s.cfg.MaxConnections))
	}

	// 3. Establish as an independent unit of work
	l := s.logFor(ctx)
	start := time.Now()
	ch, err := Submit(s.exec, func(ctx context.Context) (*domain.Connection, error) {
		return s.establish(ctx, l, host, req.Port, timeout)
	})
	if err != nil {
		s.releaseSlot()
		return nil, err
	}

	select {
	case o := <-ch:
		s.metrics.ObserveOperation("connect", time.Since(start).Seconds())
		if o.Err != nil {
			return nil, o.Err
		}
		return &ConnectResponse{ID: o.Value.ID, Success: true}, nil
	case <-ctx.Done():
		go s.reclaimOrphan(ch)
		return nil, ctx.Err()
	}
}

func (s *PrinterService) validateConnect(req *ConnectRequest) (time.Duration, error) {
	if req == nil {
		return 0, domain.ErrMissingArgument.WithDetails("request is required")
	}
	if strings.TrimSpace(req.Host) == "" {
		return 0, domain.ErrMissingArgument.WithDetails("host is required")
	}
	if req.Port == 0 {
		return 0, domain.ErrMissingArgument.WithDetails("port is required")
	}
	if req.Port < domain.MinPort || req.Port > domain.MaxPort {
		return 0, domain.ErrInvalidArgument.WithDetails(fmt.Sprintf("port must be between %d and %d", domain.MinPort, domain.MaxPort))
	}

	timeout := req.Timeout
	switch {
	case timeout == 0:
		timeout = s.cfg.DefaultTimeout
	case timeout < 0:
		return 0, domain.ErrInvalidArgument.WithDetails("timeout must be positive")
	case s.cfg.MaxTimeout > 0 && timeout > s.cfg.MaxTimeout:
		return 0, domain.ErrInvalidArgument.WithDetails(fmt.Sprintf("timeout exceeds maximum of %dms", s.cfg.MaxTimeout.Milliseconds()))
	}
	return timeout, nil
}

func (s *PrinterService) establish(ctx context.Context, l logger.Logger, host string, port int, timeout time.Duration) (*domain.Connection, error) {
	sock, err := s.dialer.Dial(ctx, host, port, timeout)
	if err != nil {
		s.releaseSlot()
		err = classifyConnectError(err, host, port, timeout)
		if errors.Is(err, domain.ErrConnectTimeout) {
			s.metrics.RecordConnect("timeout")
		} else {
			s.metrics.RecordConnect("error")
		}
		l.Warn("printer connect failed", "host", host, "port", port, "error", err)
		return nil, err
	}

	conn := domain.NewConnection(domain.NewConnectionID(), host, port, timeout, sock)
	if err := s.registry.Insert(conn); err != nil {
		s.bestEffort(l, conn, "close", sock.Close)
		s.releaseSlot()
		s.metrics.RecordConnect("error")
		l.Error("connection registration failed", "conn_id", conn.ID, "error", err)
		return nil, err
	}

	s.metrics.RecordConnect("ok")
	l.Info("printer connected", "conn_id", conn.ID, "host", host, "port", port)
	return conn, nil
}

// classifyConnectError maps dialer errors onto the connect taxonomy.
func classifyConnectError(err error, host string, port int, timeout time.Duration) error {
	if domain.IsDomainError(err, "") {
		return err
	}
	addr := domain.JoinHostPort(host, port)
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return domain.ErrConnectTimeout.
			WithDetails(fmt.Sprintf("Connection timeout after %dms to %s", timeout.Milliseconds(), addr)).
			WithCause(err)
	}
	return domain.ErrConnectFailed.
		WithDetails(fmt.Sprintf("Connection failed to %s - %v", addr, err)).
		WithCause(err)
}

// reclaimOrphan tears down a connection whose caller stopped waiting.
func (s *PrinterService) reclaimOrphan(ch <-chan Outcome[*domain.Connection]) {
	o := <-ch
	if o.Err != nil || o.Value == nil {
		return
	}
	if conn, ok := s.registry.Remove(o.Value.ID); ok {
		s.teardown(s.log, conn, reasonOrphan)
	}
}

// ============================================================================
// Send Operation
// ============================================================================

// SendRequest contains parameters for sending data to a printer.
type SendRequest struct {
	ID       string // Required
	Payload  string // Required
	Encoding string // Optional, "base64" (default) or any other tag for text
}

// Send writes a payload to a registered connection.
//
// A decode failure leaves the connection registered. A write failure
// removes and closes the connection before the error is returned.
func (s *PrinterService) Send(ctx context.Context, req *SendRequest) error {
	// 1. Validate input
	if req == nil || req.ID == "" {
		return domain.ErrMissingArgument.WithDetails("id is required")
	}
	if req.Payload == "" {
		return domain.ErrMissingArgument.WithDetails("payload is required")
	}

	l := s.logFor(ctx).With("conn_id", req.ID)

	// 2. Lookup
	conn, ok := s.registry.Lookup(req.ID)
	if !ok {
		s.metrics.RecordSend("not_found", 0)
		return domain.ErrConnectionNotFound.WithDetails(req.ID)
	}
	if !conn.IsOpen() {
		if removed, ok := s.registry.Remove(req.ID); ok {
			s.teardown(l, removed, reasonStale)
		}
		s.metrics.RecordSend("not_found", 0)
		return domain.ErrConnectionNotFound.WithDetails(req.ID)
	}

	// 3. Decode
	data, err := domain.DecodePayload(req.Payload, req.Encoding)
	if err != nil {
		s.metrics.RecordSend("invalid", 0)
		return err
	}

	// 4. Write as an independent unit of work
	start := time.Now()
	_, err = Run(ctx, s.exec, func(context.Context) (int, error) {
		n, err := conn.Write(data)
		if err != nil {
			removed, ok := s.registry.Remove(conn.ID)
			if !ok {
				// Torn down by a concurrent disconnect or reset.
				s.metrics.RecordSend("not_found", n)
				return n, domain.ErrConnectionNotFound.WithDetails(conn.ID).WithCause(err)
			}
			s.teardown(l, removed, reasonSendFailure)
			s.metrics.RecordSend("failed", n)
			l.Warn("printer send failed", "written", n, "size", len(data), "error", err)
			return n, domain.ErrSendFailed.WithDetails(err.Error()).WithCause(err)
		}
		s.metrics.RecordSend("ok", n)
		s.metrics.ObserveOperation("send", time.Since(start).Seconds())
		l.Debug("printer send", "size", n)
		return n, nil
	})
	return err
}

// ============================================================================
// Disconnect Operation
// ============================================================================

// Disconnect removes and closes a connection. Unknown ids succeed.
func (s *PrinterService) Disconnect(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrMissingArgument.WithDetails("id is required")
	}

	conn, ok := s.registry.Remove(id)
	if !ok {
		return nil
	}
	s.runTeardown(ctx, s.logFor(ctx), []*domain.Connection{conn}, reasonDisconnect)
	return nil
}

// ============================================================================
// Reset Operation
// ============================================================================

// ResetResponse contains the result of a reset.
type ResetResponse struct {
	Cleared int
	Message string
}

// ResetAll removes every registered connection and closes each one.
//
// It never fails: the registry is emptied atomically before any socket is
// touched, and teardown errors are logged and counted only.
func (s *PrinterService) ResetAll(ctx context.Context) *ResetResponse {
	start := time.Now()
	drained := s.registry.DrainAll()

	l := s.logFor(ctx)
	s.runTeardown(ctx, l, drained, reasonReset)
	s.metrics.ObserveOperation("reset", time.Since(start).Seconds())
	l.Info("all connections reset", "cleared", len(drained))

	return &ResetResponse{
		Cleared: len(drained),
		Message: ResetMessage,
	}
}

// ============================================================================
// Status Operation
// ============================================================================

// ConnectionInfo describes one registered connection.
type ConnectionInfo struct {
	ID         string
	Host       string
	Port       int
	CreatedAt  time.Time
	LastSendAt time.Time
	BytesSent  int64
}

// StatusResponse is a point-in-time view of the registry.
type StatusResponse struct {
	Count       int
	IDs         []string
	Platform    string
	Connections []ConnectionInfo // Only when verbose
}

// Status returns a consistent snapshot of the registered connections.
func (s *PrinterService) Status(_ context.Context, verbose bool) *StatusResponse {
	conns := s.registry.Connections()

	ids := make([]string, len(conns))
	for i, c := range conns {
		ids[i] = c.ID
	}
	sort.Strings(ids)

	resp := &StatusResponse{
		Count:    len(ids),
		IDs:      ids,
		Platform: runtime.GOOS,
	}
	if verbose {
		resp.Connections = make([]ConnectionInfo, len(conns))
		for i, c := range conns {
			resp.Connections[i] = ConnectionInfo{
				ID:         c.ID,
				Host:       c.Host,
				Port:       c.Port,
				CreatedAt:  c.CreatedAt,
				LastSendAt: c.LastSendAt(),
				BytesSent:  c.BytesSent(),
			}
		}
	}
	return resp
}

// ActiveConnections returns the number of registered connections.
func (s *PrinterService) ActiveConnections() int {
	return s.registry.Size()
}

// Accepting reports whether new operations can still be scheduled.
func (s *PrinterService) Accepting() bool {
	return !s.exec.Closed()
}

// Shutdown resets every connection and stops the executor.
func (s *PrinterService) Shutdown(ctx context.Context) error {
	s.ResetAll(ctx)
	err := s.exec.Close(ctx)

	// Connects that completed after the first reset.
	for _, conn := range s.registry.DrainAll() {
		s.teardown(s.log, conn, reasonReset)
	}
	return err
}

// ============================================================================
// Helpers
// ============================================================================

func (s *PrinterService) logFor(ctx context.Context) logger.Logger {
	if attrs := logger.ContextAttrs(ctx); len(attrs) > 0 {
		return s.log.With(attrs...)
	}
	return s.log
}

func (s *PrinterService) acquireSlot() bool {
	if s.slots == nil {
		return true
	}
	return s.slots.TryAcquire(1)
}

func (s *PrinterService) releaseSlot() {
	if s.slots != nil {
		s.slots.Release(1)
	}
}
