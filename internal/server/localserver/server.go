package localserver

import (
	"bufio"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/printlink-go/internal/telemetry/logger"
)

const (
	// idleTimeout closes sessions that send nothing for this long.
	idleTimeout = 5 * time.Minute

	maxLineBytes = 4096
)

// Server represents the local management server.
type Server struct {
	listener net.Listener
	path     string
	handler  *Handler
	logger   *slog.Logger
	running  atomic.Bool
	wg       sync.WaitGroup

	mu      sync.Mutex
	closing bool
	conns   map[net.Conn]struct{}
}

// New creates a new local server.
func New(socketPath string, h *Handler, l *slog.Logger) *Server {
	if l == nil {
		l = slog.Default()
	}
	return &Server{
		path:    socketPath,
		handler: h,
		logger:  l,
		conns:   make(map[net.Conn]struct{}),
	}
}

// ListenAndServe creates the socket file and serves until Shutdown.
// A stale socket left by a previous process is removed first.
func (s *Server) ListenAndServe() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return err
	}
	if fi, err := os.Lstat(s.path); err == nil && fi.Mode()&fs.ModeSocket != 0 {
		if err := os.Remove(s.path); err != nil {
			return err
		}
	}

	ln, err := net.Listen("unix", s.path)
	if err != nil {
		return err
	}
	// Filesystem permissions are the only access control.
	if err := os.Chmod(s.path, 0o600); err != nil {
		ln.Close()
		return err
	}
	return s.Serve(ln)
}

// Serve accepts sessions on ln.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		ln.Close()
		return nil
	}
	s.listener = ln
	s.running.Store(true)
	s.mu.Unlock()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if !s.running.Load() || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return err
		}

		if !s.track(conn) {
			conn.Close()
			return nil
		}
		go func() {
			defer s.wg.Done()
			defer s.untrack(conn)
			s.handleConnection(conn)
		}()
	}
}

// Shutdown stops accepting sessions, closes open ones and waits for their
// goroutines, bounded by ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closing = true
	s.running.Store(false)
	var closeErr error
	if s.listener != nil {
		closeErr = s.listener.Close()
	}
	for c := range s.conns {
		c.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return closeErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// track registers a session and counts it on wg. Both happen under mu so
// Shutdown either sees the session or prevents it.
func (s *Server) track(c net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.conns[c] = struct{}{}
	s.wg.Add(1)
	return true
}

func (s *Server) untrack(c net.Conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
	c.Close()
}

func (s *Server) handleConnection(conn net.Conn) {
	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 256), maxLineBytes)

	for {
		conn.SetReadDeadline(time.Now().Add(idleTimeout))
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) && s.running.Load() {
				s.logger.Debug("local session ended", "error", err)
			}
			return
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		cmd, args := fields[0], fields[1:]
		if cmd == "quit" || cmd == "exit" {
			return
		}

		s.logger.Info("local command", "command", logger.RedactString(cmd), "args", len(args))
		if err := s.handler.Execute(context.Background(), conn, cmd, args); err != nil {
			if errors.Is(err, errUnknownCommand) {
				continue
			}
			s.logger.Debug("local reply failed", "error", err)
			return
		}
	}
}
