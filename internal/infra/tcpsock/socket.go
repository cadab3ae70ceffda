package tcpsock

import (
	"net"
	"sync/atomic"
	"time"
)

type socket struct {
	conn      *net.TCPConn
	ioTimeout time.Duration
	closed    atomic.Bool
}

func newSocket(conn *net.TCPConn, ioTimeout time.Duration) *socket {
	return &socket{conn: conn, ioTimeout: ioTimeout}
}

// Send writes all of p. A short write is reported together with its error.
func (s *socket) Send(p []byte) (int, error) {
	if s.closed.Load() {
		return 0, net.ErrClosed
	}
	if s.ioTimeout > 0 {
		if err := s.conn.SetWriteDeadline(time.Now().Add(s.ioTimeout)); err != nil {
			return 0, err
		}
	}
	return s.conn.Write(p)
}

func (s *socket) CloseWrite() error {
	if s.closed.Load() {
		return nil
	}
	return s.conn.CloseWrite()
}

func (s *socket) CloseRead() error {
	if s.closed.Load() {
		return nil
	}
	return s.conn.CloseRead()
}

func (s *socket) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.conn.Close()
}

func (s *socket) IsClosed() bool {
	return s.closed.Load()
}

func (s *socket) RemoteAddr() net.Addr {
	return s.conn.RemoteAddr()
}
