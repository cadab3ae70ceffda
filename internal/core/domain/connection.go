package domain

import (
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Connection defaults and limits.
const (
	// DefaultConnectTimeout applies when the caller does not supply one.
	DefaultConnectTimeout = 5000 * time.Millisecond

	// MinPort and MaxPort bound a valid TCP port.
	MinPort = 1
	MaxPort = 65535
)

// Socket is the transport handle owned by a registered Connection.
//
// Implementations must make Close safe to call more than once; only the
// first call releases the descriptor.
type Socket interface {
	// Send writes all of p, bounded by the socket's I/O timeout.
	Send(p []byte) (int, error)

	// CloseWrite shuts down the outbound direction.
	CloseWrite() error

	// CloseRead shuts down the inbound direction.
	CloseRead() error

	// Close releases the socket.
	Close() error

	// IsClosed reports whether Close has been called.
	IsClosed() bool

	// RemoteAddr returns the printer's address.
	RemoteAddr() net.Addr
}

// Connection is a fully established printer connection.
//
// A Connection is only ever created after a successful handshake, and it is
// never updated in place: reconnecting produces a new Connection with a new
// ID. The send statistics are the only mutable fields.
type Connection struct {
	// ID is the caller-visible handle. Format: UUID v4, never reused.
	ID string

	// Host and Port identify the printer as requested by the caller.
	Host string
	Port int

	// Timeout is the establishment deadline, also used for send I/O.
	Timeout time.Duration

	// CreatedAt is when the handshake completed.
	CreatedAt time.Time

	// Socket is owned by the registry once the connection is registered.
	Socket Socket

	sendMu     sync.Mutex
	bytesSent  atomic.Int64
	lastSendAt atomic.Int64 // Unix milliseconds, 0 = never
}

// NewConnectionID generates a new connection id.
func NewConnectionID() string {
	return uuid.NewString()
}

// NewConnection wraps an established socket.
func NewConnection(id, host string, port int, timeout time.Duration, sock Socket) *Connection {
	return &Connection{
		ID:        id,
		Host:      host,
		Port:      port,
		Timeout:   timeout,
		CreatedAt: time.Now(),
		Socket:    sock,
	}
}

// Address returns "host:port".
func (c *Connection) Address() string {
	return JoinHostPort(c.Host, c.Port)
}

// Write sends p on the connection's socket.
//
// Writes on one connection are serialized so that two concurrent sends
// cannot interleave their bytes on the wire.
func (c *Connection) Write(p []byte) (int, error) {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()

	n, err := c.Socket.Send(p)
	if n > 0 {
		c.bytesSent.Add(int64(n))
		c.lastSendAt.Store(time.Now().UnixMilli())
	}
	return n, err
}

// BytesSent returns the number of bytes written so far.
func (c *Connection) BytesSent() int64 {
	return c.bytesSent.Load()
}

// LastSendAt returns the time of the last successful write, or the zero
// time if nothing was sent yet.
func (c *Connection) LastSendAt() time.Time {
	ms := c.lastSendAt.Load()
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// IsOpen reports whether the underlying socket is still open.
func (c *Connection) IsOpen() bool {
	return c.Socket != nil && !c.Socket.IsClosed()
}

// JoinHostPort formats a printer address.
func JoinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
