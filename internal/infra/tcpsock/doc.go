// Package tcpsock dials printer sockets.
//
// Every socket is configured for short-lived raw printing before the
// handshake starts:
//
//   - SO_REUSEADDR on (configurable)
//   - SO_LINGER on with a zero timeout, so Close resets instead of lingering
//   - TCP_NODELAY on
//   - SO_KEEPALIVE off
//
// Sockets returned by a Dialer implement domain.Socket. Close is idempotent
// and the half-close methods become no-ops after Close.
package tcpsock
