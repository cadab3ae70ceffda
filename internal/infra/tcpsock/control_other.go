//go:build !unix && !windows

package tcpsock

import "syscall"

// Options are applied after connect through net.TCPConn on these platforms.
func controlFunc(Options) func(network, address string, c syscall.RawConn) error {
	return nil
}
