//go:build windows

package tcpsock

import (
	"syscall"

	"golang.org/x/sys/windows"
)

func controlFunc(opts Options) func(network, address string, c syscall.RawConn) error {
	return func(network, address string, c syscall.RawConn) error {
		var sockErr error
		err := c.Control(func(fd uintptr) {
			h := windows.Handle(fd)
			if opts.ReuseAddress {
				if sockErr = windows.SetsockoptInt(h, windows.SOL_SOCKET, windows.SO_REUSEADDR, 1); sockErr != nil {
					return
				}
			}
			if sockErr = windows.SetsockoptLinger(h, windows.SOL_SOCKET, windows.SO_LINGER, &windows.Linger{Onoff: 1, Linger: 0}); sockErr != nil {
				return
			}
			sockErr = windows.SetsockoptInt(h, windows.IPPROTO_TCP, windows.TCP_NODELAY, 1)
		})
		if err != nil {
			return err
		}
		return sockErr
	}
}
