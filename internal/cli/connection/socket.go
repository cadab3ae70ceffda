package connection

import (
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

// SocketClient talks to the server's local admin socket.
//
// Each Execute opens a session, sends one command followed by "quit", and
// reads until the server closes the session, so multi-line replies such
// as "help" come back whole.
type SocketClient struct {
	path    string
	timeout time.Duration
}

// NewSocketClient creates a new socket client.
func NewSocketClient(socketPath string) *SocketClient {
	return &SocketClient{path: socketPath, timeout: 10 * time.Second}
}

// Path returns the socket path.
func (c *SocketClient) Path() string {
	return c.path
}

// Execute sends a command and returns the reply without its trailing newline.
// A reply starting with "error: " is returned as an error.
func (c *SocketClient) Execute(ctx context.Context, command string) (string, error) {
	if strings.ContainsAny(command, "\r\n") {
		return "", fmt.Errorf("command must be a single line")
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", c.path)
	if err != nil {
		return "", fmt.Errorf("dial %s: %w", c.path, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(c.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	conn.SetDeadline(deadline)

	if _, err := io.WriteString(conn, command+"\nquit\n"); err != nil {
		return "", fmt.Errorf("write command: %w", err)
	}

	raw, err := io.ReadAll(conn)
	if err != nil {
		return "", fmt.Errorf("read reply: %w", err)
	}

	reply := strings.TrimRight(string(raw), "\n")
	if msg, ok := strings.CutPrefix(reply, "error: "); ok {
		return "", fmt.Errorf("%s", msg)
	}
	return reply, nil
}
