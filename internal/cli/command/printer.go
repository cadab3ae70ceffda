package command

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/printlink-go/internal/cli/connection"
	"github.com/yndnr/printlink-go/internal/cli/output"
	"github.com/yndnr/printlink-go/internal/core/domain"
)

const callTimeout = 30 * time.Second

var errEmptyPayload = errors.New("payload is empty")

func hostPortFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "host",
			Aliases:  []string{"H"},
			Usage:    "Printer host name or IP",
			Required: true,
		},
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "Printer TCP port",
			Value:   9100,
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Aliases: []string{"t"},
			Usage:   "Connect timeout (0 uses the server default)",
		},
	}
}

func payloadFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "data",
			Aliases: []string{"d"},
			Usage:   "Payload as given, base64 unless --encoding says otherwise",
		},
		&cli.StringFlag{
			Name:  "text",
			Usage: "Payload as plain text",
		},
		&cli.StringFlag{
			Name:    "file",
			Aliases: []string{"f"},
			Usage:   "Read raw payload bytes from FILE (- for stdin)",
		},
		&cli.StringFlag{
			Name:    "encoding",
			Aliases: []string{"e"},
			Usage:   "Payload encoding tag: base64, or any other tag for text",
		},
	}
}

// ConnectCommand returns the connect command.
func ConnectCommand() *cli.Command {
	return &cli.Command{
		Name:   "connect",
		Usage:  "Open a connection to a printer",
		Flags:  hostPortFlags(),
		Action: connectAction,
	}
}

func connectAction(c *cli.Context) error {
	client, flags, err := EnsureConnected(c)
	if err != nil {
		return err
	}
	ctx, cancel := apiContext(c, callTimeout)
	defer cancel()

	res, err := connect(ctx, client, c)
	if err != nil {
		return err
	}
	return render(c, flags, false, res, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Connected: %s\n", res.ID)
		return err
	})
}

func connect(ctx context.Context, client *connection.HTTPClient, c *cli.Context) (*connectResult, error) {
	req := connectRequest{
		Host:      c.String("host"),
		Port:      c.Int("port"),
		TimeoutMS: c.Duration("timeout").Milliseconds(),
	}
	if req.TimeoutMS < 0 {
		return nil, fmt.Errorf("--timeout must not be negative")
	}

	var res connectResult
	if err := client.Call(ctx, http.MethodPost, "/v1/connections", req, &res); err != nil {
		return nil, fmt.Errorf("connect %s:%d: %w", req.Host, req.Port, err)
	}
	return &res, nil
}

// SendCommand returns the send command.
func SendCommand() *cli.Command {
	return &cli.Command{
		Name:  "send",
		Usage: "Send a payload on an open connection",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "id",
				Usage:    "Connection id",
				Required: true,
			},
		}, payloadFlags()...),
		Action: sendAction,
	}
}

func sendAction(c *cli.Context) error {
	client, flags, err := EnsureConnected(c)
	if err != nil {
		return err
	}
	body, size, err := buildPayload(c)
	if err != nil {
		return err
	}
	ctx, cancel := apiContext(c, callTimeout)
	defer cancel()

	id := c.String("id")
	if err := sendPayload(ctx, client, id, body); err != nil {
		return err
	}
	return render(c, flags, false, map[string]any{"id": id, "success": true}, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Sent %s to %s\n", describeSize(size), id)
		return err
	})
}

func sendPayload(ctx context.Context, client *connection.HTTPClient, id string, body *sendRequest) error {
	path := "/v1/connections/" + url.PathEscape(id) + "/send"
	if err := client.Call(ctx, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("send to %s: %w", id, err)
	}
	return nil
}

// buildPayload turns the payload flags into a request body and reports the
// number of bytes the printer will receive. Exactly one of --data, --text
// or --file is required.
func buildPayload(c *cli.Context) (*sendRequest, int, error) {
	set := 0
	for _, name := range []string{"data", "text", "file"} {
		if c.IsSet(name) {
			set++
		}
	}
	if set != 1 {
		return nil, 0, fmt.Errorf("exactly one of --data, --text or --file is required")
	}

	encoding := c.String("encoding")
	switch {
	case c.IsSet("data"):
		data := c.String("data")
		raw, err := domain.DecodePayload(data, encoding)
		if err != nil {
			return nil, 0, err
		}
		if len(raw) == 0 {
			return nil, 0, errEmptyPayload
		}
		return &sendRequest{Payload: data, Encoding: encoding}, len(raw), nil

	case c.IsSet("text"):
		if encoding == "" {
			encoding = domain.EncodingUTF8
		}
		if domain.NormalizeEncoding(encoding) == domain.EncodingBase64 {
			return nil, 0, fmt.Errorf("--text cannot be combined with --encoding base64; use --data")
		}
		text := c.String("text")
		if text == "" {
			return nil, 0, errEmptyPayload
		}
		raw, _ := domain.DecodePayload(text, encoding)
		return &sendRequest{Payload: text, Encoding: encoding}, len(raw), nil

	default:
		if encoding != "" && domain.NormalizeEncoding(encoding) != domain.EncodingBase64 {
			return nil, 0, fmt.Errorf("--file is always sent as base64")
		}
		raw, err := readPayloadFile(c, c.String("file"))
		if err != nil {
			return nil, 0, err
		}
		if len(raw) == 0 {
			return nil, 0, errEmptyPayload
		}
		return &sendRequest{
			Payload:  base64.StdEncoding.EncodeToString(raw),
			Encoding: domain.EncodingBase64,
		}, len(raw), nil
	}
}

func readPayloadFile(c *cli.Context, path string) ([]byte, error) {
	if path == "-" {
		r := c.App.Reader
		if r == nil {
			r = os.Stdin
		}
		return io.ReadAll(r)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	return raw, nil
}

func describeSize(n int) string {
	if n == 1 {
		return "1 byte"
	}
	return fmt.Sprintf("%d bytes", n)
}

// DisconnectCommand returns the disconnect command.
func DisconnectCommand() *cli.Command {
	return &cli.Command{
		Name:  "disconnect",
		Usage: "Close a connection (unknown ids succeed)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "id",
				Usage:    "Connection id",
				Required: true,
			},
		},
		Action: disconnectAction,
	}
}

func disconnectAction(c *cli.Context) error {
	client, flags, err := EnsureConnected(c)
	if err != nil {
		return err
	}
	ctx, cancel := apiContext(c, callTimeout)
	defer cancel()

	id := c.String("id")
	if err := disconnect(ctx, client, id); err != nil {
		return err
	}
	return render(c, flags, false, map[string]any{"id": id, "success": true}, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Disconnected: %s\n", id)
		return err
	})
}

func disconnect(ctx context.Context, client *connection.HTTPClient, id string) error {
	if err := client.Call(ctx, http.MethodPost, "/v1/connections/"+url.PathEscape(id)+"/disconnect", nil, nil); err != nil {
		return fmt.Errorf("disconnect %s: %w", id, err)
	}
	return nil
}

// ResetCommand returns the reset command.
func ResetCommand() *cli.Command {
	return &cli.Command{
		Name:   "reset",
		Usage:  "Forcibly close every connection",
		Action: resetAction,
	}
}

func resetAction(c *cli.Context) error {
	client, flags, err := EnsureConnected(c)
	if err != nil {
		return err
	}
	ctx, cancel := apiContext(c, callTimeout)
	defer cancel()

	var res resetResult
	if err := client.Call(ctx, http.MethodPost, "/v1/connections/reset", nil, &res); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	return render(c, flags, false, res, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Cleared %d connection(s)\n", res.ClearedCount)
		return err
	})
}

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show live connections",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "wide",
				Aliases: []string{"w"},
				Usage:   "Include per-connection details",
			},
		},
		Action: statusAction,
	}
}

func statusAction(c *cli.Context) error {
	client, flags, err := EnsureConnected(c)
	if err != nil {
		return err
	}
	ctx, cancel := apiContext(c, callTimeout)
	defer cancel()

	wide := c.Bool("wide")
	path := "/v1/status"
	if wide {
		path += "?verbose=true"
	}

	var res statusResult
	if err := client.Call(ctx, http.MethodGet, path, nil, &res); err != nil {
		return fmt.Errorf("status: %w", err)
	}

	return render(c, flags, wide, res, func(w io.Writer) error {
		fmt.Fprintf(w, "Active connections: %d (server %s)\n", res.Count, res.Platform)
		if res.Count == 0 {
			return nil
		}
		fmt.Fprintln(w)
		if wide {
			return (&output.TableFormatter{Wide: true}).Format(w, res.Connections)
		}
		t := output.NewTable("ID")
		for _, id := range res.IDs {
			t.AddRow(id)
		}
		return t.Render(w)
	})
}

// PrintCommand returns the print command.
func PrintCommand() *cli.Command {
	return &cli.Command{
		Name:   "print",
		Usage:  "Connect, send one payload and disconnect",
		Flags:  append(hostPortFlags(), payloadFlags()...),
		Action: printAction,
	}
}

// printAction always disconnects once connected, even if send fails.
func printAction(c *cli.Context) (err error) {
	client, flags, err := EnsureConnected(c)
	if err != nil {
		return err
	}
	body, size, err := buildPayload(c)
	if err != nil {
		return err
	}

	var spin *output.Spinner
	if flags.Output == output.FormatTable {
		spin = output.NewSpinner(c.App.ErrWriter, fmt.Sprintf("Printing to %s:%d", c.String("host"), c.Int("port")))
		spin.Start()
		defer func() {
			if err != nil {
				spin.Fail(err.Error())
			}
		}()
	}

	ctx, cancel := apiContext(c, 2*callTimeout)
	defer cancel()

	conn, err := connect(ctx, client, c)
	if err != nil {
		return err
	}
	defer func() {
		// The job context may already have expired.
		dctx, dcancel := context.WithTimeout(context.Background(), callTimeout)
		defer dcancel()
		if derr := disconnect(dctx, client, conn.ID); derr != nil {
			err = errors.Join(err, derr)
		}
	}()

	if err = sendPayload(ctx, client, conn.ID, body); err != nil {
		return err
	}
	if spin != nil {
		spin.Stop()
	}

	res := printResult{ID: conn.ID, Host: c.String("host"), Port: c.Int("port"), BytesSent: size}
	return render(c, flags, false, res, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Printed %s to %s:%d\n", describeSize(size), res.Host, res.Port)
		return err
	})
}
