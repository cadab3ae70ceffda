package command

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/urfave/cli/v2"
)

const probeTimeout = 10 * time.Second

// SystemCommand returns the system subcommand group.
func SystemCommand() *cli.Command {
	return &cli.Command{
		Name:    "system",
		Aliases: []string{"sys"},
		Usage:   "Server health commands",
		Subcommands: []*cli.Command{
			{
				Name:   "health",
				Usage:  "Check server health",
				Action: probeAction("/health", "healthy"),
			},
			{
				Name:   "ready",
				Usage:  "Check whether the server accepts new work",
				Action: probeAction("/ready", "ready"),
			},
		},
	}
}

// probeAction queries a health endpoint. A non-2xx reply is returned as
// an error so scripts can rely on the exit code.
func probeAction(path, want string) cli.ActionFunc {
	return func(c *cli.Context) error {
		client, flags, err := EnsureConnected(c)
		if err != nil {
			return err
		}
		ctx, cancel := apiContext(c, probeTimeout)
		defer cancel()

		var res healthResult
		if err := client.Call(ctx, http.MethodGet, path, nil, &res); err != nil {
			return fmt.Errorf("server at %s is not %s: %w", client.BaseURL(), want, err)
		}

		return render(c, flags, false, res, func(w io.Writer) error {
			if res.Status != want {
				fmt.Fprintf(w, "✗ Server status: %s\n", res.Status)
				return nil
			}
			fmt.Fprintf(w, "✓ Server is %s\n", want)
			fmt.Fprintf(w, "  Target:      %s\n", client.BaseURL())
			fmt.Fprintf(w, "  Version:     %s\n", res.Version)
			fmt.Fprintf(w, "  Connections: %d\n", res.Connections)
			return nil
		})
	}
}
