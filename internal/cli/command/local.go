package command

import (
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/printlink-go/internal/cli/connection"
)

// LocalCommand returns the local command, which talks to the server's
// admin socket instead of the HTTP API.
func LocalCommand() *cli.Command {
	return &cli.Command{
		Name:      "local",
		Usage:     "Run an admin command over the local socket",
		ArgsUsage: "COMMAND [ARGS...]",
		Description: "Commands: status, reset, disconnect <id>, loglevel [level], ping, help.\n" +
			"Requires filesystem access to the socket; no token is used.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "socket",
				Usage:   "Admin socket path",
				EnvVars: []string{"PRINTLINK_SOCKET"},
			},
		},
		Action: localAction,
	}
}

func localAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("missing command; try \"local help\"")
	}

	path := c.String("socket")
	if path == "" {
		path = loadedConfig(c).Socket
	}

	ctx, cancel := apiContext(c, 10*time.Second)
	defer cancel()

	reply, err := connection.NewSocketClient(path).Execute(ctx, strings.Join(c.Args().Slice(), " "))
	if err != nil {
		return fmt.Errorf("local %s: %w", c.Args().First(), err)
	}
	_, err = fmt.Fprintln(c.App.Writer, reply)
	return err
}
