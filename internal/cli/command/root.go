package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/printlink-go/internal/cli/config"
	"github.com/yndnr/printlink-go/internal/cli/connection"
	"github.com/yndnr/printlink-go/internal/cli/output"
	"github.com/yndnr/printlink-go/internal/infra/buildinfo"
	"github.com/yndnr/printlink-go/internal/infra/tlsroots"
)

const metaConfig = "config"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:                 "printlink-cli",
		Usage:                "Drive printers through a printlink server",
		Version:              buildinfo.String(),
		Flags:                globalFlags(),
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			ConnectCommand(),
			SendCommand(),
			DisconnectCommand(),
			ResetCommand(),
			StatusCommand(),
			PrintCommand(),
			SystemCommand(),
			LocalCommand(),
			ConfigCommand(),
			ShellCommand(),
			VersionCommand(),
		},
		Metadata: map[string]any{},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			c.App.Metadata[metaConfig] = cfg
			return nil
		},
	}
}

// globalFlags returns the global CLI flags. Defaults for server, token and
// output come from the config file when the flag is not set.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "CLI config file",
			EnvVars: []string{"PRINTLINK_CLI_CONFIG"},
			Value:   config.DefaultConfigPath(),
		},
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "printlink server address (default " + config.DefaultServer + ")",
			EnvVars: []string{"PRINTLINK_SERVER"},
		},
		&cli.StringFlag{
			Name:    "token",
			Usage:   "API bearer token",
			EnvVars: []string{"PRINTLINK_API_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "ca-file",
			Usage:   "PEM CA bundle trusted for https:// servers",
			EnvVars: []string{"PRINTLINK_CA_FILE"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
			EnvVars: []string{"PRINTLINK_OUTPUT"},
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable verbose output",
		},
	}
}

// GlobalFlags defines flags available to all commands.
type GlobalFlags struct {
	Server  string
	Token   string
	CAFile  string
	Output  output.Format
	Verbose bool
}

// ParseGlobalFlags resolves global flags against the loaded config file.
func ParseGlobalFlags(c *cli.Context) (*GlobalFlags, error) {
	cfg := loadedConfig(c)

	pick := func(flag, fallback string) string {
		if c.IsSet(flag) {
			return c.String(flag)
		}
		return fallback
	}

	format, err := output.ParseFormat(pick("output", cfg.Output))
	if err != nil {
		return nil, err
	}
	server := pick("server", cfg.Server)
	if server == "" {
		server = config.DefaultServer
	}

	return &GlobalFlags{
		Server:  server,
		Token:   pick("token", cfg.Token),
		CAFile:  pick("ca-file", cfg.CAFile),
		Output:  format,
		Verbose: c.Bool("verbose"),
	}, nil
}

func loadedConfig(c *cli.Context) *config.CLIConfig {
	if cfg, ok := c.App.Metadata[metaConfig].(*config.CLIConfig); ok {
		return cfg
	}
	return config.Default()
}

// EnsureConnected returns an API client for the selected server.
func EnsureConnected(c *cli.Context) (*connection.HTTPClient, *GlobalFlags, error) {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return nil, nil, err
	}
	var opts []connection.HTTPOption
	if flags.CAFile != "" {
		tlsCfg, err := tlsroots.ClientConfig(flags.CAFile)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, connection.WithTLSConfig(tlsCfg))
	}
	client := connection.NewHTTPClient(flags.Server, flags.Token, opts...)
	if flags.Verbose {
		fmt.Fprintf(c.App.ErrWriter, "server: %s\n", client.BaseURL())
	}
	return client, flags, nil
}

// apiContext bounds one CLI invocation's API calls.
func apiContext(c *cli.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Context, d)
}

// render writes data in the selected format. For table output a custom
// human renderer may be supplied; otherwise the generic table is used.
func render(c *cli.Context, flags *GlobalFlags, wide bool, data any, human func(w io.Writer) error) error {
	if flags.Output == output.FormatTable && human != nil {
		return human(c.App.Writer)
	}
	return output.NewFormatter(flags.Output, wide).Format(c.App.Writer, data)
}

// PrintError prints an error message to w. With verbose set, API errors
// also show the server's request id.
func PrintError(w io.Writer, err error, verbose bool) {
	fmt.Fprintf(w, "error: %v\n", err)
	var apiErr *connection.APIError
	if verbose && errors.As(err, &apiErr) && apiErr.RequestID != "" {
		fmt.Fprintf(w, "  request_id: %s\n", apiErr.RequestID)
	}
}

// Run executes the app and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	app := App()
	app.Writer = stdout
	app.ErrWriter = stderr

	if err := app.Run(args); err != nil {
		verbose := false
		for _, a := range args {
			if a == "--verbose" || a == "-V" {
				verbose = true
			}
		}
		PrintError(stderr, err, verbose)
		return 1
	}
	return 0
}
