package command

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/printlink-go/internal/cli/repl"
)

// ShellCommand returns the interactive shell command.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "Start an interactive session",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "history",
				Usage: "History file (empty disables persistence)",
				Value: repl.DefaultHistoryPath(),
			},
		},
		Action: shellAction,
	}
}

func shellAction(c *cli.Context) error {
	// Global flags given to the shell apply to every line.
	var prefix []string
	for _, name := range []string{"config", "server", "token", "ca-file", "output"} {
		if c.IsSet(name) {
			prefix = append(prefix, "--"+name, c.String(name))
		}
	}
	if c.Bool("verbose") {
		prefix = append(prefix, "--verbose")
	}

	exec := func(args []string) error {
		if len(args) > 0 && args[0] == "shell" {
			return nil
		}
		app := App()
		app.Writer = c.App.Writer
		app.ErrWriter = c.App.ErrWriter
		app.Reader = c.App.Reader
		app.ExitErrHandler = func(*cli.Context, error) {}
		full := append([]string{c.App.Name}, prefix...)
		return app.Run(append(full, args...))
	}

	in := c.App.Reader
	if in == nil {
		in = os.Stdin
	}
	history := repl.NewHistory(c.String("history"))
	if err := history.Load(); err != nil {
		PrintError(c.App.ErrWriter, err, false)
	}
	defer history.Save()

	return repl.New(in, c.App.Writer, exec, history).
		WithCompleter(repl.NewCompleter(App().Commands)).
		Run()
}
