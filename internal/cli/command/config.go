package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/printlink-go/internal/cli/config"
	"github.com/yndnr/printlink-go/internal/cli/output"
)

// ConfigCommand returns the config subcommand group for the CLI's own
// settings file.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage CLI defaults",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show stored CLI configuration",
				Action: configShow,
			},
			{
				Name:      "get",
				Usage:     "Print one setting",
				ArgsUsage: "KEY",
				Action:    configGet,
			},
			{
				Name:      "set",
				Usage:     "Change one setting (empty VALUE clears it)",
				ArgsUsage: "KEY VALUE",
				Action:    configSet,
			},
			{
				Name:   "path",
				Usage:  "Print the config file path",
				Action: configPath,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}
	cfg := *loadedConfig(c)
	if cfg.Token != "" {
		cfg.Token = "********"
	}
	if flags.Output == output.FormatTable {
		t := output.NewTable("KEY", "VALUE")
		for _, key := range config.Keys() {
			v, _ := cfg.Get(key)
			if v == "" {
				v = "-"
			}
			t.AddRow(key, v)
		}
		return t.Render(c.App.Writer)
	}
	return output.NewFormatter(flags.Output, false).Format(c.App.Writer, cfg)
}

func configGet(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: config get KEY")
	}
	v, err := loadedConfig(c).Get(c.Args().First())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, v)
	return err
}

func configSet(c *cli.Context) error {
	if c.NArg() != 2 {
		return fmt.Errorf("usage: config set KEY VALUE")
	}
	cfg := loadedConfig(c)
	if err := cfg.Set(c.Args().Get(0), c.Args().Get(1)); err != nil {
		return err
	}
	path := c.String("config")
	if err := config.Save(cfg, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	_, err := fmt.Fprintf(c.App.Writer, "Set %s in %s\n", c.Args().Get(0), path)
	return err
}

func configPath(c *cli.Context) error {
	_, err := fmt.Fprintln(c.App.Writer, c.String("config"))
	return err
}
