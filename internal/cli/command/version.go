package command

import (
	"fmt"
	"io"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/printlink-go/internal/infra/buildinfo"
)

// VersionCommand returns the version command.
func VersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show build information",
		Action: func(c *cli.Context) error {
			flags, err := ParseGlobalFlags(c)
			if err != nil {
				return err
			}
			info := buildinfo.Get()
			return render(c, flags, false, info, func(w io.Writer) error {
				fmt.Fprintf(w, "printlink-cli %s\n", info.Version)
				fmt.Fprintf(w, "  commit:   %s\n", info.Commit)
				fmt.Fprintf(w, "  built:    %s\n", info.BuildTime)
				fmt.Fprintf(w, "  go:       %s\n", info.GoVersion)
				fmt.Fprintf(w, "  platform: %s\n", info.Platform)
				return nil
			})
		},
	}
}
