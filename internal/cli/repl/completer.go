package repl

import (
	"sort"
	"strings"

	"github.com/urfave/cli/v2"
)

// builtins are handled by the loop itself and never reach ExecFunc.
var builtins = []string{"exit", "history", "quit"}

// Completer suggests command paths ("local reset", "config show") for a
// typed prefix.
type Completer struct {
	paths []string
}

// NewCompleter collects every visible command path under cmds plus the
// loop's builtins.
func NewCompleter(cmds []*cli.Command) *Completer {
	paths := append([]string(nil), builtins...)
	var walk func(prefix string, cmds []*cli.Command)
	walk = func(prefix string, cmds []*cli.Command) {
		for _, cmd := range cmds {
			if cmd.Hidden {
				continue
			}
			path := prefix + cmd.Name
			paths = append(paths, path)
			walk(path+" ", cmd.Subcommands)
		}
	}
	walk("", cmds)
	sort.Strings(paths)
	return &Completer{paths: paths}
}

// Complete returns the paths starting with prefix, in sorted order.
func (c *Completer) Complete(prefix string) []string {
	start := sort.SearchStrings(c.paths, prefix)
	var out []string
	for _, p := range c.paths[start:] {
		if !strings.HasPrefix(p, prefix) {
			break
		}
		out = append(out, p)
	}
	return out
}
