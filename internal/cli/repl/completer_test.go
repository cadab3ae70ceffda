package repl

import (
	"reflect"
	"testing"

	"github.com/urfave/cli/v2"
)

func testCommands() []*cli.Command {
	return []*cli.Command{
		{Name: "connect"},
		{Name: "disconnect"},
		{Name: "system", Subcommands: []*cli.Command{{Name: "health"}, {Name: "ready"}}},
		{Name: "config", Subcommands: []*cli.Command{{Name: "show"}, {Name: "set"}, {Name: "path"}}},
		{Name: "debug-dump", Hidden: true},
	}
}

func TestCompleter_Complete(t *testing.T) {
	c := NewCompleter(testCommands())

	tests := []struct {
		prefix string
		want   []string
	}{
		{"system", []string{"system", "system health", "system ready"}},
		{"dis", []string{"disconnect"}},
		{"config s", []string{"config set", "config show"}},
		{"h", []string{"history"}},
		{"debug", nil},
		{"zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			if got := c.Complete(tt.prefix); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Complete(%q) = %v, want %v", tt.prefix, got, tt.want)
			}
		})
	}

	// 3 builtins + connect, disconnect, system(+2), config(+3)
	if got := c.Complete(""); len(got) != 12 {
		t.Errorf("empty prefix returned %d paths: %v", len(got), got)
	}
}

func TestCompleter_NoCommands(t *testing.T) {
	if got := NewCompleter(nil).Complete("q"); !reflect.DeepEqual(got, []string{"quit"}) {
		t.Errorf("Complete(q) = %v", got)
	}
}
