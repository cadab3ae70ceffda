package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ExecFunc runs one parsed command line.
type ExecFunc func(args []string) error

// REPL represents the Read-Eval-Print Loop.
type REPL struct {
	input     io.Reader
	output    io.Writer
	prompt    string
	exec      ExecFunc
	completer *Completer
	history   *History
}

// New creates a REPL reading from in and writing prompts and errors to out.
func New(in io.Reader, out io.Writer, exec ExecFunc, history *History) *REPL {
	if history == nil {
		history = NewHistory("")
	}
	return &REPL{
		input:     in,
		output:    out,
		prompt:    "printlink> ",
		exec:      exec,
		completer: NewCompleter(nil),
		history:   history,
	}
}

// WithCompleter replaces the completer used for "<prefix>?" lines.
func (r *REPL) WithCompleter(c *Completer) *REPL {
	if c != nil {
		r.completer = c
	}
	return r
}

// Run starts the REPL loop. It returns nil on exit, quit or EOF.
func (r *REPL) Run() error {
	reader := bufio.NewReader(r.input)

	for {
		fmt.Fprint(r.output, r.prompt)

		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		eof := errors.Is(err, io.EOF)

		line = strings.TrimSpace(line)
		if line == "" {
			if eof {
				fmt.Fprintln(r.output)
				return nil
			}
			continue
		}

		switch {
		case line == "exit" || line == "quit":
			return nil
		case line == "history":
			for i, e := range r.history.Entries() {
				fmt.Fprintf(r.output, "%4d  %s\n", i+1, e)
			}
		case strings.HasSuffix(line, "?"):
			prefix := strings.TrimSpace(strings.TrimSuffix(line, "?"))
			for _, s := range r.completer.Complete(prefix) {
				fmt.Fprintln(r.output, s)
			}
		default:
			r.history.Add(line)
			if err := r.execute(line); err != nil {
				fmt.Fprintf(r.output, "error: %v\n", err)
			}
		}

		if eof {
			return nil
		}
	}
}

func (r *REPL) execute(line string) error {
	args, err := Split(line)
	if err != nil {
		return err
	}
	return r.exec(args)
}

// Split breaks a command line into arguments. Quotes group words and are
// removed; a backslash escapes the next character outside single quotes.
func Split(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inArg   bool
		quote   rune
		escaped bool
	)

	for _, ch := range line {
		switch {
		case escaped:
			cur.WriteRune(ch)
			escaped = false
		case ch == '\\' && quote != '\'':
			escaped = true
			inArg = true
		case quote != 0:
			if ch == quote {
				quote = 0
			} else {
				cur.WriteRune(ch)
			}
		case ch == '"' || ch == '\'':
			quote = ch
			inArg = true
		case ch == ' ' || ch == '\t':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(ch)
			inArg = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if escaped {
		return nil, fmt.Errorf("trailing backslash")
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}
