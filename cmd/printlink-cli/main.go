package main

import (
	"os"

	"github.com/yndnr/printlink-go/internal/cli/command"
)

func main() {
	os.Exit(command.Run(os.Args, os.Stdout, os.Stderr))
}
