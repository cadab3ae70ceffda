// Package command defines the printlink-cli commands on urfave/cli/v2.
//
//   - root.go: App, global flags, shared output helpers
//   - printer.go: connect, send, disconnect, reset, status, print
//   - system.go: server health and readiness
//   - local.go: admin commands over the local socket
//   - config.go: the CLI's own config file
//   - shell.go: interactive mode on top of the same commands
//   - version.go: build information
//
// Each action parses its flags, makes one or more API calls and renders
// the result with the selected output format.
package command
