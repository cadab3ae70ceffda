// Package repl implements printlink-cli's interactive shell.
//
// Each line is split into arguments (single and double quotes group
// words) and handed to an executor, normally the CLI app itself. A line
// ending in "?" lists matching commands instead of running.
package repl
