// Command printlink-cli drives a printlink server from the shell.
//
// Usage:
//
//	printlink-cli [global flags] command [flags]
//	printlink-cli connect --host 10.0.0.5 --port 9100
//	printlink-cli send --id <id> --file label.bin
//	printlink-cli print --host 10.0.0.5 --text "hello"
//	printlink-cli -o json status --wide
//	printlink-cli local reset
//	printlink-cli shell
package main
