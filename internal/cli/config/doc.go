// Package config holds printlink-cli's persisted defaults
// (~/.printlink/cli.yaml).
//
// Flags and PRINTLINK_* environment variables always take precedence
// over values stored here.
package config
