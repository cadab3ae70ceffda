// Command printlink-server runs the printer connection manager.
//
// It exposes the HTTP JSON API, the local admin socket and Prometheus
// metrics, and keeps raw TCP connections to network printers open between
// requests.
//
// Usage:
//
//	printlink-server -config /etc/printlink/config.yaml
//	printlink-server -set server.http.addr=:9180 -set log.level=debug
//	printlink-server -version
//	printlink-server -gen-token
//
// -gen-token prints a new API token and its SHA-256. Give clients the
// token and put the hash in security.api_token_sha256.
//
// Settings are layered defaults, file, PRINTLINK_* environment, then -set.
// Overrides are re-applied when the file is reloaded.
package main
