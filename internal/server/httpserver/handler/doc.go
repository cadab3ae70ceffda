// Package handler provides HTTP request handlers for printlink.
//
// This package contains handlers for all HTTP endpoints:
//
//   - printer.go: connect, send, disconnect, reset and status
//   - health.go: health and readiness checks
//
// All handlers follow a consistent pattern:
//
//   - Parse and validate request
//   - Call the printer service
//   - Format and return response
//   - Map domain error codes to HTTP status codes
package handler
