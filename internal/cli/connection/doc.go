// Package connection provides the transports printlink-cli uses to reach
// a running printlink-server.
//
//   - http.go: JSON client for the HTTP API, unwrapping the response envelope
//   - socket.go: line client for the local admin socket
package connection
