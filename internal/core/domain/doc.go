// Package domain defines the core domain models for printlink.
//
// Domain models are pure value objects and entities without any
// framework coupling. This package contains:
//
//   - Connection: a registered, fully established printer connection
//   - Socket: the transport contract a Connection owns
//   - Payload: decoding of caller payloads into raw printer bytes
//   - Errors: the error taxonomy shared by every transport
package domain
