// Package service provides domain services for printlink.
//
// Domain services contain the connection lifecycle logic and orchestrate
// operations on domain models. They define interfaces for their storage and
// network dependencies, allowing for dependency injection and testability.
//
// This package contains:
//
//   - PrinterService: Connect, Send, Disconnect, ResetAll and Status
//   - Executor: runs each blocking operation as an independent unit of work
//
// A caller that stops waiting (context done) gets the context error; the
// unit of work itself is never cancelled and is bounded only by its own
// socket timeout. Teardown of any connection happens exactly once, by
// whoever removed it from the registry.
package service
