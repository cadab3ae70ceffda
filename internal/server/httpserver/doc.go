// Package httpserver provides the HTTP JSON API for printlink.
//
// Routes:
//
//   - POST /v1/connections, POST /v1/connections/reset
//   - POST /v1/connections/{id}/send
//   - DELETE /v1/connections/{id}, POST /v1/connections/{id}/disconnect
//   - GET /v1/status
//   - GET /health, GET /ready, GET /metrics
//
// API routes pass through Recover, RequestID, RateLimit, Auth, Audit and
// Metrics middlewares in that order. Auth is a no-op unless an API token
// or its hash is configured. Options.TLSConfig switches the listener to
// HTTPS.
package httpserver
