// Package tlsroots loads the TLS material printlink uses.
//
// The server side is a Reloader that serves a certificate pair from disk
// and swaps it in place when either file changes. The client side builds
// a root pool from the system store plus operator-supplied CA files.
package tlsroots
