// Package localserver provides the local admin socket.
//
// It listens on a Unix domain socket and accepts newline-delimited text
// commands (status, reset, disconnect, loglevel, ping, help). There is no
// authentication; the socket file is created with mode 0600.
package localserver
