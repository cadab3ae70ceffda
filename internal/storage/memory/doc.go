// Package memory provides the in-memory connection registry for printlink.
//
// The registry is a sharded concurrent map from connection id to the live
// connection. It never performs I/O: removing an entry hands ownership of
// the socket to the caller, which is responsible for closing it.
//
// Thread Safety:
//
// All operations are safe for concurrent use. Remove is exactly-once per
// entry. DrainAll and the snapshot reads (IDs, Connections) lock every
// shard, so they observe a single consistent state.
package memory
