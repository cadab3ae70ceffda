// Package cmap provides a concurrent map implementation for printlink.
//
// This package implements a string-keyed sharded concurrent map used as
// the backing store of the connection registry:
//
//   - Sharding: Configurable shard count for parallelism, murmur3 key hashing
//   - Fine-grained Locking: Per-shard RWMutex so operations on different
//     keys never wait on each other unless they share a shard
//   - Exactly-once removal: Pop and Drain hand each value to one caller
//   - Whole-map views: Snapshot and Drain lock every shard together, so
//     they observe (or empty) the map at a single point in time
//
// Usage:
//
//	m := cmap.New[*domain.Connection]()
//	m.SetIfAbsent(id, conn)
//	conn, ok := m.Pop(id)
//
// Thread Safety:
//
// All operations are thread-safe. Read operations (Get, Has, Count) use
// RLock, write operations (Set, Pop, Drain) use Lock. Whole-map operations
// acquire shard locks in index order.
package cmap
