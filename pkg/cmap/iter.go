// Package cmap provides a concurrent-safe sharded map.
package cmap

// Range iterates over all key-value pairs.
//
// The callback returns false to stop iteration.
// Note: This acquires locks shard by shard, so the view may not be consistent.
func (m *Map[V]) Range(fn func(key string, value V) bool) {
	for _, shard := range m.shards {
		shard.mu.RLock()
		for k, v := range shard.items {
			if !fn(k, v) {
				shard.mu.RUnlock()
				return
			}
		}
		shard.mu.RUnlock()
	}
}

// Keys returns all keys.
func (m *Map[V]) Keys() []string {
	keys := make([]string, 0, m.Count())
	m.Range(func(key string, _ V) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Snapshot returns a copy of the whole map taken while every shard is
// read-locked. Later mutations do not affect the returned map.
func (m *Map[V]) Snapshot() map[string]V {
	m.rlockAll()
	defer m.runlockAll()

	n := 0
	for _, shard := range m.shards {
		n += len(shard.items)
	}

	out := make(map[string]V, n)
	for _, shard := range m.shards {
		for k, v := range shard.items {
			out[k] = v
		}
	}
	return out
}

// Drain atomically empties the map and returns every value that was
// present. All shards are write-locked for the duration, so no reader
// observes a partially drained map and every value is returned to exactly
// one caller.
func (m *Map[V]) Drain() []V {
	m.lockAll()
	defer m.unlockAll()

	n := 0
	for _, shard := range m.shards {
		n += len(shard.items)
	}

	out := make([]V, 0, n)
	for _, shard := range m.shards {
		for _, v := range shard.items {
			out = append(out, v)
		}
		shard.items = make(map[string]V)
	}
	return out
}

// lockAll acquires every shard's write lock in index order.
func (m *Map[V]) lockAll() {
	for _, shard := range m.shards {
		shard.mu.Lock()
	}
}

func (m *Map[V]) unlockAll() {
	for i := len(m.shards) - 1; i >= 0; i-- {
		m.shards[i].mu.Unlock()
	}
}

func (m *Map[V]) rlockAll() {
	for _, shard := range m.shards {
		shard.mu.RLock()
	}
}

func (m *Map[V]) runlockAll() {
	for i := len(m.shards) - 1; i >= 0; i-- {
		m.shards[i].mu.RUnlock()
	}
}
