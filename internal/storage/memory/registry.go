package memory

import (
	"sort"

	"github.com/yndnr/printlink-go/internal/core/domain"
	"github.com/yndnr/printlink-go/pkg/cmap"
)

// Registry is the set of live printer connections keyed by connection id.
//
// Every registered connection leaves the registry exactly once, through
// Remove or DrainAll. Whoever receives a connection from either call owns
// its teardown.
type Registry struct {
	conns *cmap.Map[*domain.Connection]
}

// Option configures the Registry.
type Option func(*registryOptions)

type registryOptions struct {
	shards int
}

// WithShards sets the number of lock shards, rounded up to a power of two.
func WithShards(n int) Option {
	return func(o *registryOptions) {
		o.shards = n
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	o := registryOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	conns := cmap.New[*domain.Connection]()
	if o.shards > 0 {
		conns = cmap.NewWithShards[*domain.Connection](o.shards)
	}
	return &Registry{conns: conns}
}

// Insert registers an established connection under its id.
//
// A collision with a live id is an invariant violation and returns
// domain.ErrDuplicateConnectionID; the existing entry is left untouched.
func (r *Registry) Insert(conn *domain.Connection) error {
	if conn == nil || conn.ID == "" {
		return domain.ErrMissingArgument.WithDetails("connection id")
	}
	if !r.conns.SetIfAbsent(conn.ID, conn) {
		return domain.ErrDuplicateConnectionID.WithDetails(conn.ID)
	}
	return nil
}

// Lookup returns the connection registered under id, without removing it.
func (r *Registry) Lookup(id string) (*domain.Connection, bool) {
	return r.conns.Get(id)
}

// Remove atomically removes and returns the connection registered under id.
// Of several concurrent callers for one id, only one receives it.
func (r *Registry) Remove(id string) (*domain.Connection, bool) {
	return r.conns.Pop(id)
}

// DrainAll atomically removes and returns every registered connection.
// A connection inserted concurrently is either drained or stays registered.
func (r *Registry) DrainAll() []*domain.Connection {
	return r.conns.Drain()
}

// Size returns the number of registered connections.
func (r *Registry) Size() int {
	return r.conns.Count()
}

// IDs returns the registered ids, sorted. The slice is a consistent
// point-in-time copy.
func (r *Registry) IDs() []string {
	snap := r.conns.Snapshot()
	ids := make([]string, 0, len(snap))
	for id := range snap {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Connections returns the registered connections ordered by creation time,
// then id. The slice is a consistent point-in-time copy.
func (r *Registry) Connections() []*domain.Connection {
	snap := r.conns.Snapshot()
	out := make([]*domain.Connection, 0, len(snap))
	for _, c := range snap {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}
