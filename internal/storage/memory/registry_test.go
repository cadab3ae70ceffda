package memory

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yndnr/printlink-go/internal/core/domain"
)

type nopSocket struct{}

func (nopSocket) Send(p []byte) (int, error) { return len(p), nil }
func (nopSocket) CloseWrite() error          { return nil }
func (nopSocket) CloseRead() error           { return nil }
func (nopSocket) Close() error               { return nil }
func (nopSocket) IsClosed() bool             { return false }
func (nopSocket) RemoteAddr() net.Addr       { return &net.TCPAddr{} }

func newConn(id string) *domain.Connection {
	return domain.NewConnection(id, "127.0.0.1", 9100, time.Second, nopSocket{})
}

func TestRegistry_InsertLookup(t *testing.T) {
	r := NewRegistry()
	c := newConn("a")

	require.NoError(t, r.Insert(c))
	assert.Equal(t, 1, r.Size())

	got, ok := r.Lookup("a")
	require.True(t, ok)
	assert.Same(t, c, got)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistry_WithShards(t *testing.T) {
	for n, want := range map[int]int{0: 16, 3: 4, 16: 16, 100: 128} {
		r := NewRegistry(WithShards(n))
		assert.Equal(t, want, r.conns.ShardCount(), "WithShards(%d)", n)

		for i := 0; i < 20; i++ {
			require.NoError(t, r.Insert(newConn(fmt.Sprintf("c%d", i))))
		}
		assert.Equal(t, 20, r.Size())
	}
}

func TestRegistry_InsertDuplicate(t *testing.T) {
	r := NewRegistry()
	first := newConn("a")
	require.NoError(t, r.Insert(first))

	err := r.Insert(newConn("a"))
	assert.ErrorIs(t, err, domain.ErrDuplicateConnectionID)

	got, _ := r.Lookup("a")
	assert.Same(t, first, got, "existing entry must not be replaced")
}

func TestRegistry_InsertInvalid(t *testing.T) {
	r := NewRegistry()
	assert.ErrorIs(t, r.Insert(nil), domain.ErrMissingArgument)
	assert.ErrorIs(t, r.Insert(newConn("")), domain.ErrMissingArgument)
	assert.Zero(t, r.Size())
}

func TestRegistry_Remove(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Insert(newConn("a")))

	c, ok := r.Remove("a")
	require.True(t, ok)
	assert.Equal(t, "a", c.ID)

	_, ok = r.Remove("a")
	assert.False(t, ok)
	assert.Zero(t, r.Size())
}

func TestRegistry_RemoveExactlyOnce(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Insert(newConn("a")))

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := r.Remove("a"); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, wins.Load())
}

func TestRegistry_DrainAll(t *testing.T) {
	r := NewRegistry(WithShards(4))
	for i := 0; i < 3; i++ {
		require.NoError(t, r.Insert(newConn(fmt.Sprintf("c%d", i))))
	}

	drained := r.DrainAll()
	assert.Len(t, drained, 3)
	assert.Zero(t, r.Size())
	assert.Empty(t, r.IDs())
	assert.Empty(t, r.DrainAll())
}

func TestRegistry_DrainRacingRemove(t *testing.T) {
	const n = 200
	r := NewRegistry()
	for i := 0; i < n; i++ {
		require.NoError(t, r.Insert(newConn(fmt.Sprintf("c%d", i))))
	}

	var removed atomic.Int32
	var drained []*domain.Connection
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, ok := r.Remove(fmt.Sprintf("c%d", i)); ok {
				removed.Add(1)
			}
		}(i)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		drained = r.DrainAll()
	}()
	wg.Wait()

	assert.Equal(t, n, int(removed.Load())+len(drained), "every entry leaves exactly once")
	assert.Zero(t, r.Size())
}

func TestRegistry_IDsSorted(t *testing.T) {
	r := NewRegistry()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, r.Insert(newConn(id)))
	}
	assert.Equal(t, []string{"a", "b", "c"}, r.IDs())
}

func TestRegistry_ConnectionsOrdered(t *testing.T) {
	r := NewRegistry()
	base := time.Now()
	for i, id := range []string{"late", "early", "mid"} {
		c := newConn(id)
		c.CreatedAt = base.Add(time.Duration([]int{3, 1, 2}[i]) * time.Second)
		require.NoError(t, r.Insert(c))
	}

	var ids []string
	for _, c := range r.Connections() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"early", "mid", "late"}, ids)
}
