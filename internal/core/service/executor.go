package service

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/yndnr/printlink-go/internal/core/domain"
)

// Outcome is the result of a unit of work.
type Outcome[T any] struct {
	Value T
	Err   error
}

// Executor runs blocking operations on their own goroutines.
//
// With maxInflight > 0 at most that many units run at once; the rest wait
// for a slot. Units never observe the submitter's context.
type Executor struct {
	sem *semaphore.Weighted

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewExecutor creates an executor. maxInflight <= 0 means unbounded.
func NewExecutor(maxInflight int64) *Executor {
	e := &Executor{}
	if maxInflight > 0 {
		e.sem = semaphore.NewWeighted(maxInflight)
	}
	return e
}

// Submit schedules fn and returns a channel that receives exactly one
// Outcome. It fails with domain.ErrServiceUnavailable once the executor is
// closed.
func Submit[T any](e *Executor, fn func(ctx context.Context) (T, error)) (<-chan Outcome[T], error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return nil, domain.ErrServiceUnavailable.WithDetails("executor closed")
	}

	out := make(chan Outcome[T], 1)
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ctx := context.Background()
		if e.sem != nil {
			// Acquire on a background context cannot fail.
			_ = e.sem.Acquire(ctx, 1)
			defer e.sem.Release(1)
		}
		v, err := fn(ctx)
		out <- Outcome[T]{Value: v, Err: err}
	}()
	return out, nil
}

// Await waits for the outcome of a submitted unit. If ctx ends first it
// returns ctx.Err() and the unit keeps running.
func Await[T any](ctx context.Context, ch <-chan Outcome[T]) (T, error) {
	select {
	case o := <-ch:
		return o.Value, o.Err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Run submits fn and waits for its outcome.
func Run[T any](ctx context.Context, e *Executor, fn func(ctx context.Context) (T, error)) (T, error) {
	ch, err := Submit(e, fn)
	if err != nil {
		var zero T
		return zero, err
	}
	return Await(ctx, ch)
}

// Closed reports whether Close has been called.
func (e *Executor) Closed() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.closed
}

// Close stops accepting work and waits for running units, or for ctx.
func (e *Executor) Close(ctx context.Context) error {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
