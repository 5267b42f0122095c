// Package pipe provides a context-aware buffered channel used to deliver
// events and snapshots between the stream engine's goroutines and its
// subscribers. Closing is idempotent and safe from either side.
package pipe

import (
	"context"
	"sync/atomic"
)

type Channel[T any] struct {
	ch         chan T
	ctx        context.Context
	bufferSize int
	closed     atomic.Int32
}

// New creates a Channel bound to ctx: once ctx is done, blocked Send and
// Receive calls return ctx's error.
func New[T any](ctx context.Context, bufferSize int) *Channel[T] {
	return &Channel[T]{
		ch:         make(chan T, bufferSize),
		ctx:        ctx,
		bufferSize: bufferSize,
	}
}

// Send delivers value, blocking until there is buffer room or either
// context ends.
func (c *Channel[T]) Send(ctx context.Context, value T) error {
	select {
	case c.ch <- value:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.ctx.Done():
		return c.ctx.Err()
	}
}

// TrySend delivers value without blocking. Returns false when the buffer
// is full, letting the caller coalesce: drop the oldest pending value
// with TryReceive and send again.
func (c *Channel[T]) TrySend(value T) bool {
	select {
	case c.ch <- value:
		return true
	default:
		return false
	}
}

// Receive blocks until a value arrives or either context ends.
func (c *Channel[T]) Receive(ctx context.Context) (T, error) {
	select {
	case value := <-c.ch:
		return value, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case <-c.ctx.Done():
		var zero T
		return zero, c.ctx.Err()
	}
}

// TryReceive returns the next pending value without blocking.
func (c *Channel[T]) TryReceive() (T, bool) {
	select {
	case value := <-c.ch:
		return value, true
	default:
		var zero T
		return zero, false
	}
}

// Raw exposes the underlying receive side for range loops and select.
func (c *Channel[T]) Raw() <-chan T {
	return c.ch
}

// Close closes the channel exactly once; later calls are no-ops.
func (c *Channel[T]) Close() {
	if c.closed.CompareAndSwap(0, 1) {
		close(c.ch)
	}
}

// IsClosed reports whether Close has run.
func (c *Channel[T]) IsClosed() bool {
	return c.closed.Load() == 1
}

// BufferSize returns the configured capacity.
func (c *Channel[T]) BufferSize() int {
	return c.bufferSize
}

// Pending returns the number of buffered, unreceived values.
func (c *Channel[T]) Pending() int {
	return len(c.ch)
}
