package client

import (
	"context"
	"sync"
)

// Coordinator serializes dependent re-fetches so that only the most
// recently issued request may publish its result. Every Fetch call gets a
// monotonically increasing generation and cancels the context of the
// previous in-flight call; a response belonging to a superseded generation
// is discarded even if it arrives last. This closes the race where a slow
// query for an old selection overwrites the result of a newer one.
type Coordinator[T any] struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewCoordinator returns a coordinator for result type T.
func NewCoordinator[T any]() *Coordinator[T] {
	return &Coordinator[T]{}
}

// Fetch runs fn and, if this call is still the newest when fn returns,
// passes the result to apply. Superseded calls return (zero, false, nil)
// without invoking apply. fn observes cancellation through its context when
// a newer Fetch supersedes it.
func (c *Coordinator[T]) Fetch(ctx context.Context, fn func(context.Context) (T, error), apply func(T)) (T, bool, error) {
	var zero T

	c.mu.Lock()
	c.gen++
	gen := c.gen
	if c.cancel != nil {
		c.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	result, err := fn(fetchCtx)

	c.mu.Lock()
	latest := gen == c.gen
	if latest {
		c.cancel = nil
		cancel()
	}
	c.mu.Unlock()

	if !latest {
		return zero, false, nil
	}
	if err != nil {
		return zero, true, err
	}
	if apply != nil {
		apply(result)
	}
	return result, true, nil
}

// Generation returns the latest issued generation, for tests.
func (c *Coordinator[T]) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}
