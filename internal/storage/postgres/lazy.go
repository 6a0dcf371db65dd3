package postgres

import (
	"context"
	"sync"
)

// Lazy creates a value on first use. Concurrent first callers share a single
// construction; a failed construction is not remembered, so the next call retries.
type Lazy[T any] struct {
	mu    sync.Mutex
	open  func(context.Context) (T, error)
	value T
	ready bool
}

func NewLazy[T any](open func(context.Context) (T, error)) *Lazy[T] {
	return &Lazy[T]{open: open}
}

func (l *Lazy[T]) Get(ctx context.Context) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ready {
		return l.value, nil
	}
	v, err := l.open(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	l.value, l.ready = v, true
	return v, nil
}
