package pubsub

import "context"

// Listener wraps a broker subscription for callers that consume events in a loop.
type Listener[T any] struct {
	ctx context.Context
	ch  <-chan Event[T]
}

// NewListener subscribes to the broker.
// The subscription is cleaned up when ctx is cancelled.
func NewListener[T any](ctx context.Context, broker Subscriber[T]) *Listener[T] {
	return &Listener[T]{
		ctx: ctx,
		ch:  broker.Subscribe(ctx),
	}
}

// Next blocks until the next event arrives.
// Returns false once the context is cancelled or the subscription is closed.
func (l *Listener[T]) Next() (Event[T], bool) {
	select {
	case <-l.ctx.Done():
		return Event[T]{}, false
	case event, ok := <-l.ch:
		return event, ok
	}
}

// Each calls fn for every event until the listener stops or fn returns false.
func (l *Listener[T]) Each(fn func(Event[T]) bool) {
	for {
		event, ok := l.Next()
		if !ok || !fn(event) {
			return
		}
	}
}
