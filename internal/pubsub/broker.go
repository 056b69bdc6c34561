package pubsub

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultBuffer is the per-subscriber queue length used by NewBroker.
const DefaultBuffer = 64

// Option configures a Broker.
type Option func(*options)

type options struct {
	buffer int
	now    func() time.Time
}

// WithBuffer sets how many undelivered events each subscriber may hold.
func WithBuffer(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.buffer = n
		}
	}
}

// WithClock replaces time.Now for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Broker delivers each published event to every current subscriber.
type Broker[T any] struct {
	opts options

	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]chan Event[T]
	closed bool

	dropped atomic.Int64
}

var (
	_ Subscriber[string] = (*Broker[string])(nil)
	_ Publisher[string]  = (*Broker[string])(nil)
)

func NewBroker[T any](opts ...Option) *Broker[T] {
	o := options{buffer: DefaultBuffer, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Broker[T]{opts: o, subs: make(map[uint64]chan Event[T])}
}

// Subscribe registers a subscriber until ctx ends. After Close the returned
// channel is already closed.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	ch := make(chan Event[T], b.opts.buffer)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	context.AfterFunc(ctx, func() { b.unsubscribe(id) })
	return ch
}

func (b *Broker[T]) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish never blocks. Subscribers whose queue is full skip the event and
// the skip is counted in Dropped.
func (b *Broker[T]) Publish(eventType EventType, payload T) {
	event := Event[T]{Type: eventType, Payload: payload, Timestamp: b.opts.now()}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
			b.dropped.Add(1)
		}
	}
}

// Close ends every subscription. It is safe to call more than once.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

func (b *Broker[T]) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Dropped reports how many deliveries were skipped because a subscriber was full.
func (b *Broker[T]) Dropped() int64 {
	return b.dropped.Load()
}
