package pubsub

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func receive[T any](t *testing.T, ch <-chan Event[T]) Event[T] {
	t.Helper()
	select {
	case event, ok := <-ch:
		require.True(t, ok, "channel closed")
		return event
	case <-time.After(time.Second):
		require.Fail(t, "no event delivered")
		return Event[T]{}
	}
}

func requireClosed[T any](t *testing.T, ch <-chan Event[T]) {
	t.Helper()
	select {
	case _, ok := <-ch:
		require.False(t, ok, "expected closed channel")
	case <-time.After(time.Second):
		require.Fail(t, "channel still open")
	}
}

func TestBroker_StampsEvents(t *testing.T) {
	at := time.Date(2026, 8, 17, 9, 0, 0, 0, time.UTC)
	broker := NewBroker[string](WithClock(func() time.Time { return at }))
	defer broker.Close()

	ch := broker.Subscribe(context.Background())
	broker.Publish(EnrolledEvent, "CSC216-001")

	event := receive(t, ch)
	require.Equal(t, Event[string]{Type: EnrolledEvent, Payload: "CSC216-001", Timestamp: at}, event)
}

func TestBroker_FanOut(t *testing.T) {
	broker := NewBroker[int]()
	defer broker.Close()

	subs := []<-chan Event[int]{
		broker.Subscribe(context.Background()),
		broker.Subscribe(context.Background()),
		broker.Subscribe(context.Background()),
	}
	require.Equal(t, 3, broker.SubscriberCount())

	broker.Publish(PromotedEvent, 7)
	for _, ch := range subs {
		require.Equal(t, 7, receive(t, ch).Payload)
	}
}

func TestBroker_UnsubscribeOnCancel(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := broker.Subscribe(ctx)
	cancel()

	requireClosed(t, ch)
	require.Zero(t, broker.SubscriberCount())
}

func TestBroker_FullSubscriberDrops(t *testing.T) {
	broker := NewBroker[int](WithBuffer(1))
	defer broker.Close()

	ch := broker.Subscribe(context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 1; i <= 3; i++ {
			broker.Publish(WaitlistedEvent, i)
		}
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		require.Fail(t, "Publish blocked on a full subscriber")
	}

	require.Equal(t, 1, receive(t, ch).Payload)
	require.Equal(t, int64(2), broker.Dropped())
}

func TestBroker_Close(t *testing.T) {
	broker := NewBroker[string]()
	first := broker.Subscribe(context.Background())
	second := broker.Subscribe(context.Background())

	broker.Close()
	broker.Close()

	requireClosed(t, first)
	requireClosed(t, second)
	require.Zero(t, broker.SubscriberCount())

	requireClosed(t, broker.Subscribe(context.Background()))
	require.NotPanics(t, func() { broker.Publish(DroppedEvent, "late") })
}

func TestBroker_ConcurrentPublishAndCancel(t *testing.T) {
	broker := NewBroker[int](WithBuffer(0))
	defer broker.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		ctx, cancel := context.WithCancel(context.Background())
		broker.Subscribe(ctx)
		go func() {
			defer wg.Done()
			cancel()
		}()
		go func(n int) {
			defer wg.Done()
			broker.Publish(EnrolledEvent, n)
		}(i)
	}
	wg.Wait()
	require.Eventually(t, func() bool { return broker.SubscriberCount() == 0 }, time.Second, 5*time.Millisecond)
}
