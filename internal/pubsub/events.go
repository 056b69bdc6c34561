// Package pubsub fans out log lines and enrollment changes to whoever is
// listening. Delivery is best effort: a subscriber that falls behind misses
// events rather than stalling the publisher.
package pubsub

import (
	"context"
	"time"
)

// EventType names what happened.
type EventType string

const (
	// LoggedEvent carries one formatted log line.
	LoggedEvent EventType = "logged"

	// Enrollment transitions published by the registration manager.
	EnrolledEvent   EventType = "enrolled"
	WaitlistedEvent EventType = "waitlisted"
	PromotedEvent   EventType = "promoted"
	DroppedEvent    EventType = "dropped"
)

// Event is one published payload stamped with its type and publish time.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
