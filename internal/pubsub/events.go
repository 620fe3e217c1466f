// Package pubsub fans out events from background producers (the debug log,
// the source watcher, background pre-highlighting) to the viewer loop.
package pubsub

import (
	"context"
	"time"
)

// EventType says what happened to the payload.
type EventType string

const (
	// LoggedEvent carries a formatted debug log entry.
	LoggedEvent EventType = "logged"
	// ChangedEvent reports that a watched source file changed on disk.
	ChangedEvent EventType = "changed"
	// ClassifiedEvent reports that a file's attributed lines were (re)built.
	ClassifiedEvent EventType = "classified"
)

// Event is a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber hands out subscription channels.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher publishes events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
