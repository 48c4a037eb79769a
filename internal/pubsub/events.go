// Package pubsub provides a generic publish/subscribe event system used to
// fan conversation snapshots, log lines and inventory reloads out to the UI.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// SnapshotChanged carries a new conversation snapshot.
	SnapshotChanged EventType = "snapshot_changed"
	// LogLine carries a formatted log entry.
	LogLine EventType = "log_line"
	// InventoryReloaded signals that the seat inventory was reloaded from disk.
	InventoryReloaded EventType = "inventory_reloaded"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
