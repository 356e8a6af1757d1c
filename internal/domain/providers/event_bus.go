package providers

import (
	"context"
	"encoding/json"
)

// Message is a raw event payload on a bus channel. Payloads are JSON; each
// consumer decodes into the type its channel carries.
type Message struct {
	Channel string
	Payload json.RawMessage
}

// EventBus defines the interface for publishing and subscribing to events
type EventBus interface {
	// Publish publishes an event to all subscribers of a channel
	Publish(ctx context.Context, channel string, event any) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *Message, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannel constants for the bus
const (
	// EventChannelReservationChanges carries row-level change events for the
	// reservations table, wildcard over operation type
	EventChannelReservationChanges = "reservations:changes"

	// EventChannelAdminUpdates carries admin dashboard updates (pending
	// indicator refreshes)
	EventChannelAdminUpdates = "admin:updates"

	// eventChannelUserPrefix is the prefix for per-user alert channels
	eventChannelUserPrefix = "user:"
)

// GetUserAlertChannel returns the alert channel name for a specific user
func GetUserAlertChannel(userID string) string {
	return eventChannelUserPrefix + userID + ":alerts"
}
