package messaging

import (
	"context"

	"github.com/arqon/playproof/internal/domain/event"
)

// EventPublisher defines the interface for publishing domain events.
// Publishing is best-effort: use cases log failures and move on.
type EventPublisher interface {
	// Publish publishes a single event.
	Publish(ctx context.Context, evt event.Event) error

	// PublishAll publishes multiple events.
	PublishAll(ctx context.Context, events []event.Event) error
}

// Topic names for playproof events. Transports prepend their own
// service prefix, e.g. "playproof.session" on NATS.
const (
	TopicSessionEvents = "session"
	TopicAuthEvents    = "auth"
)

// TopicForEvent returns the appropriate topic for an event type.
func TopicForEvent(evt event.Event) string {
	switch evt.AggregateType() {
	case event.AggregateTypeSession:
		return TopicSessionEvents
	case event.AggregateTypeAuthentication:
		return TopicAuthEvents
	default:
		return TopicAuthEvents
	}
}
