package contracts

import "context"

// EventPublisher pushes domain events onto the message broker. Publishing is
// fire-and-forget from the caller's perspective; a broker outage must never
// fail the clinical operation that triggered the event.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
	Close() error
}
