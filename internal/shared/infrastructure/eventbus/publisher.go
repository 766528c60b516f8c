// Package eventbus delivers encoded domain events to a message broker.
package eventbus

import "context"

// Message is one encoded event ready for the broker. ID is the event id and
// doubles as the broker message id so consumers can deduplicate redeliveries.
type Message struct {
	ID         string
	RoutingKey string
	Body       []byte
}

// Publisher sends messages to a broker.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}
