// Package outbox stores domain events in the same transaction as the state
// change that raised them and relays them to the broker afterwards.
package outbox

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/tracker/internal/shared/domain"
)

// Message is an event waiting in the outbox.
type Message struct {
	ID            int64
	EventID       uuid.UUID
	AggregateType string
	AggregateID   int64
	RoutingKey    string
	Payload       json.RawMessage
	CreatedAt     time.Time
	RetryCount    int
}

// NewMessage encodes event as an outbox message.
func NewMessage(event domain.DomainEvent) (*Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", event.RoutingKey(), err)
	}

	return &Message{
		EventID:       event.EventID(),
		AggregateType: event.AggregateType(),
		AggregateID:   event.AggregateID(),
		RoutingKey:    event.RoutingKey(),
		Payload:       payload,
		CreatedAt:     event.OccurredAt(),
	}, nil
}

// CanRetry reports whether another publish attempt is allowed.
func (m *Message) CanRetry(maxRetries int) bool {
	return m.RetryCount < maxRetries
}
