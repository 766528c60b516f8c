// Package domain holds building blocks shared by the bounded contexts.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact recorded by an aggregate after a state change.
type DomainEvent interface {
	EventID() uuid.UUID
	AggregateID() int64
	AggregateType() string
	RoutingKey() string
	OccurredAt() time.Time
}

// BaseEvent carries the envelope fields common to all events. Concrete
// events embed it and add their payload as exported fields.
type BaseEvent struct {
	ID        uuid.UUID `json:"event_id"`
	Aggregate int64     `json:"aggregate_id"`
	Type      string    `json:"aggregate_type"`
	Key       string    `json:"routing_key"`
	At        time.Time `json:"occurred_at"`
}

// NewBaseEvent stamps a new event id and the current time.
func NewBaseEvent(aggregateID int64, aggregateType, routingKey string) BaseEvent {
	return BaseEvent{
		ID:        uuid.New(),
		Aggregate: aggregateID,
		Type:      aggregateType,
		Key:       routingKey,
		At:        time.Now().UTC(),
	}
}

func (e BaseEvent) EventID() uuid.UUID    { return e.ID }
func (e BaseEvent) AggregateID() int64    { return e.Aggregate }
func (e BaseEvent) AggregateType() string { return e.Type }
func (e BaseEvent) RoutingKey() string    { return e.Key }
func (e BaseEvent) OccurredAt() time.Time { return e.At }
