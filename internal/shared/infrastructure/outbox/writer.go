package outbox

import (
	"context"

	"github.com/felixgeelhaar/tracker/internal/shared/domain"
)

// Writer appends domain events to the outbox. Call it inside the unit of
// work that stored the aggregates so events and state commit together.
type Writer struct {
	repo Repository
}

// NewWriter creates a new Writer.
func NewWriter(repo Repository) *Writer {
	return &Writer{repo: repo}
}

// Enqueue stores events in order.
func (w *Writer) Enqueue(ctx context.Context, events []domain.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]*Message, 0, len(events))
	for _, event := range events {
		msg, err := NewMessage(event)
		if err != nil {
			return err
		}
		msgs = append(msgs, msg)
	}
	return w.repo.SaveBatch(ctx, msgs)
}
