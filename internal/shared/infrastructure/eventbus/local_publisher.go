package eventbus

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/felixgeelhaar/tracker/pkg/observability"
)

// LoggingPublisher logs messages instead of sending them. It is used when no
// broker is configured.
type LoggingPublisher struct {
	logger *slog.Logger
}

// NewLoggingPublisher creates a LoggingPublisher.
func NewLoggingPublisher(logger *slog.Logger) *LoggingPublisher {
	if logger == nil {
		logger = observability.DiscardLogger()
	}
	return &LoggingPublisher{logger: logger}
}

// Publish implements Publisher.
func (p *LoggingPublisher) Publish(ctx context.Context, msg Message) error {
	p.logger.InfoContext(ctx, "event",
		"routing_key", msg.RoutingKey,
		"event_id", msg.ID,
		"payload", string(msg.Body),
	)
	return nil
}

// Close implements Publisher.
func (p *LoggingPublisher) Close() error { return nil }

// MemoryPublisher records messages in order.
type MemoryPublisher struct {
	mu       sync.Mutex
	messages []Message
	err      error
}

// Publish implements Publisher.
func (p *MemoryPublisher) Publish(_ context.Context, msg Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, msg)
	return nil
}

// FailWith makes later publishes return err.
func (p *MemoryPublisher) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// Messages returns a copy of the recorded messages.
func (p *MemoryPublisher) Messages() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.messages)
}

// Close implements Publisher.
func (p *MemoryPublisher) Close() error { return nil }
