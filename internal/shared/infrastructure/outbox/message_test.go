package outbox

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/tracker/internal/shared/domain"
)

type testEvent struct {
	domain.BaseEvent
	Data string `json:"data"`
}

func newTestEvent(aggregateID int64, data string) *testEvent {
	return &testEvent{
		BaseEvent: domain.NewBaseEvent(aggregateID, "Task", "tracker.test.created"),
		Data:      data,
	}
}

func TestNewMessage(t *testing.T) {
	event := newTestEvent(42, "payload data")

	msg, err := NewMessage(event)
	require.NoError(t, err)

	assert.Zero(t, msg.ID)
	assert.Equal(t, event.EventID(), msg.EventID)
	assert.Equal(t, "Task", msg.AggregateType)
	assert.Equal(t, int64(42), msg.AggregateID)
	assert.Equal(t, "tracker.test.created", msg.RoutingKey)
	assert.Equal(t, event.OccurredAt(), msg.CreatedAt)
	assert.Zero(t, msg.RetryCount)

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Payload, &body))
	assert.Equal(t, "payload data", body["data"])
	assert.Equal(t, event.EventID().String(), body["event_id"])
}

func TestMessage_CanRetry(t *testing.T) {
	tests := []struct {
		name       string
		retryCount int
		maxRetries int
		want       bool
	}{
		{"below max", 2, 5, true},
		{"zero count", 0, 3, true},
		{"equals max", 5, 5, false},
		{"exceeds max", 10, 5, false},
		{"zero max", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := &Message{RetryCount: tt.retryCount}
			assert.Equal(t, tt.want, msg.CanRetry(tt.maxRetries))
		})
	}
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
