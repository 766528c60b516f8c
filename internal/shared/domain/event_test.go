package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/tracker/internal/shared/domain"
)

type taskCreated struct {
	domain.BaseEvent
	Title string `json:"title"`
}

func TestNewBaseEvent(t *testing.T) {
	before := time.Now().UTC()
	event := domain.NewBaseEvent(42, "Task", "tracker.task.created")
	after := time.Now().UTC()

	assert.NotEqual(t, uuid.Nil, event.EventID())
	assert.Equal(t, int64(42), event.AggregateID())
	assert.Equal(t, "Task", event.AggregateType())
	assert.Equal(t, "tracker.task.created", event.RoutingKey())
	assert.False(t, event.OccurredAt().Before(before))
	assert.False(t, event.OccurredAt().After(after))
}

func TestBaseEvent_EmbeddedJSON(t *testing.T) {
	var event domain.DomainEvent = taskCreated{
		BaseEvent: domain.NewBaseEvent(7, "Task", "tracker.task.created"),
		Title:     "Ship release",
	}

	payload, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, "Ship release", decoded["title"])
	assert.Equal(t, float64(7), decoded["aggregate_id"])
	assert.Equal(t, "tracker.task.created", decoded["routing_key"])
}
