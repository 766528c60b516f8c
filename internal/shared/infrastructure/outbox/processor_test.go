package outbox

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/tracker/internal/shared/domain"
	"github.com/felixgeelhaar/tracker/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/tracker/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/tracker/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/tracker/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/tracker/pkg/observability"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	conn      database.Connection
	repo      *SQLRepository
	writer    *Writer
	publisher *eventbus.MemoryPublisher
	metrics   *observability.InMemoryMetrics
	processor *Processor
}

func newFixture(t *testing.T, cfg ProcessorConfig) *fixture {
	t.Helper()
	ctx := context.Background()
	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "outbox.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	_, err = migrations.Run(ctx, conn)
	require.NoError(t, err)

	f := &fixture{
		conn:      conn,
		repo:      NewSQLRepository(conn),
		publisher: &eventbus.MemoryPublisher{},
		metrics:   observability.NewInMemoryMetrics(),
	}
	f.writer = NewWriter(f.repo)
	f.processor = NewProcessor(f.repo, f.publisher, cfg, f.metrics, nil)
	return f
}

func (f *fixture) enqueue(t *testing.T, events ...domain.DomainEvent) {
	t.Helper()
	require.NoError(t, f.writer.Enqueue(context.Background(), events))
}

func TestProcessor_ProcessOnce(t *testing.T) {
	f := newFixture(t, DefaultProcessorConfig())
	ctx := context.Background()
	events := []domain.DomainEvent{newTestEvent(1, "a"), newTestEvent(2, "b"), newTestEvent(3, "c")}
	f.enqueue(t, events...)

	n, err := f.processor.ProcessOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	msgs := f.publisher.Messages()
	require.Len(t, msgs, 3)
	for i, event := range events {
		assert.Equal(t, event.EventID().String(), msgs[i].ID)
		assert.Equal(t, "tracker.test.created", msgs[i].RoutingKey)
		assert.JSONEq(t, mustJSON(t, event), string(msgs[i].Body))
	}
	assert.Equal(t, int64(3), f.metrics.GetCounter(observability.MetricEventsPublished,
		observability.T("routing_key", "tracker.test.created")))

	n, err = f.processor.ProcessOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "published messages are not sent twice")
	assert.Equal(t, uint64(3), f.processor.GetStats().PublishedCount)
}

func TestWriter_EnqueueJoinsUnitOfWork(t *testing.T) {
	f := newFixture(t, DefaultProcessorConfig())
	uow := database.NewUnitOfWork(f.conn)

	txCtx, err := uow.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, f.writer.Enqueue(txCtx, []domain.DomainEvent{newTestEvent(1, "a")}))
	require.NoError(t, uow.Rollback(txCtx))

	pending, err := f.repo.GetUnpublished(context.Background(), 10, time.Now())
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestWriter_EnqueueNothing(t *testing.T) {
	f := newFixture(t, DefaultProcessorConfig())
	require.NoError(t, f.writer.Enqueue(context.Background(), nil))
}

func TestProcessor_RetriesAfterBackoff(t *testing.T) {
	f := newFixture(t, DefaultProcessorConfig())
	ctx := context.Background()
	f.enqueue(t, newTestEvent(1, "a"))
	f.processor.now = func() time.Time { return t0 }
	f.publisher.FailWith(assert.AnError)

	n, err := f.processor.ProcessOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	stats := f.processor.GetStats()
	assert.Equal(t, uint64(1), stats.FailedCount)
	assert.Equal(t, assert.AnError.Error(), stats.LastError)

	pending, err := f.repo.GetUnpublished(ctx, 10, t0)
	require.NoError(t, err)
	assert.Empty(t, pending, "message waits for its retry time")

	f.publisher.FailWith(nil)
	f.processor.now = func() time.Time { return t0.Add(2 * time.Second) }
	n, err = f.processor.ProcessOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, f.publisher.Messages(), 1)
}

func TestProcessor_DeadLettersAfterMaxRetries(t *testing.T) {
	cfg := DefaultProcessorConfig()
	cfg.MaxRetries = 2
	f := newFixture(t, cfg)
	ctx := context.Background()
	f.enqueue(t, newTestEvent(1, "a"))
	f.publisher.FailWith(assert.AnError)

	for i := range 3 {
		at := t0.Add(time.Duration(i) * time.Hour)
		f.processor.now = func() time.Time { return at }
		_, err := f.processor.ProcessOnce(ctx)
		require.NoError(t, err)
	}

	stats := f.processor.GetStats()
	assert.Equal(t, uint64(1), stats.FailedCount)
	assert.Equal(t, uint64(1), stats.DeadCount)

	var (
		retries int
		reason  string
	)
	require.NoError(t, f.conn.QueryRow(ctx,
		`SELECT retry_count, dead_letter_reason FROM outbox`).Scan(&retries, &reason))
	assert.Equal(t, 2, retries)
	assert.Equal(t, assert.AnError.Error(), reason)
}

func TestProcessor_Cleanup(t *testing.T) {
	f := newFixture(t, DefaultProcessorConfig())
	ctx := context.Background()
	f.enqueue(t, newTestEvent(1, "a"), newTestEvent(2, "b"))
	f.processor.now = func() time.Time { return t0 }
	_, err := f.processor.ProcessOnce(ctx)
	require.NoError(t, err)
	f.enqueue(t, newTestEvent(3, "c"))

	f.processor.now = func() time.Time { return t0.Add(48 * time.Hour) }
	deleted, err := f.processor.Cleanup(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	var remaining int
	require.NoError(t, f.conn.QueryRow(ctx, `SELECT COUNT(*) FROM outbox`).Scan(&remaining))
	assert.Equal(t, 1, remaining, "pending messages are kept")
}

func TestProcessor_StartStop(t *testing.T) {
	cfg := DefaultProcessorConfig()
	cfg.PollInterval = 10 * time.Millisecond
	f := newFixture(t, cfg)
	f.enqueue(t, newTestEvent(1, "a"))

	f.processor.Start(context.Background())
	f.processor.Start(context.Background())
	assert.True(t, f.processor.IsRunning())

	require.Eventually(t, func() bool {
		return len(f.publisher.Messages()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	f.processor.Stop()
	f.processor.Stop()
	assert.False(t, f.processor.IsRunning())
	assert.False(t, f.processor.GetStats().IsRunning)
}

func TestProcessor_RetryBackoff(t *testing.T) {
	p := NewProcessor(nil, nil, ProcessorConfig{
		RetryBackoffBase: time.Second,
		RetryBackoffMax:  10 * time.Second,
	}, nil, nil)

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, time.Second},
		{2, 2 * time.Second},
		{4, 8 * time.Second},
		{5, 10 * time.Second},
		{100, 10 * time.Second},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.retryBackoff(tt.attempt), "attempt %d", tt.attempt)
	}
}
