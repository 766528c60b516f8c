package outbox

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/tracker/internal/shared/infrastructure/database"
)

// SQLRepository implements Repository on either supported driver.
type SQLRepository struct {
	conn database.Connection
}

// NewSQLRepository creates a new SQLRepository.
func NewSQLRepository(conn database.Connection) *SQLRepository {
	return &SQLRepository{conn: conn}
}

func (r *SQLRepository) exec(ctx context.Context, query string, args ...any) (database.Result, error) {
	return database.ExecutorFromContext(ctx, r.conn).Exec(ctx, query, args...)
}

// SaveBatch stores msgs in order.
func (r *SQLRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	const query = `
		INSERT INTO outbox (event_id, aggregate_type, aggregate_id, routing_key, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id`

	exec := database.ExecutorFromContext(ctx, r.conn)
	for _, msg := range msgs {
		err := exec.QueryRow(ctx, query,
			msg.EventID.String(),
			msg.AggregateType,
			msg.AggregateID,
			msg.RoutingKey,
			string(msg.Payload),
			database.NewTimestamp(msg.CreatedAt),
		).Scan(&msg.ID)
		if err != nil {
			return fmt.Errorf("save outbox message %s: %w", msg.EventID, err)
		}
	}
	return nil
}

// GetUnpublished returns up to limit pending messages.
func (r *SQLRepository) GetUnpublished(ctx context.Context, limit int, now time.Time) ([]*Message, error) {
	const query = `
		SELECT id, event_id, aggregate_type, aggregate_id, routing_key, payload, created_at, retry_count
		FROM outbox
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY id
		LIMIT ?`

	rows, err := database.ExecutorFromContext(ctx, r.conn).Query(ctx, query, database.NewTimestamp(now), limit)
	if err != nil {
		return nil, fmt.Errorf("query outbox: %w", err)
	}
	defer rows.Close()

	var msgs []*Message
	for rows.Next() {
		var (
			msg       Message
			eventID   string
			payload   string
			createdAt database.Timestamp
		)
		if err := rows.Scan(&msg.ID, &eventID, &msg.AggregateType, &msg.AggregateID,
			&msg.RoutingKey, &payload, &createdAt, &msg.RetryCount); err != nil {
			return nil, fmt.Errorf("scan outbox message: %w", err)
		}
		if msg.EventID, err = uuid.Parse(eventID); err != nil {
			return nil, fmt.Errorf("outbox message %d: %w", msg.ID, err)
		}
		msg.Payload = []byte(payload)
		msg.CreatedAt = createdAt.Time
		msgs = append(msgs, &msg)
	}
	return msgs, rows.Err()
}

func (r *SQLRepository) MarkPublished(ctx context.Context, id int64, at time.Time) error {
	_, err := r.exec(ctx, `UPDATE outbox SET published_at = ? WHERE id = ?`, database.NewTimestamp(at), id)
	return err
}

func (r *SQLRepository) MarkFailed(ctx context.Context, id int64, reason string, nextRetryAt time.Time) error {
	_, err := r.exec(ctx,
		`UPDATE outbox SET retry_count = retry_count + 1, last_error = ?, next_retry_at = ? WHERE id = ?`,
		reason, database.NewTimestamp(nextRetryAt), id)
	return err
}

func (r *SQLRepository) MarkDead(ctx context.Context, id int64, reason string, at time.Time) error {
	_, err := r.exec(ctx,
		`UPDATE outbox SET retry_count = retry_count + 1, last_error = ?, dead_lettered_at = ?, dead_letter_reason = ? WHERE id = ?`,
		reason, database.NewTimestamp(at), reason, id)
	return err
}

func (r *SQLRepository) DeleteOld(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.exec(ctx,
		`DELETE FROM outbox WHERE published_at IS NOT NULL AND published_at < ?`,
		database.NewTimestamp(before))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
