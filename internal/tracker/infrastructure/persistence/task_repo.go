package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/felixgeelhaar/tracker/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/tracker/internal/tracker/domain"
)

// TaskRepository implements domain.TaskRepository.
type TaskRepository struct {
	conn database.Connection
}

// NewTaskRepository creates a new task repository.
func NewTaskRepository(conn database.Connection) *TaskRepository {
	return &TaskRepository{conn: conn}
}

var _ domain.TaskRepository = (*TaskRepository)(nil)

// Create inserts the task and records its creation event.
func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	var id int64
	err := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, `
		INSERT INTO tasks (title, description, review_comment, assignee_id, owner_id, status, due_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		t.Title(),
		nullString(t.Description()),
		nullString(t.ReviewComment()),
		nullInt64(t.AssigneeID()),
		nullInt64(t.OwnerID()),
		t.Status().String(),
		database.NewDate(t.DueDate()),
		database.NewTimestamp(t.CreatedAt()),
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	t.MarkCreated(id)
	return nil
}

// FindByID loads a task.
func (r *TaskRepository) FindByID(ctx context.Context, id int64) (*domain.Task, error) {
	var (
		p                          domain.NewTaskParams
		description, reviewComment sql.NullString
		assigneeID, ownerID        sql.NullInt64
		status                     string
		due                        database.Date
		createdAt                  database.Timestamp
	)
	err := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, `
		SELECT title, description, review_comment, assignee_id, owner_id, status, due_date, created_at
		FROM tasks WHERE id = ?`, id,
	).Scan(&p.Title, &description, &reviewComment, &assigneeID, &ownerID, &status, &due, &createdAt)
	if database.IsNoRows(err) {
		return nil, fmt.Errorf("task %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load task: %w", err)
	}

	p.Description = description.String
	p.ReviewComment = reviewComment.String
	p.AssigneeID = int64Ptr(assigneeID)
	p.OwnerID = int64Ptr(ownerID)
	p.Status = domain.Status(status)
	p.DueDate = due.Time
	return domain.RehydrateTask(id, p, createdAt.Time), nil
}

// UpdateStatus writes the task's current status.
func (r *TaskRepository) UpdateStatus(ctx context.Context, t *domain.Task) error {
	res, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx,
		`UPDATE tasks SET status = ? WHERE id = ?`, t.Status().String(), t.ID())
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("task %d: %w", t.ID(), domain.ErrNotFound)
	}
	return nil
}
