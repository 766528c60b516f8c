package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/tracker/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/tracker/internal/tracker/domain"
)

// DependencyRepository implements domain.DependencyRepository.
type DependencyRepository struct {
	conn database.Connection
}

// NewDependencyRepository creates a new dependency repository.
func NewDependencyRepository(conn database.Connection) *DependencyRepository {
	return &DependencyRepository{conn: conn}
}

var _ domain.DependencyRepository = (*DependencyRepository)(nil)

// Link inserts the parent/child pair. A second link of the same pair returns
// domain.ErrDuplicateDependency.
func (r *DependencyRepository) Link(ctx context.Context, d *domain.TaskDependency) error {
	var id int64
	err := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, `
		INSERT INTO task_dependencies (parent_task_id, child_task_id)
		VALUES (?, ?)
		RETURNING id`,
		d.ParentTaskID(), d.ChildTaskID(),
	).Scan(&id)
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("%d -> %d: %w", d.ParentTaskID(), d.ChildTaskID(), domain.ErrDuplicateDependency)
	}
	if err != nil {
		return fmt.Errorf("failed to link dependency: %w", err)
	}
	d.MarkLinked(id)
	return nil
}
