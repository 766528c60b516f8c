// Package persistence stores the tracker aggregates through the shared
// driver-agnostic database layer.
package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"slices"

	"github.com/felixgeelhaar/tracker/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/tracker/internal/tracker/domain"
)

// maxBatchIDs caps the bound ids in one IN list. SQLite builds before
// 3.32 allow 999 parameters and PostgreSQL allows 65535, so larger id sets
// are split across queries.
const maxBatchIDs = 500

// SQLTaskGraph implements domain.TaskGraph with one query per operation,
// or one per id batch for the id-filtered lookups.
type SQLTaskGraph struct {
	conn      database.Connection
	batchSize int
}

// NewSQLTaskGraph creates a task graph reader over conn.
func NewSQLTaskGraph(conn database.Connection) *SQLTaskGraph {
	return &SQLTaskGraph{conn: conn, batchSize: maxBatchIDs}
}

var _ domain.TaskGraph = (*SQLTaskGraph)(nil)

// statusFilter renders "column IN (?, ...)" for the set. An empty set
// matches nothing.
func statusFilter(column string, set domain.StatusSet) (string, []any) {
	if set.Len() == 0 {
		return "1 = 0", nil
	}
	return column + " IN (" + database.Placeholders(set.Len()) + ")", set.Args()
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStorageUnavailable, op, err)
}

// inBatches runs fetch over the distinct ids in ascending batches. Each
// query orders by the filtered id first, so the concatenation keeps that
// order across batches.
func inBatches[R any](ids []int64, size int, fetch func(batch []int64) ([]R, error)) ([]R, error) {
	ids = slices.Compact(slices.Sorted(slices.Values(ids)))
	var out []R
	for batch := range slices.Chunk(ids, size) {
		part, err := fetch(batch)
		if err != nil {
			return nil, err
		}
		out = append(out, part...)
	}
	return out, nil
}

// ActiveEmployeesWithLoad implements domain.TaskGraph.
func (g *SQLTaskGraph) ActiveEmployeesWithLoad(ctx context.Context, active domain.StatusSet) ([]domain.EmployeeLoad, error) {
	filter, args := statusFilter("t.status", active)
	query := `
		SELECT e.id, e.full_name, COUNT(t.id) AS active_count
		FROM employees e
		LEFT JOIN tasks t ON t.assignee_id = e.id AND ` + filter + `
		WHERE e.is_active = TRUE
		GROUP BY e.id, e.full_name
		ORDER BY active_count DESC, e.id ASC`

	rows, err := database.ExecutorFromContext(ctx, g.conn).Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr("active employees", err)
	}
	defer rows.Close()

	var loads []domain.EmployeeLoad
	for rows.Next() {
		var l domain.EmployeeLoad
		if err := rows.Scan(&l.ID, &l.FullName, &l.ActiveTasks); err != nil {
			return nil, storageErr("scan employee load", err)
		}
		loads = append(loads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("active employees", err)
	}
	return loads, nil
}

// ActiveTasksForEmployees implements domain.TaskGraph.
func (g *SQLTaskGraph) ActiveTasksForEmployees(ctx context.Context, active domain.StatusSet, employeeIDs []int64) ([]domain.AssignedTask, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}
	return inBatches(employeeIDs, g.batchSize, func(batch []int64) ([]domain.AssignedTask, error) {
		return g.activeTasks(ctx, active, batch)
	})
}

func (g *SQLTaskGraph) activeTasks(ctx context.Context, active domain.StatusSet, employeeIDs []int64) ([]domain.AssignedTask, error) {
	filter, args := statusFilter("t.status", active)
	query := `
		SELECT t.id, t.title, t.status, t.due_date, e.id, e.full_name
		FROM tasks t
		JOIN employees e ON e.id = t.assignee_id
		WHERE ` + filter + `
		  AND t.assignee_id IN (` + database.Placeholders(len(employeeIDs)) + `)
		ORDER BY t.assignee_id ASC, t.id ASC`
	args = append(args, database.Int64Args(employeeIDs)...)

	rows, err := database.ExecutorFromContext(ctx, g.conn).Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr("active tasks", err)
	}
	defer rows.Close()

	var tasks []domain.AssignedTask
	for rows.Next() {
		var (
			t      domain.AssignedTask
			status string
			due    database.Date
		)
		if err := rows.Scan(&t.ID, &t.Title, &status, &due, &t.AssigneeID, &t.AssigneeName); err != nil {
			return nil, storageErr("scan active task", err)
		}
		t.Status = domain.Status(status)
		t.DueDate = due.Time
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("active tasks", err)
	}
	return tasks, nil
}

// ImportantTaskCandidates implements domain.TaskGraph.
func (g *SQLTaskGraph) ImportantTaskCandidates(ctx context.Context, active domain.StatusSet) ([]domain.TaskSummary, error) {
	filter, activeArgs := statusFilter("c.status", active)
	query := `
		SELECT t.id, t.title, t.due_date, t.created_at
		FROM tasks t
		WHERE t.status = ?
		  AND EXISTS (
			SELECT 1
			FROM task_dependencies d
			JOIN tasks c ON c.id = d.child_task_id
			WHERE d.parent_task_id = t.id AND ` + filter + `
		  )
		ORDER BY t.due_date ASC, t.created_at ASC, t.id ASC`
	args := append([]any{string(domain.StatusNew)}, activeArgs...)

	rows, err := database.ExecutorFromContext(ctx, g.conn).Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr("important candidates", err)
	}
	defer rows.Close()

	var summaries []domain.TaskSummary
	for rows.Next() {
		var (
			s       domain.TaskSummary
			due     database.Date
			created database.Timestamp
		)
		if err := rows.Scan(&s.ID, &s.Title, &due, &created); err != nil {
			return nil, storageErr("scan candidate", err)
		}
		s.DueDate = due.Time
		s.CreatedAt = created.Time
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("important candidates", err)
	}
	return summaries, nil
}

// ActiveDependencyEdges implements domain.TaskGraph.
func (g *SQLTaskGraph) ActiveDependencyEdges(ctx context.Context, active domain.StatusSet, parentIDs []int64) ([]domain.DependencyEdge, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	return inBatches(parentIDs, g.batchSize, func(batch []int64) ([]domain.DependencyEdge, error) {
		return g.dependencyEdges(ctx, active, batch)
	})
}

func (g *SQLTaskGraph) dependencyEdges(ctx context.Context, active domain.StatusSet, parentIDs []int64) ([]domain.DependencyEdge, error) {
	filter, activeArgs := statusFilter("c.status", active)
	query := `
		SELECT d.parent_task_id, d.child_task_id, c.status, c.assignee_id
		FROM task_dependencies d
		JOIN tasks c ON c.id = d.child_task_id
		WHERE d.parent_task_id IN (` + database.Placeholders(len(parentIDs)) + `)
		  AND ` + filter + `
		ORDER BY d.parent_task_id ASC, d.child_task_id ASC`
	args := append(database.Int64Args(parentIDs), activeArgs...)

	rows, err := database.ExecutorFromContext(ctx, g.conn).Query(ctx, query, args...)
	if err != nil {
		return nil, storageErr("dependency edges", err)
	}
	defer rows.Close()

	var edges []domain.DependencyEdge
	for rows.Next() {
		var (
			e        domain.DependencyEdge
			status   string
			assignee sql.NullInt64
		)
		if err := rows.Scan(&e.ParentTaskID, &e.ChildTaskID, &status, &assignee); err != nil {
			return nil, storageErr("scan dependency edge", err)
		}
		e.ChildStatus = domain.Status(status)
		if assignee.Valid {
			id := assignee.Int64
			e.ChildAssigneeID = &id
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("dependency edges", err)
	}
	return edges, nil
}
