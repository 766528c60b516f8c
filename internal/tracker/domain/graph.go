package domain

import (
	"context"
	"time"
)

// EmployeeLoad is an active employee with its count of active tasks.
type EmployeeLoad struct {
	ID          int64
	FullName    string
	ActiveTasks int
}

// AssignedTask is an active task joined with its assignee.
type AssignedTask struct {
	ID           int64
	Title        string
	Status       Status
	DueDate      time.Time
	AssigneeID   int64
	AssigneeName string
}

// TaskSummary is the subset of a task needed to rank it.
type TaskSummary struct {
	ID        int64
	Title     string
	DueDate   time.Time
	CreatedAt time.Time
}

// DependencyEdge links a parent task to one of its active children.
type DependencyEdge struct {
	ParentTaskID    int64
	ChildTaskID     int64
	ChildStatus     Status
	ChildAssigneeID *int64
}

// TaskGraph is the read contract the analytics layer needs from storage.
// Implementations return errors only for infrastructure failures.
type TaskGraph interface {
	// ActiveEmployeesWithLoad returns every active employee with its number
	// of tasks in the active set, ordered by count desc then id asc.
	ActiveEmployeesWithLoad(ctx context.Context, active StatusSet) ([]EmployeeLoad, error)

	// ActiveTasksForEmployees returns every task in the active set assigned to
	// one of employeeIDs, ordered by assignee id then task id.
	ActiveTasksForEmployees(ctx context.Context, active StatusSet, employeeIDs []int64) ([]AssignedTask, error)

	// ImportantTaskCandidates returns distinct NEW tasks that are the parent of
	// at least one child in the active set, ordered by due date, creation
	// time, then id.
	ImportantTaskCandidates(ctx context.Context, active StatusSet) ([]TaskSummary, error)

	// ActiveDependencyEdges returns the edges of parentIDs whose child is in
	// the active set, ordered by parent id then child id.
	ActiveDependencyEdges(ctx context.Context, active StatusSet, parentIDs []int64) ([]DependencyEdge, error)
}
