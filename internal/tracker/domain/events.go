package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/tracker/internal/shared/domain"
)

const (
	RoutingKeyEmployeeCreated   = "tracker.employee.created"
	RoutingKeyTaskCreated       = "tracker.task.created"
	RoutingKeyTaskStatusChanged = "tracker.task.status_changed"
	RoutingKeyDependencyLinked  = "tracker.dependency.linked"
)

// EmployeeCreated is emitted when an employee is stored.
type EmployeeCreated struct {
	sharedDomain.BaseEvent
	FullName string `json:"full_name"`
	IsActive bool   `json:"is_active"`
}

// NewEmployeeCreated creates an EmployeeCreated event.
func NewEmployeeCreated(e *Employee) *EmployeeCreated {
	return &EmployeeCreated{
		BaseEvent: sharedDomain.NewBaseEvent(e.ID(), "Employee", RoutingKeyEmployeeCreated),
		FullName:  e.FullName(),
		IsActive:  e.IsActive(),
	}
}

// TaskCreated is emitted when a task is stored.
type TaskCreated struct {
	sharedDomain.BaseEvent
	Title      string    `json:"title"`
	Status     Status    `json:"status"`
	DueDate    time.Time `json:"due_date"`
	AssigneeID *int64    `json:"assignee_id"`
}

// NewTaskCreated creates a TaskCreated event.
func NewTaskCreated(t *Task) *TaskCreated {
	return &TaskCreated{
		BaseEvent:  sharedDomain.NewBaseEvent(t.ID(), "Task", RoutingKeyTaskCreated),
		Title:      t.Title(),
		Status:     t.Status(),
		DueDate:    t.DueDate(),
		AssigneeID: t.AssigneeID(),
	}
}

// TaskStatusChanged is emitted when a task moves between statuses.
type TaskStatusChanged struct {
	sharedDomain.BaseEvent
	From Status `json:"from"`
	To   Status `json:"to"`
}

// NewTaskStatusChanged creates a TaskStatusChanged event.
func NewTaskStatusChanged(t *Task, from Status) *TaskStatusChanged {
	return &TaskStatusChanged{
		BaseEvent: sharedDomain.NewBaseEvent(t.ID(), "Task", RoutingKeyTaskStatusChanged),
		From:      from,
		To:        t.Status(),
	}
}

// DependencyLinked is emitted when a dependency link is stored.
type DependencyLinked struct {
	sharedDomain.BaseEvent
	ParentTaskID int64 `json:"parent_task_id"`
	ChildTaskID  int64 `json:"child_task_id"`
}

// NewDependencyLinked creates a DependencyLinked event.
func NewDependencyLinked(d *TaskDependency) *DependencyLinked {
	return &DependencyLinked{
		BaseEvent:    sharedDomain.NewBaseEvent(d.ID(), "TaskDependency", RoutingKeyDependencyLinked),
		ParentTaskID: d.ParentTaskID(),
		ChildTaskID:  d.ChildTaskID(),
	}
}
