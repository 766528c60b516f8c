package domain

import "context"

// EmployeeRepository persists employees.
type EmployeeRepository interface {
	Create(ctx context.Context, employee *Employee) error
	FindByID(ctx context.Context, id int64) (*Employee, error)
}

// TaskRepository persists tasks.
type TaskRepository interface {
	Create(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, id int64) (*Task, error)
	UpdateStatus(ctx context.Context, task *Task) error
}

// DependencyRepository persists dependency links.
type DependencyRepository interface {
	Link(ctx context.Context, dependency *TaskDependency) error
}
