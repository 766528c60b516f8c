package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	sharedApplication "github.com/felixgeelhaar/tracker/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/tracker/internal/shared/domain"
	"github.com/felixgeelhaar/tracker/internal/tracker/domain"
	"github.com/felixgeelhaar/tracker/pkg/observability"
)

// EventOutbox records domain events in the caller's unit of work for
// delivery after commit.
type EventOutbox interface {
	Enqueue(ctx context.Context, events []sharedDomain.DomainEvent) error
}

// SeedCommand loads a fixture into the store.
type SeedCommand struct {
	Fixture *Fixture
}

// SeedResult maps fixture keys to the ids they were stored under.
type SeedResult struct {
	Employees    map[string]int64
	Tasks        map[string]int64
	Dependencies int
}

// SeedHandler writes a whole fixture and its events in one unit of work.
type SeedHandler struct {
	employees    domain.EmployeeRepository
	tasks        domain.TaskRepository
	dependencies domain.DependencyRepository
	uow          sharedApplication.UnitOfWork
	outbox       EventOutbox
	logger       *slog.Logger
}

// NewSeedHandler creates a new SeedHandler.
func NewSeedHandler(
	employees domain.EmployeeRepository,
	tasks domain.TaskRepository,
	dependencies domain.DependencyRepository,
	uow sharedApplication.UnitOfWork,
	outbox EventOutbox,
	logger *slog.Logger,
) *SeedHandler {
	if logger == nil {
		logger = observability.DiscardLogger()
	}
	return &SeedHandler{
		employees:    employees,
		tasks:        tasks,
		dependencies: dependencies,
		uow:          uow,
		outbox:       outbox,
		logger:       logger,
	}
}

// Handle executes the SeedCommand. Nothing is stored if any record is
// invalid.
func (h *SeedHandler) Handle(ctx context.Context, cmd SeedCommand) (*SeedResult, error) {
	if cmd.Fixture == nil {
		return nil, fmt.Errorf("seed: fixture is required")
	}

	var result *SeedResult
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		res := &SeedResult{
			Employees: make(map[string]int64, len(cmd.Fixture.Employees)),
			Tasks:     make(map[string]int64, len(cmd.Fixture.Tasks)),
		}
		var aggregates []sharedDomain.EventRecorder

		for i, ef := range cmd.Fixture.Employees {
			if ef.Key == "" {
				return fieldError(fmt.Sprintf("employees[%d].key", i), "key is required")
			}
			if _, dup := res.Employees[ef.Key]; dup {
				return fieldError(fmt.Sprintf("employees[%d].key", i), "duplicate key "+ef.Key)
			}
			employee, err := domain.NewEmployee(ef.FullName, ef.Position, ef.Email, ef.Active())
			if err != nil {
				return fmt.Errorf("employee %s: %w", ef.Key, err)
			}
			if err := h.employees.Create(txCtx, employee); err != nil {
				return fmt.Errorf("employee %s: %w", ef.Key, err)
			}
			res.Employees[ef.Key] = employee.ID()
			aggregates = append(aggregates, employee)
		}

		for i, tf := range cmd.Fixture.Tasks {
			task, err := h.buildTask(i, tf, res)
			if err != nil {
				return err
			}
			if err := h.tasks.Create(txCtx, task); err != nil {
				return fmt.Errorf("task %s: %w", tf.Key, err)
			}
			res.Tasks[tf.Key] = task.ID()
			aggregates = append(aggregates, task)
		}

		for i, df := range cmd.Fixture.Dependencies {
			parent, ok := res.Tasks[df.Parent]
			if !ok {
				return fieldError(fmt.Sprintf("dependencies[%d].parent", i), "unknown task "+df.Parent)
			}
			child, ok := res.Tasks[df.Child]
			if !ok {
				return fieldError(fmt.Sprintf("dependencies[%d].child", i), "unknown task "+df.Child)
			}
			dependency, err := domain.NewTaskDependency(parent, child)
			if err != nil {
				return fmt.Errorf("dependency %s -> %s: %w", df.Parent, df.Child, err)
			}
			if err := h.dependencies.Link(txCtx, dependency); err != nil {
				return fmt.Errorf("dependency %s -> %s: %w", df.Parent, df.Child, err)
			}
			res.Dependencies++
			aggregates = append(aggregates, dependency)
		}

		if err := enqueueEvents(txCtx, h.outbox, aggregates...); err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "fixture seeded",
		"employees", len(result.Employees),
		"tasks", len(result.Tasks),
		"dependencies", result.Dependencies,
	)
	return result, nil
}

func (h *SeedHandler) buildTask(i int, tf TaskFixture, res *SeedResult) (*domain.Task, error) {
	field := func(name string) string { return fmt.Sprintf("tasks[%d].%s", i, name) }

	if tf.Key == "" {
		return nil, fieldError(field("key"), "key is required")
	}
	if _, dup := res.Tasks[tf.Key]; dup {
		return nil, fieldError(field("key"), "duplicate key "+tf.Key)
	}

	due, err := tf.Due()
	if err != nil {
		return nil, fieldError(field("due_date"), "expected YYYY-MM-DD")
	}

	var status domain.Status
	if tf.Status != "" {
		if status, err = domain.ParseStatus(strings.ToUpper(tf.Status)); err != nil {
			return nil, fieldError(field("status"), err.Error())
		}
	}

	assignee, err := employeeRef(res, tf.Assignee, field("assignee"))
	if err != nil {
		return nil, err
	}
	owner, err := employeeRef(res, tf.Owner, field("owner"))
	if err != nil {
		return nil, err
	}

	task, err := domain.NewTask(domain.NewTaskParams{
		Title:         tf.Title,
		Description:   tf.Description,
		ReviewComment: tf.ReviewComment,
		Status:        status,
		DueDate:       due,
		AssigneeID:    assignee,
		OwnerID:       owner,
	})
	if err != nil {
		return nil, fmt.Errorf("task %s: %w", tf.Key, err)
	}
	return task, nil
}

// enqueueEvents moves the recorded events of aggregates into the outbox.
func enqueueEvents(ctx context.Context, outbox EventOutbox, aggregates ...sharedDomain.EventRecorder) error {
	var events []sharedDomain.DomainEvent
	for _, agg := range aggregates {
		events = append(events, agg.DomainEvents()...)
	}
	if outbox != nil && len(events) > 0 {
		if err := outbox.Enqueue(ctx, events); err != nil {
			return fmt.Errorf("enqueue events: %w", err)
		}
	}
	for _, agg := range aggregates {
		agg.ClearDomainEvents()
	}
	return nil
}

func employeeRef(res *SeedResult, key, field string) (*int64, error) {
	if key == "" {
		return nil, nil
	}
	id, ok := res.Employees[key]
	if !ok {
		return nil, fieldError(field, "unknown employee "+key)
	}
	return &id, nil
}

func fieldError(field, message string) error {
	verr := domain.NewValidationError()
	verr.Add(field, message)
	return verr
}
