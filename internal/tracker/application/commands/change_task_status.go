package commands

import (
	"context"
	"fmt"
	"strings"

	sharedApplication "github.com/felixgeelhaar/tracker/internal/shared/application"
	"github.com/felixgeelhaar/tracker/internal/tracker/domain"
)

// ChangeTaskStatusCommand moves a task to another status.
type ChangeTaskStatusCommand struct {
	TaskID int64
	Status string
}

// ChangeTaskStatusHandler handles the ChangeTaskStatusCommand.
type ChangeTaskStatusHandler struct {
	tasks  domain.TaskRepository
	uow    sharedApplication.UnitOfWork
	outbox EventOutbox
}

// NewChangeTaskStatusHandler creates a new ChangeTaskStatusHandler.
func NewChangeTaskStatusHandler(
	tasks domain.TaskRepository,
	uow sharedApplication.UnitOfWork,
	outbox EventOutbox,
) *ChangeTaskStatusHandler {
	return &ChangeTaskStatusHandler{tasks: tasks, uow: uow, outbox: outbox}
}

// Handle executes the ChangeTaskStatusCommand and returns the updated task.
func (h *ChangeTaskStatusHandler) Handle(ctx context.Context, cmd ChangeTaskStatusCommand) (*domain.Task, error) {
	status, err := domain.ParseStatus(strings.ToUpper(strings.TrimSpace(cmd.Status)))
	if err != nil {
		return nil, fieldError("status", err.Error())
	}

	var task *domain.Task
	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		found, err := h.tasks.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return fmt.Errorf("task %d: %w", cmd.TaskID, err)
		}
		if err := found.ChangeStatus(status); err != nil {
			return err
		}
		if err := h.tasks.UpdateStatus(txCtx, found); err != nil {
			return fmt.Errorf("task %d: %w", cmd.TaskID, err)
		}
		if err := enqueueEvents(txCtx, h.outbox, found); err != nil {
			return err
		}
		task = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}
