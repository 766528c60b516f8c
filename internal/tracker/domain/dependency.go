package domain

import sharedDomain "github.com/felixgeelhaar/tracker/internal/shared/domain"

// TaskDependency records that the parent task waits on the child task.
type TaskDependency struct {
	sharedDomain.BaseAggregateRoot
	parentTaskID int64
	childTaskID  int64
}

// NewTaskDependency validates the link. A task cannot depend on itself.
func NewTaskDependency(parentTaskID, childTaskID int64) (*TaskDependency, error) {
	verr := NewValidationError()
	if parentTaskID <= 0 {
		verr.Add("parent_task", "parent task is required")
	}
	if childTaskID <= 0 {
		verr.Add("child_task", "child task is required")
	}
	if parentTaskID == childTaskID && parentTaskID > 0 {
		verr.Add("child_task", "a task cannot depend on itself")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return &TaskDependency{parentTaskID: parentTaskID, childTaskID: childTaskID}, nil
}

func (d *TaskDependency) ParentTaskID() int64 { return d.parentTaskID }
func (d *TaskDependency) ChildTaskID() int64  { return d.childTaskID }

// MarkLinked assigns the stored id and records the link event.
func (d *TaskDependency) MarkLinked(id int64) {
	d.AssignID(id)
	d.AddDomainEvent(NewDependencyLinked(d))
}
