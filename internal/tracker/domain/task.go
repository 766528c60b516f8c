package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/tracker/internal/shared/domain"
)

// Task is a unit of work with an optional owner and assignee.
type Task struct {
	sharedDomain.BaseAggregateRoot
	title         string
	description   string
	reviewComment string
	status        Status
	dueDate       time.Time
	createdAt     time.Time
	assigneeID    *int64
	ownerID       *int64
}

// NewTaskParams holds the writable fields of a task.
type NewTaskParams struct {
	Title         string
	Description   string
	ReviewComment string
	Status        Status
	DueDate       time.Time
	AssigneeID    *int64
	OwnerID       *int64
}

// NewTask validates and builds a task that has not been stored yet. An empty
// status defaults to NEW.
func NewTask(p NewTaskParams) (*Task, error) {
	if p.Status == "" {
		p.Status = StatusNew
	}

	verr := NewValidationError()
	if strings.TrimSpace(p.Title) == "" {
		verr.Add("title", "title is required")
	}
	if !p.Status.IsValid() {
		verr.Add("status", "unknown status "+string(p.Status))
	}
	if p.DueDate.IsZero() {
		verr.Add("due_date", "due date is required")
	}
	if p.AssigneeID != nil && p.OwnerID != nil && *p.AssigneeID == *p.OwnerID {
		verr.Add("assignee", "the task owner cannot be its assignee")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	return &Task{
		title:         strings.TrimSpace(p.Title),
		description:   p.Description,
		reviewComment: p.ReviewComment,
		status:        p.Status,
		dueDate:       truncateToDate(p.DueDate),
		createdAt:     time.Now().UTC(),
		assigneeID:    p.AssigneeID,
		ownerID:       p.OwnerID,
	}, nil
}

// RehydrateTask rebuilds a task from stored values.
func RehydrateTask(id int64, p NewTaskParams, createdAt time.Time) *Task {
	t := &Task{
		title:         p.Title,
		description:   p.Description,
		reviewComment: p.ReviewComment,
		status:        p.Status,
		dueDate:       p.DueDate,
		createdAt:     createdAt,
		assigneeID:    p.AssigneeID,
		ownerID:       p.OwnerID,
	}
	t.AssignID(id)
	return t
}

func (t *Task) Title() string         { return t.title }
func (t *Task) Description() string   { return t.description }
func (t *Task) ReviewComment() string { return t.reviewComment }
func (t *Task) Status() Status        { return t.status }
func (t *Task) DueDate() time.Time    { return t.dueDate }
func (t *Task) CreatedAt() time.Time  { return t.createdAt }
func (t *Task) AssigneeID() *int64    { return t.assigneeID }
func (t *Task) OwnerID() *int64       { return t.ownerID }

// MarkCreated assigns the stored id and records the creation event.
func (t *Task) MarkCreated(id int64) {
	t.AssignID(id)
	t.AddDomainEvent(NewTaskCreated(t))
}

// ChangeStatus moves the task to status and records the change.
func (t *Task) ChangeStatus(status Status) error {
	if !status.IsValid() {
		return ErrInvalidStatus
	}
	if status == t.status {
		return nil
	}
	previous := t.status
	t.status = status
	t.AddDomainEvent(NewTaskStatusChanged(t, previous))
	return nil
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
