package services

import (
	"time"

	"github.com/felixgeelhaar/tracker/internal/tracker/domain"
	"github.com/felixgeelhaar/tracker/internal/tracker/infrastructure/memory"
)

func ptr(v int64) *int64 { return &v }

func day(d int) time.Time { return time.Date(2026, 4, d, 0, 0, 0, 0, time.UTC) }

// graphBuilder assigns ids sequentially so fixtures read top to bottom.
type graphBuilder struct {
	g      *memory.Graph
	nextID int64
}

func newGraphBuilder() *graphBuilder {
	return &graphBuilder{g: memory.NewGraph(), nextID: 100}
}

func (b *graphBuilder) employee(id int64, name string, active bool) int64 {
	b.g.AddEmployee(memory.Employee{ID: id, FullName: name, IsActive: active})
	return id
}

func (b *graphBuilder) task(title string, status domain.Status, assignee *int64, due int) int64 {
	b.nextID++
	b.g.AddTask(memory.Task{
		ID:         b.nextID,
		Title:      title,
		Status:     status,
		AssigneeID: assignee,
		DueDate:    day(due),
		CreatedAt:  day(1),
	})
	return b.nextID
}

// load gives an employee n active tasks.
func (b *graphBuilder) load(employeeID int64, n int) {
	for range n {
		b.task("filler", domain.StatusInProgress, ptr(employeeID), 28)
	}
}
