// Package memory provides an in-process task graph used by tests and
// fixtures.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/felixgeelhaar/tracker/internal/tracker/domain"
)

// Employee is a stored employee row.
type Employee struct {
	ID       int64
	FullName string
	IsActive bool
}

// Task is a stored task row.
type Task struct {
	ID         int64
	Title      string
	Status     domain.Status
	DueDate    time.Time
	CreatedAt  time.Time
	AssigneeID *int64
}

// Graph implements domain.TaskGraph over maps. Results follow the same
// ordering contract as the SQL implementation.
type Graph struct {
	mu        sync.RWMutex
	employees map[int64]Employee
	tasks     map[int64]Task
	deps      map[[2]int64]struct{}
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		employees: make(map[int64]Employee),
		tasks:     make(map[int64]Task),
		deps:      make(map[[2]int64]struct{}),
	}
}

var _ domain.TaskGraph = (*Graph)(nil)

// AddEmployee stores or replaces an employee.
func (g *Graph) AddEmployee(e Employee) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.employees[e.ID] = e
}

// AddTask stores or replaces a task.
func (g *Graph) AddTask(t Task) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tasks[t.ID] = t
}

// Link records that parent depends on child. Self links and duplicates are
// ignored.
func (g *Graph) Link(parentID, childID int64) {
	if parentID == childID {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.deps[[2]int64{parentID, childID}] = struct{}{}
}

func (g *Graph) activeLoadLocked(active domain.StatusSet) map[int64]int {
	load := make(map[int64]int)
	for _, t := range g.tasks {
		if t.AssigneeID != nil && active.Contains(t.Status) {
			load[*t.AssigneeID]++
		}
	}
	return load
}

// ActiveEmployeesWithLoad implements domain.TaskGraph.
func (g *Graph) ActiveEmployeesWithLoad(ctx context.Context, active domain.StatusSet) ([]domain.EmployeeLoad, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	load := g.activeLoadLocked(active)
	var out []domain.EmployeeLoad
	for _, e := range g.employees {
		if !e.IsActive {
			continue
		}
		out = append(out, domain.EmployeeLoad{ID: e.ID, FullName: e.FullName, ActiveTasks: load[e.ID]})
	}
	slices.SortFunc(out, func(a, b domain.EmployeeLoad) int {
		return cmp.Or(cmp.Compare(b.ActiveTasks, a.ActiveTasks), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

// ActiveTasksForEmployees implements domain.TaskGraph.
func (g *Graph) ActiveTasksForEmployees(ctx context.Context, active domain.StatusSet, employeeIDs []int64) ([]domain.AssignedTask, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []domain.AssignedTask
	for _, t := range g.tasks {
		if t.AssigneeID == nil || !active.Contains(t.Status) || !slices.Contains(employeeIDs, *t.AssigneeID) {
			continue
		}
		e, ok := g.employees[*t.AssigneeID]
		if !ok {
			continue
		}
		out = append(out, domain.AssignedTask{
			ID:           t.ID,
			Title:        t.Title,
			Status:       t.Status,
			DueDate:      t.DueDate,
			AssigneeID:   e.ID,
			AssigneeName: e.FullName,
		})
	}
	slices.SortFunc(out, func(a, b domain.AssignedTask) int {
		return cmp.Or(cmp.Compare(a.AssigneeID, b.AssigneeID), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

// ImportantTaskCandidates implements domain.TaskGraph.
func (g *Graph) ImportantTaskCandidates(ctx context.Context, active domain.StatusSet) ([]domain.TaskSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	blocked := make(map[int64]bool)
	for pair := range g.deps {
		child, ok := g.tasks[pair[1]]
		if ok && active.Contains(child.Status) {
			blocked[pair[0]] = true
		}
	}

	var out []domain.TaskSummary
	for id := range blocked {
		t, ok := g.tasks[id]
		if !ok || t.Status != domain.StatusNew {
			continue
		}
		out = append(out, domain.TaskSummary{ID: t.ID, Title: t.Title, DueDate: t.DueDate, CreatedAt: t.CreatedAt})
	}
	slices.SortFunc(out, func(a, b domain.TaskSummary) int {
		return cmp.Or(a.DueDate.Compare(b.DueDate), a.CreatedAt.Compare(b.CreatedAt), cmp.Compare(a.ID, b.ID))
	})
	return out, nil
}

// ActiveDependencyEdges implements domain.TaskGraph.
func (g *Graph) ActiveDependencyEdges(ctx context.Context, active domain.StatusSet, parentIDs []int64) ([]domain.DependencyEdge, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []domain.DependencyEdge
	for pair := range g.deps {
		if !slices.Contains(parentIDs, pair[0]) {
			continue
		}
		child, ok := g.tasks[pair[1]]
		if !ok || !active.Contains(child.Status) {
			continue
		}
		out = append(out, domain.DependencyEdge{
			ParentTaskID:    pair[0],
			ChildTaskID:     pair[1],
			ChildStatus:     child.Status,
			ChildAssigneeID: child.AssigneeID,
		})
	}
	slices.SortFunc(out, func(a, b domain.DependencyEdge) int {
		return cmp.Or(cmp.Compare(a.ParentTaskID, b.ParentTaskID), cmp.Compare(a.ChildTaskID, b.ChildTaskID))
	})
	return out, nil
}
