// Package services implements the analytics computations over the task
// graph.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/tracker/internal/analytics/domain"
	trackerDomain "github.com/felixgeelhaar/tracker/internal/tracker/domain"
	"github.com/felixgeelhaar/tracker/pkg/observability"
)

// storageFailure tags err as a storage failure unless it already is one.
func storageFailure(op string, err error) error {
	if errors.Is(err, trackerDomain.ErrStorageUnavailable) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, trackerDomain.ErrStorageUnavailable, err)
}

// WorkloadAggregator computes per-employee active workload.
type WorkloadAggregator struct {
	graph  trackerDomain.TaskGraph
	active trackerDomain.StatusSet
	logger *slog.Logger
}

// NewWorkloadAggregator creates an aggregator counting tasks in active.
func NewWorkloadAggregator(graph trackerDomain.TaskGraph, active trackerDomain.StatusSet, logger *slog.Logger) *WorkloadAggregator {
	if logger == nil {
		logger = observability.DiscardLogger()
	}
	return &WorkloadAggregator{graph: graph, active: active, logger: logger}
}

// ActiveLoad reads the load of every active employee in a single query.
func (a *WorkloadAggregator) ActiveLoad(ctx context.Context) (domain.LoadSnapshot, error) {
	rows, err := a.graph.ActiveEmployeesWithLoad(ctx, a.active)
	if err != nil {
		return domain.LoadSnapshot{}, storageFailure("active load", err)
	}
	return domain.NewLoadSnapshot(rows), nil
}

// Aggregate returns the load snapshot plus the busy employees, ordered by
// load desc then id, each with its active tasks in id order. Employees
// without active work stay in the snapshot but are left out of Busy.
func (a *WorkloadAggregator) Aggregate(ctx context.Context) (domain.Workload, error) {
	snapshot, err := a.ActiveLoad(ctx)
	if err != nil {
		return domain.Workload{}, err
	}

	busyIDs := make([]int64, 0, len(snapshot.Employees))
	for _, e := range snapshot.Employees {
		if e.ActiveTasks > 0 {
			busyIDs = append(busyIDs, e.ID)
		}
	}

	byAssignee := make(map[int64][]domain.ActiveTask, len(busyIDs))
	if len(busyIDs) > 0 {
		tasks, err := a.graph.ActiveTasksForEmployees(ctx, a.active, busyIDs)
		if err != nil {
			return domain.Workload{}, storageFailure("active tasks", err)
		}
		for _, t := range tasks {
			byAssignee[t.AssigneeID] = append(byAssignee[t.AssigneeID], domain.ActiveTask{
				ID:      t.ID,
				Title:   t.Title,
				Status:  t.Status,
				DueDate: domain.NewDate(t.DueDate),
			})
		}
	}

	busy := make([]domain.BusyEmployee, 0, len(busyIDs))
	for _, e := range snapshot.Employees {
		if e.ActiveTasks == 0 {
			continue
		}
		tasks := byAssignee[e.ID]
		if tasks == nil {
			tasks = []domain.ActiveTask{}
		}
		busy = append(busy, domain.BusyEmployee{
			ID:               e.ID,
			FullName:         e.FullName,
			ActiveTasksCount: e.ActiveTasks,
			ActiveTasks:      tasks,
		})
	}

	a.logger.DebugContext(ctx, "workload aggregated",
		"active_employees", len(snapshot.Employees),
		"busy_employees", len(busy),
	)
	return domain.Workload{Snapshot: snapshot, Busy: busy}, nil
}
