package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	trackerDomain "github.com/felixgeelhaar/tracker/internal/tracker/domain"
)

type mockGraph struct {
	mock.Mock
}

func (m *mockGraph) ActiveEmployeesWithLoad(ctx context.Context, active trackerDomain.StatusSet) ([]trackerDomain.EmployeeLoad, error) {
	args := m.Called(ctx, active)
	rows, _ := args.Get(0).([]trackerDomain.EmployeeLoad)
	return rows, args.Error(1)
}

func (m *mockGraph) ActiveTasksForEmployees(ctx context.Context, active trackerDomain.StatusSet, ids []int64) ([]trackerDomain.AssignedTask, error) {
	args := m.Called(ctx, active, ids)
	rows, _ := args.Get(0).([]trackerDomain.AssignedTask)
	return rows, args.Error(1)
}

func (m *mockGraph) ImportantTaskCandidates(ctx context.Context, active trackerDomain.StatusSet) ([]trackerDomain.TaskSummary, error) {
	args := m.Called(ctx, active)
	rows, _ := args.Get(0).([]trackerDomain.TaskSummary)
	return rows, args.Error(1)
}

func (m *mockGraph) ActiveDependencyEdges(ctx context.Context, active trackerDomain.StatusSet, ids []int64) ([]trackerDomain.DependencyEdge, error) {
	args := m.Called(ctx, active, ids)
	rows, _ := args.Get(0).([]trackerDomain.DependencyEdge)
	return rows, args.Error(1)
}
