package resilience

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/tracker/internal/tracker/domain"
	"github.com/felixgeelhaar/tracker/pkg/observability"
)

type mockGraph struct {
	mock.Mock
}

func (m *mockGraph) ActiveEmployeesWithLoad(ctx context.Context, active domain.StatusSet) ([]domain.EmployeeLoad, error) {
	args := m.Called(ctx, active)
	loads, _ := args.Get(0).([]domain.EmployeeLoad)
	return loads, args.Error(1)
}

func (m *mockGraph) ActiveTasksForEmployees(ctx context.Context, active domain.StatusSet, ids []int64) ([]domain.AssignedTask, error) {
	args := m.Called(ctx, active, ids)
	tasks, _ := args.Get(0).([]domain.AssignedTask)
	return tasks, args.Error(1)
}

func (m *mockGraph) ImportantTaskCandidates(ctx context.Context, active domain.StatusSet) ([]domain.TaskSummary, error) {
	args := m.Called(ctx, active)
	summaries, _ := args.Get(0).([]domain.TaskSummary)
	return summaries, args.Error(1)
}

func (m *mockGraph) ActiveDependencyEdges(ctx context.Context, active domain.StatusSet, ids []int64) ([]domain.DependencyEdge, error) {
	args := m.Called(ctx, active, ids)
	edges, _ := args.Get(0).([]domain.DependencyEdge)
	return edges, args.Error(1)
}

func testConfig() BreakerConfig {
	return BreakerConfig{MaxRequests: 1, Interval: time.Minute, Timeout: time.Minute, FailureThreshold: 2}
}

func TestBreakerGraph_PassesThrough(t *testing.T) {
	ctx := context.Background()
	active := domain.ActiveStatuses()
	next := new(mockGraph)
	want := []domain.EmployeeLoad{{ID: 1, FullName: "Alice Brown", ActiveTasks: 2}}
	next.On("ActiveEmployeesWithLoad", ctx, active).Return(want, nil)

	g := NewBreakerGraph(next, testConfig(), nil)
	got, err := g.ActiveEmployeesWithLoad(ctx, active)

	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, "closed", g.State())
}

func TestBreakerGraph_OpensAfterConsecutiveFailures(t *testing.T) {
	ctx := context.Background()
	active := domain.ActiveStatuses()
	next := new(mockGraph)
	dbErr := errors.New("connection refused")
	next.On("ImportantTaskCandidates", ctx, active).Return(nil, dbErr).Times(2)

	g := NewBreakerGraph(next, testConfig(), nil)

	for range 2 {
		_, err := g.ImportantTaskCandidates(ctx, active)
		assert.ErrorIs(t, err, dbErr)
	}
	assert.Equal(t, "open", g.State())

	_, err := g.ImportantTaskCandidates(ctx, active)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
	next.AssertNumberOfCalls(t, "ImportantTaskCandidates", 2)
}

func TestBreakerGraph_CancellationDoesNotTrip(t *testing.T) {
	ctx := context.Background()
	active := domain.ActiveStatuses()
	ids := []int64{1}
	next := new(mockGraph)
	next.On("ActiveDependencyEdges", ctx, active, ids).Return(nil, context.Canceled)

	g := NewBreakerGraph(next, testConfig(), nil)
	for range 3 {
		_, err := g.ActiveDependencyEdges(ctx, active, ids)
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, "closed", g.State())
}

func tripBreaker(t *testing.T, g *BreakerGraph, next *mockGraph) {
	t.Helper()
	ctx := context.Background()
	active := domain.ActiveStatuses()
	next.On("ActiveEmployeesWithLoad", ctx, active).Return(nil, errors.New("connection refused"))
	for range 2 {
		_, err := g.ActiveEmployeesWithLoad(ctx, active)
		require.Error(t, err)
	}
	require.Equal(t, "open", g.State())
}

func TestBreakerGraph_NilLoggerStaysQuiet(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	next := new(mockGraph)
	tripBreaker(t, NewBreakerGraph(next, testConfig(), nil), next)

	assert.Empty(t, buf.String())
}

func TestBreakerGraph_LogsStateChangeToInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewLogger(observability.LogConfig{Format: observability.LogFormatText, Output: &buf})

	next := new(mockGraph)
	tripBreaker(t, NewBreakerGraph(next, testConfig(), logger), next)

	assert.Contains(t, buf.String(), "circuit breaker state changed")
	assert.Contains(t, buf.String(), "to=open")
}
