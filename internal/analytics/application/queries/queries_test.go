package queries

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/tracker/internal/analytics/application/services"
	trackerDomain "github.com/felixgeelhaar/tracker/internal/tracker/domain"
	"github.com/felixgeelhaar/tracker/internal/tracker/infrastructure/memory"
	"github.com/felixgeelhaar/tracker/pkg/observability"
)

func ptr(v int64) *int64 { return &v }

func day(d int) time.Time { return time.Date(2026, 6, d, 0, 0, 0, 0, time.UTC) }

type handlers struct {
	busy      *GetBusyEmployeesHandler
	important *GetImportantTasksHandler
	plain     *ListImportantTasksHandler
	metrics   *observability.InMemoryMetrics
}

func newHandlers(graph trackerDomain.TaskGraph) handlers {
	active := trackerDomain.ActiveStatuses()
	metrics := observability.NewInMemoryMetrics()
	agg := services.NewWorkloadAggregator(graph, active, nil)
	sel := services.NewImportantTaskSelector(graph, active, nil)
	return handlers{
		busy:      NewGetBusyEmployeesHandler(agg, metrics, nil),
		important: NewGetImportantTasksHandler(agg, sel, services.NewAssignmentRecommender(services.DefaultSlack), metrics, nil),
		plain:     NewListImportantTasksHandler(sel, metrics, nil),
		metrics:   metrics,
	}
}

// scenarioGraph builds E1 and E2 where P (NEW) depends on C (IN_PROGRESS,
// assigned to E1). E1 carries e1Load active tasks including C, E2 one.
func scenarioGraph(e1Load int) *memory.Graph {
	g := memory.NewGraph()
	g.AddEmployee(memory.Employee{ID: 1, FullName: "Evgenia One", IsActive: true})
	g.AddEmployee(memory.Employee{ID: 2, FullName: "Egor Two", IsActive: true})

	g.AddTask(memory.Task{ID: 10, Title: "P", Status: trackerDomain.StatusNew, DueDate: day(20), CreatedAt: day(1)})
	g.AddTask(memory.Task{ID: 11, Title: "C", Status: trackerDomain.StatusInProgress, AssigneeID: ptr(1), DueDate: day(10), CreatedAt: day(1)})
	g.Link(10, 11)

	for i := range e1Load - 1 {
		g.AddTask(memory.Task{ID: int64(20 + i), Title: "E1 work", Status: trackerDomain.StatusReview, AssigneeID: ptr(1), DueDate: day(5)})
	}
	g.AddTask(memory.Task{ID: 40, Title: "E2 work", Status: trackerDomain.StatusInProgress, AssigneeID: ptr(2), DueDate: day(5)})
	return g
}

func TestGetImportantTasksHandler_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		e1Load   int
		wantID   int64
		wantName string
	}{
		{"child assignee within slack", 2, 1, "Evgenia One"},
		{"child assignee over slack", 5, 2, "Egor Two"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandlers(scenarioGraph(tt.e1Load))

			recs, err := h.important.Handle(context.Background(), ImportantTasksQuery{})
			require.NoError(t, err)
			require.Len(t, recs, 1)

			assert.Equal(t, int64(10), recs[0].ID)
			assert.Equal(t, "P", recs[0].Title)
			require.NotNil(t, recs[0].SuggestedEmployeeID)
			assert.Equal(t, tt.wantID, *recs[0].SuggestedEmployeeID)
			assert.Equal(t, tt.wantName, *recs[0].SuggestedEmployeeFullName)

			op := observability.T(observability.OperationKey, "important_tasks")
			assert.Len(t, h.metrics.GetTimings(observability.MetricImportantTasksDuration, op), 1)
		})
	}
}

func TestGetBusyEmployeesHandler_JSON(t *testing.T) {
	h := newHandlers(scenarioGraph(2))

	busy, err := h.busy.Handle(context.Background(), BusyEmployeesQuery{})
	require.NoError(t, err)

	payload, err := json.Marshal(busy)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"id":1,"full_name":"Evgenia One","active_tasks_count":2,"active_tasks":[
			{"id":11,"title":"C","status":"IN_PROGRESS","due_date":"2026-06-10"},
			{"id":20,"title":"E1 work","status":"REVIEW","due_date":"2026-06-05"}
		]},
		{"id":2,"full_name":"Egor Two","active_tasks_count":1,"active_tasks":[
			{"id":40,"title":"E2 work","status":"IN_PROGRESS","due_date":"2026-06-05"}
		]}
	]`, string(payload))
}

func TestListImportantTasksHandler(t *testing.T) {
	h := newHandlers(scenarioGraph(1))

	tasks, err := h.plain.Handle(context.Background(), ImportantTasksQuery{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, int64(10), tasks[0].ID)
	assert.Equal(t, "2026-06-20", tasks[0].DueDate.String())
}

func TestHandlers_IdenticalOutputAcrossCalls(t *testing.T) {
	h := newHandlers(scenarioGraph(3))
	ctx := context.Background()

	first, err := h.important.Handle(ctx, ImportantTasksQuery{})
	require.NoError(t, err)
	second, err := h.important.Handle(ctx, ImportantTasksQuery{})
	require.NoError(t, err)

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	assert.Equal(t, string(a), string(b))
}

type failingGraph struct {
	*memory.Graph
	mock.Mock
}

func (g *failingGraph) ActiveEmployeesWithLoad(ctx context.Context, active trackerDomain.StatusSet) ([]trackerDomain.EmployeeLoad, error) {
	args := g.Called()
	return nil, args.Error(0)
}

func TestGetImportantTasksHandler_StorageFailureFailsWholeCall(t *testing.T) {
	graph := &failingGraph{Graph: scenarioGraph(2)}
	graph.On("ActiveEmployeesWithLoad").Return(errors.New("too many connections"))
	h := newHandlers(graph)

	recs, err := h.important.Handle(context.Background(), ImportantTasksQuery{})
	assert.Nil(t, recs)
	assert.ErrorIs(t, err, trackerDomain.ErrStorageUnavailable)

	op := observability.T(observability.OperationKey, "important_tasks")
	assert.Equal(t, int64(1), h.metrics.GetCounter(observability.MetricAnalyticsErrors, op))

	_, err = h.busy.Handle(context.Background(), BusyEmployeesQuery{})
	assert.ErrorIs(t, err, trackerDomain.ErrStorageUnavailable)
}

func TestGetImportantTasksHandler_EmptyWorkforce(t *testing.T) {
	g := memory.NewGraph()
	g.AddTask(memory.Task{ID: 1, Title: "P", Status: trackerDomain.StatusNew, DueDate: day(1)})
	g.AddTask(memory.Task{ID: 2, Title: "C", Status: trackerDomain.StatusReview, DueDate: day(1)})
	g.Link(1, 2)

	recs, err := newHandlers(g).important.Handle(context.Background(), ImportantTasksQuery{})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Nil(t, recs[0].SuggestedEmployeeID)
	assert.Nil(t, recs[0].SuggestedEmployeeFullName)
}
