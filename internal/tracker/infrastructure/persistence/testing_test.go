package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/tracker/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/tracker/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/tracker/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/tracker/internal/tracker/domain"
)

func setupTestDB(t *testing.T) database.Connection {
	t.Helper()
	ctx := context.Background()
	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "tracker.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = migrations.Run(ctx, conn)
	require.NoError(t, err)
	return conn
}

type fixture struct {
	t     *testing.T
	ctx   context.Context
	emps  *EmployeeRepository
	tasks *TaskRepository
	deps  *DependencyRepository
}

func newFixture(t *testing.T, conn database.Connection) *fixture {
	return &fixture{
		t:     t,
		ctx:   context.Background(),
		emps:  NewEmployeeRepository(conn),
		tasks: NewTaskRepository(conn),
		deps:  NewDependencyRepository(conn),
	}
}

func (f *fixture) employee(name string, active bool) int64 {
	f.t.Helper()
	email := ""
	if active {
		email = "staff@example.com"
	}
	e, err := domain.NewEmployee(name, "Engineer", email, active)
	require.NoError(f.t, err)
	require.NoError(f.t, f.emps.Create(f.ctx, e))
	return e.ID()
}

func (f *fixture) task(title string, status domain.Status, due time.Time, assignee *int64) int64 {
	f.t.Helper()
	task, err := domain.NewTask(domain.NewTaskParams{Title: title, Status: status, DueDate: due, AssigneeID: assignee})
	require.NoError(f.t, err)
	require.NoError(f.t, f.tasks.Create(f.ctx, task))
	return task.ID()
}

func (f *fixture) link(parent, child int64) {
	f.t.Helper()
	dep, err := domain.NewTaskDependency(parent, child)
	require.NoError(f.t, err)
	require.NoError(f.t, f.deps.Link(f.ctx, dep))
}

func ref(v int64) *int64 { return &v }

func date(d int) time.Time { return time.Date(2026, 5, d, 0, 0, 0, 0, time.UTC) }
