package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/tracker/adapter/cli"
	analyticsDomain "github.com/felixgeelhaar/tracker/internal/analytics/domain"
	internalApp "github.com/felixgeelhaar/tracker/internal/app"
	"github.com/felixgeelhaar/tracker/internal/tracker/application/commands"
	"github.com/felixgeelhaar/tracker/pkg/config"
	"github.com/felixgeelhaar/tracker/pkg/observability"
)

const fixture = `
employees:
  - {key: ann, full_name: Ann Archer, position: Developer, email: ann@example.com}
  - {key: bob, full_name: Bob Baker, position: Tester, email: bob@example.com}
tasks:
  - {key: build, title: Build, status: IN_PROGRESS, due_date: "2026-02-01", assignee: ann}
  - {key: test, title: Test, status: REVIEW, due_date: "2026-02-02", assignee: ann}
  - {key: release, title: Release, due_date: "2026-03-01"}
dependencies:
  - {parent: release, child: build}
`

func setupLocalModeTestApp(t *testing.T) *commands.SeedResult {
	t.Helper()
	ctx := context.Background()
	container, err := internalApp.NewContainer(ctx, &config.Config{
		AppEnv:                 "test",
		DatabaseDriver:         "sqlite",
		SQLitePath:             filepath.Join(t.TempDir(), "tracker.db"),
		DatabaseMaxConns:       2,
		StorageBreakerFailures: 5,
	}, observability.DiscardLogger())
	require.NoError(t, err)
	t.Cleanup(container.Close)

	f, err := commands.ParseFixture([]byte(fixture))
	require.NoError(t, err)
	res, err := container.SeedHandler.Handle(ctx, commands.SeedCommand{Fixture: f})
	require.NoError(t, err)

	cli.SetApp(cli.NewApp(container))
	t.Cleanup(func() { cli.SetApp(nil) })
	return res
}

func run(t *testing.T, args ...string) []byte {
	t.Helper()
	var out bytes.Buffer
	Cmd.SetOut(&out)
	Cmd.SetArgs(args)
	require.NoError(t, Cmd.ExecuteContext(context.Background()))
	return out.Bytes()
}

func TestBusy(t *testing.T) {
	res := setupLocalModeTestApp(t)

	var busy []analyticsDomain.BusyEmployee
	require.NoError(t, json.Unmarshal(run(t, "busy"), &busy))

	require.Len(t, busy, 1)
	assert.Equal(t, res.Employees["ann"], busy[0].ID)
	assert.Equal(t, 2, busy[0].ActiveTasksCount)
	assert.Len(t, busy[0].ActiveTasks, 2)
}

func TestImportant(t *testing.T) {
	res := setupLocalModeTestApp(t)

	var recs []map[string]any
	require.NoError(t, json.Unmarshal(run(t, "important", "--plain=false"), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, float64(res.Tasks["release"]), recs[0]["id"])
	assert.Equal(t, "2026-03-01", recs[0]["due_date"])
	// ann carries 2, bob 0: within slack, so the child's assignee is kept.
	assert.Equal(t, float64(res.Employees["ann"]), recs[0]["suggested_employee_id"])
	assert.Equal(t, "Ann Archer", recs[0]["suggested_employee_full_name"])
}

func TestImportant_Plain(t *testing.T) {
	res := setupLocalModeTestApp(t)

	var tasks []map[string]any
	require.NoError(t, json.Unmarshal(run(t, "important", "--plain"), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, float64(res.Tasks["release"]), tasks[0]["id"])
	assert.NotContains(t, tasks[0], "suggested_employee_id")
}
