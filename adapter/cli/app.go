package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/felixgeelhaar/tracker/adapter/api"
	"github.com/felixgeelhaar/tracker/internal/analytics/application/queries"
	internalApp "github.com/felixgeelhaar/tracker/internal/app"
	identityApp "github.com/felixgeelhaar/tracker/internal/identity/application"
	"github.com/felixgeelhaar/tracker/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/tracker/internal/tracker/application/commands"
	"github.com/felixgeelhaar/tracker/pkg/config"
	"github.com/felixgeelhaar/tracker/pkg/observability"
)

// ErrNotInitialized is returned by commands that need the database when the
// application could not be wired.
var ErrNotInitialized = errors.New("application not initialized - database connection required")

// App holds the CLI application dependencies.
type App struct {
	Config *config.Config

	// Analytics Query Handlers
	BusyEmployeesHandler  *queries.GetBusyEmployeesHandler
	ImportantTasksHandler *queries.GetImportantTasksHandler
	ImportantListHandler  *queries.ListImportantTasksHandler

	// Tracker Command Handlers
	SeedHandler             *commands.SeedHandler
	ChangeTaskStatusHandler *commands.ChangeTaskStatusHandler

	// Relay delivers events stored by the command handlers.
	Relay *outbox.Processor

	// TokenIssuer is nil without Redis.
	TokenIssuer *identityApp.TokenIssuer

	Health  *observability.HealthRegistry
	Migrate func(ctx context.Context) ([]string, error)

	// ServerDeps are handed to the HTTP server by serve.
	ServerDeps api.Dependencies
}

// NewApp builds the CLI application from a wired container.
func NewApp(c *internalApp.Container) *App {
	return &App{
		Config:                  c.Config,
		BusyEmployeesHandler:    c.BusyEmployeesHandler,
		ImportantTasksHandler:   c.ImportantTasksHandler,
		ImportantListHandler:    c.ImportantListHandler,
		SeedHandler:             c.SeedHandler,
		ChangeTaskStatusHandler: c.ChangeTaskStatusHandler,
		Relay:                   c.OutboxProcessor,
		TokenIssuer:             c.TokenIssuer,
		Health:                  c.Health,
		Migrate:                 c.Migrate,
		ServerDeps: api.Dependencies{
			BusyEmployees:  c.BusyEmployeesHandler,
			ImportantTasks: c.ImportantTasksHandler,
			Auth:           c.Authenticator,
			Health:         c.Health,
			Metrics:        c.Metrics,
			Logger:         c.Logger,
		},
	}
}

var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}

// RequireApp returns the application or ErrNotInitialized.
func RequireApp() (*App, error) {
	if app == nil {
		return nil, ErrNotInitialized
	}
	return app, nil
}

// FlushEvents relays pending events once so one-shot commands do not
// leave their events waiting for the next serve. Failures stay in the
// outbox and are only reported.
func (a *App) FlushEvents(ctx context.Context, w io.Writer) {
	if a.Relay == nil {
		return
	}
	if _, err := a.Relay.ProcessOnce(ctx); err != nil {
		fmt.Fprintf(w, "warning: events remain queued: %v\n", err)
	}
}

// WriteJSON pretty-prints v to w.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
