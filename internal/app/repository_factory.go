package app

import (
	"log/slog"
	"time"

	"github.com/felixgeelhaar/tracker/internal/shared/infrastructure/convert"
	"github.com/felixgeelhaar/tracker/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/tracker/internal/tracker/domain"
	"github.com/felixgeelhaar/tracker/internal/tracker/infrastructure/persistence"
	"github.com/felixgeelhaar/tracker/internal/tracker/infrastructure/resilience"
	"github.com/felixgeelhaar/tracker/pkg/config"
)

// RepositoryFactory creates repositories over one connection. Queries are
// written once and rebound per driver, so the same constructors serve
// PostgreSQL and SQLite.
type RepositoryFactory struct {
	conn database.Connection
}

// NewRepositoryFactory creates a new repository factory.
func NewRepositoryFactory(conn database.Connection) *RepositoryFactory {
	return &RepositoryFactory{conn: conn}
}

// Driver returns the backend of the underlying connection.
func (f *RepositoryFactory) Driver() database.Driver {
	return f.conn.Driver()
}

// EmployeeRepository creates an employee repository.
func (f *RepositoryFactory) EmployeeRepository() domain.EmployeeRepository {
	return persistence.NewEmployeeRepository(f.conn)
}

// TaskRepository creates a task repository.
func (f *RepositoryFactory) TaskRepository() domain.TaskRepository {
	return persistence.NewTaskRepository(f.conn)
}

// DependencyRepository creates a dependency repository.
func (f *RepositoryFactory) DependencyRepository() domain.DependencyRepository {
	return persistence.NewDependencyRepository(f.conn)
}

// TaskGraph creates the analytics read model, behind a circuit breaker when
// the configuration enables one.
func (f *RepositoryFactory) TaskGraph(cfg *config.Config, logger *slog.Logger) domain.TaskGraph {
	graph := persistence.NewSQLTaskGraph(f.conn)
	if !cfg.StorageBreakerEnabled {
		return graph
	}

	breaker := resilience.DefaultBreakerConfig()
	breaker.FailureThreshold = convert.IntToUint32Clamped(cfg.StorageBreakerFailures)
	if cfg.StorageBreakerTimeout > 0 {
		breaker.Timeout = cfg.StorageBreakerTimeout
		breaker.Interval = 2 * cfg.StorageBreakerTimeout
	}
	if breaker.Interval < time.Second {
		breaker.Interval = time.Second
	}
	return resilience.NewBreakerGraph(graph, breaker, logger)
}
