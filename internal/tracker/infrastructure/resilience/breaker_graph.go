// Package resilience guards the task graph store with a circuit breaker.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/felixgeelhaar/tracker/internal/tracker/domain"
	"github.com/felixgeelhaar/tracker/pkg/observability"
)

// BreakerConfig configures the storage circuit breaker.
type BreakerConfig struct {
	// MaxRequests is the number of trial requests allowed while half-open.
	MaxRequests uint32

	// Interval is the cyclic period of the closed state that resets counts.
	Interval time.Duration

	// Timeout is how long the breaker stays open.
	Timeout time.Duration

	// FailureThreshold trips the breaker after this many consecutive failures.
	FailureThreshold uint32
}

// DefaultBreakerConfig returns a sensible default configuration.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      1,
		Interval:         30 * time.Second,
		Timeout:          15 * time.Second,
		FailureThreshold: 5,
	}
}

// BreakerGraph decorates a domain.TaskGraph. When the breaker is open calls
// fail fast with domain.ErrStorageUnavailable.
type BreakerGraph struct {
	next    domain.TaskGraph
	breaker *gobreaker.CircuitBreaker[any]
}

// NewBreakerGraph wraps next.
func NewBreakerGraph(next domain.TaskGraph, cfg BreakerConfig, logger *slog.Logger) *BreakerGraph {
	if logger == nil {
		logger = observability.DiscardLogger()
	}
	settings := gobreaker.Settings{
		Name:        "task-graph",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// Caller cancellation says nothing about the store's health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}
	return &BreakerGraph{next: next, breaker: gobreaker.NewCircuitBreaker[any](settings)}
}

var _ domain.TaskGraph = (*BreakerGraph)(nil)

// State returns the breaker's current state name.
func (g *BreakerGraph) State() string {
	return g.breaker.State().String()
}

func execute[T any](g *BreakerGraph, op string, fn func() (T, error)) (T, error) {
	result, err := g.breaker.Execute(func() (any, error) {
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		var zero T
		return zero, fmt.Errorf("%w: %s: %w", domain.ErrStorageUnavailable, op, err)
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

// ActiveEmployeesWithLoad implements domain.TaskGraph.
func (g *BreakerGraph) ActiveEmployeesWithLoad(ctx context.Context, active domain.StatusSet) ([]domain.EmployeeLoad, error) {
	return execute(g, "active employees", func() ([]domain.EmployeeLoad, error) {
		return g.next.ActiveEmployeesWithLoad(ctx, active)
	})
}

// ActiveTasksForEmployees implements domain.TaskGraph.
func (g *BreakerGraph) ActiveTasksForEmployees(ctx context.Context, active domain.StatusSet, employeeIDs []int64) ([]domain.AssignedTask, error) {
	return execute(g, "active tasks", func() ([]domain.AssignedTask, error) {
		return g.next.ActiveTasksForEmployees(ctx, active, employeeIDs)
	})
}

// ImportantTaskCandidates implements domain.TaskGraph.
func (g *BreakerGraph) ImportantTaskCandidates(ctx context.Context, active domain.StatusSet) ([]domain.TaskSummary, error) {
	return execute(g, "important candidates", func() ([]domain.TaskSummary, error) {
		return g.next.ImportantTaskCandidates(ctx, active)
	})
}

// ActiveDependencyEdges implements domain.TaskGraph.
func (g *BreakerGraph) ActiveDependencyEdges(ctx context.Context, active domain.StatusSet, parentIDs []int64) ([]domain.DependencyEdge, error) {
	return execute(g, "dependency edges", func() ([]domain.DependencyEdge, error) {
		return g.next.ActiveDependencyEdges(ctx, active, parentIDs)
	})
}
