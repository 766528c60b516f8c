// Package queries contains query handlers for the analytics bounded context.
package queries

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/tracker/internal/analytics/application/services"
	"github.com/felixgeelhaar/tracker/internal/analytics/domain"
	"github.com/felixgeelhaar/tracker/pkg/observability"
)

// BusyEmployeesQuery asks for the busy employees ranking.
type BusyEmployeesQuery struct{}

// GetBusyEmployeesHandler handles busy employee queries.
type GetBusyEmployeesHandler struct {
	aggregator *services.WorkloadAggregator
	metrics    observability.Metrics
	logger     *slog.Logger
}

// NewGetBusyEmployeesHandler creates a new handler.
func NewGetBusyEmployeesHandler(aggregator *services.WorkloadAggregator, metrics observability.Metrics, logger *slog.Logger) *GetBusyEmployeesHandler {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if logger == nil {
		logger = observability.DiscardLogger()
	}
	return &GetBusyEmployeesHandler{aggregator: aggregator, metrics: metrics, logger: logger}
}

// Handle executes the query.
func (h *GetBusyEmployeesHandler) Handle(ctx context.Context, _ BusyEmployeesQuery) ([]domain.BusyEmployee, error) {
	return observability.ObserveResult(ctx, h.logger, h.metrics,
		observability.MetricBusyEmployeesDuration, "busy_employees",
		func() ([]domain.BusyEmployee, error) {
			workload, err := h.aggregator.Aggregate(ctx)
			if err != nil {
				return nil, err
			}
			return workload.Busy, nil
		})
}
