package queries

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/tracker/internal/analytics/application/services"
	"github.com/felixgeelhaar/tracker/internal/analytics/domain"
	"github.com/felixgeelhaar/tracker/pkg/observability"
)

// ImportantTasksQuery asks for important tasks with suggested assignees.
type ImportantTasksQuery struct{}

// GetImportantTasksHandler handles important task queries.
type GetImportantTasksHandler struct {
	aggregator  *services.WorkloadAggregator
	selector    *services.ImportantTaskSelector
	recommender *services.AssignmentRecommender
	metrics     observability.Metrics
	logger      *slog.Logger
}

// NewGetImportantTasksHandler creates a new handler.
func NewGetImportantTasksHandler(
	aggregator *services.WorkloadAggregator,
	selector *services.ImportantTaskSelector,
	recommender *services.AssignmentRecommender,
	metrics observability.Metrics,
	logger *slog.Logger,
) *GetImportantTasksHandler {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if logger == nil {
		logger = observability.DiscardLogger()
	}
	return &GetImportantTasksHandler{
		aggregator:  aggregator,
		selector:    selector,
		recommender: recommender,
		metrics:     metrics,
		logger:      logger,
	}
}

// Handle reads the load snapshot and the candidates concurrently and joins
// them before recommending. Either failure cancels the other read and fails
// the whole query.
func (h *GetImportantTasksHandler) Handle(ctx context.Context, _ ImportantTasksQuery) ([]domain.ImportantTaskRecommendation, error) {
	return observability.ObserveResult(ctx, h.logger, h.metrics,
		observability.MetricImportantTasksDuration, "important_tasks",
		func() ([]domain.ImportantTaskRecommendation, error) {
			var (
				snapshot   domain.LoadSnapshot
				candidates []domain.Candidate
			)

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				var err error
				snapshot, err = h.aggregator.ActiveLoad(gctx)
				return err
			})
			g.Go(func() error {
				var err error
				candidates, err = h.selector.SelectWithEdges(gctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return nil, err
			}

			return h.recommender.Recommend(snapshot, candidates), nil
		})
}

// ListImportantTasksHandler lists important tasks without suggestions.
type ListImportantTasksHandler struct {
	selector *services.ImportantTaskSelector
	metrics  observability.Metrics
	logger   *slog.Logger
}

// NewListImportantTasksHandler creates a new handler.
func NewListImportantTasksHandler(selector *services.ImportantTaskSelector, metrics observability.Metrics, logger *slog.Logger) *ListImportantTasksHandler {
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if logger == nil {
		logger = observability.DiscardLogger()
	}
	return &ListImportantTasksHandler{selector: selector, metrics: metrics, logger: logger}
}

// Handle executes the query.
func (h *ListImportantTasksHandler) Handle(ctx context.Context, _ ImportantTasksQuery) ([]domain.ImportantTask, error) {
	return observability.ObserveResult(ctx, h.logger, h.metrics,
		observability.MetricImportantTasksDuration, "important_tasks_plain",
		func() ([]domain.ImportantTask, error) {
			summaries, err := h.selector.Select(ctx)
			if err != nil {
				return nil, err
			}
			out := make([]domain.ImportantTask, len(summaries))
			for i, s := range summaries {
				out[i] = domain.ImportantTask{ID: s.ID, Title: s.Title, DueDate: domain.NewDate(s.DueDate)}
			}
			return out, nil
		})
}
