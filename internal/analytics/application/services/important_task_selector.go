package services

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/tracker/internal/analytics/domain"
	trackerDomain "github.com/felixgeelhaar/tracker/internal/tracker/domain"
	"github.com/felixgeelhaar/tracker/pkg/observability"
)

// ImportantTaskSelector finds NEW tasks blocked by active work.
type ImportantTaskSelector struct {
	graph  trackerDomain.TaskGraph
	active trackerDomain.StatusSet
	logger *slog.Logger
}

// NewImportantTaskSelector creates a selector treating active as blocking.
func NewImportantTaskSelector(graph trackerDomain.TaskGraph, active trackerDomain.StatusSet, logger *slog.Logger) *ImportantTaskSelector {
	if logger == nil {
		logger = observability.DiscardLogger()
	}
	return &ImportantTaskSelector{graph: graph, active: active, logger: logger}
}

// Select returns the important tasks ordered by due date, creation time and
// id.
func (s *ImportantTaskSelector) Select(ctx context.Context) ([]trackerDomain.TaskSummary, error) {
	summaries, err := s.graph.ImportantTaskCandidates(ctx, s.active)
	if err != nil {
		return nil, storageFailure("important candidates", err)
	}
	return summaries, nil
}

// SelectWithEdges returns the important tasks each with its active
// dependency edges. Edges for all candidates come from one batched read.
func (s *ImportantTaskSelector) SelectWithEdges(ctx context.Context) ([]domain.Candidate, error) {
	summaries, err := s.Select(ctx)
	if err != nil {
		return nil, err
	}
	if len(summaries) == 0 {
		return []domain.Candidate{}, nil
	}

	ids := make([]int64, len(summaries))
	for i, t := range summaries {
		ids[i] = t.ID
	}
	edges, err := s.graph.ActiveDependencyEdges(ctx, s.active, ids)
	if err != nil {
		return nil, storageFailure("dependency edges", err)
	}

	byParent := make(map[int64][]trackerDomain.DependencyEdge, len(summaries))
	for _, e := range edges {
		byParent[e.ParentTaskID] = append(byParent[e.ParentTaskID], e)
	}

	candidates := make([]domain.Candidate, len(summaries))
	for i, t := range summaries {
		candidates[i] = domain.Candidate{Task: t, Edges: byParent[t.ID]}
	}

	s.logger.DebugContext(ctx, "important tasks selected",
		"candidates", len(candidates),
		"edges", len(edges),
	)
	return candidates, nil
}
