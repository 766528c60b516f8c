package services

import "github.com/felixgeelhaar/tracker/internal/analytics/domain"

// DefaultSlack is how many more active tasks than the least loaded employee
// a child task's assignee may carry and still be preferred.
const DefaultSlack = 2

// AssignmentRecommender suggests who should pick up each important task.
// It is a pure function of its inputs.
type AssignmentRecommender struct {
	slack int
}

// NewAssignmentRecommender creates a recommender with the given slack.
func NewAssignmentRecommender(slack int) *AssignmentRecommender {
	return &AssignmentRecommender{slack: slack}
}

// Recommend picks, for every candidate in order, the least loaded active
// employee unless the assignee of the first assigned active child is active
// and within slack of that minimum, in which case the child's assignee is
// preferred for continuity.
func (r *AssignmentRecommender) Recommend(snapshot domain.LoadSnapshot, candidates []domain.Candidate) []domain.ImportantTaskRecommendation {
	minLoad := snapshot.MinLoad()
	base, hasBase := snapshot.LeastLoaded()

	out := make([]domain.ImportantTaskRecommendation, 0, len(candidates))
	for _, c := range candidates {
		rec := domain.ImportantTaskRecommendation{
			ID:      c.Task.ID,
			Title:   c.Task.Title,
			DueDate: domain.NewDate(c.Task.DueDate),
		}

		suggested, ok := base, hasBase
		for _, e := range c.Edges {
			if e.ChildAssigneeID == nil {
				continue
			}
			if load, active := snapshot.Load[*e.ChildAssigneeID]; active && load <= minLoad+r.slack {
				suggested, ok = *e.ChildAssigneeID, true
			}
			break
		}

		if ok {
			if name, found := snapshot.Name(suggested); found {
				id := suggested
				rec.SuggestedEmployeeID = &id
				rec.SuggestedEmployeeFullName = &name
			}
		}
		out = append(out, rec)
	}
	return out
}
