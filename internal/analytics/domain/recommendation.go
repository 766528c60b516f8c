package domain

import trackerDomain "github.com/felixgeelhaar/tracker/internal/tracker/domain"

// Candidate is an important task with its edges to active children, in
// child id order.
type Candidate struct {
	Task  trackerDomain.TaskSummary
	Edges []trackerDomain.DependencyEdge
}

// ImportantTask is the plain listing of an important task.
type ImportantTask struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	DueDate Date   `json:"due_date"`
}

// ImportantTaskRecommendation pairs an important task with the employee
// suggested to unblock it. Both suggestion fields are null together.
type ImportantTaskRecommendation struct {
	ID                        int64   `json:"id"`
	Title                     string  `json:"title"`
	DueDate                   Date    `json:"due_date"`
	SuggestedEmployeeID       *int64  `json:"suggested_employee_id"`
	SuggestedEmployeeFullName *string `json:"suggested_employee_full_name"`
}
