// Package domain holds the read models of the analytics context.
package domain

import (
	"bytes"
	"fmt"
	"time"

	trackerDomain "github.com/felixgeelhaar/tracker/internal/tracker/domain"
)

const dateLayout = "2006-01-02"

// Date is a calendar date rendered as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate wraps t.
func NewDate(t time.Time) Date {
	return Date{Time: t}
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(b, `"`))
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	d.Time = t
	return nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// ActiveLoad maps an active employee id to its number of active tasks.
// Employees with no active work map to zero.
type ActiveLoad map[int64]int

// LoadSnapshot is the load and the names of the active workforce taken from
// one read, so ids and names always agree.
type LoadSnapshot struct {
	Load      ActiveLoad
	Employees []trackerDomain.EmployeeLoad
	names     map[int64]string
}

// NewLoadSnapshot indexes the rows of one ActiveEmployeesWithLoad read.
func NewLoadSnapshot(rows []trackerDomain.EmployeeLoad) LoadSnapshot {
	s := LoadSnapshot{
		Load:      make(ActiveLoad, len(rows)),
		Employees: rows,
		names:     make(map[int64]string, len(rows)),
	}
	for _, r := range rows {
		s.Load[r.ID] = r.ActiveTasks
		s.names[r.ID] = r.FullName
	}
	return s
}

// Name returns the full name of an active employee.
func (s LoadSnapshot) Name(id int64) (string, bool) {
	name, ok := s.names[id]
	return name, ok
}

// MinLoad returns the smallest load, or zero when nobody is active.
func (s LoadSnapshot) MinLoad() int {
	first := true
	minLoad := 0
	for _, load := range s.Load {
		if first || load < minLoad {
			minLoad = load
			first = false
		}
	}
	return minLoad
}

// LeastLoaded returns the lowest id among the employees carrying MinLoad.
func (s LoadSnapshot) LeastLoaded() (int64, bool) {
	minLoad := s.MinLoad()
	var (
		best  int64
		found bool
	)
	for id, load := range s.Load {
		if load == minLoad && (!found || id < best) {
			best, found = id, true
		}
	}
	return best, found
}

// ActiveTask is one task in a busy employee's list.
type ActiveTask struct {
	ID      int64                `json:"id"`
	Title   string               `json:"title"`
	Status  trackerDomain.Status `json:"status"`
	DueDate Date                 `json:"due_date"`
}

// BusyEmployee is an active employee with at least one active task.
type BusyEmployee struct {
	ID               int64        `json:"id"`
	FullName         string       `json:"full_name"`
	ActiveTasksCount int          `json:"active_tasks_count"`
	ActiveTasks      []ActiveTask `json:"active_tasks"`
}

// Workload is the result of one aggregation pass.
type Workload struct {
	Snapshot LoadSnapshot
	Busy     []BusyEmployee
}
