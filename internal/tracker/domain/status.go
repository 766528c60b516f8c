package domain

import (
	"fmt"
	"slices"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusNew        Status = "NEW"
	StatusInProgress Status = "IN_PROGRESS"
	StatusReview     Status = "REVIEW"
	StatusDone       Status = "DONE"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsValid returns true if the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusReview, StatusDone:
		return true
	default:
		return false
	}
}

// ParseStatus parses a string into a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// StatusSet is an immutable set of statuses.
type StatusSet struct {
	members []Status
}

// NewStatusSet builds a set from the given statuses. Duplicates collapse.
func NewStatusSet(statuses ...Status) StatusSet {
	members := slices.Clone(statuses)
	slices.Sort(members)
	return StatusSet{members: slices.Compact(members)}
}

// ActiveStatuses is the set of statuses counted as ongoing work. Every
// workload and dependency computation uses this one definition.
func ActiveStatuses() StatusSet {
	return NewStatusSet(StatusInProgress, StatusReview)
}

// Contains reports whether s is in the set.
func (set StatusSet) Contains(s Status) bool {
	_, found := slices.BinarySearch(set.members, s)
	return found
}

// Statuses returns the members in sorted order.
func (set StatusSet) Statuses() []Status {
	return slices.Clone(set.members)
}

// Len returns the number of members.
func (set StatusSet) Len() int {
	return len(set.members)
}

// Args returns the members as query arguments.
func (set StatusSet) Args() []any {
	args := make([]any, len(set.members))
	for i, s := range set.members {
		args[i] = string(s)
	}
	return args
}
