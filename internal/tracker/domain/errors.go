package domain

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

var (
	// ErrStorageUnavailable wraps every failure of the task graph store.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidStatus indicates an unknown task status.
	ErrInvalidStatus = errors.New("invalid task status")

	// ErrDuplicateDependency indicates the parent/child pair is already linked.
	ErrDuplicateDependency = errors.New("dependency already exists")
)

// ValidationError collects field-level problems found while building an
// entity. Messages are keyed by the JSON field name.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError returns an empty error ready for Add.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add records a message for field.
func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// OrNil returns e when it holds errors and nil otherwise.
func (e *ValidationError) OrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range slices.Sorted(maps.Keys(e.Fields)) {
		parts = append(parts, field+": "+strings.Join(e.Fields[field], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}
