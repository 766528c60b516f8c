package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/tracker/internal/shared/domain"
)

const minFullNameLength = 5

// Employee is a person who can own or be assigned tasks.
type Employee struct {
	sharedDomain.BaseAggregateRoot
	fullName  string
	position  string
	email     string
	isActive  bool
	createdAt time.Time
}

// NewEmployee validates and builds an employee that has not been stored yet.
func NewEmployee(fullName, position, email string, isActive bool) (*Employee, error) {
	fullName = strings.TrimSpace(fullName)
	email = strings.TrimSpace(email)

	verr := NewValidationError()
	if len([]rune(fullName)) < minFullNameLength {
		verr.Add("full_name", "full name is too short, provide the complete name")
	}
	if strings.TrimSpace(position) == "" {
		verr.Add("position", "position is required")
	}
	if isActive && email == "" {
		verr.Add("email", "an active employee requires an email")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	return &Employee{
		fullName:  fullName,
		position:  strings.TrimSpace(position),
		email:     email,
		isActive:  isActive,
		createdAt: time.Now().UTC(),
	}, nil
}

// RehydrateEmployee rebuilds an employee from stored values.
func RehydrateEmployee(id int64, fullName, position, email string, isActive bool, createdAt time.Time) *Employee {
	e := &Employee{
		fullName:  fullName,
		position:  position,
		email:     email,
		isActive:  isActive,
		createdAt: createdAt,
	}
	e.AssignID(id)
	return e
}

func (e *Employee) FullName() string     { return e.fullName }
func (e *Employee) Position() string     { return e.position }
func (e *Employee) Email() string        { return e.email }
func (e *Employee) IsActive() bool       { return e.isActive }
func (e *Employee) CreatedAt() time.Time { return e.createdAt }

// MarkCreated assigns the stored id and records the creation event.
func (e *Employee) MarkCreated(id int64) {
	e.AssignID(id)
	e.AddDomainEvent(NewEmployeeCreated(e))
}
