// Package domain holds principals and roles of the identity context.
package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrUnauthenticated means no valid credentials were presented.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden means the principal lacks a required role.
	ErrForbidden = errors.New("permission denied")

	// ErrTokenNotFound means the token store has no such token.
	ErrTokenNotFound = errors.New("token not found")

	// ErrInvalidRole indicates an unknown role name.
	ErrInvalidRole = errors.New("invalid role")
)

// Role is a named group of permissions.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleManager  Role = "Manager"
	RoleEmployee Role = "Employee"
)

// IsValid returns true if the role is a known value.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee:
		return true
	default:
		return false
	}
}

// ParseRole parses a role name case-insensitively.
func ParseRole(s string) (Role, error) {
	for _, r := range []Role{RoleAdmin, RoleManager, RoleEmployee} {
		if strings.EqualFold(string(r), strings.TrimSpace(s)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
}

// Principal is an authenticated caller.
type Principal struct {
	Name  string `json:"name"`
	Roles []Role `json:"roles"`
}

// HasAnyRole reports whether the principal holds one of roles.
func (p Principal) HasAnyRole(roles ...Role) bool {
	for _, r := range roles {
		if slices.Contains(p.Roles, r) {
			return true
		}
	}
	return false
}

// Policy decides whether a principal may proceed.
type Policy func(Principal) error

// RequireAnyRole allows principals holding at least one of roles.
func RequireAnyRole(roles ...Role) Policy {
	return func(p Principal) error {
		if p.HasAnyRole(roles...) {
			return nil
		}
		return ErrForbidden
	}
}

// AnalyticsPolicy guards the analytics endpoints.
func AnalyticsPolicy() Policy {
	return RequireAnyRole(RoleAdmin, RoleManager)
}
