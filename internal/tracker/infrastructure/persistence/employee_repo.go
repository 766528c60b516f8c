package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/felixgeelhaar/tracker/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/tracker/internal/tracker/domain"
)

// EmployeeRepository implements domain.EmployeeRepository.
type EmployeeRepository struct {
	conn database.Connection
}

// NewEmployeeRepository creates a new employee repository.
func NewEmployeeRepository(conn database.Connection) *EmployeeRepository {
	return &EmployeeRepository{conn: conn}
}

var _ domain.EmployeeRepository = (*EmployeeRepository)(nil)

// Create inserts the employee and records its creation event.
func (r *EmployeeRepository) Create(ctx context.Context, e *domain.Employee) error {
	var id int64
	err := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, `
		INSERT INTO employees (full_name, position, email, is_active, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id`,
		e.FullName(), e.Position(), nullString(e.Email()), e.IsActive(), database.NewTimestamp(e.CreatedAt()),
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}
	e.MarkCreated(id)
	return nil
}

// FindByID loads an employee.
func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*domain.Employee, error) {
	var (
		fullName, position string
		email              sql.NullString
		isActive           bool
		createdAt          database.Timestamp
	)
	err := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, `
		SELECT full_name, position, email, is_active, created_at
		FROM employees WHERE id = ?`, id,
	).Scan(&fullName, &position, &email, &isActive, &createdAt)
	if database.IsNoRows(err) {
		return nil, fmt.Errorf("employee %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load employee: %w", err)
	}
	return domain.RehydrateEmployee(id, fullName, position, email.String, isActive, createdAt.Time), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}
