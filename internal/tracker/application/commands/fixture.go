package commands

import (
	"bytes"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/felixgeelhaar/tracker/internal/shared/infrastructure/security"
)

// MaxFixtureBytes bounds the size of a seed file.
const MaxFixtureBytes = 4 << 20

// Fixture is the YAML seed document. Tasks and dependencies refer to
// employees and tasks by their fixture key, not by database id.
type Fixture struct {
	Employees    []EmployeeFixture   `yaml:"employees"`
	Tasks        []TaskFixture       `yaml:"tasks"`
	Dependencies []DependencyFixture `yaml:"dependencies"`
}

// EmployeeFixture describes one employee.
type EmployeeFixture struct {
	Key      string `yaml:"key"`
	FullName string `yaml:"full_name"`
	Position string `yaml:"position"`
	Email    string `yaml:"email"`
	IsActive *bool  `yaml:"is_active"`
}

// Active defaults to true.
func (e EmployeeFixture) Active() bool {
	return e.IsActive == nil || *e.IsActive
}

// TaskFixture describes one task.
type TaskFixture struct {
	Key           string `yaml:"key"`
	Title         string `yaml:"title"`
	Description   string `yaml:"description"`
	ReviewComment string `yaml:"review_comment"`
	Status        string `yaml:"status"`
	DueDate       string `yaml:"due_date"`
	Assignee      string `yaml:"assignee"`
	Owner         string `yaml:"owner"`
}

// Due parses DueDate as YYYY-MM-DD.
func (t TaskFixture) Due() (time.Time, error) {
	if t.DueDate == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.DateOnly, t.DueDate)
}

// DependencyFixture makes Parent depend on Child.
type DependencyFixture struct {
	Parent string `yaml:"parent"`
	Child  string `yaml:"child"`
}

// ParseFixture decodes a seed document, rejecting unknown fields.
func ParseFixture(data []byte) (*Fixture, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f Fixture
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	return &f, nil
}

// LoadFixture reads and decodes a seed file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := security.SafeReadFile(path, MaxFixtureBytes)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(data)
}
