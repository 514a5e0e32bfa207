package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hrm/backend/internal/domain/shared"
)

// DepartmentStatus represents the status of a department
type DepartmentStatus string

const (
	DepartmentStatusActive   DepartmentStatus = "active"
	DepartmentStatusInactive DepartmentStatus = "inactive"
)

// Department represents an organizational unit used to scope employees.
// Hierarchy is kept as a materialized path so subtree queries stay cheap.
type Department struct {
	shared.TenantAggregateRoot
	Code        string
	Name        string
	Description string
	ParentID    *uuid.UUID
	Path        string // e.g. "/root-id/parent-id/this-id"
	Level       int    // 0 = root
	SortOrder   int
	ManagerID   *uuid.UUID
	Status      DepartmentStatus
}

// NewDepartment creates a new department with required fields
func NewDepartment(tenantID uuid.UUID, code, name string) (*Department, error) {
	if err := validateDepartmentCode(code); err != nil {
		return nil, err
	}
	if err := validateDepartmentName(name); err != nil {
		return nil, err
	}

	dept := &Department{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(strings.TrimSpace(code)),
		Name:                strings.TrimSpace(name),
		Status:              DepartmentStatusActive,
		Level:               0,
	}
	dept.Path = "/" + dept.ID.String()

	dept.AddDomainEvent(NewDepartmentCreatedEvent(dept))

	return dept, nil
}

// SetParent sets the parent department and recomputes path and level
func (d *Department) SetParent(parentID *uuid.UUID, parentPath string, parentLevel int) error {
	if parentID != nil && *parentID == d.ID {
		return shared.NewDomainError("INVALID_PARENT", "Department cannot be its own parent")
	}
	if parentID != nil && strings.Contains(parentPath, d.ID.String()) {
		return shared.NewDomainError("INVALID_PARENT", "Department cannot be moved under its own subtree")
	}

	d.ParentID = parentID
	if parentID == nil {
		d.Path = "/" + d.ID.String()
		d.Level = 0
	} else {
		d.Path = parentPath + "/" + d.ID.String()
		d.Level = parentLevel + 1
	}

	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	return nil
}

// SetName sets the department name
func (d *Department) SetName(name string) error {
	if err := validateDepartmentName(name); err != nil {
		return err
	}

	d.Name = strings.TrimSpace(name)
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	return nil
}

// SetDescription sets the department description
func (d *Department) SetDescription(description string) {
	d.Description = description
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
}

// SetManager sets the department manager
func (d *Department) SetManager(managerID *uuid.UUID) {
	d.ManagerID = managerID
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	d.AddDomainEvent(NewDepartmentManagerChangedEvent(d))
}

// SetSortOrder sets the display order
func (d *Department) SetSortOrder(order int) {
	d.SortOrder = order
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
}

// Activate activates the department
func (d *Department) Activate() error {
	if d.Status == DepartmentStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Department is already active")
	}

	d.Status = DepartmentStatusActive
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	return nil
}

// Deactivate deactivates the department
func (d *Department) Deactivate() error {
	if d.Status == DepartmentStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Department is already inactive")
	}

	d.Status = DepartmentStatusInactive
	d.UpdatedAt = time.Now()
	d.IncrementVersion()

	return nil
}

// IsActive returns true if the department is active
func (d *Department) IsActive() bool {
	return d.Status == DepartmentStatusActive
}

// IsAncestorOf returns true if this department is an ancestor of other
func (d *Department) IsAncestorOf(other *Department) bool {
	return strings.HasPrefix(other.Path, d.Path+"/")
}

// GetAncestorIDs returns the IDs of all ancestors, root first
func (d *Department) GetAncestorIDs() []uuid.UUID {
	segments := strings.Split(strings.Trim(d.Path, "/"), "/")
	ids := make([]uuid.UUID, 0, len(segments))
	for _, seg := range segments {
		id, err := uuid.Parse(seg)
		if err != nil || id == d.ID {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

var departmentCodeRegex = regexp.MustCompile(`^[A-Z0-9_\-]+$`)

func validateDepartmentCode(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Department code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Department code cannot exceed 50 characters")
	}
	if !departmentCodeRegex.MatchString(code) {
		return shared.NewDomainError("INVALID_CODE", "Department code can only contain letters, numbers, underscores, and hyphens")
	}
	return nil
}

func validateDepartmentName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Department name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Department name cannot exceed 200 characters")
	}
	return nil
}
