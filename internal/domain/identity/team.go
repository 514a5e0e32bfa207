package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hrm/backend/internal/domain/shared"
)

// TeamStatus represents the status of a team
type TeamStatus string

const (
	TeamStatusActive   TeamStatus = "active"
	TeamStatusInactive TeamStatus = "inactive"
)

// Team is a working group inside a department. Employees reference their
// team through the employment record.
type Team struct {
	shared.TenantAggregateRoot
	Code         string
	Name         string
	Description  string
	DepartmentID uuid.UUID
	LeadID       *uuid.UUID
	Status       TeamStatus
}

// NewTeam creates a new team inside a department
func NewTeam(tenantID, departmentID uuid.UUID, code, name string) (*Team, error) {
	if departmentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DEPARTMENT", "Team must belong to a department")
	}
	if err := validateDepartmentCode(code); err != nil {
		return nil, err
	}
	if err := validateDepartmentName(name); err != nil {
		return nil, err
	}

	team := &Team{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                strings.ToUpper(strings.TrimSpace(code)),
		Name:                strings.TrimSpace(name),
		DepartmentID:        departmentID,
		Status:              TeamStatusActive,
	}

	team.AddDomainEvent(NewTeamCreatedEvent(team))

	return team, nil
}

// SetName sets the team name
func (t *Team) SetName(name string) error {
	if err := validateDepartmentName(name); err != nil {
		return err
	}

	t.Name = strings.TrimSpace(name)
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// SetDescription sets the team description
func (t *Team) SetDescription(description string) {
	t.Description = description
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// SetLead sets the team lead
func (t *Team) SetLead(leadID *uuid.UUID) {
	t.LeadID = leadID
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// MoveToDepartment moves the team to another department
func (t *Team) MoveToDepartment(departmentID uuid.UUID) error {
	if departmentID == uuid.Nil {
		return shared.NewDomainError("INVALID_DEPARTMENT", "Team must belong to a department")
	}

	t.DepartmentID = departmentID
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// Activate activates the team
func (t *Team) Activate() error {
	if t.Status == TeamStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Team is already active")
	}

	t.Status = TeamStatusActive
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// Deactivate deactivates the team
func (t *Team) Deactivate() error {
	if t.Status == TeamStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Team is already inactive")
	}

	t.Status = TeamStatusInactive
	t.UpdatedAt = time.Now()
	t.IncrementVersion()

	return nil
}

// IsActive returns true if the team is active
func (t *Team) IsActive() bool {
	return t.Status == TeamStatusActive
}
