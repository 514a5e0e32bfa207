package hr

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hrm/backend/internal/domain/shared"
)

// EmploymentType represents the contractual type of an employment
type EmploymentType string

const (
	EmploymentTypeFullTime EmploymentType = "full_time"
	EmploymentTypePartTime EmploymentType = "part_time"
	EmploymentTypeContract EmploymentType = "contract"
	EmploymentTypeIntern   EmploymentType = "intern"
)

// EmploymentStatus represents the lifecycle state of an employment
type EmploymentStatus string

const (
	EmploymentStatusOnboarding EmploymentStatus = "onboarding"
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusOnLeave    EmploymentStatus = "on_leave"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

// PayFrequency represents how often the employee is paid
type PayFrequency string

const (
	PayFrequencyMonthly  PayFrequency = "monthly"
	PayFrequencyBiweekly PayFrequency = "biweekly"
	PayFrequencyWeekly   PayFrequency = "weekly"
)

// Compensation holds the payroll fields of an employment. Custom fields
// carry organization-specific payroll columns (allowances, deductions).
type Compensation struct {
	BaseSalary   decimal.Decimal
	Currency     string
	PayFrequency PayFrequency
	CustomFields map[string]string
}

// Employment is the work relationship between a user and the organization.
// It is the row the employee directory lists and the HR back office edits.
type Employment struct {
	shared.TenantAggregateRoot
	UserID          uuid.UUID
	EmployeeCode    string
	Designation     string
	DepartmentID    *uuid.UUID
	TeamID          *uuid.UUID
	ManagerID       *uuid.UUID
	Type            EmploymentType
	Status          EmploymentStatus
	StartDate       time.Time
	TerminationDate *time.Time
	Compensation    Compensation
}

// NewEmployment creates a new employment in onboarding state
func NewEmployment(tenantID, userID uuid.UUID, employeeCode, designation string, empType EmploymentType, startDate time.Time) (*Employment, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Employment must belong to a user")
	}
	if err := validateEmployeeCode(employeeCode); err != nil {
		return nil, err
	}
	if err := validateDesignation(designation); err != nil {
		return nil, err
	}
	if err := validateEmploymentType(empType); err != nil {
		return nil, err
	}
	if startDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_START_DATE", "Start date is required")
	}

	emp := &Employment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		UserID:              userID,
		EmployeeCode:        strings.ToUpper(strings.TrimSpace(employeeCode)),
		Designation:         strings.TrimSpace(designation),
		Type:                empType,
		Status:              EmploymentStatusOnboarding,
		StartDate:           startDate,
		Compensation: Compensation{
			BaseSalary:   decimal.Zero,
			Currency:     "USD",
			PayFrequency: PayFrequencyMonthly,
			CustomFields: make(map[string]string),
		},
	}

	emp.AddDomainEvent(NewEmploymentCreatedEvent(emp))

	return emp, nil
}

// SetDesignation updates the job title
func (e *Employment) SetDesignation(designation string) error {
	if err := validateDesignation(designation); err != nil {
		return err
	}

	e.Designation = strings.TrimSpace(designation)
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// AssignDepartment links the employment to a department (and clears the team
// if it belonged to another department)
func (e *Employment) AssignDepartment(departmentID *uuid.UUID) {
	if departmentID == nil || (e.DepartmentID != nil && *e.DepartmentID != *departmentID) {
		e.TeamID = nil
	}
	e.DepartmentID = departmentID
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// AssignTeam links the employment to a team
func (e *Employment) AssignTeam(teamID *uuid.UUID) {
	e.TeamID = teamID
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
}

// AssignManager sets the reporting manager
func (e *Employment) AssignManager(managerID *uuid.UUID) error {
	if managerID != nil && *managerID == e.UserID {
		return shared.NewDomainError("INVALID_MANAGER", "Employee cannot be their own manager")
	}

	e.ManagerID = managerID
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// ChangeType changes the employment type
func (e *Employment) ChangeType(empType EmploymentType) error {
	if err := validateEmploymentType(empType); err != nil {
		return err
	}

	e.Type = empType
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// UpdateCompensation replaces the payroll fields
func (e *Employment) UpdateCompensation(comp Compensation) error {
	if comp.BaseSalary.IsNegative() {
		return shared.NewDomainError("INVALID_COMPENSATION", "Base salary cannot be negative")
	}
	if comp.Currency == "" || len(comp.Currency) != 3 {
		return shared.NewDomainError("INVALID_COMPENSATION", "Currency must be a 3-letter code")
	}
	switch comp.PayFrequency {
	case PayFrequencyMonthly, PayFrequencyBiweekly, PayFrequencyWeekly:
	default:
		return shared.NewDomainError("INVALID_COMPENSATION", "Unknown pay frequency")
	}

	if comp.CustomFields == nil {
		comp.CustomFields = make(map[string]string)
	}
	comp.Currency = strings.ToUpper(comp.Currency)
	e.Compensation = comp
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// Activate completes onboarding
func (e *Employment) Activate() error {
	if e.Status != EmploymentStatusOnboarding {
		return shared.NewDomainError("INVALID_STATE", "Only onboarding employments can be activated")
	}

	e.Status = EmploymentStatusActive
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	e.AddDomainEvent(NewEmploymentActivatedEvent(e))

	return nil
}

// MarkOnLeave flags the employment as on leave
func (e *Employment) MarkOnLeave() error {
	if e.Status != EmploymentStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active employments can go on leave")
	}

	e.Status = EmploymentStatusOnLeave
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// Resume returns an on-leave employment to active
func (e *Employment) Resume() error {
	if e.Status != EmploymentStatusOnLeave {
		return shared.NewDomainError("INVALID_STATE", "Employment is not on leave")
	}

	e.Status = EmploymentStatusActive
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	return nil
}

// Terminate ends the employment
func (e *Employment) Terminate(terminationDate time.Time) error {
	if e.Status == EmploymentStatusTerminated {
		return shared.NewDomainError("ALREADY_TERMINATED", "Employment is already terminated")
	}
	if terminationDate.Before(e.StartDate) {
		return shared.NewDomainError("INVALID_TERMINATION_DATE", "Termination date cannot be before start date")
	}

	e.Status = EmploymentStatusTerminated
	e.TerminationDate = &terminationDate
	e.UpdatedAt = time.Now()
	e.IncrementVersion()

	e.AddDomainEvent(NewEmploymentTerminatedEvent(e))

	return nil
}

// IsActive returns true for active or on-leave employments
func (e *Employment) IsActive() bool {
	return e.Status == EmploymentStatusActive || e.Status == EmploymentStatusOnLeave
}

var employeeCodeRegex = regexp.MustCompile(`^[A-Z0-9\-]+$`)

func validateEmployeeCode(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return shared.NewDomainError("INVALID_EMPLOYEE_CODE", "Employee code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_EMPLOYEE_CODE", "Employee code cannot exceed 50 characters")
	}
	if !employeeCodeRegex.MatchString(code) {
		return shared.NewDomainError("INVALID_EMPLOYEE_CODE", "Employee code can only contain letters, numbers, and hyphens")
	}
	return nil
}

func validateDesignation(designation string) error {
	designation = strings.TrimSpace(designation)
	if designation == "" {
		return shared.NewDomainError("INVALID_DESIGNATION", "Designation cannot be empty")
	}
	if len(designation) > 200 {
		return shared.NewDomainError("INVALID_DESIGNATION", "Designation cannot exceed 200 characters")
	}
	return nil
}

func validateEmploymentType(empType EmploymentType) error {
	switch empType {
	case EmploymentTypeFullTime, EmploymentTypePartTime, EmploymentTypeContract, EmploymentTypeIntern:
		return nil
	}
	return shared.NewDomainError("INVALID_EMPLOYMENT_TYPE", "Unknown employment type")
}
