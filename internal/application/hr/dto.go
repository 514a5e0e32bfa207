package hr

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hrm/backend/internal/domain/hr"
)

// ProfileDTO represents profile data transfer object
type ProfileDTO struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	FullName    string     `json:"full_name"`
	Phone       string     `json:"phone,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Address     string     `json:"address,omitempty"`
	Bio         string     `json:"bio,omitempty"`
	WorkModel   string     `json:"work_model"`
	PhotoKey    string     `json:"photo_key,omitempty"`
	PhotoURL    string     `json:"photo_url,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToProfileDTO converts a domain profile to a DTO
func ToProfileDTO(profile *hr.Profile) ProfileDTO {
	return ProfileDTO{
		ID:          profile.ID,
		UserID:      profile.UserID,
		FirstName:   profile.FirstName,
		LastName:    profile.LastName,
		FullName:    profile.FullName(),
		Phone:       profile.Phone,
		DateOfBirth: profile.DateOfBirth,
		Address:     profile.Address,
		Bio:         profile.Bio,
		WorkModel:   string(profile.WorkModel),
		PhotoKey:    profile.PhotoKey,
		UpdatedAt:   profile.UpdatedAt,
	}
}

// CompensationDTO represents the payroll fields of an employment
type CompensationDTO struct {
	BaseSalary   decimal.Decimal   `json:"base_salary"`
	Currency     string            `json:"currency"`
	PayFrequency string            `json:"pay_frequency"`
	CustomFields map[string]string `json:"custom_fields,omitempty"`
}

// EmploymentDTO represents employment data transfer object
type EmploymentDTO struct {
	ID              uuid.UUID        `json:"id"`
	UserID          uuid.UUID        `json:"user_id"`
	EmployeeCode    string           `json:"employee_code"`
	Designation     string           `json:"designation"`
	DepartmentID    *uuid.UUID       `json:"department_id,omitempty"`
	TeamID          *uuid.UUID       `json:"team_id,omitempty"`
	ManagerID       *uuid.UUID       `json:"manager_id,omitempty"`
	Type            string           `json:"type"`
	Status          string           `json:"status"`
	StartDate       time.Time        `json:"start_date"`
	TerminationDate *time.Time       `json:"termination_date,omitempty"`
	Compensation    *CompensationDTO `json:"compensation,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// ToEmploymentDTO converts a domain employment to a DTO. Compensation is
// included only when withPayroll is set; directory reads leave it out.
func ToEmploymentDTO(emp *hr.Employment, withPayroll bool) EmploymentDTO {
	dto := EmploymentDTO{
		ID:              emp.ID,
		UserID:          emp.UserID,
		EmployeeCode:    emp.EmployeeCode,
		Designation:     emp.Designation,
		DepartmentID:    emp.DepartmentID,
		TeamID:          emp.TeamID,
		ManagerID:       emp.ManagerID,
		Type:            string(emp.Type),
		Status:          string(emp.Status),
		StartDate:       emp.StartDate,
		TerminationDate: emp.TerminationDate,
		CreatedAt:       emp.CreatedAt,
		UpdatedAt:       emp.UpdatedAt,
	}
	if withPayroll {
		dto.Compensation = &CompensationDTO{
			BaseSalary:   emp.Compensation.BaseSalary,
			Currency:     emp.Compensation.Currency,
			PayFrequency: string(emp.Compensation.PayFrequency),
			CustomFields: emp.Compensation.CustomFields,
		}
	}
	return dto
}

// EmployeeDTO is the composite directory entry: account, profile, and
// employment of one person
type EmployeeDTO struct {
	UserID      uuid.UUID      `json:"user_id"`
	Email       string         `json:"email"`
	DisplayName string         `json:"display_name,omitempty"`
	Role        string         `json:"role"`
	UserStatus  string         `json:"user_status"`
	Profile     *ProfileDTO    `json:"profile,omitempty"`
	Employment  *EmploymentDTO `json:"employment,omitempty"`
}

// OnboardEmployeeInput contains everything needed to onboard one employee:
// the account, the initial profile, and the employment record
type OnboardEmployeeInput struct {
	TenantID     uuid.UUID
	Email        string
	Password     string
	Role         string
	FirstName    string
	LastName     string
	Phone        string
	EmployeeCode string
	Designation  string
	Type         string
	StartDate    time.Time
	DepartmentID *uuid.UUID
	TeamID       *uuid.UUID
	ManagerID    *uuid.UUID
}

// UpdateProfileInput contains input for updating a profile
type UpdateProfileInput struct {
	TenantID    uuid.UUID
	UserID      uuid.UUID
	FirstName   *string
	LastName    *string
	Phone       *string
	DateOfBirth *time.Time
	ClearDOB    bool
	Address     *string
	Bio         *string
	WorkModel   *string
}

// UpdateEmploymentInput contains input for HR edits to an employment
type UpdateEmploymentInput struct {
	TenantID     uuid.UUID
	UserID       uuid.UUID
	Designation  *string
	DepartmentID *uuid.UUID
	ClearDept    bool
	TeamID       *uuid.UUID
	ClearTeam    bool
	ManagerID    *uuid.UUID
	ClearManager bool
	Type         *string
}

// UpdateCompensationInput contains input for payroll edits
type UpdateCompensationInput struct {
	TenantID     uuid.UUID
	UserID       uuid.UUID
	BaseSalary   decimal.Decimal
	Currency     string
	PayFrequency string
	CustomFields map[string]string
}

// UploadURLResult carries a presigned upload URL and the storage key the
// client must confirm afterwards
type UploadURLResult struct {
	UploadURL  string    `json:"upload_url"`
	StorageKey string    `json:"storage_key"`
	ExpiresAt  time.Time `json:"expires_at"`
}
