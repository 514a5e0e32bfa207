package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hrm/backend/internal/domain/hr"
)

// ProfileModel is the persistence model for employee profiles
type ProfileModel struct {
	TenantAggregateModel
	UserID      uuid.UUID `gorm:"type:uuid;not null;index:idx_profiles_tenant_user"`
	FirstName   string    `gorm:"type:varchar(100);not null"`
	LastName    string    `gorm:"type:varchar(100);not null"`
	Phone       string    `gorm:"type:varchar(50)"`
	DateOfBirth *time.Time
	Address     string `gorm:"type:varchar(1000)"`
	Bio         string `gorm:"type:text"`
	WorkModel   string `gorm:"type:varchar(20);not null;default:'onsite'"`
	PhotoKey    string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ProfileModel) TableName() string {
	return "profiles"
}

// ToDomain converts the persistence model to a domain Profile
func (m *ProfileModel) ToDomain() *hr.Profile {
	profile := &hr.Profile{
		UserID:      m.UserID,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Phone:       m.Phone,
		DateOfBirth: m.DateOfBirth,
		Address:     m.Address,
		Bio:         m.Bio,
		WorkModel:   hr.WorkModel(m.WorkModel),
		PhotoKey:    m.PhotoKey,
	}
	m.PopulateTenantAggregateRoot(&profile.TenantAggregateRoot)
	return profile
}

// FromDomain populates the persistence model from a domain Profile
func (m *ProfileModel) FromDomain(profile *hr.Profile) {
	m.FromDomainTenantAggregateRoot(profile.TenantAggregateRoot)
	m.UserID = profile.UserID
	m.FirstName = profile.FirstName
	m.LastName = profile.LastName
	m.Phone = profile.Phone
	m.DateOfBirth = profile.DateOfBirth
	m.Address = profile.Address
	m.Bio = profile.Bio
	m.WorkModel = string(profile.WorkModel)
	m.PhotoKey = profile.PhotoKey
}

// ProfileModelFromDomain creates a new persistence model from a domain Profile
func ProfileModelFromDomain(profile *hr.Profile) *ProfileModel {
	m := &ProfileModel{}
	m.FromDomain(profile)
	return m
}

// EmploymentModel is the persistence model for employment records.
// CustomFields holds organization-specific payroll columns as jsonb.
type EmploymentModel struct {
	TenantAggregateModel
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index:idx_employments_tenant_user"`
	EmployeeCode    string          `gorm:"type:varchar(50);not null;index:idx_employments_tenant_code"`
	Designation     string          `gorm:"type:varchar(200);not null"`
	DepartmentID    *uuid.UUID      `gorm:"type:uuid;index"`
	TeamID          *uuid.UUID      `gorm:"type:uuid;index"`
	ManagerID       *uuid.UUID      `gorm:"type:uuid;index"`
	Type            string          `gorm:"type:varchar(20);not null"`
	Status          string          `gorm:"type:varchar(20);not null;default:'onboarding'"`
	StartDate       time.Time       `gorm:"type:date;not null"`
	TerminationDate *time.Time      `gorm:"type:date"`
	BaseSalary      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Currency        string          `gorm:"type:varchar(3);not null;default:'USD'"`
	PayFrequency    string          `gorm:"type:varchar(20);not null;default:'monthly'"`
	CustomFields    string          `gorm:"type:jsonb;default:'{}'"`
}

// TableName returns the table name for GORM
func (EmploymentModel) TableName() string {
	return "employments"
}

// ToDomain converts the persistence model to a domain Employment
func (m *EmploymentModel) ToDomain() *hr.Employment {
	emp := &hr.Employment{
		UserID:          m.UserID,
		EmployeeCode:    m.EmployeeCode,
		Designation:     m.Designation,
		DepartmentID:    m.DepartmentID,
		TeamID:          m.TeamID,
		ManagerID:       m.ManagerID,
		Type:            hr.EmploymentType(m.Type),
		Status:          hr.EmploymentStatus(m.Status),
		StartDate:       m.StartDate,
		TerminationDate: m.TerminationDate,
		Compensation: hr.Compensation{
			BaseSalary:   m.BaseSalary,
			Currency:     m.Currency,
			PayFrequency: hr.PayFrequency(m.PayFrequency),
			CustomFields: make(map[string]string),
		},
	}
	m.PopulateTenantAggregateRoot(&emp.TenantAggregateRoot)

	if m.CustomFields != "" && m.CustomFields != "{}" {
		var fields map[string]string
		if err := json.Unmarshal([]byte(m.CustomFields), &fields); err == nil {
			emp.Compensation.CustomFields = fields
		}
	}

	return emp
}

// FromDomain populates the persistence model from a domain Employment
func (m *EmploymentModel) FromDomain(emp *hr.Employment) {
	m.FromDomainTenantAggregateRoot(emp.TenantAggregateRoot)
	m.UserID = emp.UserID
	m.EmployeeCode = emp.EmployeeCode
	m.Designation = emp.Designation
	m.DepartmentID = emp.DepartmentID
	m.TeamID = emp.TeamID
	m.ManagerID = emp.ManagerID
	m.Type = string(emp.Type)
	m.Status = string(emp.Status)
	m.StartDate = emp.StartDate
	m.TerminationDate = emp.TerminationDate
	m.BaseSalary = emp.Compensation.BaseSalary
	m.Currency = emp.Compensation.Currency
	m.PayFrequency = string(emp.Compensation.PayFrequency)

	if len(emp.Compensation.CustomFields) > 0 {
		if data, err := json.Marshal(emp.Compensation.CustomFields); err == nil {
			m.CustomFields = string(data)
		} else {
			m.CustomFields = "{}"
		}
	} else {
		m.CustomFields = "{}"
	}
}

// EmploymentModelFromDomain creates a new persistence model from a domain Employment
func EmploymentModelFromDomain(emp *hr.Employment) *EmploymentModel {
	m := &EmploymentModel{}
	m.FromDomain(emp)
	return m
}
