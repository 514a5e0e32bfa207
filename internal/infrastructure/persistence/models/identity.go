package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/hrm/backend/internal/domain/identity"
)

// OrganizationModel is the persistence model for organizations. The
// organization ID doubles as the tenant ID of every other table.
type OrganizationModel struct {
	AggregateModel
	Slug         string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string `gorm:"type:varchar(200);not null"`
	ContactName  string `gorm:"type:varchar(100)"`
	ContactPhone string `gorm:"type:varchar(50)"`
	ContactEmail string `gorm:"type:varchar(200)"`
	Address      string `gorm:"type:varchar(1000)"`
	LogoURL      string `gorm:"type:varchar(500)"`
	Status       string `gorm:"type:varchar(20);not null;default:'active'"`
	Settings     string `gorm:"type:jsonb;default:'{}'"`
	Notes        string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (OrganizationModel) TableName() string {
	return "organizations"
}

// ToDomain converts the persistence model to a domain Organization
func (m *OrganizationModel) ToDomain() *identity.Organization {
	org := &identity.Organization{
		Slug:         m.Slug,
		Name:         m.Name,
		ContactName:  m.ContactName,
		ContactPhone: m.ContactPhone,
		ContactEmail: m.ContactEmail,
		Address:      m.Address,
		LogoURL:      m.LogoURL,
		Status:       identity.OrganizationStatus(m.Status),
		Settings:     identity.DefaultOrganizationSettings(),
		Notes:        m.Notes,
	}
	m.PopulateAggregateRoot(&org.BaseAggregateRoot)

	if m.Settings != "" && m.Settings != "{}" {
		var settings identity.OrganizationSettings
		if err := json.Unmarshal([]byte(m.Settings), &settings); err == nil {
			org.Settings = settings
		}
	}

	return org
}

// FromDomain populates the persistence model from a domain Organization
func (m *OrganizationModel) FromDomain(org *identity.Organization) {
	m.FromDomainAggregateRoot(org.BaseAggregateRoot)
	m.Slug = org.Slug
	m.Name = org.Name
	m.ContactName = org.ContactName
	m.ContactPhone = org.ContactPhone
	m.ContactEmail = org.ContactEmail
	m.Address = org.Address
	m.LogoURL = org.LogoURL
	m.Status = string(org.Status)
	m.Notes = org.Notes

	if data, err := json.Marshal(org.Settings); err == nil {
		m.Settings = string(data)
	} else {
		m.Settings = "{}"
	}
}

// OrganizationModelFromDomain creates a new persistence model from a domain Organization
func OrganizationModelFromDomain(org *identity.Organization) *OrganizationModel {
	m := &OrganizationModel{}
	m.FromDomain(org)
	return m
}

// UserModel is the persistence model for user accounts
type UserModel struct {
	TenantAggregateModel
	Email              string     `gorm:"type:varchar(200);not null;index:idx_users_tenant_email"`
	DisplayName        string     `gorm:"type:varchar(200)"`
	PasswordHash       string     `gorm:"type:varchar(255);not null"`
	Role               string     `gorm:"type:varchar(20);not null;default:'employee'"`
	Status             string     `gorm:"type:varchar(20);not null;default:'pending'"`
	DepartmentID       *uuid.UUID `gorm:"type:uuid;index"`
	LastLoginAt        *time.Time
	LastLoginIP        string `gorm:"type:varchar(45)"`
	FailedAttempts     int    `gorm:"not null;default:0"`
	LockedUntil        *time.Time
	PasswordChangedAt  *time.Time
	MustChangePassword bool `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User
func (m *UserModel) ToDomain() *identity.User {
	user := &identity.User{
		Email:              m.Email,
		DisplayName:        m.DisplayName,
		PasswordHash:       m.PasswordHash,
		Role:               identity.Role(m.Role),
		Status:             identity.UserStatus(m.Status),
		DepartmentID:       m.DepartmentID,
		LastLoginAt:        m.LastLoginAt,
		LastLoginIP:        m.LastLoginIP,
		FailedAttempts:     m.FailedAttempts,
		LockedUntil:        m.LockedUntil,
		PasswordChangedAt:  m.PasswordChangedAt,
		MustChangePassword: m.MustChangePassword,
	}
	m.PopulateTenantAggregateRoot(&user.TenantAggregateRoot)
	return user
}

// FromDomain populates the persistence model from a domain User
func (m *UserModel) FromDomain(user *identity.User) {
	m.FromDomainTenantAggregateRoot(user.TenantAggregateRoot)
	m.Email = user.Email
	m.DisplayName = user.DisplayName
	m.PasswordHash = user.PasswordHash
	m.Role = string(user.Role)
	m.Status = string(user.Status)
	m.DepartmentID = user.DepartmentID
	m.LastLoginAt = user.LastLoginAt
	m.LastLoginIP = user.LastLoginIP
	m.FailedAttempts = user.FailedAttempts
	m.LockedUntil = user.LockedUntil
	m.PasswordChangedAt = user.PasswordChangedAt
	m.MustChangePassword = user.MustChangePassword
}

// UserModelFromDomain creates a new persistence model from a domain User
func UserModelFromDomain(user *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(user)
	return m
}

// DepartmentModel is the persistence model for departments. Path holds the
// materialized path used for subtree queries.
type DepartmentModel struct {
	TenantAggregateModel
	Code        string     `gorm:"type:varchar(50);not null;index:idx_departments_tenant_code"`
	Name        string     `gorm:"type:varchar(200);not null"`
	Description string     `gorm:"type:text"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index"`
	Path        string     `gorm:"type:varchar(1500);not null;index"`
	Level       int        `gorm:"not null;default:0"`
	SortOrder   int        `gorm:"not null;default:0"`
	ManagerID   *uuid.UUID `gorm:"type:uuid"`
	Status      string     `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (DepartmentModel) TableName() string {
	return "departments"
}

// ToDomain converts the persistence model to a domain Department
func (m *DepartmentModel) ToDomain() *identity.Department {
	dept := &identity.Department{
		Code:        m.Code,
		Name:        m.Name,
		Description: m.Description,
		ParentID:    m.ParentID,
		Path:        m.Path,
		Level:       m.Level,
		SortOrder:   m.SortOrder,
		ManagerID:   m.ManagerID,
		Status:      identity.DepartmentStatus(m.Status),
	}
	m.PopulateTenantAggregateRoot(&dept.TenantAggregateRoot)
	return dept
}

// FromDomain populates the persistence model from a domain Department
func (m *DepartmentModel) FromDomain(dept *identity.Department) {
	m.FromDomainTenantAggregateRoot(dept.TenantAggregateRoot)
	m.Code = dept.Code
	m.Name = dept.Name
	m.Description = dept.Description
	m.ParentID = dept.ParentID
	m.Path = dept.Path
	m.Level = dept.Level
	m.SortOrder = dept.SortOrder
	m.ManagerID = dept.ManagerID
	m.Status = string(dept.Status)
}

// DepartmentModelFromDomain creates a new persistence model from a domain Department
func DepartmentModelFromDomain(dept *identity.Department) *DepartmentModel {
	m := &DepartmentModel{}
	m.FromDomain(dept)
	return m
}

// TeamModel is the persistence model for teams
type TeamModel struct {
	TenantAggregateModel
	Code         string     `gorm:"type:varchar(50);not null;index:idx_teams_tenant_code"`
	Name         string     `gorm:"type:varchar(200);not null"`
	Description  string     `gorm:"type:text"`
	DepartmentID uuid.UUID  `gorm:"type:uuid;not null;index"`
	LeadID       *uuid.UUID `gorm:"type:uuid"`
	Status       string     `gorm:"type:varchar(20);not null;default:'active'"`
}

// TableName returns the table name for GORM
func (TeamModel) TableName() string {
	return "teams"
}

// ToDomain converts the persistence model to a domain Team
func (m *TeamModel) ToDomain() *identity.Team {
	team := &identity.Team{
		Code:         m.Code,
		Name:         m.Name,
		Description:  m.Description,
		DepartmentID: m.DepartmentID,
		LeadID:       m.LeadID,
		Status:       identity.TeamStatus(m.Status),
	}
	m.PopulateTenantAggregateRoot(&team.TenantAggregateRoot)
	return team
}

// FromDomain populates the persistence model from a domain Team
func (m *TeamModel) FromDomain(team *identity.Team) {
	m.FromDomainTenantAggregateRoot(team.TenantAggregateRoot)
	m.Code = team.Code
	m.Name = team.Name
	m.Description = team.Description
	m.DepartmentID = team.DepartmentID
	m.LeadID = team.LeadID
	m.Status = string(team.Status)
}

// TeamModelFromDomain creates a new persistence model from a domain Team
func TeamModelFromDomain(team *identity.Team) *TeamModel {
	m := &TeamModel{}
	m.FromDomain(team)
	return m
}
