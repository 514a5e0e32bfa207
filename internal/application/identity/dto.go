package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/hrm/backend/internal/domain/identity"
)

// LoginInput contains the input for user login
type LoginInput struct {
	OrgSlug  string
	Email    string
	Password string
	IP       string // Client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	MustChangePassword    bool
	User                  UserInfo
}

// UserInfo contains basic user information returned after login
type UserInfo struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	Email        string
	DisplayName  string
	Role         string
	DepartmentID *uuid.UUID
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID   uuid.UUID
	TenantID uuid.UUID
	TokenJTI string
	TokenTTL time.Duration
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	TenantID    uuid.UUID
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// UserDTO represents user data transfer object
type UserDTO struct {
	ID                 uuid.UUID  `json:"id"`
	TenantID           uuid.UUID  `json:"tenant_id"`
	Email              string     `json:"email"`
	DisplayName        string     `json:"display_name,omitempty"`
	Role               string     `json:"role"`
	Status             string     `json:"status"`
	DepartmentID       *uuid.UUID `json:"department_id,omitempty"`
	LastLoginAt        *time.Time `json:"last_login_at,omitempty"`
	MustChangePassword bool       `json:"must_change_password"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ToUserDTO converts a domain user to a DTO
func ToUserDTO(user *identity.User) UserDTO {
	return UserDTO{
		ID:                 user.ID,
		TenantID:           user.TenantID,
		Email:              user.Email,
		DisplayName:        user.DisplayName,
		Role:               string(user.Role),
		Status:             string(user.Status),
		DepartmentID:       user.DepartmentID,
		LastLoginAt:        user.LastLoginAt,
		MustChangePassword: user.MustChangePassword,
		CreatedAt:          user.CreatedAt,
		UpdatedAt:          user.UpdatedAt,
	}
}

// CreateUserInput contains input for creating a user
type CreateUserInput struct {
	TenantID     uuid.UUID
	Email        string
	Password     string
	DisplayName  string
	Role         string
	DepartmentID *uuid.UUID
	Activate     bool
}

// UpdateUserInput contains input for updating a user
type UpdateUserInput struct {
	TenantID     uuid.UUID
	ID           uuid.UUID
	Email        *string
	DisplayName  *string
	DepartmentID *uuid.UUID
	ClearDept    bool
}

// ResetPasswordInput contains input for an admin password reset
type ResetPasswordInput struct {
	TenantID    uuid.UUID
	UserID      uuid.UUID
	NewPassword string
}

// OrganizationDTO represents organization data transfer object
type OrganizationDTO struct {
	ID           uuid.UUID                     `json:"id"`
	Slug         string                        `json:"slug"`
	Name         string                        `json:"name"`
	ContactName  string                        `json:"contact_name,omitempty"`
	ContactPhone string                        `json:"contact_phone,omitempty"`
	ContactEmail string                        `json:"contact_email,omitempty"`
	Address      string                        `json:"address,omitempty"`
	LogoURL      string                        `json:"logo_url,omitempty"`
	Status       string                        `json:"status"`
	Settings     identity.OrganizationSettings `json:"settings"`
	CreatedAt    time.Time                     `json:"created_at"`
	UpdatedAt    time.Time                     `json:"updated_at"`
}

// ToOrganizationDTO converts a domain organization to a DTO
func ToOrganizationDTO(org *identity.Organization) OrganizationDTO {
	return OrganizationDTO{
		ID:           org.ID,
		Slug:         org.Slug,
		Name:         org.Name,
		ContactName:  org.ContactName,
		ContactPhone: org.ContactPhone,
		ContactEmail: org.ContactEmail,
		Address:      org.Address,
		LogoURL:      org.LogoURL,
		Status:       string(org.Status),
		Settings:     org.Settings,
		CreatedAt:    org.CreatedAt,
		UpdatedAt:    org.UpdatedAt,
	}
}

// RegisterOrganizationInput contains input for registering an organization
// together with its first HR administrator account
type RegisterOrganizationInput struct {
	Slug          string
	Name          string
	AdminEmail    string
	AdminPassword string
	AdminName     string
}

// RegisterOrganizationResult contains the created organization and admin
type RegisterOrganizationResult struct {
	Organization OrganizationDTO
	Admin        UserDTO
}

// UpdateOrganizationInput contains input for updating organization details
type UpdateOrganizationInput struct {
	ID           uuid.UUID
	Name         *string
	ContactName  *string
	ContactPhone *string
	ContactEmail *string
	Address      *string
	LogoURL      *string
	Notes        *string
}

// DepartmentDTO represents department data transfer object
type DepartmentDTO struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	Path        string     `json:"path"`
	Level       int        `json:"level"`
	SortOrder   int        `json:"sort_order"`
	ManagerID   *uuid.UUID `json:"manager_id,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToDepartmentDTO converts a domain department to a DTO
func ToDepartmentDTO(dept *identity.Department) DepartmentDTO {
	return DepartmentDTO{
		ID:          dept.ID,
		TenantID:    dept.TenantID,
		Code:        dept.Code,
		Name:        dept.Name,
		Description: dept.Description,
		ParentID:    dept.ParentID,
		Path:        dept.Path,
		Level:       dept.Level,
		SortOrder:   dept.SortOrder,
		ManagerID:   dept.ManagerID,
		Status:      string(dept.Status),
		CreatedAt:   dept.CreatedAt,
		UpdatedAt:   dept.UpdatedAt,
	}
}

// DepartmentTreeNode is a department with its children, for the org tree view
type DepartmentTreeNode struct {
	DepartmentDTO
	Children []*DepartmentTreeNode `json:"children"`
}

// CreateDepartmentInput contains input for creating a department
type CreateDepartmentInput struct {
	TenantID    uuid.UUID
	Code        string
	Name        string
	Description string
	ParentID    *uuid.UUID
	ManagerID   *uuid.UUID
	SortOrder   int
}

// UpdateDepartmentInput contains input for updating a department
type UpdateDepartmentInput struct {
	TenantID    uuid.UUID
	ID          uuid.UUID
	Name        *string
	Description *string
	ManagerID   *uuid.UUID
	ClearMgr    bool
	SortOrder   *int
}

// TeamDTO represents team data transfer object
type TeamDTO struct {
	ID           uuid.UUID  `json:"id"`
	TenantID     uuid.UUID  `json:"tenant_id"`
	Code         string     `json:"code"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	DepartmentID uuid.UUID  `json:"department_id"`
	LeadID       *uuid.UUID `json:"lead_id,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ToTeamDTO converts a domain team to a DTO
func ToTeamDTO(team *identity.Team) TeamDTO {
	return TeamDTO{
		ID:           team.ID,
		TenantID:     team.TenantID,
		Code:         team.Code,
		Name:         team.Name,
		Description:  team.Description,
		DepartmentID: team.DepartmentID,
		LeadID:       team.LeadID,
		Status:       string(team.Status),
		CreatedAt:    team.CreatedAt,
		UpdatedAt:    team.UpdatedAt,
	}
}

// CreateTeamInput contains input for creating a team
type CreateTeamInput struct {
	TenantID     uuid.UUID
	DepartmentID uuid.UUID
	Code         string
	Name         string
	Description  string
	LeadID       *uuid.UUID
}

// UpdateTeamInput contains input for updating a team
type UpdateTeamInput struct {
	TenantID     uuid.UUID
	ID           uuid.UUID
	Name         *string
	Description  *string
	DepartmentID *uuid.UUID
	LeadID       *uuid.UUID
	ClearLead    bool
}
