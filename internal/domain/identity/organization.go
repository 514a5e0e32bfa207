package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hrm/backend/internal/domain/shared"
)

// OrganizationStatus represents the status of an organization
type OrganizationStatus string

const (
	OrganizationStatusActive    OrganizationStatus = "active"
	OrganizationStatusInactive  OrganizationStatus = "inactive"
	OrganizationStatusSuspended OrganizationStatus = "suspended"
)

// OrganizationSettings holds per-organization HR policy settings.
// They drive attendance status derivation and leave balance allocation.
type OrganizationSettings struct {
	WorkDaySeconds       int    `json:"work_day_seconds"`       // Full working day length, e.g. 8h = 28800
	WorkStartTime        string `json:"work_start_time"`        // Local wall-clock start, "09:00"
	LateThresholdMinutes int    `json:"late_threshold_minutes"` // Check-in past start + threshold marks the day late
	LeaveCycleStartMonth int    `json:"leave_cycle_start_month"`
	AnnualLeaveDays      int    `json:"annual_leave_days"`
	SickLeaveDays        int    `json:"sick_leave_days"`
	CasualLeaveDays      int    `json:"casual_leave_days"`
	Currency             string `json:"currency"`
	Timezone             string `json:"timezone"`
}

// DefaultOrganizationSettings returns the default settings for a new organization
func DefaultOrganizationSettings() OrganizationSettings {
	return OrganizationSettings{
		WorkDaySeconds:       8 * 3600,
		WorkStartTime:        "09:00",
		LateThresholdMinutes: 15,
		LeaveCycleStartMonth: 1,
		AnnualLeaveDays:      20,
		SickLeaveDays:        10,
		CasualLeaveDays:      5,
		Currency:             "USD",
		Timezone:             "UTC",
	}
}

// Organization is the tenant root of the HR system. Every other aggregate
// is scoped to exactly one organization through its tenant ID.
type Organization struct {
	shared.BaseAggregateRoot
	Slug         string
	Name         string
	ContactName  string
	ContactPhone string
	ContactEmail string
	Address      string
	LogoURL      string
	Status       OrganizationStatus
	Settings     OrganizationSettings
	Notes        string
}

// NewOrganization creates a new organization with required fields
func NewOrganization(slug, name string) (*Organization, error) {
	if err := validateOrganizationSlug(slug); err != nil {
		return nil, err
	}
	if err := validateOrganizationName(name); err != nil {
		return nil, err
	}

	org := &Organization{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Slug:              strings.ToLower(strings.TrimSpace(slug)),
		Name:              strings.TrimSpace(name),
		Status:            OrganizationStatusActive,
		Settings:          DefaultOrganizationSettings(),
	}

	org.AddDomainEvent(NewOrganizationCreatedEvent(org))

	return org, nil
}

// Update updates the organization's display name
func (o *Organization) Update(name string) error {
	if err := validateOrganizationName(name); err != nil {
		return err
	}

	o.Name = strings.TrimSpace(name)
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// SetContact sets the organization's contact information
func (o *Organization) SetContact(contactName, phone, email string) error {
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}
	if len(contactName) > 100 {
		return shared.NewDomainError("INVALID_CONTACT_NAME", "Contact name cannot exceed 100 characters")
	}

	o.ContactName = strings.TrimSpace(contactName)
	o.ContactPhone = strings.TrimSpace(phone)
	o.ContactEmail = strings.ToLower(strings.TrimSpace(email))
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// SetAddress sets the organization's address
func (o *Organization) SetAddress(address string) error {
	if len(address) > 1000 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 1000 characters")
	}

	o.Address = strings.TrimSpace(address)
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// SetLogoURL sets the organization's logo URL
func (o *Organization) SetLogoURL(url string) error {
	if len(url) > 500 {
		return shared.NewDomainError("INVALID_LOGO_URL", "Logo URL cannot exceed 500 characters")
	}

	o.LogoURL = url
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// UpdateSettings replaces the organization's HR policy settings
func (o *Organization) UpdateSettings(settings OrganizationSettings) error {
	if settings.WorkDaySeconds <= 0 || settings.WorkDaySeconds > 24*3600 {
		return shared.NewDomainError("INVALID_SETTINGS", "Work day length must be between 1 second and 24 hours")
	}
	if settings.LateThresholdMinutes < 0 {
		return shared.NewDomainError("INVALID_SETTINGS", "Late threshold cannot be negative")
	}
	if settings.LeaveCycleStartMonth < 1 || settings.LeaveCycleStartMonth > 12 {
		return shared.NewDomainError("INVALID_SETTINGS", "Leave cycle start month must be 1-12")
	}
	if settings.AnnualLeaveDays < 0 || settings.SickLeaveDays < 0 || settings.CasualLeaveDays < 0 {
		return shared.NewDomainError("INVALID_SETTINGS", "Leave allocations cannot be negative")
	}
	if !workStartTimeRegex.MatchString(settings.WorkStartTime) {
		return shared.NewDomainError("INVALID_SETTINGS", "Work start time must be HH:MM")
	}

	o.Settings = settings
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	o.AddDomainEvent(NewOrganizationSettingsUpdatedEvent(o))

	return nil
}

// SetNotes sets free-form notes on the organization
func (o *Organization) SetNotes(notes string) {
	o.Notes = notes
	o.UpdatedAt = time.Now()
	o.IncrementVersion()
}

// Activate activates the organization
func (o *Organization) Activate() error {
	if o.Status == OrganizationStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "Organization is already active")
	}

	o.Status = OrganizationStatusActive
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// Deactivate deactivates the organization
func (o *Organization) Deactivate() error {
	if o.Status == OrganizationStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "Organization is already inactive")
	}

	o.Status = OrganizationStatusInactive
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// Suspend suspends the organization
func (o *Organization) Suspend() error {
	if o.Status == OrganizationStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "Organization is already suspended")
	}

	o.Status = OrganizationStatusSuspended
	o.UpdatedAt = time.Now()
	o.IncrementVersion()

	return nil
}

// IsActive returns true if the organization is active
func (o *Organization) IsActive() bool {
	return o.Status == OrganizationStatusActive
}

// GetTenantID returns the organization ID used as tenant scope
func (o *Organization) GetTenantID() uuid.UUID {
	return o.ID
}

var (
	organizationSlugRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9\-]{1,48}[a-z0-9]$`)
	workStartTimeRegex    = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

func validateOrganizationSlug(slug string) error {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot be empty")
	}
	if !organizationSlugRegex.MatchString(slug) {
		return shared.NewDomainError("INVALID_SLUG", "Slug must be 3-50 lowercase letters, digits, or hyphens")
	}
	return nil
}

func validateOrganizationName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	return nil
}
