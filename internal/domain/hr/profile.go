package hr

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hrm/backend/internal/domain/shared"
)

// WorkModel represents where an employee usually works from
type WorkModel string

const (
	WorkModelOnsite WorkModel = "onsite"
	WorkModelRemote WorkModel = "remote"
	WorkModelHybrid WorkModel = "hybrid"
)

// Profile holds the personal details of a user. One profile per user.
// The photo is stored in object storage; only the key lives here.
type Profile struct {
	shared.TenantAggregateRoot
	UserID      uuid.UUID
	FirstName   string
	LastName    string
	Phone       string
	DateOfBirth *time.Time
	Address     string
	Bio         string
	WorkModel   WorkModel
	PhotoKey    string
}

// NewProfile creates a new profile for a user
func NewProfile(tenantID, userID uuid.UUID, firstName, lastName string) (*Profile, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Profile must belong to a user")
	}
	if err := validatePersonName(firstName, "First name"); err != nil {
		return nil, err
	}
	if err := validatePersonName(lastName, "Last name"); err != nil {
		return nil, err
	}

	profile := &Profile{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		UserID:              userID,
		FirstName:           strings.TrimSpace(firstName),
		LastName:            strings.TrimSpace(lastName),
		WorkModel:           WorkModelOnsite,
	}

	return profile, nil
}

// FullName returns the profile's full display name
func (p *Profile) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// SetName updates the profile's name
func (p *Profile) SetName(firstName, lastName string) error {
	if err := validatePersonName(firstName, "First name"); err != nil {
		return err
	}
	if err := validatePersonName(lastName, "Last name"); err != nil {
		return err
	}

	p.FirstName = strings.TrimSpace(firstName)
	p.LastName = strings.TrimSpace(lastName)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetPhone sets the contact phone
func (p *Profile) SetPhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone != "" && !phoneRegex.MatchString(phone) {
		return shared.NewDomainError("INVALID_PHONE", "Invalid phone number")
	}

	p.Phone = phone
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetDateOfBirth sets the date of birth
func (p *Profile) SetDateOfBirth(dob *time.Time) error {
	if dob != nil && dob.After(time.Now()) {
		return shared.NewDomainError("INVALID_DATE_OF_BIRTH", "Date of birth cannot be in the future")
	}

	p.DateOfBirth = dob
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetAddress sets the home address
func (p *Profile) SetAddress(address string) error {
	if len(address) > 1000 {
		return shared.NewDomainError("INVALID_ADDRESS", "Address cannot exceed 1000 characters")
	}

	p.Address = strings.TrimSpace(address)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetBio sets the free-form bio
func (p *Profile) SetBio(bio string) error {
	if len(bio) > 2000 {
		return shared.NewDomainError("INVALID_BIO", "Bio cannot exceed 2000 characters")
	}

	p.Bio = bio
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetWorkModel sets how the employee usually works
func (p *Profile) SetWorkModel(model WorkModel) error {
	switch model {
	case WorkModelOnsite, WorkModelRemote, WorkModelHybrid:
	default:
		return shared.NewDomainError("INVALID_WORK_MODEL", "Unknown work model")
	}

	p.WorkModel = model
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetPhotoKey records the object storage key of the profile photo
func (p *Profile) SetPhotoKey(key string) error {
	if len(key) > 500 {
		return shared.NewDomainError("INVALID_PHOTO_KEY", "Photo key cannot exceed 500 characters")
	}

	p.PhotoKey = key
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// ClearPhoto removes the photo reference
func (p *Profile) ClearPhoto() {
	p.PhotoKey = ""
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

var phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9\-\s()]{5,30}$`)

func validatePersonName(name, label string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", label+" cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", label+" cannot exceed 100 characters")
	}
	return nil
}
