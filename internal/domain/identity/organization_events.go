package identity

import (
	"github.com/hrm/backend/internal/domain/shared"
)

// Aggregate type constant for Organization
const AggregateTypeOrganization = "Organization"

// Organization domain event types
const (
	EventTypeOrganizationCreated         = "OrganizationCreated"
	EventTypeOrganizationSettingsUpdated = "OrganizationSettingsUpdated"
)

// OrganizationCreatedEvent is published when an organization is created
type OrganizationCreatedEvent struct {
	shared.BaseDomainEvent
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// NewOrganizationCreatedEvent creates a new OrganizationCreatedEvent
func NewOrganizationCreatedEvent(org *Organization) *OrganizationCreatedEvent {
	return &OrganizationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrganizationCreated, AggregateTypeOrganization, org.ID, org.ID),
		Slug:            org.Slug,
		Name:            org.Name,
	}
}

// OrganizationSettingsUpdatedEvent is published when HR policy settings change
type OrganizationSettingsUpdatedEvent struct {
	shared.BaseDomainEvent
	Settings OrganizationSettings `json:"settings"`
}

// NewOrganizationSettingsUpdatedEvent creates a new OrganizationSettingsUpdatedEvent
func NewOrganizationSettingsUpdatedEvent(org *Organization) *OrganizationSettingsUpdatedEvent {
	return &OrganizationSettingsUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrganizationSettingsUpdated, AggregateTypeOrganization, org.ID, org.ID),
		Settings:        org.Settings,
	}
}
