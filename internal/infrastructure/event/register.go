package event

import (
	"github.com/hrm/backend/internal/domain/attendance"
	"github.com/hrm/backend/internal/domain/hr"
	"github.com/hrm/backend/internal/domain/identity"
	"github.com/hrm/backend/internal/domain/invoice"
	"github.com/hrm/backend/internal/domain/leave"
	"github.com/hrm/backend/internal/domain/notification"
)

// RegisterDomainEvents registers every domain event type with the serializer
// so outbox payloads can be deserialized for dispatch.
func RegisterDomainEvents(s *EventSerializer) {
	// identity
	s.Register(identity.EventTypeUserCreated, &identity.UserCreatedEvent{})
	s.Register(identity.EventTypeUserPasswordChanged, &identity.UserPasswordChangedEvent{})
	s.Register(identity.EventTypeUserRoleChanged, &identity.UserRoleChangedEvent{})
	s.Register(identity.EventTypeUserStatusChanged, &identity.UserStatusChangedEvent{})
	s.Register(identity.EventTypeOrganizationCreated, &identity.OrganizationCreatedEvent{})
	s.Register(identity.EventTypeOrganizationSettingsUpdated, &identity.OrganizationSettingsUpdatedEvent{})
	s.Register(identity.EventTypeDepartmentCreated, &identity.DepartmentCreatedEvent{})
	s.Register(identity.EventTypeDepartmentManagerChanged, &identity.DepartmentManagerChangedEvent{})
	s.Register(identity.EventTypeTeamCreated, &identity.TeamCreatedEvent{})

	// hr
	s.Register(hr.EventTypeEmploymentCreated, &hr.EmploymentCreatedEvent{})
	s.Register(hr.EventTypeEmploymentActivated, &hr.EmploymentActivatedEvent{})
	s.Register(hr.EventTypeEmploymentTerminated, &hr.EmploymentTerminatedEvent{})

	// attendance
	s.Register(attendance.EventTypeDayStarted, &attendance.DayStartedEvent{})
	s.Register(attendance.EventTypeDayEnded, &attendance.DayEndedEvent{})

	// leave
	s.Register(leave.EventTypeRequestSubmitted, &leave.RequestSubmittedEvent{})
	s.Register(leave.EventTypeRequestDecided, &leave.RequestDecidedEvent{})
	s.Register(leave.EventTypeRequestCancelled, &leave.RequestCancelledEvent{})

	// invoice
	s.Register(invoice.EventTypeInvoiceReady, &invoice.InvoiceReadyEvent{})

	// notification
	s.Register(notification.EventTypeNotificationSent, &notification.NotificationSentEvent{})
}
