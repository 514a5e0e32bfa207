package notification

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hrm/backend/internal/domain/shared"
)

// Audience represents who a notification targets
type Audience string

const (
	AudienceOrganization Audience = "organization"
	AudienceIndividual   Audience = "individual"
)

// Kind classifies what produced the notification
type Kind string

const (
	KindAnnouncement Kind = "announcement"
	KindSystem       Kind = "system"
	KindLeave        Kind = "leave"
	KindInvoice      Kind = "invoice"
)

// Status represents the delivery state of a notification
type Status string

const (
	StatusDraft     Status = "draft"
	StatusScheduled Status = "scheduled"
	StatusSent      Status = "sent"
	StatusCancelled Status = "cancelled"
)

// Notification is a message shown in the in-app inbox. Announcements are
// organization-audience notifications authored in the HR back office;
// individual notifications are produced by domain events (leave decisions,
// invoice delivery) or sent directly.
type Notification struct {
	shared.TenantAggregateRoot
	Audience     Audience
	Kind         Kind
	Title        string
	Body         string
	Status       Status
	ScheduledAt  *time.Time
	SentAt       *time.Time
	RecipientIDs []uuid.UUID // only for individual audience
}

// NewAnnouncement creates a draft organization-wide announcement
func NewAnnouncement(tenantID, authorID uuid.UUID, title, body string) (*Notification, error) {
	if err := validateContent(title, body); err != nil {
		return nil, err
	}

	n := &Notification{
		TenantAggregateRoot: shared.NewTenantAggregateRootWithCreator(tenantID, authorID),
		Audience:            AudienceOrganization,
		Kind:                KindAnnouncement,
		Title:               strings.TrimSpace(title),
		Body:                body,
		Status:              StatusDraft,
		RecipientIDs:        make([]uuid.UUID, 0),
	}

	return n, nil
}

// NewDirect creates an individual notification ready to send
func NewDirect(tenantID uuid.UUID, kind Kind, title, body string, recipientIDs []uuid.UUID) (*Notification, error) {
	if err := validateContent(title, body); err != nil {
		return nil, err
	}
	if len(recipientIDs) == 0 {
		return nil, shared.NewDomainError("INVALID_RECIPIENTS", "At least one recipient is required")
	}
	switch kind {
	case KindAnnouncement, KindSystem, KindLeave, KindInvoice:
	default:
		return nil, shared.NewDomainError("INVALID_KIND", "Unknown notification kind")
	}

	n := &Notification{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Audience:            AudienceIndividual,
		Kind:                kind,
		Title:               strings.TrimSpace(title),
		Body:                body,
		Status:              StatusDraft,
		RecipientIDs:        recipientIDs,
	}

	return n, nil
}

// UpdateDraft edits the title and body of a draft
func (n *Notification) UpdateDraft(title, body string) error {
	if n.Status != StatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft notifications can be edited")
	}
	if err := validateContent(title, body); err != nil {
		return err
	}

	n.Title = strings.TrimSpace(title)
	n.Body = body
	n.UpdatedAt = time.Now()
	n.IncrementVersion()

	return nil
}

// Schedule queues the notification for a future send
func (n *Notification) Schedule(at time.Time) error {
	if n.Status != StatusDraft && n.Status != StatusScheduled {
		return shared.NewDomainError("INVALID_STATE", "Only draft or scheduled notifications can be scheduled")
	}
	if at.Before(time.Now()) {
		return shared.NewDomainError("INVALID_SCHEDULE", "Scheduled time must be in the future")
	}

	n.Status = StatusScheduled
	n.ScheduledAt = &at
	n.UpdatedAt = time.Now()
	n.IncrementVersion()

	return nil
}

// MarkSent finalizes the send. Fan-out to deliveries and the realtime
// channel happens in the application layer off the emitted event.
func (n *Notification) MarkSent() error {
	if n.Status != StatusDraft && n.Status != StatusScheduled {
		return shared.NewDomainError("INVALID_STATE", "Notification was already sent or cancelled")
	}

	now := time.Now()
	n.Status = StatusSent
	n.SentAt = &now
	n.ScheduledAt = nil
	n.UpdatedAt = now
	n.IncrementVersion()

	n.AddDomainEvent(NewNotificationSentEvent(n))

	return nil
}

// Cancel withdraws a draft or scheduled notification
func (n *Notification) Cancel() error {
	if n.Status != StatusDraft && n.Status != StatusScheduled {
		return shared.NewDomainError("INVALID_STATE", "Only draft or scheduled notifications can be cancelled")
	}

	n.Status = StatusCancelled
	n.ScheduledAt = nil
	n.UpdatedAt = time.Now()
	n.IncrementVersion()

	return nil
}

// IsDue reports whether a scheduled notification should be sent now
func (n *Notification) IsDue(now time.Time) bool {
	return n.Status == StatusScheduled && n.ScheduledAt != nil && !now.Before(*n.ScheduledAt)
}

func validateContent(title, body string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot be empty")
	}
	if len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	if len(body) > 10000 {
		return shared.NewDomainError("INVALID_BODY", "Body cannot exceed 10000 characters")
	}
	return nil
}
