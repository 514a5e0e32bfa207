package notification

import (
	"time"

	"github.com/google/uuid"

	"github.com/hrm/backend/internal/domain/shared"
)

// Aggregate type constant for notifications
const AggregateTypeNotification = "Notification"

// Notification domain event types
const (
	EventTypeNotificationSent = "NotificationSent"
)

// NotificationSentEvent is published when a notification goes out. The
// fan-out handler creates deliveries and pushes to connected clients.
type NotificationSentEvent struct {
	shared.BaseDomainEvent
	Audience     Audience    `json:"audience"`
	Kind         Kind        `json:"kind"`
	Title        string      `json:"title"`
	RecipientIDs []uuid.UUID `json:"recipient_ids"`
	SentAt       time.Time   `json:"sent_at"`
}

// NewNotificationSentEvent creates a new NotificationSentEvent
func NewNotificationSentEvent(n *Notification) *NotificationSentEvent {
	sentAt := time.Now()
	if n.SentAt != nil {
		sentAt = *n.SentAt
	}
	return &NotificationSentEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeNotificationSent, AggregateTypeNotification, n.ID, n.TenantID),
		Audience:        n.Audience,
		Kind:            n.Kind,
		Title:           n.Title,
		RecipientIDs:    n.RecipientIDs,
		SentAt:          sentAt,
	}
}
