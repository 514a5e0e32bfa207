package notification

import (
	"time"

	"github.com/google/uuid"

	"github.com/hrm/backend/internal/domain/notification"
)

// NotificationDTO represents notification data transfer object
type NotificationDTO struct {
	ID           uuid.UUID   `json:"id"`
	Audience     string      `json:"audience"`
	Kind         string      `json:"kind"`
	Title        string      `json:"title"`
	Body         string      `json:"body"`
	Status       string      `json:"status"`
	ScheduledAt  *time.Time  `json:"scheduled_at,omitempty"`
	SentAt       *time.Time  `json:"sent_at,omitempty"`
	RecipientIDs []uuid.UUID `json:"recipient_ids,omitempty"`
	CreatedBy    *uuid.UUID  `json:"created_by,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// ToNotificationDTO converts a domain notification to a DTO
func ToNotificationDTO(n *notification.Notification) NotificationDTO {
	return NotificationDTO{
		ID:           n.ID,
		Audience:     string(n.Audience),
		Kind:         string(n.Kind),
		Title:        n.Title,
		Body:         n.Body,
		Status:       string(n.Status),
		ScheduledAt:  n.ScheduledAt,
		SentAt:       n.SentAt,
		RecipientIDs: n.RecipientIDs,
		CreatedBy:    n.CreatedBy,
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
	}
}

// InboxItemDTO is one entry in a user's inbox: the delivery joined with
// its notification content
type InboxItemDTO struct {
	DeliveryID     uuid.UUID  `json:"delivery_id"`
	NotificationID uuid.UUID  `json:"notification_id"`
	Kind           string     `json:"kind"`
	Title          string     `json:"title"`
	Body           string     `json:"body"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	Read           bool       `json:"read"`
}

// CreateAnnouncementInput contains input for creating an announcement
type CreateAnnouncementInput struct {
	TenantID uuid.UUID
	AuthorID uuid.UUID
	Title    string
	Body     string
}

// UpdateDraftInput contains input for editing a draft notification
type UpdateDraftInput struct {
	TenantID       uuid.UUID
	NotificationID uuid.UUID
	Title          string
	Body           string
}

// SendDirectInput contains input for an individual notification that
// goes out immediately
type SendDirectInput struct {
	TenantID     uuid.UUID
	Kind         string
	Title        string
	Body         string
	RecipientIDs []uuid.UUID
}
