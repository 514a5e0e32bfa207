package notification

import (
	"time"

	"github.com/google/uuid"

	"github.com/hrm/backend/internal/domain/shared"
)

// Delivery is the per-recipient inbox row of a sent notification. The
// read marker lives here so organization-wide announcements do not share
// read state between users.
type Delivery struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	NotificationID uuid.UUID
	UserID         uuid.UUID
	ReadAt         *time.Time
	CreatedAt      time.Time
}

// NewDelivery creates an unread delivery for one recipient
func NewDelivery(tenantID, notificationID, userID uuid.UUID) (*Delivery, error) {
	if notificationID == uuid.Nil || userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_DELIVERY", "Notification and user are required")
	}

	return &Delivery{
		ID:             uuid.New(),
		TenantID:       tenantID,
		NotificationID: notificationID,
		UserID:         userID,
		CreatedAt:      time.Now(),
	}, nil
}

// MarkRead records when the recipient opened the notification
func (d *Delivery) MarkRead() {
	if d.ReadAt == nil {
		now := time.Now()
		d.ReadAt = &now
	}
}

// IsRead returns true once the recipient opened the notification
func (d *Delivery) IsRead() bool {
	return d.ReadAt != nil
}
