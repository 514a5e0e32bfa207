package notification

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hrm/backend/internal/domain/shared"
)

// Repository defines the persistence interface for notifications
type Repository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Notification, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Notification, int64, error)
	FindByKind(ctx context.Context, tenantID uuid.UUID, kind Kind, filter shared.Filter) ([]Notification, int64, error)
	FindDueScheduled(ctx context.Context, now time.Time, limit int) ([]Notification, error)
	Save(ctx context.Context, n *Notification) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// DeliveryRepository defines the persistence interface for deliveries
type DeliveryRepository interface {
	SaveBatch(ctx context.Context, deliveries []*Delivery) error
	FindByUser(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) ([]Delivery, int64, error)
	FindByUserAndNotification(ctx context.Context, tenantID, userID, notificationID uuid.UUID) (*Delivery, error)
	CountUnread(ctx context.Context, tenantID, userID uuid.UUID) (int64, error)
	Update(ctx context.Context, delivery *Delivery) error
	MarkAllRead(ctx context.Context, tenantID, userID uuid.UUID) (int64, error)
}
