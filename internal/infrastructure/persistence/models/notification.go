package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/hrm/backend/internal/domain/notification"
)

// NotificationModel is the persistence model for notifications and
// announcements. Recipient IDs are only populated for individual audience.
type NotificationModel struct {
	TenantAggregateModel
	Audience     string     `gorm:"type:varchar(20);not null"`
	Kind         string     `gorm:"type:varchar(20);not null;index:idx_notifications_tenant_kind"`
	Title        string     `gorm:"type:varchar(300);not null"`
	Body         string     `gorm:"type:text;not null"`
	Status       string     `gorm:"type:varchar(20);not null;default:'draft';index:idx_notifications_status_scheduled,priority:1"`
	ScheduledAt  *time.Time `gorm:"index:idx_notifications_status_scheduled,priority:2"`
	SentAt       *time.Time
	RecipientIDs string `gorm:"type:jsonb;default:'[]'"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the persistence model to a domain Notification
func (m *NotificationModel) ToDomain() *notification.Notification {
	n := &notification.Notification{
		Audience:     notification.Audience(m.Audience),
		Kind:         notification.Kind(m.Kind),
		Title:        m.Title,
		Body:         m.Body,
		Status:       notification.Status(m.Status),
		ScheduledAt:  m.ScheduledAt,
		SentAt:       m.SentAt,
		RecipientIDs: make([]uuid.UUID, 0),
	}
	m.PopulateTenantAggregateRoot(&n.TenantAggregateRoot)

	if m.RecipientIDs != "" && m.RecipientIDs != "[]" {
		var ids []uuid.UUID
		if err := json.Unmarshal([]byte(m.RecipientIDs), &ids); err == nil {
			n.RecipientIDs = ids
		}
	}

	return n
}

// FromDomain populates the persistence model from a domain Notification
func (m *NotificationModel) FromDomain(n *notification.Notification) {
	m.FromDomainTenantAggregateRoot(n.TenantAggregateRoot)
	m.Audience = string(n.Audience)
	m.Kind = string(n.Kind)
	m.Title = n.Title
	m.Body = n.Body
	m.Status = string(n.Status)
	m.ScheduledAt = n.ScheduledAt
	m.SentAt = n.SentAt

	if len(n.RecipientIDs) > 0 {
		if data, err := json.Marshal(n.RecipientIDs); err == nil {
			m.RecipientIDs = string(data)
		} else {
			m.RecipientIDs = "[]"
		}
	} else {
		m.RecipientIDs = "[]"
	}
}

// NotificationModelFromDomain creates a new persistence model from a domain Notification
func NotificationModelFromDomain(n *notification.Notification) *NotificationModel {
	m := &NotificationModel{}
	m.FromDomain(n)
	return m
}

// DeliveryModel is the persistence model for per-recipient inbox rows
type DeliveryModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID       uuid.UUID `gorm:"type:uuid;not null;index:idx_deliveries_tenant_user,priority:1"`
	NotificationID uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index:idx_deliveries_tenant_user,priority:2"`
	ReadAt         *time.Time
	CreatedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (DeliveryModel) TableName() string {
	return "notification_deliveries"
}

// ToDomain converts the persistence model to a domain Delivery
func (m *DeliveryModel) ToDomain() *notification.Delivery {
	return &notification.Delivery{
		ID:             m.ID,
		TenantID:       m.TenantID,
		NotificationID: m.NotificationID,
		UserID:         m.UserID,
		ReadAt:         m.ReadAt,
		CreatedAt:      m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain Delivery
func (m *DeliveryModel) FromDomain(d *notification.Delivery) {
	m.ID = d.ID
	m.TenantID = d.TenantID
	m.NotificationID = d.NotificationID
	m.UserID = d.UserID
	m.ReadAt = d.ReadAt
	m.CreatedAt = d.CreatedAt
}

// DeliveryModelFromDomain creates a new persistence model from a domain Delivery
func DeliveryModelFromDomain(d *notification.Delivery) *DeliveryModel {
	m := &DeliveryModel{}
	m.FromDomain(d)
	return m
}
