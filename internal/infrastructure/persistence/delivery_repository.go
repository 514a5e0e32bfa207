package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hrm/backend/internal/domain/notification"
	"github.com/hrm/backend/internal/domain/shared"
	"github.com/hrm/backend/internal/infrastructure/persistence/models"
)

// GormDeliveryRepository implements notification.DeliveryRepository using GORM
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a new GormDeliveryRepository
func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// SaveBatch inserts inbox rows for all recipients of a sent notification
func (r *GormDeliveryRepository) SaveBatch(ctx context.Context, deliveries []*notification.Delivery) error {
	if len(deliveries) == 0 {
		return nil
	}
	deliveryModels := make([]*models.DeliveryModel, len(deliveries))
	for i, d := range deliveries {
		deliveryModels[i] = models.DeliveryModelFromDomain(d)
	}
	return dbFromContext(ctx, r.db).CreateInBatches(deliveryModels, 500).Error
}

// FindByUser returns a user's inbox with pagination, newest first by default
func (r *GormDeliveryRepository) FindByUser(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) ([]notification.Delivery, int64, error) {
	var deliveryModels []models.DeliveryModel
	var total int64

	query := dbFromContext(ctx, r.db).
		Model(&models.DeliveryModel{}).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID)
	if unread, ok := filter.Filters["unread"]; ok {
		if isUnread, _ := unread.(bool); isUnread {
			query = query.Where("read_at IS NULL")
		}
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyListOptions(query, filter, DeliverySortFields)
	if err := query.Find(&deliveryModels).Error; err != nil {
		return nil, 0, err
	}

	deliveries := make([]notification.Delivery, len(deliveryModels))
	for i := range deliveryModels {
		deliveries[i] = *deliveryModels[i].ToDomain()
	}
	return deliveries, total, nil
}

// FindByUserAndNotification finds one inbox row for a user and notification
func (r *GormDeliveryRepository) FindByUserAndNotification(ctx context.Context, tenantID, userID, notificationID uuid.UUID) (*notification.Delivery, error) {
	var model models.DeliveryModel
	if err := dbFromContext(ctx, r.db).
		Where("tenant_id = ? AND user_id = ? AND notification_id = ?", tenantID, userID, notificationID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// CountUnread counts a user's unread inbox rows
func (r *GormDeliveryRepository) CountUnread(ctx context.Context, tenantID, userID uuid.UUID) (int64, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).
		Model(&models.DeliveryModel{}).
		Where("tenant_id = ? AND user_id = ? AND read_at IS NULL", tenantID, userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Update persists read-state changes to a delivery
func (r *GormDeliveryRepository) Update(ctx context.Context, delivery *notification.Delivery) error {
	result := dbFromContext(ctx, r.db).Save(models.DeliveryModelFromDomain(delivery))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// MarkAllRead marks every unread row for a user as read and returns the count
func (r *GormDeliveryRepository) MarkAllRead(ctx context.Context, tenantID, userID uuid.UUID) (int64, error) {
	result := dbFromContext(ctx, r.db).
		Model(&models.DeliveryModel{}).
		Where("tenant_id = ? AND user_id = ? AND read_at IS NULL", tenantID, userID).
		Update("read_at", time.Now())
	return result.RowsAffected, result.Error
}

// Ensure GormDeliveryRepository implements DeliveryRepository
var _ notification.DeliveryRepository = (*GormDeliveryRepository)(nil)
