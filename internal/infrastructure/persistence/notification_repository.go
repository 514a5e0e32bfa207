package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hrm/backend/internal/domain/notification"
	"github.com/hrm/backend/internal/domain/shared"
	"github.com/hrm/backend/internal/infrastructure/persistence/models"
)

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// FindByID finds a notification by ID within the tenant
func (r *GormNotificationRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*notification.Notification, error) {
	var model models.NotificationModel
	if err := dbFromContext(ctx, r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns tenant notifications with pagination
func (r *GormNotificationRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]notification.Notification, int64, error) {
	var nModels []models.NotificationModel
	var total int64

	query := dbFromContext(ctx, r.db).
		Model(&models.NotificationModel{}).
		Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ?", pattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if audience, ok := filter.Filters["audience"]; ok {
		query = query.Where("audience = ?", audience)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyListOptions(query, filter, NotificationSortFields)
	if err := query.Find(&nModels).Error; err != nil {
		return nil, 0, err
	}

	return toDomainNotifications(nModels), total, nil
}

// FindByKind returns tenant notifications of one kind with pagination
func (r *GormNotificationRepository) FindByKind(ctx context.Context, tenantID uuid.UUID, kind notification.Kind, filter shared.Filter) ([]notification.Notification, int64, error) {
	var nModels []models.NotificationModel
	var total int64

	query := dbFromContext(ctx, r.db).
		Model(&models.NotificationModel{}).
		Where("tenant_id = ? AND kind = ?", tenantID, string(kind))
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyListOptions(query, filter, NotificationSortFields)
	if err := query.Find(&nModels).Error; err != nil {
		return nil, 0, err
	}

	return toDomainNotifications(nModels), total, nil
}

// FindDueScheduled returns scheduled notifications across all tenants whose
// send time has arrived. Used by the dispatch scheduler.
func (r *GormNotificationRepository) FindDueScheduled(ctx context.Context, now time.Time, limit int) ([]notification.Notification, error) {
	var nModels []models.NotificationModel
	if err := dbFromContext(ctx, r.db).
		Where("status = ? AND scheduled_at <= ?", string(notification.StatusScheduled), now).
		Order("scheduled_at ASC").
		Limit(limit).
		Find(&nModels).Error; err != nil {
		return nil, err
	}
	return toDomainNotifications(nModels), nil
}

// Save creates or updates a notification
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	model := models.NotificationModelFromDomain(n)
	return dbFromContext(ctx, r.db).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model).Error
}

// Delete deletes a notification by ID within the tenant
func (r *GormNotificationRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.NotificationModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toDomainNotifications(nModels []models.NotificationModel) []notification.Notification {
	notifications := make([]notification.Notification, len(nModels))
	for i := range nModels {
		notifications[i] = *nModels[i].ToDomain()
	}
	return notifications
}

// Ensure GormNotificationRepository implements Repository
var _ notification.Repository = (*GormNotificationRepository)(nil)
