package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hrm/backend/internal/domain/invoice"
	"github.com/hrm/backend/internal/domain/shared"
	"github.com/hrm/backend/internal/infrastructure/persistence/models"
)

// GormUnlockTokenRepository implements invoice.UnlockTokenRepository using GORM
type GormUnlockTokenRepository struct {
	db *gorm.DB
}

// NewGormUnlockTokenRepository creates a new GormUnlockTokenRepository
func NewGormUnlockTokenRepository(db *gorm.DB) *GormUnlockTokenRepository {
	return &GormUnlockTokenRepository{db: db}
}

// Save persists a new unlock token. Tokens are never updated.
func (r *GormUnlockTokenRepository) Save(ctx context.Context, token *invoice.UnlockToken) error {
	model := models.UnlockTokenModelFromDomain(token)
	return dbFromContext(ctx, r.db).Create(model).Error
}

// FindByToken finds an unlock token by its opaque value within the tenant
func (r *GormUnlockTokenRepository) FindByToken(ctx context.Context, tenantID uuid.UUID, token string) (*invoice.UnlockToken, error) {
	var model models.UnlockTokenModel
	if err := dbFromContext(ctx, r.db).
		Where("tenant_id = ? AND token = ?", tenantID, token).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// DeleteExpired purges tokens that expired before the given time
func (r *GormUnlockTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result := dbFromContext(ctx, r.db).
		Where("expires_at < ?", before).
		Delete(&models.UnlockTokenModel{})
	return result.RowsAffected, result.Error
}

// Ensure GormUnlockTokenRepository implements UnlockTokenRepository
var _ invoice.UnlockTokenRepository = (*GormUnlockTokenRepository)(nil)
