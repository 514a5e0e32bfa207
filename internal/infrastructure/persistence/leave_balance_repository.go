package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hrm/backend/internal/domain/leave"
	"github.com/hrm/backend/internal/domain/shared"
	"github.com/hrm/backend/internal/infrastructure/persistence/models"
)

// GormLeaveBalanceRepository implements leave.BalanceRepository using GORM
type GormLeaveBalanceRepository struct {
	db *gorm.DB
}

// NewGormLeaveBalanceRepository creates a new GormLeaveBalanceRepository
func NewGormLeaveBalanceRepository(db *gorm.DB) *GormLeaveBalanceRepository {
	return &GormLeaveBalanceRepository{db: db}
}

// FindByID finds a balance by ID within the tenant
func (r *GormLeaveBalanceRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*leave.Balance, error) {
	var model models.LeaveBalanceModel
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

// FindByUserTypeYear finds the single balance row for a user, leave type,
// and cycle year
func (r *GormLeaveBalanceRepository) FindByUserTypeYear(ctx context.Context, tenantID, userID uuid.UUID, leaveType leave.Type, cycleYear int) (*leave.Balance, error) {
	var model models.LeaveBalanceModel
	if err := dbFromContext(ctx, r.db).
		Where("tenant_id = ? AND user_id = ? AND type = ? AND cycle_year = ?",
			tenantID, userID, string(leaveType), cycleYear).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUserAndYear returns all balances for a user in a cycle year
func (r *GormLeaveBalanceRepository) FindByUserAndYear(ctx context.Context, tenantID, userID uuid.UUID, cycleYear int) ([]leave.Balance, error) {
	var balanceModels []models.LeaveBalanceModel
	if err := dbFromContext(ctx, r.db).
		Where("tenant_id = ? AND user_id = ? AND cycle_year = ?", tenantID, userID, cycleYear).
		Order("type ASC").
		Find(&balanceModels).Error; err != nil {
		return nil, err
	}

	balances := make([]leave.Balance, len(balanceModels))
	for i := range balanceModels {
		balances[i] = *balanceModels[i].ToDomain()
	}
	return balances, nil
}

// Save creates or updates a balance
func (r *GormLeaveBalanceRepository) Save(ctx context.Context, balance *leave.Balance) error {
	model := models.LeaveBalanceModelFromDomain(balance)
	return dbFromContext(ctx, r.db).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model).Error
}

// Ensure GormLeaveBalanceRepository implements BalanceRepository
var _ leave.BalanceRepository = (*GormLeaveBalanceRepository)(nil)
