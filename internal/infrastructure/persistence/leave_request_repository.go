package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hrm/backend/internal/domain/leave"
	"github.com/hrm/backend/internal/domain/shared"
	"github.com/hrm/backend/internal/infrastructure/persistence/models"
)

// GormLeaveRequestRepository implements leave.RequestRepository using GORM
type GormLeaveRequestRepository struct {
	db *gorm.DB
}

// NewGormLeaveRequestRepository creates a new GormLeaveRequestRepository
func NewGormLeaveRequestRepository(db *gorm.DB) *GormLeaveRequestRepository {
	return &GormLeaveRequestRepository{db: db}
}

// FindByID finds a leave request by ID within the tenant
func (r *GormLeaveRequestRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*leave.Request, error) {
	var model models.LeaveRequestModel
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

// FindByUser returns a user's leave requests with pagination
func (r *GormLeaveRequestRepository) FindByUser(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) ([]leave.Request, int64, error) {
	var reqModels []models.LeaveRequestModel
	var total int64

	query := dbFromContext(ctx, r.db).
		Model(&models.LeaveRequestModel{}).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID)
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if leaveType, ok := filter.Filters["type"]; ok {
		query = query.Where("type = ?", leaveType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyListOptions(query, filter, LeaveRequestSortFields)
	if err := query.Find(&reqModels).Error; err != nil {
		return nil, 0, err
	}

	return toDomainLeaveRequests(reqModels), total, nil
}

// FindByStatus returns tenant requests in any of the given statuses.
// Used by the review queue.
func (r *GormLeaveRequestRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, statuses []leave.RequestStatus, filter shared.Filter) ([]leave.Request, int64, error) {
	var reqModels []models.LeaveRequestModel
	var total int64

	statusStrings := make([]string, len(statuses))
	for i, s := range statuses {
		statusStrings[i] = string(s)
	}

	query := dbFromContext(ctx, r.db).
		Model(&models.LeaveRequestModel{}).
		Where("tenant_id = ? AND status IN ?", tenantID, statusStrings)
	if userID, ok := filter.Filters["user_id"]; ok {
		query = query.Where("user_id = ?", userID)
	}
	if leaveType, ok := filter.Filters["type"]; ok {
		query = query.Where("type = ?", leaveType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyListOptions(query, filter, LeaveRequestSortFields)
	if err := query.Find(&reqModels).Error; err != nil {
		return nil, 0, err
	}

	return toDomainLeaveRequests(reqModels), total, nil
}

// FindOverlapping returns a user's non-final requests whose date range
// intersects [start, end]
func (r *GormLeaveRequestRepository) FindOverlapping(ctx context.Context, tenantID, userID uuid.UUID, start, end time.Time) ([]leave.Request, error) {
	var reqModels []models.LeaveRequestModel
	if err := dbFromContext(ctx, r.db).
		Where("tenant_id = ? AND user_id = ? AND start_date <= ? AND end_date >= ? AND status IN ?",
			tenantID, userID, end, start, []string{
				string(leave.RequestStatusPending),
				string(leave.RequestStatusProcessing),
				string(leave.RequestStatusApproved),
			}).
		Find(&reqModels).Error; err != nil {
		return nil, err
	}
	return toDomainLeaveRequests(reqModels), nil
}

// CountPendingByUser counts a user's requests awaiting review
func (r *GormLeaveRequestRepository) CountPendingByUser(ctx context.Context, tenantID, userID uuid.UUID) (int64, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).
		Model(&models.LeaveRequestModel{}).
		Where("tenant_id = ? AND user_id = ? AND status IN ?", tenantID, userID, []string{
			string(leave.RequestStatusPending),
			string(leave.RequestStatusProcessing),
		}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a leave request
func (r *GormLeaveRequestRepository) Save(ctx context.Context, req *leave.Request) error {
	model := models.LeaveRequestModelFromDomain(req)
	return dbFromContext(ctx, r.db).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model).Error
}

// Delete deletes a leave request by ID within the tenant
func (r *GormLeaveRequestRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.LeaveRequestModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toDomainLeaveRequests(reqModels []models.LeaveRequestModel) []leave.Request {
	reqs := make([]leave.Request, len(reqModels))
	for i := range reqModels {
		reqs[i] = *reqModels[i].ToDomain()
	}
	return reqs
}

// Ensure GormLeaveRequestRepository implements RequestRepository
var _ leave.RequestRepository = (*GormLeaveRequestRepository)(nil)
