package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hrm/backend/internal/domain/attendance"
	"github.com/hrm/backend/internal/domain/shared"
	"github.com/hrm/backend/internal/infrastructure/persistence/models"
)

// GormAttendanceRepository implements attendance.Repository using GORM
type GormAttendanceRepository struct {
	db *gorm.DB
}

// NewGormAttendanceRepository creates a new GormAttendanceRepository
func NewGormAttendanceRepository(db *gorm.DB) *GormAttendanceRepository {
	return &GormAttendanceRepository{db: db}
}

// FindByID finds an attendance record by ID within the tenant
func (r *GormAttendanceRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*attendance.Record, error) {
	var model models.AttendanceRecordModel
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

// FindByUserAndDate finds the single record for a user on a calendar day
func (r *GormAttendanceRepository) FindByUserAndDate(ctx context.Context, tenantID, userID uuid.UUID, date time.Time) (*attendance.Record, error) {
	var model models.AttendanceRecordModel
	if err := dbFromContext(ctx, r.db).
		Where("tenant_id = ? AND user_id = ? AND date = ?", tenantID, userID, date).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByUserInRange returns a user's records in a date range ordered by day
func (r *GormAttendanceRepository) FindByUserInRange(ctx context.Context, tenantID, userID uuid.UUID, from, to time.Time) ([]attendance.Record, error) {
	var recModels []models.AttendanceRecordModel
	if err := dbFromContext(ctx, r.db).
		Where("tenant_id = ? AND user_id = ? AND date >= ? AND date <= ?", tenantID, userID, from, to).
		Order("date ASC").
		Find(&recModels).Error; err != nil {
		return nil, err
	}
	return toDomainAttendanceRecords(recModels), nil
}

// FindByDate returns all records for one calendar day across the tenant
func (r *GormAttendanceRepository) FindByDate(ctx context.Context, tenantID uuid.UUID, date time.Time, filter shared.Filter) ([]attendance.Record, int64, error) {
	var recModels []models.AttendanceRecordModel
	var total int64

	query := dbFromContext(ctx, r.db).
		Model(&models.AttendanceRecordModel{}).
		Where("tenant_id = ? AND date = ?", tenantID, date)
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyListOptions(query, filter, AttendanceSortFields)
	if err := query.Find(&recModels).Error; err != nil {
		return nil, 0, err
	}

	return toDomainAttendanceRecords(recModels), total, nil
}

// Save creates or updates an attendance record
func (r *GormAttendanceRepository) Save(ctx context.Context, rec *attendance.Record) error {
	model := models.AttendanceRecordModelFromDomain(rec)
	return dbFromContext(ctx, r.db).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model).Error
}

// Delete deletes an attendance record by ID within the tenant
func (r *GormAttendanceRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.AttendanceRecordModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByStatusInRange aggregates day statuses over a date range. A nil
// userID aggregates across the whole organization.
func (r *GormAttendanceRepository) CountByStatusInRange(ctx context.Context, tenantID, userID uuid.UUID, from, to time.Time) (map[attendance.Status]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}

	query := dbFromContext(ctx, r.db).
		Model(&models.AttendanceRecordModel{}).
		Select("status, COUNT(*) AS count").
		Where("tenant_id = ? AND date >= ? AND date <= ?", tenantID, from, to)
	if userID != uuid.Nil {
		query = query.Where("user_id = ?", userID)
	}
	if err := query.Group("status").Find(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[attendance.Status]int64, len(rows))
	for _, row := range rows {
		counts[attendance.Status(row.Status)] = row.Count
	}
	return counts, nil
}

func toDomainAttendanceRecords(recModels []models.AttendanceRecordModel) []attendance.Record {
	recs := make([]attendance.Record, len(recModels))
	for i := range recModels {
		recs[i] = *recModels[i].ToDomain()
	}
	return recs
}

// Ensure GormAttendanceRepository implements Repository
var _ attendance.Repository = (*GormAttendanceRepository)(nil)
