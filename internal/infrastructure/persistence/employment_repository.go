package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hrm/backend/internal/domain/hr"
	"github.com/hrm/backend/internal/domain/shared"
	"github.com/hrm/backend/internal/infrastructure/persistence/models"
)

// GormEmploymentRepository implements hr.EmploymentRepository using GORM
type GormEmploymentRepository struct {
	db *gorm.DB
}

// NewGormEmploymentRepository creates a new GormEmploymentRepository
func NewGormEmploymentRepository(db *gorm.DB) *GormEmploymentRepository {
	return &GormEmploymentRepository{db: db}
}

// FindByID finds an employment by ID within the tenant
func (r *GormEmploymentRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*hr.Employment, error) {
	var model models.EmploymentModel
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

// FindByUserID finds the employment belonging to a user
func (r *GormEmploymentRepository) FindByUserID(ctx context.Context, tenantID, userID uuid.UUID) (*hr.Employment, error) {
	var model models.EmploymentModel
	if err := dbFromContext(ctx, r.db).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmployeeCode finds an employment by employee code within the tenant
func (r *GormEmploymentRepository) FindByEmployeeCode(ctx context.Context, tenantID uuid.UUID, code string) (*hr.Employment, error) {
	var model models.EmploymentModel
	if err := dbFromContext(ctx, r.db).
		Where("tenant_id = ? AND employee_code = ?", tenantID, strings.ToUpper(strings.TrimSpace(code))).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns employments for the tenant with pagination. Search
// matches employee code and designation.
func (r *GormEmploymentRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]hr.Employment, int64, error) {
	var empModels []models.EmploymentModel
	var total int64

	query := dbFromContext(ctx, r.db).
		Model(&models.EmploymentModel{}).
		Where("tenant_id = ?", tenantID)
	query = r.applyFilter(query, filter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyListOptions(query, filter, EmploymentSortFields)
	if err := query.Find(&empModels).Error; err != nil {
		return nil, 0, err
	}

	return toDomainEmployments(empModels), total, nil
}

// FindByManager returns employments reporting to a manager
func (r *GormEmploymentRepository) FindByManager(ctx context.Context, tenantID, managerID uuid.UUID) ([]hr.Employment, error) {
	var empModels []models.EmploymentModel
	if err := dbFromContext(ctx, r.db).
		Where("tenant_id = ? AND manager_id = ?", tenantID, managerID).
		Order("employee_code ASC").
		Find(&empModels).Error; err != nil {
		return nil, err
	}
	return toDomainEmployments(empModels), nil
}

// FindByDepartment returns employments assigned to a department
func (r *GormEmploymentRepository) FindByDepartment(ctx context.Context, tenantID, departmentID uuid.UUID) ([]hr.Employment, error) {
	var empModels []models.EmploymentModel
	if err := dbFromContext(ctx, r.db).
		Where("tenant_id = ? AND department_id = ?", tenantID, departmentID).
		Order("employee_code ASC").
		Find(&empModels).Error; err != nil {
		return nil, err
	}
	return toDomainEmployments(empModels), nil
}

// ExistsByEmployeeCode checks if an employee code is already taken in the tenant
func (r *GormEmploymentRepository) ExistsByEmployeeCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).
		Model(&models.EmploymentModel{}).
		Where("tenant_id = ? AND employee_code = ?", tenantID, strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an employment
func (r *GormEmploymentRepository) Save(ctx context.Context, emp *hr.Employment) error {
	model := models.EmploymentModelFromDomain(emp)
	return dbFromContext(ctx, r.db).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model).Error
}

// Delete deletes an employment by ID within the tenant
func (r *GormEmploymentRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.EmploymentModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountActive counts active employments in the tenant
func (r *GormEmploymentRepository) CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).
		Model(&models.EmploymentModel{}).
		Where("tenant_id = ? AND status = ?", tenantID, string(hr.EmploymentStatusActive)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByDepartment counts non-terminated employments in a department
func (r *GormEmploymentRepository) CountByDepartment(ctx context.Context, tenantID, departmentID uuid.UUID) (int64, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).
		Model(&models.EmploymentModel{}).
		Where("tenant_id = ? AND department_id = ? AND status <> ?",
			tenantID, departmentID, string(hr.EmploymentStatusTerminated)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies search and filter options to the query
func (r *GormEmploymentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("employee_code ILIKE ? OR designation ILIKE ?", pattern, pattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if empType, ok := filter.Filters["type"]; ok {
		query = query.Where("type = ?", empType)
	}
	if departmentID, ok := filter.Filters["department_id"]; ok {
		query = query.Where("department_id = ?", departmentID)
	}
	if teamID, ok := filter.Filters["team_id"]; ok {
		query = query.Where("team_id = ?", teamID)
	}
	if managerID, ok := filter.Filters["manager_id"]; ok {
		query = query.Where("manager_id = ?", managerID)
	}
	return query
}

func toDomainEmployments(empModels []models.EmploymentModel) []hr.Employment {
	emps := make([]hr.Employment, len(empModels))
	for i := range empModels {
		emps[i] = *empModels[i].ToDomain()
	}
	return emps
}

// Ensure GormEmploymentRepository implements EmploymentRepository
var _ hr.EmploymentRepository = (*GormEmploymentRepository)(nil)
