package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hrm/backend/internal/domain/identity"
	"github.com/hrm/backend/internal/domain/shared"
	"github.com/hrm/backend/internal/infrastructure/persistence/models"
)

// GormDepartmentRepository implements identity.DepartmentRepository using GORM
type GormDepartmentRepository struct {
	db *gorm.DB
}

// NewGormDepartmentRepository creates a new GormDepartmentRepository
func NewGormDepartmentRepository(db *gorm.DB) *GormDepartmentRepository {
	return &GormDepartmentRepository{db: db}
}

// FindByID finds a department by ID within the tenant
func (r *GormDepartmentRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.Department, error) {
	var model models.DepartmentModel
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

// FindByCode finds a department by code within the tenant
func (r *GormDepartmentRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*identity.Department, error) {
	var model models.DepartmentModel
	if err := dbFromContext(ctx, r.db).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(strings.TrimSpace(code))).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns departments for the tenant with pagination
func (r *GormDepartmentRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.Department, int64, error) {
	var deptModels []models.DepartmentModel
	var total int64

	query := dbFromContext(ctx, r.db).
		Model(&models.DepartmentModel{}).
		Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", pattern, pattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyListOptions(query, filter, DepartmentSortFields)
	if err := query.Find(&deptModels).Error; err != nil {
		return nil, 0, err
	}

	return toDomainDepartments(deptModels), total, nil
}

// FindChildren returns the direct children of a department
func (r *GormDepartmentRepository) FindChildren(ctx context.Context, tenantID, parentID uuid.UUID) ([]identity.Department, error) {
	var deptModels []models.DepartmentModel
	if err := dbFromContext(ctx, r.db).
		Where("tenant_id = ? AND parent_id = ?", tenantID, parentID).
		Order("sort_order ASC, code ASC").
		Find(&deptModels).Error; err != nil {
		return nil, err
	}
	return toDomainDepartments(deptModels), nil
}

// FindRoots returns departments with no parent
func (r *GormDepartmentRepository) FindRoots(ctx context.Context, tenantID uuid.UUID) ([]identity.Department, error) {
	var deptModels []models.DepartmentModel
	if err := dbFromContext(ctx, r.db).
		Where("tenant_id = ? AND parent_id IS NULL", tenantID).
		Order("sort_order ASC, code ASC").
		Find(&deptModels).Error; err != nil {
		return nil, err
	}
	return toDomainDepartments(deptModels), nil
}

// FindSubtree returns a department and all its descendants using the
// materialized path prefix
func (r *GormDepartmentRepository) FindSubtree(ctx context.Context, tenantID uuid.UUID, path string) ([]identity.Department, error) {
	var deptModels []models.DepartmentModel
	if err := dbFromContext(ctx, r.db).
		Where("tenant_id = ? AND (path = ? OR path LIKE ?)", tenantID, path, path+"/%").
		Order("path ASC").
		Find(&deptModels).Error; err != nil {
		return nil, err
	}
	return toDomainDepartments(deptModels), nil
}

// ExistsByCode checks if a department code is already taken in the tenant
func (r *GormDepartmentRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).
		Model(&models.DepartmentModel{}).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a department
func (r *GormDepartmentRepository) Save(ctx context.Context, dept *identity.Department) error {
	model := models.DepartmentModelFromDomain(dept)
	return dbFromContext(ctx, r.db).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model).Error
}

// Delete deletes a department by ID within the tenant
func (r *GormDepartmentRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.DepartmentModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toDomainDepartments(deptModels []models.DepartmentModel) []identity.Department {
	depts := make([]identity.Department, len(deptModels))
	for i := range deptModels {
		depts[i] = *deptModels[i].ToDomain()
	}
	return depts
}

// Ensure GormDepartmentRepository implements DepartmentRepository
var _ identity.DepartmentRepository = (*GormDepartmentRepository)(nil)
