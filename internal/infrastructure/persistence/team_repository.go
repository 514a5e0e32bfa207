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

// GormTeamRepository implements identity.TeamRepository using GORM
type GormTeamRepository struct {
	db *gorm.DB
}

// NewGormTeamRepository creates a new GormTeamRepository
func NewGormTeamRepository(db *gorm.DB) *GormTeamRepository {
	return &GormTeamRepository{db: db}
}

// FindByID finds a team by ID within the tenant
func (r *GormTeamRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.Team, error) {
	var model models.TeamModel
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

// FindByCode finds a team by code within the tenant
func (r *GormTeamRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*identity.Team, error) {
	var model models.TeamModel
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

// FindAll returns teams for the tenant with pagination
func (r *GormTeamRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.Team, int64, error) {
	var teamModels []models.TeamModel
	var total int64

	query := dbFromContext(ctx, r.db).
		Model(&models.TeamModel{}).
		Where("tenant_id = ?", tenantID)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", pattern, pattern)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if departmentID, ok := filter.Filters["department_id"]; ok {
		query = query.Where("department_id = ?", departmentID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyListOptions(query, filter, TeamSortFields)
	if err := query.Find(&teamModels).Error; err != nil {
		return nil, 0, err
	}

	return toDomainTeams(teamModels), total, nil
}

// FindByDepartment returns all teams in a department
func (r *GormTeamRepository) FindByDepartment(ctx context.Context, tenantID, departmentID uuid.UUID) ([]identity.Team, error) {
	var teamModels []models.TeamModel
	if err := dbFromContext(ctx, r.db).
		Where("tenant_id = ? AND department_id = ?", tenantID, departmentID).
		Order("code ASC").
		Find(&teamModels).Error; err != nil {
		return nil, err
	}
	return toDomainTeams(teamModels), nil
}

// ExistsByCode checks if a team code is already taken in the tenant
func (r *GormTeamRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := dbFromContext(ctx, r.db).
		Model(&models.TeamModel{}).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a team
func (r *GormTeamRepository) Save(ctx context.Context, team *identity.Team) error {
	model := models.TeamModelFromDomain(team)
	return dbFromContext(ctx, r.db).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(model).Error
}

// Delete deletes a team by ID within the tenant
func (r *GormTeamRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := dbFromContext(ctx, r.db).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&models.TeamModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func toDomainTeams(teamModels []models.TeamModel) []identity.Team {
	teams := make([]identity.Team, len(teamModels))
	for i := range teamModels {
		teams[i] = *teamModels[i].ToDomain()
	}
	return teams
}

// Ensure GormTeamRepository implements TeamRepository
var _ identity.TeamRepository = (*GormTeamRepository)(nil)
