package hr

import (
	"context"

	"github.com/google/uuid"

	"github.com/hrm/backend/internal/domain/shared"
)

// ProfileRepository defines the persistence interface for profiles
type ProfileRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Profile, error)
	FindByUserID(ctx context.Context, tenantID, userID uuid.UUID) (*Profile, error)
	Save(ctx context.Context, profile *Profile) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// EmploymentRepository defines the persistence interface for employments
type EmploymentRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Employment, error)
	FindByUserID(ctx context.Context, tenantID, userID uuid.UUID) (*Employment, error)
	FindByEmployeeCode(ctx context.Context, tenantID uuid.UUID, code string) (*Employment, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Employment, int64, error)
	FindByManager(ctx context.Context, tenantID, managerID uuid.UUID) ([]Employment, error)
	FindByDepartment(ctx context.Context, tenantID, departmentID uuid.UUID) ([]Employment, error)
	ExistsByEmployeeCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	Save(ctx context.Context, emp *Employment) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error)
	CountByDepartment(ctx context.Context, tenantID, departmentID uuid.UUID) (int64, error)
}
