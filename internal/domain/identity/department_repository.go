package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/hrm/backend/internal/domain/shared"
)

// DepartmentRepository defines the persistence interface for departments
type DepartmentRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Department, error)
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Department, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Department, int64, error)
	FindChildren(ctx context.Context, tenantID, parentID uuid.UUID) ([]Department, error)
	FindRoots(ctx context.Context, tenantID uuid.UUID) ([]Department, error)
	FindSubtree(ctx context.Context, tenantID uuid.UUID, path string) ([]Department, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	Save(ctx context.Context, dept *Department) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
