package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/hrm/backend/internal/domain/shared"
)

// TeamRepository defines the persistence interface for teams
type TeamRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Team, error)
	FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*Team, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Team, int64, error)
	FindByDepartment(ctx context.Context, tenantID, departmentID uuid.UUID) ([]Team, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	Save(ctx context.Context, team *Team) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
