package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/hrm/backend/internal/domain/shared"
)

// OrganizationRepository defines the persistence interface for organizations
type OrganizationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Organization, error)
	FindBySlug(ctx context.Context, slug string) (*Organization, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Organization, int64, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	Save(ctx context.Context, org *Organization) error
	Delete(ctx context.Context, id uuid.UUID) error
}
