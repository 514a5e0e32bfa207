package invoice

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hrm/backend/internal/domain/shared"
)

// Repository defines the persistence interface for invoices
type Repository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Invoice, error)
	FindByUser(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) ([]Invoice, int64, error)
	FindByUserAndPeriod(ctx context.Context, tenantID, userID uuid.UUID, year, month int) (*Invoice, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Invoice, int64, error)
	Save(ctx context.Context, inv *Invoice) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// UnlockTokenRepository defines the persistence interface for unlock tokens
type UnlockTokenRepository interface {
	Save(ctx context.Context, token *UnlockToken) error
	FindByToken(ctx context.Context, tenantID uuid.UUID, token string) (*UnlockToken, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
