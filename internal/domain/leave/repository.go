package leave

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hrm/backend/internal/domain/shared"
)

// RequestRepository defines the persistence interface for leave requests
type RequestRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Request, error)
	FindByUser(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) ([]Request, int64, error)
	FindByStatus(ctx context.Context, tenantID uuid.UUID, statuses []RequestStatus, filter shared.Filter) ([]Request, int64, error)
	FindOverlapping(ctx context.Context, tenantID, userID uuid.UUID, start, end time.Time) ([]Request, error)
	CountPendingByUser(ctx context.Context, tenantID, userID uuid.UUID) (int64, error)
	Save(ctx context.Context, req *Request) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// BalanceRepository defines the persistence interface for leave balances
type BalanceRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Balance, error)
	FindByUserTypeYear(ctx context.Context, tenantID, userID uuid.UUID, leaveType Type, cycleYear int) (*Balance, error)
	FindByUserAndYear(ctx context.Context, tenantID, userID uuid.UUID, cycleYear int) ([]Balance, error)
	Save(ctx context.Context, balance *Balance) error
}
