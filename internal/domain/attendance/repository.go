package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hrm/backend/internal/domain/shared"
)

// Repository defines the persistence interface for attendance records
type Repository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Record, error)
	FindByUserAndDate(ctx context.Context, tenantID, userID uuid.UUID, date time.Time) (*Record, error)
	FindByUserInRange(ctx context.Context, tenantID, userID uuid.UUID, from, to time.Time) ([]Record, error)
	FindByDate(ctx context.Context, tenantID uuid.UUID, date time.Time, filter shared.Filter) ([]Record, int64, error)
	Save(ctx context.Context, rec *Record) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	CountByStatusInRange(ctx context.Context, tenantID, userID uuid.UUID, from, to time.Time) (map[Status]int64, error)
}
