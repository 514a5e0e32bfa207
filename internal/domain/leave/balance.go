package leave

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hrm/backend/internal/domain/shared"
)

// Balance tracks one employee's allotment for one leave type in one cycle
// year. Pending days are reserved when a request is submitted and either
// committed to Used on approval or released on denial/cancellation.
type Balance struct {
	shared.TenantAggregateRoot
	UserID    uuid.UUID
	Type      Type
	CycleYear int
	Allocated decimal.Decimal
	Used      decimal.Decimal
	Pending   decimal.Decimal
}

// NewBalance creates a balance for an employee, type, and cycle year
func NewBalance(tenantID, userID uuid.UUID, leaveType Type, cycleYear int, allocated decimal.Decimal) (*Balance, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Balance must belong to a user")
	}
	if err := validateType(leaveType); err != nil {
		return nil, err
	}
	if cycleYear < 2000 || cycleYear > 2200 {
		return nil, shared.NewDomainError("INVALID_CYCLE_YEAR", "Cycle year is out of range")
	}
	if allocated.IsNegative() {
		return nil, shared.NewDomainError("INVALID_ALLOCATION", "Allocation cannot be negative")
	}

	return &Balance{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		UserID:              userID,
		Type:                leaveType,
		CycleYear:           cycleYear,
		Allocated:           allocated,
		Used:                decimal.Zero,
		Pending:             decimal.Zero,
	}, nil
}

// Remaining returns the days still available to request
func (b *Balance) Remaining() decimal.Decimal {
	return b.Allocated.Sub(b.Used).Sub(b.Pending)
}

// Reserve holds days for a submitted request
func (b *Balance) Reserve(days decimal.Decimal) error {
	if days.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_DAYS", "Days must be positive")
	}
	if days.GreaterThan(b.Remaining()) {
		return shared.ErrInsufficientBalance
	}

	b.Pending = b.Pending.Add(days)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// Commit converts reserved days into used days on approval
func (b *Balance) Commit(days decimal.Decimal) error {
	if days.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_DAYS", "Days must be positive")
	}
	if days.GreaterThan(b.Pending) {
		return shared.NewDomainError("INVALID_DAYS", "Cannot commit more days than are pending")
	}

	b.Pending = b.Pending.Sub(days)
	b.Used = b.Used.Add(days)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// Release frees reserved days on denial or cancellation
func (b *Balance) Release(days decimal.Decimal) error {
	if days.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_DAYS", "Days must be positive")
	}
	if days.GreaterThan(b.Pending) {
		return shared.NewDomainError("INVALID_DAYS", "Cannot release more days than are pending")
	}

	b.Pending = b.Pending.Sub(days)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}

// Adjust replaces the allocation (HR adjustment). The new allocation must
// cover days already used or reserved.
func (b *Balance) Adjust(allocated decimal.Decimal) error {
	if allocated.IsNegative() {
		return shared.NewDomainError("INVALID_ALLOCATION", "Allocation cannot be negative")
	}
	if allocated.LessThan(b.Used.Add(b.Pending)) {
		return shared.NewDomainError("INVALID_ALLOCATION", "Allocation cannot drop below used plus pending days")
	}

	b.Allocated = allocated
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return nil
}
