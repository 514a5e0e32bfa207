package leave

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hrm/backend/internal/domain/leave"
)

// RequestDTO represents leave request data transfer object
type RequestDTO struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	Type            string          `json:"type"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         time.Time       `json:"end_date"`
	WorkingDays     decimal.Decimal `json:"working_days"`
	Reason          string          `json:"reason,omitempty"`
	Status          string          `json:"status"`
	AttachmentKeys  []string        `json:"attachment_keys,omitempty"`
	ReviewerID      *uuid.UUID      `json:"reviewer_id,omitempty"`
	DecisionNote    string          `json:"decision_note,omitempty"`
	DecidedAt       *time.Time      `json:"decided_at,omitempty"`
	BalanceSnapshot decimal.Decimal `json:"balance_snapshot"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToRequestDTO converts a domain request to a DTO
func ToRequestDTO(req *leave.Request) RequestDTO {
	return RequestDTO{
		ID:              req.ID,
		UserID:          req.UserID,
		Type:            string(req.Type),
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		WorkingDays:     req.WorkingDays,
		Reason:          req.Reason,
		Status:          string(req.Status),
		AttachmentKeys:  req.AttachmentKeys,
		ReviewerID:      req.ReviewerID,
		DecisionNote:    req.DecisionNote,
		DecidedAt:       req.DecidedAt,
		BalanceSnapshot: req.BalanceSnapshot,
		CreatedAt:       req.CreatedAt,
		UpdatedAt:       req.UpdatedAt,
	}
}

// BalanceDTO represents one leave type's balance for a cycle year
type BalanceDTO struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Type      string          `json:"type"`
	CycleYear int             `json:"cycle_year"`
	Allocated decimal.Decimal `json:"allocated"`
	Used      decimal.Decimal `json:"used"`
	Pending   decimal.Decimal `json:"pending"`
	Remaining decimal.Decimal `json:"remaining"`
}

// ToBalanceDTO converts a domain balance to a DTO
func ToBalanceDTO(b *leave.Balance) BalanceDTO {
	return BalanceDTO{
		ID:        b.ID,
		UserID:    b.UserID,
		Type:      string(b.Type),
		CycleYear: b.CycleYear,
		Allocated: b.Allocated,
		Used:      b.Used,
		Pending:   b.Pending,
		Remaining: b.Remaining(),
	}
}

// CreateRequestInput contains input for creating a draft request
type CreateRequestInput struct {
	TenantID    uuid.UUID
	UserID      uuid.UUID
	Type        string
	StartDate   time.Time
	EndDate     time.Time
	WorkingDays decimal.Decimal
	Reason      string
}

// UpdateRequestInput contains input for editing a draft request
type UpdateRequestInput struct {
	TenantID    uuid.UUID
	RequestID   uuid.UUID
	UserID      uuid.UUID
	Type        string
	StartDate   time.Time
	EndDate     time.Time
	WorkingDays decimal.Decimal
	Reason      string
}

// DecideInput contains input for approving or denying a request
type DecideInput struct {
	TenantID     uuid.UUID
	RequestID    uuid.UUID
	ReviewerID   uuid.UUID
	ReviewerRole string
	Note         string
}

// AdjustBalanceInput contains input for an HR allocation adjustment
type AdjustBalanceInput struct {
	TenantID  uuid.UUID
	UserID    uuid.UUID
	Type      string
	CycleYear int
	Allocated decimal.Decimal
}

// AttachmentUploadResult carries a presigned upload URL for an attachment
type AttachmentUploadResult struct {
	UploadURL  string    `json:"upload_url"`
	StorageKey string    `json:"storage_key"`
	ExpiresAt  time.Time `json:"expires_at"`
}
