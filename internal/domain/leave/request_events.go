package leave

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hrm/backend/internal/domain/shared"
)

// Aggregate type constant for leave requests
const AggregateTypeLeaveRequest = "LeaveRequest"

// Leave domain event types
const (
	EventTypeRequestSubmitted = "LeaveRequestSubmitted"
	EventTypeRequestDecided   = "LeaveRequestDecided"
	EventTypeRequestCancelled = "LeaveRequestCancelled"
)

// RequestSubmittedEvent is published when a request enters the review queue
type RequestSubmittedEvent struct {
	shared.BaseDomainEvent
	UserID      uuid.UUID       `json:"user_id"`
	LeaveType   Type            `json:"leave_type"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
	WorkingDays decimal.Decimal `json:"working_days"`
}

// NewRequestSubmittedEvent creates a new RequestSubmittedEvent
func NewRequestSubmittedEvent(req *Request) *RequestSubmittedEvent {
	return &RequestSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRequestSubmitted, AggregateTypeLeaveRequest, req.ID, req.TenantID),
		UserID:          req.UserID,
		LeaveType:       req.Type,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		WorkingDays:     req.WorkingDays,
	}
}

// RequestDecidedEvent is published when a request is approved or denied
type RequestDecidedEvent struct {
	shared.BaseDomainEvent
	UserID       uuid.UUID     `json:"user_id"`
	LeaveType    Type          `json:"leave_type"`
	Outcome      RequestStatus `json:"outcome"`
	ReviewerID   *uuid.UUID    `json:"reviewer_id"`
	DecisionNote string        `json:"decision_note"`
	StartDate    time.Time     `json:"start_date"`
	EndDate      time.Time     `json:"end_date"`
}

// NewRequestDecidedEvent creates a new RequestDecidedEvent
func NewRequestDecidedEvent(req *Request) *RequestDecidedEvent {
	return &RequestDecidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRequestDecided, AggregateTypeLeaveRequest, req.ID, req.TenantID),
		UserID:          req.UserID,
		LeaveType:       req.Type,
		Outcome:         req.Status,
		ReviewerID:      req.ReviewerID,
		DecisionNote:    req.DecisionNote,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
	}
}

// RequestCancelledEvent is published when a pending request is withdrawn
type RequestCancelledEvent struct {
	shared.BaseDomainEvent
	UserID      uuid.UUID       `json:"user_id"`
	LeaveType   Type            `json:"leave_type"`
	WorkingDays decimal.Decimal `json:"working_days"`
}

// NewRequestCancelledEvent creates a new RequestCancelledEvent
func NewRequestCancelledEvent(req *Request) *RequestCancelledEvent {
	return &RequestCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeRequestCancelled, AggregateTypeLeaveRequest, req.ID, req.TenantID),
		UserID:          req.UserID,
		LeaveType:       req.Type,
		WorkingDays:     req.WorkingDays,
	}
}
