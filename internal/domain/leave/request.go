package leave

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hrm/backend/internal/domain/shared"
)

// Type represents the category of leave
type Type string

const (
	TypeAnnual    Type = "annual"
	TypeSick      Type = "sick"
	TypeCasual    Type = "casual"
	TypeUnpaid    Type = "unpaid"
	TypeMaternity Type = "maternity"
	TypePaternity Type = "paternity"
)

// RequestStatus represents the workflow state of a leave request
type RequestStatus string

const (
	RequestStatusDraft      RequestStatus = "draft"
	RequestStatusPending    RequestStatus = "pending"
	RequestStatusProcessing RequestStatus = "processing"
	RequestStatusApproved   RequestStatus = "approved"
	RequestStatusDenied     RequestStatus = "denied"
	RequestStatusCancelled  RequestStatus = "cancelled"
)

// Request is a leave application going through the review workflow.
// BalanceSnapshot freezes the remaining balance at submission time so the
// reviewer sees what the employee saw.
type Request struct {
	shared.TenantAggregateRoot
	UserID          uuid.UUID
	Type            Type
	StartDate       time.Time
	EndDate         time.Time
	WorkingDays     decimal.Decimal
	Reason          string
	Status          RequestStatus
	AttachmentKeys  []string
	ReviewerID      *uuid.UUID
	DecisionNote    string
	DecidedAt       *time.Time
	BalanceSnapshot decimal.Decimal
}

// NewRequest creates a leave request in draft state
func NewRequest(tenantID, userID uuid.UUID, leaveType Type, startDate, endDate time.Time, workingDays decimal.Decimal, reason string) (*Request, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Leave request must belong to a user")
	}
	if err := validateType(leaveType); err != nil {
		return nil, err
	}
	if err := validateDates(startDate, endDate, workingDays); err != nil {
		return nil, err
	}
	if len(reason) > 2000 {
		return nil, shared.NewDomainError("INVALID_REASON", "Reason cannot exceed 2000 characters")
	}

	req := &Request{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		UserID:              userID,
		Type:                leaveType,
		StartDate:           startDate,
		EndDate:             endDate,
		WorkingDays:         workingDays,
		Reason:              strings.TrimSpace(reason),
		Status:              RequestStatusDraft,
		AttachmentKeys:      make([]string, 0),
		BalanceSnapshot:     decimal.Zero,
	}

	return req, nil
}

// UpdateDraft changes the dates, type, and reason of a draft request
func (r *Request) UpdateDraft(leaveType Type, startDate, endDate time.Time, workingDays decimal.Decimal, reason string) error {
	if r.Status != RequestStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft requests can be edited")
	}
	if err := validateType(leaveType); err != nil {
		return err
	}
	if err := validateDates(startDate, endDate, workingDays); err != nil {
		return err
	}
	if len(reason) > 2000 {
		return shared.NewDomainError("INVALID_REASON", "Reason cannot exceed 2000 characters")
	}

	r.Type = leaveType
	r.StartDate = startDate
	r.EndDate = endDate
	r.WorkingDays = workingDays
	r.Reason = strings.TrimSpace(reason)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// AddAttachment records an uploaded attachment's storage key
func (r *Request) AddAttachment(storageKey string) error {
	if r.Status != RequestStatusDraft && r.Status != RequestStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Attachments can only be added before review")
	}
	if storageKey == "" || len(storageKey) > 500 {
		return shared.NewDomainError("INVALID_ATTACHMENT", "Invalid attachment key")
	}

	r.AttachmentKeys = append(r.AttachmentKeys, storageKey)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// Submit moves a draft into the review queue, freezing the balance the
// employee had at that moment
func (r *Request) Submit(remainingBalance decimal.Decimal) error {
	if r.Status != RequestStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft requests can be submitted")
	}

	r.Status = RequestStatusPending
	r.BalanceSnapshot = remainingBalance
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	r.AddDomainEvent(NewRequestSubmittedEvent(r))

	return nil
}

// StartProcessing claims the request for a reviewer
func (r *Request) StartProcessing(reviewerID uuid.UUID) error {
	if r.Status != RequestStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending requests can enter processing")
	}
	if reviewerID == uuid.Nil {
		return shared.NewDomainError("INVALID_REVIEWER", "Reviewer is required")
	}

	r.Status = RequestStatusProcessing
	r.ReviewerID = &reviewerID
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// Approve grants the leave
func (r *Request) Approve(reviewerID uuid.UUID, note string) error {
	return r.decide(RequestStatusApproved, reviewerID, note)
}

// Deny rejects the leave
func (r *Request) Deny(reviewerID uuid.UUID, note string) error {
	return r.decide(RequestStatusDenied, reviewerID, note)
}

func (r *Request) decide(outcome RequestStatus, reviewerID uuid.UUID, note string) error {
	if r.Status != RequestStatusPending && r.Status != RequestStatusProcessing {
		return shared.NewDomainError("INVALID_STATE", "Only pending or processing requests can be decided")
	}
	if reviewerID == uuid.Nil {
		return shared.NewDomainError("INVALID_REVIEWER", "Reviewer is required")
	}
	if reviewerID == r.UserID {
		return shared.NewDomainError("INVALID_REVIEWER", "Employees cannot review their own requests")
	}

	now := time.Now()
	r.Status = outcome
	r.ReviewerID = &reviewerID
	r.DecisionNote = strings.TrimSpace(note)
	r.DecidedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewRequestDecidedEvent(r))

	return nil
}

// Cancel withdraws the request. Only drafts and pending requests can be
// cancelled by the employee.
func (r *Request) Cancel() error {
	if r.Status != RequestStatusDraft && r.Status != RequestStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only draft or pending requests can be cancelled")
	}

	wasPending := r.Status == RequestStatusPending
	r.Status = RequestStatusCancelled
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	if wasPending {
		r.AddDomainEvent(NewRequestCancelledEvent(r))
	}

	return nil
}

// IsDecided returns true once the request reached a terminal review outcome
func (r *Request) IsDecided() bool {
	return r.Status == RequestStatusApproved || r.Status == RequestStatusDenied
}

// ConsumesBalance returns true for leave types that draw from a balance.
// Unpaid and parental leave never touch balances.
func (t Type) ConsumesBalance() bool {
	switch t {
	case TypeUnpaid, TypeMaternity, TypePaternity:
		return false
	}
	return true
}

func validateType(t Type) error {
	switch t {
	case TypeAnnual, TypeSick, TypeCasual, TypeUnpaid, TypeMaternity, TypePaternity:
		return nil
	}
	return shared.NewDomainError("INVALID_LEAVE_TYPE", "Unknown leave type")
}

func validateDates(start, end time.Time, workingDays decimal.Decimal) error {
	if start.IsZero() || end.IsZero() {
		return shared.NewDomainError("INVALID_DATES", "Start and end dates are required")
	}
	if end.Before(start) {
		return shared.NewDomainError("INVALID_DATES", "End date cannot be before start date")
	}
	if workingDays.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_DATES", "Working days must be positive")
	}
	calendarDays := decimal.NewFromInt(int64(end.Sub(start).Hours()/24) + 1)
	if workingDays.GreaterThan(calendarDays) {
		return shared.NewDomainError("INVALID_DATES", "Working days cannot exceed the calendar span")
	}
	return nil
}
