package hr

import (
	"time"

	"github.com/google/uuid"

	"github.com/hrm/backend/internal/domain/shared"
)

// Aggregate type constant for Employment
const AggregateTypeEmployment = "Employment"

// Employment domain event types
const (
	EventTypeEmploymentCreated    = "EmploymentCreated"
	EventTypeEmploymentActivated  = "EmploymentActivated"
	EventTypeEmploymentTerminated = "EmploymentTerminated"
)

// EmploymentCreatedEvent is published when an employment is created
type EmploymentCreatedEvent struct {
	shared.BaseDomainEvent
	UserID       uuid.UUID      `json:"user_id"`
	EmployeeCode string         `json:"employee_code"`
	Designation  string         `json:"designation"`
	Type         EmploymentType `json:"type"`
	StartDate    time.Time      `json:"start_date"`
}

// NewEmploymentCreatedEvent creates a new EmploymentCreatedEvent
func NewEmploymentCreatedEvent(emp *Employment) *EmploymentCreatedEvent {
	return &EmploymentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEmploymentCreated, AggregateTypeEmployment, emp.ID, emp.TenantID),
		UserID:          emp.UserID,
		EmployeeCode:    emp.EmployeeCode,
		Designation:     emp.Designation,
		Type:            emp.Type,
		StartDate:       emp.StartDate,
	}
}

// EmploymentActivatedEvent is published when onboarding completes
type EmploymentActivatedEvent struct {
	shared.BaseDomainEvent
	UserID       uuid.UUID `json:"user_id"`
	EmployeeCode string    `json:"employee_code"`
}

// NewEmploymentActivatedEvent creates a new EmploymentActivatedEvent
func NewEmploymentActivatedEvent(emp *Employment) *EmploymentActivatedEvent {
	return &EmploymentActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEmploymentActivated, AggregateTypeEmployment, emp.ID, emp.TenantID),
		UserID:          emp.UserID,
		EmployeeCode:    emp.EmployeeCode,
	}
}

// EmploymentTerminatedEvent is published when an employment ends
type EmploymentTerminatedEvent struct {
	shared.BaseDomainEvent
	UserID          uuid.UUID  `json:"user_id"`
	EmployeeCode    string     `json:"employee_code"`
	TerminationDate *time.Time `json:"termination_date"`
}

// NewEmploymentTerminatedEvent creates a new EmploymentTerminatedEvent
func NewEmploymentTerminatedEvent(emp *Employment) *EmploymentTerminatedEvent {
	return &EmploymentTerminatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEmploymentTerminated, AggregateTypeEmployment, emp.ID, emp.TenantID),
		UserID:          emp.UserID,
		EmployeeCode:    emp.EmployeeCode,
		TerminationDate: emp.TerminationDate,
	}
}
