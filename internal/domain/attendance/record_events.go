package attendance

import (
	"time"

	"github.com/google/uuid"

	"github.com/hrm/backend/internal/domain/shared"
)

// Aggregate type constant for attendance records
const AggregateTypeAttendanceRecord = "AttendanceRecord"

// Attendance domain event types
const (
	EventTypeDayStarted = "AttendanceDayStarted"
	EventTypeDayEnded   = "AttendanceDayEnded"
)

// DayStartedEvent is published when an employee checks in
type DayStartedEvent struct {
	shared.BaseDomainEvent
	UserID    uuid.UUID `json:"user_id"`
	Date      time.Time `json:"date"`
	CheckInAt time.Time `json:"check_in_at"`
	Status    Status    `json:"status"`
}

// NewDayStartedEvent creates a new DayStartedEvent
func NewDayStartedEvent(rec *Record) *DayStartedEvent {
	return &DayStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDayStarted, AggregateTypeAttendanceRecord, rec.ID, rec.TenantID),
		UserID:          rec.UserID,
		Date:            rec.Date,
		CheckInAt:       rec.CheckInAt,
		Status:          rec.Status,
	}
}

// DayEndedEvent is published when an employee checks out
type DayEndedEvent struct {
	shared.BaseDomainEvent
	UserID       uuid.UUID `json:"user_id"`
	Date         time.Time `json:"date"`
	WorkSeconds  int       `json:"work_seconds"`
	BreakSeconds int       `json:"break_seconds"`
	Status       Status    `json:"status"`
}

// NewDayEndedEvent creates a new DayEndedEvent
func NewDayEndedEvent(rec *Record) *DayEndedEvent {
	return &DayEndedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeDayEnded, AggregateTypeAttendanceRecord, rec.ID, rec.TenantID),
		UserID:          rec.UserID,
		Date:            rec.Date,
		WorkSeconds:     rec.WorkSeconds,
		BreakSeconds:    rec.BreakSeconds,
		Status:          rec.Status,
	}
}
