package attendance

import (
	"time"

	"github.com/google/uuid"

	"github.com/hrm/backend/internal/domain/attendance"
)

// RecordDTO represents attendance record data transfer object. Work and
// break seconds are reconciled to the request time for open records.
type RecordDTO struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	Date         string     `json:"date"`
	CheckInAt    time.Time  `json:"check_in_at"`
	CheckOutAt   *time.Time `json:"check_out_at,omitempty"`
	WorkSeconds  int        `json:"work_seconds"`
	BreakSeconds int        `json:"break_seconds"`
	Open         bool       `json:"open"`
	OnBreak      bool       `json:"on_break"`
	Status       string     `json:"status"`
	Source       string     `json:"source"`
	Location     string     `json:"location,omitempty"`
}

// ToRecordDTO converts a domain record to a DTO, reconciling the live
// timers to now
func ToRecordDTO(rec *attendance.Record, now time.Time) RecordDTO {
	work, brk := rec.LiveTotals(now)
	return RecordDTO{
		ID:           rec.ID,
		UserID:       rec.UserID,
		Date:         rec.Date.Format("2006-01-02"),
		CheckInAt:    rec.CheckInAt,
		CheckOutAt:   rec.CheckOutAt,
		WorkSeconds:  work,
		BreakSeconds: brk,
		Open:         rec.IsOpen(),
		OnBreak:      rec.IsOnBreak(),
		Status:       string(rec.Status),
		Source:       string(rec.Source),
		Location:     rec.Location,
	}
}

// TodayDTO is the state of the current working day for one employee
type TodayDTO struct {
	CheckedIn bool       `json:"checked_in"`
	Record    *RecordDTO `json:"record,omitempty"`
}

// StartDayInput contains input for checking in
type StartDayInput struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Source   string
	Location string
}

// ManualRecordInput contains input for an HR-entered day record
type ManualRecordInput struct {
	TenantID     uuid.UUID
	UserID       uuid.UUID
	Date         time.Time
	Status       string
	WorkSeconds  int
	BreakSeconds int
}

// CorrectRecordInput contains input for an HR correction of a record
type CorrectRecordInput struct {
	TenantID     uuid.UUID
	RecordID     uuid.UUID
	Status       string
	WorkSeconds  int
	BreakSeconds int
}

// MonthlySummaryDTO aggregates one employee's month of attendance
type MonthlySummaryDTO struct {
	Year             int              `json:"year"`
	Month            int              `json:"month"`
	DaysByStatus     map[string]int64 `json:"days_by_status"`
	TotalWorkSeconds int              `json:"total_work_seconds"`
	TotalBreakSecs   int              `json:"total_break_seconds"`
}
