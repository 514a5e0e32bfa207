package attendance

import (
	"time"

	"github.com/google/uuid"

	"github.com/hrm/backend/internal/domain/shared"
)

// Status represents the attendance status of a day
type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusHalfDay Status = "half_day"
	StatusAbsent  Status = "absent"
	StatusRemote  Status = "remote"
	StatusHoliday Status = "holiday"
)

// Source represents how the record was produced
type Source string

const (
	SourceWeb    Source = "web"
	SourceMobile Source = "mobile"
	SourceManual Source = "manual" // HR correction
)

// Record is the single per-employee-per-day attendance row. All elapsed
// time is accumulated from server clocks at each transition; the client
// never reports durations.
//
// Invariants: while the employee is working, SegmentStartedAt marks the
// start of the open work segment and OnBreakSince is nil. While on break,
// OnBreakSince is set and SegmentStartedAt is nil. After checkout both
// are nil and WorkSeconds/BreakSeconds are final.
type Record struct {
	shared.TenantAggregateRoot
	UserID           uuid.UUID
	Date             time.Time // midnight in the organization's timezone
	CheckInAt        time.Time
	CheckOutAt       *time.Time
	WorkSeconds      int
	BreakSeconds     int
	SegmentStartedAt *time.Time
	OnBreakSince     *time.Time
	Status           Status
	Source           Source
	Location         string
}

// StartDay opens a new attendance record with a check-in at now.
// lateDeadline is the organization's work start time plus the late
// threshold for the given day; checking in after it marks the day late.
func StartDay(tenantID, userID uuid.UUID, date, now, lateDeadline time.Time, source Source, location string) (*Record, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Attendance record must belong to a user")
	}
	if err := validateSource(source); err != nil {
		return nil, err
	}

	status := StatusPresent
	if now.After(lateDeadline) {
		status = StatusLate
	}

	segStart := now
	rec := &Record{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		UserID:              userID,
		Date:                date,
		CheckInAt:           now,
		SegmentStartedAt:    &segStart,
		Status:              status,
		Source:              source,
		Location:            location,
	}

	rec.AddDomainEvent(NewDayStartedEvent(rec))

	return rec, nil
}

// NewManualRecord creates a day record entered by HR, with no live timer
func NewManualRecord(tenantID, userID uuid.UUID, date time.Time, status Status, workSeconds, breakSeconds int) (*Record, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Attendance record must belong to a user")
	}
	if err := validateStatus(status); err != nil {
		return nil, err
	}
	if workSeconds < 0 || breakSeconds < 0 {
		return nil, shared.NewDomainError("INVALID_DURATION", "Durations cannot be negative")
	}

	checkOut := date.Add(time.Duration(workSeconds+breakSeconds) * time.Second)
	rec := &Record{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		UserID:              userID,
		Date:                date,
		CheckInAt:           date,
		CheckOutAt:          &checkOut,
		WorkSeconds:         workSeconds,
		BreakSeconds:        breakSeconds,
		Status:              status,
		Source:              SourceManual,
	}

	return rec, nil
}

// IsOpen returns true while the day has not been ended
func (r *Record) IsOpen() bool {
	return r.CheckOutAt == nil
}

// IsOnBreak returns true while a break is running
func (r *Record) IsOnBreak() bool {
	return r.OnBreakSince != nil
}

// StartBreak pauses the work timer
func (r *Record) StartBreak(now time.Time) error {
	if !r.IsOpen() {
		return shared.NewDomainError("DAY_ENDED", "Day has already been ended")
	}
	if r.IsOnBreak() {
		return shared.NewDomainError("ALREADY_ON_BREAK", "A break is already running")
	}

	r.accumulateWork(now)
	r.OnBreakSince = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	return nil
}

// EndBreak resumes the work timer
func (r *Record) EndBreak(now time.Time) error {
	if !r.IsOpen() {
		return shared.NewDomainError("DAY_ENDED", "Day has already been ended")
	}
	if !r.IsOnBreak() {
		return shared.NewDomainError("NOT_ON_BREAK", "No break is running")
	}

	r.accumulateBreak(now)
	seg := now
	r.SegmentStartedAt = &seg
	r.UpdatedAt = now
	r.IncrementVersion()

	return nil
}

// EndDay closes the record. An open break is closed first so the final
// totals account for every second between check-in and check-out.
func (r *Record) EndDay(now time.Time, fullDaySeconds int) error {
	if !r.IsOpen() {
		return shared.NewDomainError("DAY_ENDED", "Day has already been ended")
	}

	if r.IsOnBreak() {
		r.accumulateBreak(now)
	} else {
		r.accumulateWork(now)
	}

	r.CheckOutAt = &now
	r.deriveFinalStatus(fullDaySeconds)
	r.UpdatedAt = now
	r.IncrementVersion()

	r.AddDomainEvent(NewDayEndedEvent(r))

	return nil
}

// LiveTotals returns the current work and break seconds as of now,
// without mutating the record. Used by reads to reconcile the display.
func (r *Record) LiveTotals(now time.Time) (workSeconds, breakSeconds int) {
	workSeconds = r.WorkSeconds
	breakSeconds = r.BreakSeconds

	if r.IsOpen() {
		if r.OnBreakSince != nil {
			breakSeconds += elapsedSeconds(*r.OnBreakSince, now)
		} else if r.SegmentStartedAt != nil {
			workSeconds += elapsedSeconds(*r.SegmentStartedAt, now)
		}
	}

	return workSeconds, breakSeconds
}

// Correct overwrites the record with HR-entered values
func (r *Record) Correct(status Status, workSeconds, breakSeconds int) error {
	if err := validateStatus(status); err != nil {
		return err
	}
	if workSeconds < 0 || breakSeconds < 0 {
		return shared.NewDomainError("INVALID_DURATION", "Durations cannot be negative")
	}

	if r.IsOpen() {
		checkOut := time.Now()
		r.CheckOutAt = &checkOut
	}
	r.SegmentStartedAt = nil
	r.OnBreakSince = nil
	r.WorkSeconds = workSeconds
	r.BreakSeconds = breakSeconds
	r.Status = status
	r.Source = SourceManual
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// MarkRemote flags the open day as worked remotely
func (r *Record) MarkRemote() error {
	if !r.IsOpen() {
		return shared.NewDomainError("DAY_ENDED", "Day has already been ended")
	}

	r.Status = StatusRemote
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

func (r *Record) accumulateWork(now time.Time) {
	if r.SegmentStartedAt != nil {
		r.WorkSeconds += elapsedSeconds(*r.SegmentStartedAt, now)
		r.SegmentStartedAt = nil
	}
}

func (r *Record) accumulateBreak(now time.Time) {
	if r.OnBreakSince != nil {
		r.BreakSeconds += elapsedSeconds(*r.OnBreakSince, now)
		r.OnBreakSince = nil
	}
}

func (r *Record) deriveFinalStatus(fullDaySeconds int) {
	// Remote and holiday markings survive checkout; late survives unless
	// the day also fell short of half the expected hours.
	if r.Status == StatusRemote || r.Status == StatusHoliday {
		return
	}
	if fullDaySeconds > 0 && r.WorkSeconds < fullDaySeconds/2 {
		r.Status = StatusHalfDay
	}
}

func elapsedSeconds(from, to time.Time) int {
	d := to.Sub(from)
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}

func validateSource(source Source) error {
	switch source {
	case SourceWeb, SourceMobile, SourceManual:
		return nil
	}
	return shared.NewDomainError("INVALID_SOURCE", "Unknown attendance source")
}

func validateStatus(status Status) error {
	switch status {
	case StatusPresent, StatusLate, StatusHalfDay, StatusAbsent, StatusRemote, StatusHoliday:
		return nil
	}
	return shared.NewDomainError("INVALID_STATUS", "Unknown attendance status")
}
