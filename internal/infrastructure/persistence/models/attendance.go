package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/hrm/backend/internal/domain/attendance"
)

// AttendanceRecordModel is the persistence model for per-day attendance
// records. One row per user per day; the open segment markers are nulled
// out once the day is checked out.
type AttendanceRecordModel struct {
	TenantAggregateModel
	UserID           uuid.UUID `gorm:"type:uuid;not null;index:idx_attendance_tenant_user_date,priority:2"`
	Date             time.Time `gorm:"type:date;not null;index:idx_attendance_tenant_user_date,priority:3;index:idx_attendance_tenant_date"`
	CheckInAt        time.Time `gorm:"not null"`
	CheckOutAt       *time.Time
	WorkSeconds      int `gorm:"not null;default:0"`
	BreakSeconds     int `gorm:"not null;default:0"`
	SegmentStartedAt *time.Time
	OnBreakSince     *time.Time
	Status           string `gorm:"type:varchar(20);not null"`
	Source           string `gorm:"type:varchar(20);not null;default:'web'"`
	Location         string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (AttendanceRecordModel) TableName() string {
	return "attendance_records"
}

// ToDomain converts the persistence model to a domain Record
func (m *AttendanceRecordModel) ToDomain() *attendance.Record {
	rec := &attendance.Record{
		UserID:           m.UserID,
		Date:             m.Date,
		CheckInAt:        m.CheckInAt,
		CheckOutAt:       m.CheckOutAt,
		WorkSeconds:      m.WorkSeconds,
		BreakSeconds:     m.BreakSeconds,
		SegmentStartedAt: m.SegmentStartedAt,
		OnBreakSince:     m.OnBreakSince,
		Status:           attendance.Status(m.Status),
		Source:           attendance.Source(m.Source),
		Location:         m.Location,
	}
	m.PopulateTenantAggregateRoot(&rec.TenantAggregateRoot)
	return rec
}

// FromDomain populates the persistence model from a domain Record
func (m *AttendanceRecordModel) FromDomain(rec *attendance.Record) {
	m.FromDomainTenantAggregateRoot(rec.TenantAggregateRoot)
	m.UserID = rec.UserID
	m.Date = rec.Date
	m.CheckInAt = rec.CheckInAt
	m.CheckOutAt = rec.CheckOutAt
	m.WorkSeconds = rec.WorkSeconds
	m.BreakSeconds = rec.BreakSeconds
	m.SegmentStartedAt = rec.SegmentStartedAt
	m.OnBreakSince = rec.OnBreakSince
	m.Status = string(rec.Status)
	m.Source = string(rec.Source)
	m.Location = rec.Location
}

// AttendanceRecordModelFromDomain creates a new persistence model from a domain Record
func AttendanceRecordModelFromDomain(rec *attendance.Record) *AttendanceRecordModel {
	m := &AttendanceRecordModel{}
	m.FromDomain(rec)
	return m
}
