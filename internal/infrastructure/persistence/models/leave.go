package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hrm/backend/internal/domain/leave"
)

// LeaveRequestModel is the persistence model for leave requests
type LeaveRequestModel struct {
	TenantAggregateModel
	UserID          uuid.UUID       `gorm:"type:uuid;not null;index:idx_leave_requests_tenant_user"`
	Type            string          `gorm:"type:varchar(20);not null"`
	StartDate       time.Time       `gorm:"type:date;not null"`
	EndDate         time.Time       `gorm:"type:date;not null"`
	WorkingDays     decimal.Decimal `gorm:"type:decimal(6,2);not null"`
	Reason          string          `gorm:"type:varchar(2000)"`
	Status          string          `gorm:"type:varchar(20);not null;default:'draft';index:idx_leave_requests_tenant_status"`
	AttachmentKeys  string          `gorm:"type:jsonb;default:'[]'"`
	ReviewerID      *uuid.UUID      `gorm:"type:uuid"`
	DecisionNote    string          `gorm:"type:varchar(2000)"`
	DecidedAt       *time.Time
	BalanceSnapshot decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (LeaveRequestModel) TableName() string {
	return "leave_requests"
}

// ToDomain converts the persistence model to a domain Request
func (m *LeaveRequestModel) ToDomain() *leave.Request {
	req := &leave.Request{
		UserID:          m.UserID,
		Type:            leave.Type(m.Type),
		StartDate:       m.StartDate,
		EndDate:         m.EndDate,
		WorkingDays:     m.WorkingDays,
		Reason:          m.Reason,
		Status:          leave.RequestStatus(m.Status),
		AttachmentKeys:  make([]string, 0),
		ReviewerID:      m.ReviewerID,
		DecisionNote:    m.DecisionNote,
		DecidedAt:       m.DecidedAt,
		BalanceSnapshot: m.BalanceSnapshot,
	}
	m.PopulateTenantAggregateRoot(&req.TenantAggregateRoot)

	if m.AttachmentKeys != "" && m.AttachmentKeys != "[]" {
		var keys []string
		if err := json.Unmarshal([]byte(m.AttachmentKeys), &keys); err == nil {
			req.AttachmentKeys = keys
		}
	}

	return req
}

// FromDomain populates the persistence model from a domain Request
func (m *LeaveRequestModel) FromDomain(req *leave.Request) {
	m.FromDomainTenantAggregateRoot(req.TenantAggregateRoot)
	m.UserID = req.UserID
	m.Type = string(req.Type)
	m.StartDate = req.StartDate
	m.EndDate = req.EndDate
	m.WorkingDays = req.WorkingDays
	m.Reason = req.Reason
	m.Status = string(req.Status)
	m.ReviewerID = req.ReviewerID
	m.DecisionNote = req.DecisionNote
	m.DecidedAt = req.DecidedAt
	m.BalanceSnapshot = req.BalanceSnapshot

	if len(req.AttachmentKeys) > 0 {
		if data, err := json.Marshal(req.AttachmentKeys); err == nil {
			m.AttachmentKeys = string(data)
		} else {
			m.AttachmentKeys = "[]"
		}
	} else {
		m.AttachmentKeys = "[]"
	}
}

// LeaveRequestModelFromDomain creates a new persistence model from a domain Request
func LeaveRequestModelFromDomain(req *leave.Request) *LeaveRequestModel {
	m := &LeaveRequestModel{}
	m.FromDomain(req)
	return m
}

// LeaveBalanceModel is the persistence model for leave balances. One row
// per user, leave type, and cycle year.
type LeaveBalanceModel struct {
	TenantAggregateModel
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_leave_balances_tenant_user_type_year,priority:2"`
	Type      string          `gorm:"type:varchar(20);not null;index:idx_leave_balances_tenant_user_type_year,priority:3"`
	CycleYear int             `gorm:"not null;index:idx_leave_balances_tenant_user_type_year,priority:4"`
	Allocated decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0"`
	Used      decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0"`
	Pending   decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (LeaveBalanceModel) TableName() string {
	return "leave_balances"
}

// ToDomain converts the persistence model to a domain Balance
func (m *LeaveBalanceModel) ToDomain() *leave.Balance {
	balance := &leave.Balance{
		UserID:    m.UserID,
		Type:      leave.Type(m.Type),
		CycleYear: m.CycleYear,
		Allocated: m.Allocated,
		Used:      m.Used,
		Pending:   m.Pending,
	}
	m.PopulateTenantAggregateRoot(&balance.TenantAggregateRoot)
	return balance
}

// FromDomain populates the persistence model from a domain Balance
func (m *LeaveBalanceModel) FromDomain(balance *leave.Balance) {
	m.FromDomainTenantAggregateRoot(balance.TenantAggregateRoot)
	m.UserID = balance.UserID
	m.Type = string(balance.Type)
	m.CycleYear = balance.CycleYear
	m.Allocated = balance.Allocated
	m.Used = balance.Used
	m.Pending = balance.Pending
}

// LeaveBalanceModelFromDomain creates a new persistence model from a domain Balance
func LeaveBalanceModelFromDomain(balance *leave.Balance) *LeaveBalanceModel {
	m := &LeaveBalanceModel{}
	m.FromDomain(balance)
	return m
}
