package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hrm/backend/internal/domain/invoice"
)

// InvoiceModel is the persistence model for payroll invoices. Line items
// are stored as a jsonb document; they are only ever read and written as
// a whole set.
type InvoiceModel struct {
	TenantAggregateModel
	UserID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_invoices_tenant_user"`
	PeriodYear   int             `gorm:"not null"`
	PeriodMonth  int             `gorm:"not null"`
	Status       string          `gorm:"type:varchar(20);not null;default:'draft'"`
	Currency     string          `gorm:"type:varchar(3);not null;default:'USD'"`
	Lines        string          `gorm:"type:jsonb;default:'[]'"`
	Total        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Locked       bool            `gorm:"not null;default:false"`
	PasswordHash string          `gorm:"type:varchar(255)"`
	Notes        string          `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() *invoice.Invoice {
	inv := &invoice.Invoice{
		UserID:       m.UserID,
		PeriodYear:   m.PeriodYear,
		PeriodMonth:  m.PeriodMonth,
		Status:       invoice.Status(m.Status),
		Currency:     m.Currency,
		Lines:        make([]invoice.LineItem, 0),
		Total:        m.Total,
		Locked:       m.Locked,
		PasswordHash: m.PasswordHash,
		Notes:        m.Notes,
	}
	m.PopulateTenantAggregateRoot(&inv.TenantAggregateRoot)

	if m.Lines != "" && m.Lines != "[]" {
		var lines []invoice.LineItem
		if err := json.Unmarshal([]byte(m.Lines), &lines); err == nil {
			inv.Lines = lines
		}
	}

	return inv
}

// FromDomain populates the persistence model from a domain Invoice
func (m *InvoiceModel) FromDomain(inv *invoice.Invoice) {
	m.FromDomainTenantAggregateRoot(inv.TenantAggregateRoot)
	m.UserID = inv.UserID
	m.PeriodYear = inv.PeriodYear
	m.PeriodMonth = inv.PeriodMonth
	m.Status = string(inv.Status)
	m.Currency = inv.Currency
	m.Total = inv.Total
	m.Locked = inv.Locked
	m.PasswordHash = inv.PasswordHash
	m.Notes = inv.Notes

	if len(inv.Lines) > 0 {
		if data, err := json.Marshal(inv.Lines); err == nil {
			m.Lines = string(data)
		} else {
			m.Lines = "[]"
		}
	} else {
		m.Lines = "[]"
	}
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice
func InvoiceModelFromDomain(inv *invoice.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(inv)
	return m
}

// UnlockTokenModel is the persistence model for invoice unlock tokens.
// Rows are purged by the scheduler once expired.
type UnlockTokenModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID  uuid.UUID `gorm:"type:uuid;not null;index:idx_unlock_tokens_tenant_token,priority:1"`
	InvoiceID uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"type:uuid;not null"`
	Token     string    `gorm:"type:varchar(64);not null;index:idx_unlock_tokens_tenant_token,priority:2"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UnlockTokenModel) TableName() string {
	return "invoice_unlock_tokens"
}

// ToDomain converts the persistence model to a domain UnlockToken
func (m *UnlockTokenModel) ToDomain() *invoice.UnlockToken {
	return &invoice.UnlockToken{
		ID:        m.ID,
		TenantID:  m.TenantID,
		InvoiceID: m.InvoiceID,
		UserID:    m.UserID,
		Token:     m.Token,
		ExpiresAt: m.ExpiresAt,
		CreatedAt: m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain UnlockToken
func (m *UnlockTokenModel) FromDomain(token *invoice.UnlockToken) {
	m.ID = token.ID
	m.TenantID = token.TenantID
	m.InvoiceID = token.InvoiceID
	m.UserID = token.UserID
	m.Token = token.Token
	m.ExpiresAt = token.ExpiresAt
	m.CreatedAt = token.CreatedAt
}

// UnlockTokenModelFromDomain creates a new persistence model from a domain UnlockToken
func UnlockTokenModelFromDomain(token *invoice.UnlockToken) *UnlockTokenModel {
	m := &UnlockTokenModel{}
	m.FromDomain(token)
	return m
}
