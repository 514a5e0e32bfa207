package invoice

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hrm/backend/internal/domain/shared"
)

// Aggregate type constant for invoices
const AggregateTypeInvoice = "Invoice"

// Invoice domain event types
const (
	EventTypeInvoiceReady = "InvoiceReady"
)

// InvoiceReadyEvent is published when an invoice becomes deliverable
type InvoiceReadyEvent struct {
	shared.BaseDomainEvent
	UserID      uuid.UUID       `json:"user_id"`
	PeriodYear  int             `json:"period_year"`
	PeriodMonth int             `json:"period_month"`
	Total       decimal.Decimal `json:"total"`
	Currency    string          `json:"currency"`
}

// NewInvoiceReadyEvent creates a new InvoiceReadyEvent
func NewInvoiceReadyEvent(inv *Invoice) *InvoiceReadyEvent {
	return &InvoiceReadyEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceReady, AggregateTypeInvoice, inv.ID, inv.TenantID),
		UserID:          inv.UserID,
		PeriodYear:      inv.PeriodYear,
		PeriodMonth:     inv.PeriodMonth,
		Total:           inv.Total,
		Currency:        inv.Currency,
	}
}
