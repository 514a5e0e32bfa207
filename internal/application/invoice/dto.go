package invoice

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hrm/backend/internal/domain/invoice"
)

// LineItemDTO represents one invoice line
type LineItemDTO struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceDTO represents invoice data transfer object. A masked DTO
// carries the period and status only; lines, totals, currency, and notes
// are withheld until the invoice is unlocked.
type InvoiceDTO struct {
	ID          uuid.UUID        `json:"id"`
	UserID      uuid.UUID        `json:"user_id"`
	Period      string           `json:"period"`
	PeriodYear  int              `json:"period_year"`
	PeriodMonth int              `json:"period_month"`
	Status      string           `json:"status"`
	Locked      bool             `json:"locked"`
	Masked      bool             `json:"masked"`
	Currency    string           `json:"currency,omitempty"`
	Lines       []LineItemDTO    `json:"lines,omitempty"`
	Total       *decimal.Decimal `json:"total,omitempty"`
	Notes       string           `json:"notes,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// ToInvoiceDTO converts a domain invoice to a DTO. masked withholds
// everything except the period and status.
func ToInvoiceDTO(inv *invoice.Invoice, masked bool) InvoiceDTO {
	dto := InvoiceDTO{
		ID:          inv.ID,
		UserID:      inv.UserID,
		Period:      inv.PeriodLabel(),
		PeriodYear:  inv.PeriodYear,
		PeriodMonth: inv.PeriodMonth,
		Status:      string(inv.Status),
		Locked:      inv.Locked,
		Masked:      masked,
		CreatedAt:   inv.CreatedAt,
		UpdatedAt:   inv.UpdatedAt,
	}
	if masked {
		return dto
	}

	dto.Currency = inv.Currency
	dto.Notes = inv.Notes
	total := inv.Total
	dto.Total = &total
	dto.Lines = make([]LineItemDTO, len(inv.Lines))
	for i, line := range inv.Lines {
		dto.Lines[i] = LineItemDTO{
			ID:          line.ID,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Amount:      line.Amount,
		}
	}
	return dto
}

// GenerateInvoiceInput contains input for generating a payroll invoice
type GenerateInvoiceInput struct {
	TenantID    uuid.UUID
	UserID      uuid.UUID
	PeriodYear  int
	PeriodMonth int
}

// LineItemInput is one client-supplied line; amounts are recomputed
// server-side
type LineItemInput struct {
	ID          uuid.UUID
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// ReplaceLinesInput contains input for replacing an invoice's lines
type ReplaceLinesInput struct {
	TenantID  uuid.UUID
	InvoiceID uuid.UUID
	Lines     []LineItemInput
}

// UnlockExchangeResult carries the short-lived token returned after a
// successful password exchange
type UnlockExchangeResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
