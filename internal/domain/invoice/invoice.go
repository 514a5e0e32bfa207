package invoice

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/hrm/backend/internal/domain/shared"
)

// Status represents the delivery pipeline state of an invoice
type Status string

const (
	StatusDraft          Status = "draft"
	StatusPendingReview  Status = "pending_review"
	StatusReadyToDeliver Status = "ready_to_deliver"
)

// Password cost for bcrypt; matches the user credential cost
const bcryptCost = 12

// LineItem is one billed line on an invoice
type LineItem struct {
	ID          uuid.UUID       `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// Invoice is a monthly payroll invoice for one employee. A locked invoice
// hides its lines and totals until the holder exchanges the invoice
// password for a short-lived unlock token.
type Invoice struct {
	shared.TenantAggregateRoot
	UserID       uuid.UUID
	PeriodYear   int
	PeriodMonth  int
	Status       Status
	Currency     string
	Lines        []LineItem
	Total        decimal.Decimal
	Locked       bool
	PasswordHash string
	Notes        string
}

// NewInvoice creates a draft invoice for a billing period
func NewInvoice(tenantID, userID uuid.UUID, periodYear, periodMonth int, currency string) (*Invoice, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "Invoice must belong to a user")
	}
	if periodYear < 2000 || periodYear > 2200 {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period year is out of range")
	}
	if periodMonth < 1 || periodMonth > 12 {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period month must be 1-12")
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter code")
	}

	return &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		UserID:              userID,
		PeriodYear:          periodYear,
		PeriodMonth:         periodMonth,
		Status:              StatusDraft,
		Currency:            currency,
		Lines:               make([]LineItem, 0),
		Total:               decimal.Zero,
	}, nil
}

// ReplaceLines swaps the full line item set. Amounts and the total are
// recomputed here; client-supplied amounts are ignored.
func (i *Invoice) ReplaceLines(lines []LineItem) error {
	if i.Status != StatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be edited")
	}

	total := decimal.Zero
	next := make([]LineItem, 0, len(lines))
	for _, line := range lines {
		desc := strings.TrimSpace(line.Description)
		if desc == "" {
			return shared.NewDomainError("INVALID_LINE", "Line description cannot be empty")
		}
		if line.Quantity.LessThanOrEqual(decimal.Zero) {
			return shared.NewDomainError("INVALID_LINE", "Line quantity must be positive")
		}
		if line.UnitPrice.IsNegative() {
			return shared.NewDomainError("INVALID_LINE", "Line unit price cannot be negative")
		}

		id := line.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		amount := line.Quantity.Mul(line.UnitPrice)
		next = append(next, LineItem{
			ID:          id,
			Description: desc,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Amount:      amount,
		})
		total = total.Add(amount)
	}

	i.Lines = next
	i.Total = total
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// SetNotes sets free-form notes
func (i *Invoice) SetNotes(notes string) error {
	if len(notes) > 2000 {
		return shared.NewDomainError("INVALID_NOTES", "Notes cannot exceed 2000 characters")
	}

	i.Notes = notes
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// SubmitForReview moves a draft into review
func (i *Invoice) SubmitForReview() error {
	if i.Status != StatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be submitted for review")
	}
	if len(i.Lines) == 0 {
		return shared.NewDomainError("INVALID_STATE", "Invoice has no line items")
	}

	i.Status = StatusPendingReview
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// ReturnToDraft sends a reviewed invoice back for edits
func (i *Invoice) ReturnToDraft() error {
	if i.Status != StatusPendingReview {
		return shared.NewDomainError("INVALID_STATE", "Only invoices in review can return to draft")
	}

	i.Status = StatusDraft
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// MarkReady finishes review and makes the invoice deliverable
func (i *Invoice) MarkReady() error {
	if i.Status != StatusPendingReview {
		return shared.NewDomainError("INVALID_STATE", "Only invoices in review can be marked ready")
	}

	i.Status = StatusReadyToDeliver
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewInvoiceReadyEvent(i))

	return nil
}

// Lock protects the invoice behind a password
func (i *Invoice) Lock(password string) error {
	if i.Locked {
		return shared.NewDomainError("ALREADY_LOCKED", "Invoice is already locked")
	}
	if len(password) < 6 {
		return shared.NewDomainError("INVALID_PASSWORD", "Invoice password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	i.Locked = true
	i.PasswordHash = string(hash)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// Unlock removes the password protection entirely (HR action)
func (i *Invoice) Unlock() error {
	if !i.Locked {
		return shared.NewDomainError("NOT_LOCKED", "Invoice is not locked")
	}

	i.Locked = false
	i.PasswordHash = ""
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// VerifyPassword checks an unlock attempt against the stored hash
func (i *Invoice) VerifyPassword(password string) bool {
	if !i.Locked || i.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(i.PasswordHash), []byte(password)) == nil
}

// PeriodLabel returns the period formatted as "2025-06"
func (i *Invoice) PeriodLabel() string {
	month := time.Month(i.PeriodMonth)
	return time.Date(i.PeriodYear, month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}
