package invoice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hrm/backend/internal/domain/hr"
	"github.com/hrm/backend/internal/domain/invoice"
	"github.com/hrm/backend/internal/domain/shared"
)

// ServiceConfig holds invoice service configuration
type ServiceConfig struct {
	UnlockTokenTTL time.Duration
}

// DefaultServiceConfig returns the default configuration
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{UnlockTokenTTL: 15 * time.Minute}
}

// Service handles payroll invoices: generation from compensation,
// review, locking, and the password-for-token unlock exchange
type Service struct {
	invoiceRepo    invoice.Repository
	tokenRepo      invoice.UnlockTokenRepository
	employmentRepo hr.EmploymentRepository
	eventPublisher shared.EventPublisher
	config         ServiceConfig
	logger         *zap.Logger
}

// NewService creates a new invoice service
func NewService(
	invoiceRepo invoice.Repository,
	tokenRepo invoice.UnlockTokenRepository,
	employmentRepo hr.EmploymentRepository,
	eventPublisher shared.EventPublisher,
	config ServiceConfig,
	logger *zap.Logger,
) *Service {
	if config.UnlockTokenTTL <= 0 {
		config.UnlockTokenTTL = DefaultServiceConfig().UnlockTokenTTL
	}
	return &Service{
		invoiceRepo:    invoiceRepo,
		tokenRepo:      tokenRepo,
		employmentRepo: employmentRepo,
		eventPublisher: eventPublisher,
		config:         config,
		logger:         logger,
	}
}

// Generate creates a draft invoice for a billing period, seeded with a
// base salary line from the employment's compensation. One invoice per
// employee per period.
func (s *Service) Generate(ctx context.Context, input GenerateInvoiceInput) (*InvoiceDTO, error) {
	existing, err := s.invoiceRepo.FindByUserAndPeriod(ctx, input.TenantID, input.UserID, input.PeriodYear, input.PeriodMonth)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("INVOICE_EXISTS", "An invoice for this period already exists")
	}

	employment, err := s.employmentRepo.FindByUserID(ctx, input.TenantID, input.UserID)
	if err != nil {
		return nil, err
	}

	currency := employment.Compensation.Currency
	if currency == "" {
		return nil, shared.NewDomainError("NO_COMPENSATION", "Employment has no compensation configured")
	}

	inv, err := invoice.NewInvoice(input.TenantID, input.UserID, input.PeriodYear, input.PeriodMonth, currency)
	if err != nil {
		return nil, err
	}

	if employment.Compensation.BaseSalary.GreaterThan(decimal.Zero) {
		lines := []invoice.LineItem{{
			Description: fmt.Sprintf("Base salary %s", inv.PeriodLabel()),
			Quantity:    decimal.NewFromInt(1),
			UnitPrice:   employment.Compensation.BaseSalary,
		}}
		if err := inv.ReplaceLines(lines); err != nil {
			return nil, err
		}
	}

	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.logger.Info("Invoice generated",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("user_id", input.UserID.String()),
		zap.String("period", inv.PeriodLabel()))

	dto := ToInvoiceDTO(inv, false)
	return &dto, nil
}

// ReplaceLines swaps the full line set of a draft invoice
func (s *Service) ReplaceLines(ctx context.Context, input ReplaceLinesInput) (*InvoiceDTO, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, input.TenantID, input.InvoiceID)
	if err != nil {
		return nil, err
	}

	lines := make([]invoice.LineItem, len(input.Lines))
	for i, line := range input.Lines {
		lines[i] = invoice.LineItem{
			ID:          line.ID,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		}
	}

	if err := inv.ReplaceLines(lines); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	dto := ToInvoiceDTO(inv, false)
	return &dto, nil
}

// SetNotes sets free-form notes on an invoice
func (s *Service) SetNotes(ctx context.Context, tenantID, invoiceID uuid.UUID, notes string) (*InvoiceDTO, error) {
	return s.transition(ctx, tenantID, invoiceID, func(inv *invoice.Invoice) error {
		return inv.SetNotes(notes)
	})
}

// SubmitForReview moves a draft into review
func (s *Service) SubmitForReview(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceDTO, error) {
	return s.transition(ctx, tenantID, invoiceID, func(inv *invoice.Invoice) error {
		return inv.SubmitForReview()
	})
}

// ReturnToDraft sends a reviewed invoice back for edits
func (s *Service) ReturnToDraft(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceDTO, error) {
	return s.transition(ctx, tenantID, invoiceID, func(inv *invoice.Invoice) error {
		return inv.ReturnToDraft()
	})
}

// MarkReady finishes review and makes the invoice deliverable
func (s *Service) MarkReady(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceDTO, error) {
	return s.transition(ctx, tenantID, invoiceID, func(inv *invoice.Invoice) error {
		return inv.MarkReady()
	})
}

// Lock protects an invoice behind a password
func (s *Service) Lock(ctx context.Context, tenantID, invoiceID uuid.UUID, password string) (*InvoiceDTO, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := inv.Lock(password); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.logger.Info("Invoice locked", zap.String("invoice_id", invoiceID.String()))

	dto := ToInvoiceDTO(inv, false)
	return &dto, nil
}

// Unlock removes the password protection entirely (HR action)
func (s *Service) Unlock(ctx context.Context, tenantID, invoiceID uuid.UUID) (*InvoiceDTO, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := inv.Unlock(); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	s.logger.Info("Invoice unlocked", zap.String("invoice_id", invoiceID.String()))

	dto := ToInvoiceDTO(inv, false)
	return &dto, nil
}

// ExchangePassword trades the invoice password for a short-lived unlock
// token. A wrong password returns the same error regardless of whether
// the invoice is locked, so the response leaks nothing about its state.
func (s *Service) ExchangePassword(ctx context.Context, tenantID, invoiceID, userID uuid.UUID, password string) (*UnlockExchangeResult, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if !inv.VerifyPassword(password) {
		s.logger.Warn("Invoice unlock rejected",
			zap.String("invoice_id", invoiceID.String()),
			zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("UNAUTHORIZED", "Invalid password")
	}

	token, err := invoice.NewUnlockToken(tenantID, invoiceID, userID, s.config.UnlockTokenTTL)
	if err != nil {
		return nil, err
	}
	if err := s.tokenRepo.Save(ctx, token); err != nil {
		return nil, err
	}

	return &UnlockExchangeResult{Token: token.Token, ExpiresAt: token.ExpiresAt}, nil
}

// Get returns one invoice. Locked invoices come back masked unless a
// valid unlock token for them accompanies the request.
func (s *Service) Get(ctx context.Context, tenantID, invoiceID, requesterID uuid.UUID, allowAny bool, unlockToken string) (*InvoiceDTO, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if !allowAny && inv.UserID != requesterID {
		return nil, shared.ErrNotFound
	}

	masked := inv.Locked
	if masked && unlockToken != "" {
		token, err := s.tokenRepo.FindByToken(ctx, tenantID, unlockToken)
		if err == nil && token.IsValidFor(invoiceID, time.Now()) {
			masked = false
		}
	}

	dto := ToInvoiceDTO(inv, masked)
	return &dto, nil
}

// ListMine returns a page of the requester's invoices; locked ones are
// masked
func (s *Service) ListMine(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[InvoiceDTO], error) {
	invoices, total, err := s.invoiceRepo.FindByUser(ctx, tenantID, userID, filter)
	if err != nil {
		return nil, err
	}
	return paginate(invoices, total, filter), nil
}

// ListAll returns a page of all invoices for back-office views; locked
// ones are masked here as well
func (s *Service) ListAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[InvoiceDTO], error) {
	invoices, total, err := s.invoiceRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	return paginate(invoices, total, filter), nil
}

// Delete removes a draft invoice
func (s *Service) Delete(ctx context.Context, tenantID, invoiceID uuid.UUID) error {
	inv, err := s.invoiceRepo.FindByID(ctx, tenantID, invoiceID)
	if err != nil {
		return err
	}
	if inv.Status != invoice.StatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft invoices can be deleted")
	}
	if inv.Locked {
		return shared.ErrResourceLocked
	}

	if err := s.invoiceRepo.Delete(ctx, tenantID, invoiceID); err != nil {
		return err
	}

	s.logger.Info("Invoice deleted", zap.String("invoice_id", invoiceID.String()))

	return nil
}

// PurgeExpiredTokens removes unlock tokens past their expiry. Called
// periodically by the scheduler.
func (s *Service) PurgeExpiredTokens(ctx context.Context, now time.Time) (int64, error) {
	purged, err := s.tokenRepo.DeleteExpired(ctx, now)
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		s.logger.Info("Expired unlock tokens purged", zap.Int64("count", purged))
	}
	return purged, nil
}

// transition loads an invoice, applies fn, saves, and publishes
func (s *Service) transition(ctx context.Context, tenantID, invoiceID uuid.UUID, fn func(*invoice.Invoice) error) (*InvoiceDTO, error) {
	inv, err := s.invoiceRepo.FindByID(ctx, tenantID, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := fn(inv); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Save(ctx, inv); err != nil {
		return nil, err
	}

	publishEvents(ctx, s.eventPublisher, s.logger, inv.GetDomainEvents())
	inv.ClearDomainEvents()

	dto := ToInvoiceDTO(inv, false)
	return &dto, nil
}

func paginate(invoices []invoice.Invoice, total int64, filter shared.Filter) *shared.Paginated[InvoiceDTO] {
	dtos := make([]InvoiceDTO, len(invoices))
	for i := range invoices {
		dtos[i] = ToInvoiceDTO(&invoices[i], invoices[i].Locked)
	}
	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result
}

func publishEvents(ctx context.Context, publisher shared.EventPublisher, logger *zap.Logger, events []shared.DomainEvent) {
	if publisher == nil || len(events) == 0 {
		return
	}
	for _, event := range events {
		if err := publisher.Publish(ctx, event); err != nil {
			logger.Warn("Failed to publish domain event",
				zap.String("event_type", event.EventType()),
				zap.Error(err))
		}
	}
}
