package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hrm/backend/internal/domain/hr"
	"github.com/hrm/backend/internal/domain/identity"
	"github.com/hrm/backend/internal/domain/leave"
	"github.com/hrm/backend/internal/domain/shared"
)

// How long presigned attachment URLs stay valid
const attachmentURLTTL = 15 * time.Minute

// ObjectStorageService abstracts presigned access to attachment storage
type ObjectStorageService interface {
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

// Service handles the leave workflow: drafts, submission against
// balances, review, and the balance lifecycle that goes with it
type Service struct {
	requestRepo    leave.RequestRepository
	balanceRepo    leave.BalanceRepository
	orgRepo        identity.OrganizationRepository
	employmentRepo hr.EmploymentRepository
	storage        ObjectStorageService
	tx             shared.TransactionManager
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewService creates a new leave service
func NewService(
	requestRepo leave.RequestRepository,
	balanceRepo leave.BalanceRepository,
	orgRepo identity.OrganizationRepository,
	employmentRepo hr.EmploymentRepository,
	storage ObjectStorageService,
	tx shared.TransactionManager,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *Service {
	return &Service{
		requestRepo:    requestRepo,
		balanceRepo:    balanceRepo,
		orgRepo:        orgRepo,
		employmentRepo: employmentRepo,
		storage:        storage,
		tx:             tx,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// CreateDraft creates a leave request in draft state
func (s *Service) CreateDraft(ctx context.Context, input CreateRequestInput) (*RequestDTO, error) {
	req, err := leave.NewRequest(input.TenantID, input.UserID, leave.Type(input.Type), input.StartDate, input.EndDate, input.WorkingDays, input.Reason)
	if err != nil {
		return nil, err
	}

	if err := s.requestRepo.Save(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info("Leave draft created",
		zap.String("request_id", req.ID.String()),
		zap.String("user_id", input.UserID.String()))

	dto := ToRequestDTO(req)
	return &dto, nil
}

// UpdateDraft edits a draft request. Only the owner can edit, and only
// while the request is still a draft.
func (s *Service) UpdateDraft(ctx context.Context, input UpdateRequestInput) (*RequestDTO, error) {
	req, err := s.findOwned(ctx, input.TenantID, input.RequestID, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := req.UpdateDraft(leave.Type(input.Type), input.StartDate, input.EndDate, input.WorkingDays, input.Reason); err != nil {
		return nil, err
	}

	if err := s.requestRepo.Save(ctx, req); err != nil {
		return nil, err
	}

	dto := ToRequestDTO(req)
	return &dto, nil
}

// Submit moves a draft into the review queue. Overlapping active
// requests are rejected, and for balance-consuming types the working
// days are reserved against the cycle-year balance up front.
func (s *Service) Submit(ctx context.Context, tenantID, requestID, userID uuid.UUID) (*RequestDTO, error) {
	req, err := s.findOwned(ctx, tenantID, requestID, userID)
	if err != nil {
		return nil, err
	}

	overlapping, err := s.requestRepo.FindOverlapping(ctx, tenantID, userID, req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	for i := range overlapping {
		if overlapping[i].ID != req.ID {
			return nil, shared.ErrOverlappingDateRange
		}
	}

	snapshot := decimal.Zero
	var balance *leave.Balance
	if req.Type.ConsumesBalance() {
		balance, err = s.ensureBalance(ctx, tenantID, userID, req.Type, req.StartDate.Year())
		if err != nil {
			return nil, err
		}
		snapshot = balance.Remaining()
		if err := balance.Reserve(req.WorkingDays); err != nil {
			return nil, err
		}
	}

	if err := req.Submit(snapshot); err != nil {
		return nil, err
	}

	// Reserved days and the pending request commit together, or the
	// reservation would leak on a failed request save
	err = s.tx.Transact(ctx, func(ctx context.Context) error {
		if balance != nil {
			if err := s.balanceRepo.Save(ctx, balance); err != nil {
				return err
			}
		}
		if err := s.requestRepo.Save(ctx, req); err != nil {
			return err
		}
		publishEvents(ctx, s.eventPublisher, s.logger, req.GetDomainEvents())
		return nil
	})
	if err != nil {
		return nil, err
	}
	req.ClearDomainEvents()

	s.logger.Info("Leave request submitted",
		zap.String("request_id", req.ID.String()),
		zap.String("type", string(req.Type)),
		zap.String("working_days", req.WorkingDays.String()))

	dto := ToRequestDTO(req)
	return &dto, nil
}

// Cancel withdraws a draft or pending request. Reserved days of a
// pending request are released back to the balance.
func (s *Service) Cancel(ctx context.Context, tenantID, requestID, userID uuid.UUID) (*RequestDTO, error) {
	req, err := s.findOwned(ctx, tenantID, requestID, userID)
	if err != nil {
		return nil, err
	}

	wasPending := req.Status == leave.RequestStatusPending
	if err := req.Cancel(); err != nil {
		return nil, err
	}

	err = s.tx.Transact(ctx, func(ctx context.Context) error {
		if wasPending && req.Type.ConsumesBalance() {
			if err := s.releaseReserved(ctx, req); err != nil {
				return err
			}
		}
		if err := s.requestRepo.Save(ctx, req); err != nil {
			return err
		}
		publishEvents(ctx, s.eventPublisher, s.logger, req.GetDomainEvents())
		return nil
	})
	if err != nil {
		return nil, err
	}
	req.ClearDomainEvents()

	s.logger.Info("Leave request cancelled", zap.String("request_id", req.ID.String()))

	dto := ToRequestDTO(req)
	return &dto, nil
}

// StartProcessing claims a pending request for a reviewer
func (s *Service) StartProcessing(ctx context.Context, tenantID, requestID, reviewerID uuid.UUID, reviewerRole string) (*RequestDTO, error) {
	req, err := s.requestRepo.FindByID(ctx, tenantID, requestID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureMayReview(ctx, req, reviewerID, reviewerRole); err != nil {
		return nil, err
	}
	if err := req.StartProcessing(reviewerID); err != nil {
		return nil, err
	}

	if err := s.requestRepo.Save(ctx, req); err != nil {
		return nil, err
	}

	dto := ToRequestDTO(req)
	return &dto, nil
}

// Approve grants the leave and commits the reserved days
func (s *Service) Approve(ctx context.Context, input DecideInput) (*RequestDTO, error) {
	return s.decide(ctx, input, true)
}

// Deny rejects the leave and releases the reserved days
func (s *Service) Deny(ctx context.Context, input DecideInput) (*RequestDTO, error) {
	return s.decide(ctx, input, false)
}

func (s *Service) decide(ctx context.Context, input DecideInput, approve bool) (*RequestDTO, error) {
	req, err := s.requestRepo.FindByID(ctx, input.TenantID, input.RequestID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureMayReview(ctx, req, input.ReviewerID, input.ReviewerRole); err != nil {
		return nil, err
	}

	if approve {
		err = req.Approve(input.ReviewerID, input.Note)
	} else {
		err = req.Deny(input.ReviewerID, input.Note)
	}
	if err != nil {
		return nil, err
	}

	// Balance movement and the decided request commit together, or a
	// retried decision would commit the reserved days twice
	err = s.tx.Transact(ctx, func(ctx context.Context) error {
		if req.Type.ConsumesBalance() {
			balance, err := s.balanceRepo.FindByUserTypeYear(ctx, input.TenantID, req.UserID, req.Type, req.StartDate.Year())
			if err != nil {
				return err
			}
			if approve {
				err = balance.Commit(req.WorkingDays)
			} else {
				err = balance.Release(req.WorkingDays)
			}
			if err != nil {
				return err
			}
			if err := s.balanceRepo.Save(ctx, balance); err != nil {
				return err
			}
		}
		if err := s.requestRepo.Save(ctx, req); err != nil {
			return err
		}
		publishEvents(ctx, s.eventPublisher, s.logger, req.GetDomainEvents())
		return nil
	})
	if err != nil {
		return nil, err
	}
	req.ClearDomainEvents()

	s.logger.Info("Leave request decided",
		zap.String("request_id", req.ID.String()),
		zap.String("status", string(req.Status)),
		zap.String("reviewer_id", input.ReviewerID.String()))

	dto := ToRequestDTO(req)
	return &dto, nil
}

// Get returns one request. requesterID limits access to the owner unless
// allowAny is set (reviewer roles).
func (s *Service) Get(ctx context.Context, tenantID, requestID, requesterID uuid.UUID, allowAny bool) (*RequestDTO, error) {
	req, err := s.requestRepo.FindByID(ctx, tenantID, requestID)
	if err != nil {
		return nil, err
	}
	if !allowAny && req.UserID != requesterID {
		return nil, shared.ErrNotFound
	}

	dto := ToRequestDTO(req)
	return &dto, nil
}

// ListMine returns a page of the requester's own requests
func (s *Service) ListMine(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[RequestDTO], error) {
	requests, total, err := s.requestRepo.FindByUser(ctx, tenantID, userID, filter)
	if err != nil {
		return nil, err
	}
	return paginate(requests, total, filter), nil
}

// ListPending returns the review queue: pending and processing requests
func (s *Service) ListPending(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[RequestDTO], error) {
	statuses := []leave.RequestStatus{leave.RequestStatusPending, leave.RequestStatusProcessing}
	requests, total, err := s.requestRepo.FindByStatus(ctx, tenantID, statuses, filter)
	if err != nil {
		return nil, err
	}
	return paginate(requests, total, filter), nil
}

// Balances returns one employee's balances for a cycle year. Balances
// for the standard allocated types are created on first read from the
// organization's settings.
func (s *Service) Balances(ctx context.Context, tenantID, userID uuid.UUID, cycleYear int) ([]BalanceDTO, error) {
	for _, t := range []leave.Type{leave.TypeAnnual, leave.TypeSick, leave.TypeCasual} {
		if _, err := s.ensureBalance(ctx, tenantID, userID, t, cycleYear); err != nil {
			return nil, err
		}
	}

	balances, err := s.balanceRepo.FindByUserAndYear(ctx, tenantID, userID, cycleYear)
	if err != nil {
		return nil, err
	}

	dtos := make([]BalanceDTO, len(balances))
	for i := range balances {
		dtos[i] = ToBalanceDTO(&balances[i])
	}

	return dtos, nil
}

// AdjustBalance replaces the allocation of one balance (HR adjustment)
func (s *Service) AdjustBalance(ctx context.Context, input AdjustBalanceInput) (*BalanceDTO, error) {
	balance, err := s.ensureBalance(ctx, input.TenantID, input.UserID, leave.Type(input.Type), input.CycleYear)
	if err != nil {
		return nil, err
	}

	if err := balance.Adjust(input.Allocated); err != nil {
		return nil, err
	}

	if err := s.balanceRepo.Save(ctx, balance); err != nil {
		return nil, err
	}

	s.logger.Info("Leave balance adjusted",
		zap.String("user_id", input.UserID.String()),
		zap.String("type", input.Type),
		zap.String("allocated", input.Allocated.String()))

	dto := ToBalanceDTO(balance)
	return &dto, nil
}

// AttachmentUploadURL issues a presigned URL for uploading a supporting
// document to a request still before review
func (s *Service) AttachmentUploadURL(ctx context.Context, tenantID, requestID, userID uuid.UUID, contentType string) (*AttachmentUploadResult, error) {
	req, err := s.findOwned(ctx, tenantID, requestID, userID)
	if err != nil {
		return nil, err
	}
	if req.Status != leave.RequestStatusDraft && req.Status != leave.RequestStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Attachments can only be added before review")
	}

	key := fmt.Sprintf("leave/%s/%s/%s", tenantID, requestID, uuid.New())
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType, attachmentURLTTL)
	if err != nil {
		s.logger.Error("Failed to presign attachment upload", zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to generate upload URL")
	}

	return &AttachmentUploadResult{UploadURL: url, StorageKey: key, ExpiresAt: expiresAt}, nil
}

// ConfirmAttachment records an uploaded attachment key after verifying
// the object exists
func (s *Service) ConfirmAttachment(ctx context.Context, tenantID, requestID, userID uuid.UUID, storageKey string) (*RequestDTO, error) {
	req, err := s.findOwned(ctx, tenantID, requestID, userID)
	if err != nil {
		return nil, err
	}

	exists, err := s.storage.ObjectExists(ctx, storageKey)
	if err != nil {
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to verify upload")
	}
	if !exists {
		return nil, shared.NewDomainError("UPLOAD_NOT_FOUND", "No uploaded object found for this key")
	}

	if err := req.AddAttachment(storageKey); err != nil {
		return nil, err
	}
	if err := s.requestRepo.Save(ctx, req); err != nil {
		return nil, err
	}

	dto := ToRequestDTO(req)
	return &dto, nil
}

// AttachmentDownloadURL issues a presigned URL for one attachment of a
// request the requester may see
func (s *Service) AttachmentDownloadURL(ctx context.Context, tenantID, requestID, requesterID uuid.UUID, allowAny bool, storageKey string) (string, error) {
	req, err := s.requestRepo.FindByID(ctx, tenantID, requestID)
	if err != nil {
		return "", err
	}
	if !allowAny && req.UserID != requesterID {
		return "", shared.ErrNotFound
	}

	found := false
	for _, key := range req.AttachmentKeys {
		if key == storageKey {
			found = true
			break
		}
	}
	if !found {
		return "", shared.ErrNotFound
	}

	url, _, err := s.storage.GenerateDownloadURL(ctx, storageKey, attachmentURLTTL)
	if err != nil {
		s.logger.Error("Failed to presign attachment download", zap.Error(err))
		return "", shared.NewDomainError("STORAGE_ERROR", "Failed to generate download URL")
	}

	return url, nil
}

// ensureMayReview checks review scope: HR admins review anyone, managers
// only requests from employees reporting to them
func (s *Service) ensureMayReview(ctx context.Context, req *leave.Request, reviewerID uuid.UUID, reviewerRole string) error {
	if identity.Role(reviewerRole) == identity.RoleHRAdmin {
		return nil
	}

	employment, err := s.employmentRepo.FindByUserID(ctx, req.TenantID, req.UserID)
	if err != nil {
		if err == shared.ErrNotFound {
			return shared.NewDomainError("NOT_YOUR_REPORT", "Managers can only review requests from their own reports")
		}
		return err
	}
	if employment.ManagerID == nil || *employment.ManagerID != reviewerID {
		return shared.NewDomainError("NOT_YOUR_REPORT", "Managers can only review requests from their own reports")
	}
	return nil
}

// findOwned loads a request and verifies ownership
func (s *Service) findOwned(ctx context.Context, tenantID, requestID, userID uuid.UUID) (*leave.Request, error) {
	req, err := s.requestRepo.FindByID(ctx, tenantID, requestID)
	if err != nil {
		return nil, err
	}
	if req.UserID != userID {
		return nil, shared.ErrNotFound
	}
	return req, nil
}

// ensureBalance loads a balance, creating it from the organization's
// configured allocation when the employee has none yet for the year
func (s *Service) ensureBalance(ctx context.Context, tenantID, userID uuid.UUID, leaveType leave.Type, cycleYear int) (*leave.Balance, error) {
	balance, err := s.balanceRepo.FindByUserTypeYear(ctx, tenantID, userID, leaveType, cycleYear)
	if err == nil {
		return balance, nil
	}
	if err != shared.ErrNotFound {
		return nil, err
	}

	org, err := s.orgRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	allocated := decimal.Zero
	switch leaveType {
	case leave.TypeAnnual:
		allocated = decimal.NewFromInt(int64(org.Settings.AnnualLeaveDays))
	case leave.TypeSick:
		allocated = decimal.NewFromInt(int64(org.Settings.SickLeaveDays))
	case leave.TypeCasual:
		allocated = decimal.NewFromInt(int64(org.Settings.CasualLeaveDays))
	}

	balance, err = leave.NewBalance(tenantID, userID, leaveType, cycleYear, allocated)
	if err != nil {
		return nil, err
	}
	if err := s.balanceRepo.Save(ctx, balance); err != nil {
		return nil, err
	}

	return balance, nil
}

// releaseReserved frees the reserved days of a request leaving the queue
func (s *Service) releaseReserved(ctx context.Context, req *leave.Request) error {
	balance, err := s.balanceRepo.FindByUserTypeYear(ctx, req.TenantID, req.UserID, req.Type, req.StartDate.Year())
	if err != nil {
		return err
	}
	if err := balance.Release(req.WorkingDays); err != nil {
		return err
	}
	return s.balanceRepo.Save(ctx, balance)
}

func paginate(requests []leave.Request, total int64, filter shared.Filter) *shared.Paginated[RequestDTO] {
	dtos := make([]RequestDTO, len(requests))
	for i := range requests {
		dtos[i] = ToRequestDTO(&requests[i])
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
