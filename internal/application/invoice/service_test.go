package invoice

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hrm/backend/internal/domain/hr"
	"github.com/hrm/backend/internal/domain/invoice"
	"github.com/hrm/backend/internal/domain/shared"
)

// MockInvoiceRepository is a mock implementation of invoice.Repository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*invoice.Invoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByUser(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) ([]invoice.Invoice, int64, error) {
	args := m.Called(ctx, tenantID, userID, filter)
	return args.Get(0).([]invoice.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) FindByUserAndPeriod(ctx context.Context, tenantID, userID uuid.UUID, year, month int) (*invoice.Invoice, error) {
	args := m.Called(ctx, tenantID, userID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]invoice.Invoice, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]invoice.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, inv *invoice.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

// MockUnlockTokenRepository is a mock implementation of invoice.UnlockTokenRepository
type MockUnlockTokenRepository struct {
	mock.Mock
}

func (m *MockUnlockTokenRepository) Save(ctx context.Context, token *invoice.UnlockToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

func (m *MockUnlockTokenRepository) FindByToken(ctx context.Context, tenantID uuid.UUID, token string) (*invoice.UnlockToken, error) {
	args := m.Called(ctx, tenantID, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*invoice.UnlockToken), args.Error(1)
}

func (m *MockUnlockTokenRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// MockEmploymentRepository is a mock implementation of hr.EmploymentRepository
type MockEmploymentRepository struct {
	mock.Mock
}

func (m *MockEmploymentRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*hr.Employment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hr.Employment), args.Error(1)
}

func (m *MockEmploymentRepository) FindByUserID(ctx context.Context, tenantID, userID uuid.UUID) (*hr.Employment, error) {
	args := m.Called(ctx, tenantID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hr.Employment), args.Error(1)
}

func (m *MockEmploymentRepository) FindByEmployeeCode(ctx context.Context, tenantID uuid.UUID, code string) (*hr.Employment, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hr.Employment), args.Error(1)
}

func (m *MockEmploymentRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]hr.Employment, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]hr.Employment), args.Get(1).(int64), args.Error(2)
}

func (m *MockEmploymentRepository) FindByManager(ctx context.Context, tenantID, managerID uuid.UUID) ([]hr.Employment, error) {
	args := m.Called(ctx, tenantID, managerID)
	return args.Get(0).([]hr.Employment), args.Error(1)
}

func (m *MockEmploymentRepository) FindByDepartment(ctx context.Context, tenantID, departmentID uuid.UUID) ([]hr.Employment, error) {
	args := m.Called(ctx, tenantID, departmentID)
	return args.Get(0).([]hr.Employment), args.Error(1)
}

func (m *MockEmploymentRepository) ExistsByEmployeeCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockEmploymentRepository) Save(ctx context.Context, emp *hr.Employment) error {
	args := m.Called(ctx, emp)
	return args.Error(0)
}

func (m *MockEmploymentRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockEmploymentRepository) CountActive(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEmploymentRepository) CountByDepartment(ctx context.Context, tenantID, departmentID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, departmentID)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

type invoiceServiceMocks struct {
	invoiceRepo    *MockInvoiceRepository
	tokenRepo      *MockUnlockTokenRepository
	employmentRepo *MockEmploymentRepository
	publisher      *MockEventPublisher
}

func createInvoiceService() (*Service, *invoiceServiceMocks) {
	m := &invoiceServiceMocks{
		invoiceRepo:    new(MockInvoiceRepository),
		tokenRepo:      new(MockUnlockTokenRepository),
		employmentRepo: new(MockEmploymentRepository),
		publisher:      new(MockEventPublisher),
	}
	svc := NewService(m.invoiceRepo, m.tokenRepo, m.employmentRepo, m.publisher, DefaultServiceConfig(), zap.NewNop())
	return svc, m
}

func createTestEmployment(t *testing.T, tenantID, userID uuid.UUID, salary int64) *hr.Employment {
	t.Helper()
	emp, err := hr.NewEmployment(tenantID, userID, "EMP-001", "Engineer", hr.EmploymentTypeFullTime, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	emp.ClearDomainEvents()
	require.NoError(t, emp.UpdateCompensation(hr.Compensation{
		BaseSalary:   decimal.NewFromInt(salary),
		Currency:     "USD",
		PayFrequency: hr.PayFrequencyMonthly,
	}))
	return emp
}

func createDraftInvoice(t *testing.T, tenantID, userID uuid.UUID) *invoice.Invoice {
	t.Helper()
	inv, err := invoice.NewInvoice(tenantID, userID, 2025, 6, "USD")
	require.NoError(t, err)
	require.NoError(t, inv.ReplaceLines([]invoice.LineItem{{
		Description: "Base salary 2025-06",
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   decimal.NewFromInt(5000),
	}}))
	return inv
}

func createLockedInvoice(t *testing.T, tenantID, userID uuid.UUID, password string) *invoice.Invoice {
	t.Helper()
	inv := createDraftInvoice(t, tenantID, userID)
	require.NoError(t, inv.Lock(password))
	return inv
}

func TestInvoiceService_Generate_SeedsBaseSalaryLine(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()
	svc, m := createInvoiceService()

	emp := createTestEmployment(t, tenantID, userID, 5000)

	m.invoiceRepo.On("FindByUserAndPeriod", ctx, tenantID, userID, 2025, 6).Return(nil, shared.ErrNotFound)
	m.employmentRepo.On("FindByUserID", ctx, tenantID, userID).Return(emp, nil)
	m.invoiceRepo.On("Save", ctx, mock.Anything).Return(nil)

	dto, err := svc.Generate(ctx, GenerateInvoiceInput{
		TenantID:    tenantID,
		UserID:      userID,
		PeriodYear:  2025,
		PeriodMonth: 6,
	})

	require.NoError(t, err)
	assert.Equal(t, "draft", dto.Status)
	assert.Equal(t, "2025-06", dto.Period)
	require.Len(t, dto.Lines, 1)
	assert.Equal(t, "Base salary 2025-06", dto.Lines[0].Description)
	require.NotNil(t, dto.Total)
	assert.True(t, dto.Total.Equal(decimal.NewFromInt(5000)))
	m.invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_Generate_PeriodAlreadyBilled(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()
	svc, m := createInvoiceService()

	existing := createDraftInvoice(t, tenantID, userID)

	m.invoiceRepo.On("FindByUserAndPeriod", ctx, tenantID, userID, 2025, 6).Return(existing, nil)

	dto, err := svc.Generate(ctx, GenerateInvoiceInput{
		TenantID:    tenantID,
		UserID:      userID,
		PeriodYear:  2025,
		PeriodMonth: 6,
	})

	require.Error(t, err)
	assert.Nil(t, dto)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVOICE_EXISTS", domainErr.Code)
}

func TestInvoiceService_ReplaceLines_RecomputesAmounts(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()
	svc, m := createInvoiceService()

	inv := createDraftInvoice(t, tenantID, userID)

	m.invoiceRepo.On("FindByID", ctx, tenantID, inv.ID).Return(inv, nil)
	m.invoiceRepo.On("Save", ctx, inv).Return(nil)

	dto, err := svc.ReplaceLines(ctx, ReplaceLinesInput{
		TenantID:  tenantID,
		InvoiceID: inv.ID,
		Lines: []LineItemInput{
			{Description: "Base salary", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(5000)},
			{Description: "On-call allowance", Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(125)},
		},
	})

	require.NoError(t, err)
	require.Len(t, dto.Lines, 2)
	assert.True(t, dto.Lines[1].Amount.Equal(decimal.NewFromInt(500)))
	require.NotNil(t, dto.Total)
	assert.True(t, dto.Total.Equal(decimal.NewFromInt(5500)))
}

func TestInvoiceService_SubmitForReview_EmptyInvoiceRejected(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()
	svc, m := createInvoiceService()

	inv, err := invoice.NewInvoice(tenantID, userID, 2025, 6, "USD")
	require.NoError(t, err)

	m.invoiceRepo.On("FindByID", ctx, tenantID, inv.ID).Return(inv, nil)

	dto, err := svc.SubmitForReview(ctx, tenantID, inv.ID)

	require.Error(t, err)
	assert.Nil(t, dto)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestInvoiceService_MarkReady_PublishesEvent(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()
	svc, m := createInvoiceService()

	inv := createDraftInvoice(t, tenantID, userID)
	require.NoError(t, inv.SubmitForReview())

	m.invoiceRepo.On("FindByID", ctx, tenantID, inv.ID).Return(inv, nil)
	m.invoiceRepo.On("Save", ctx, inv).Return(nil)
	m.publisher.On("Publish", ctx, mock.Anything).Return(nil)

	dto, err := svc.MarkReady(ctx, tenantID, inv.ID)

	require.NoError(t, err)
	assert.Equal(t, "ready_to_deliver", dto.Status)
	m.publisher.AssertExpectations(t)
}

func TestInvoiceService_ExchangePassword_Success(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()
	svc, m := createInvoiceService()

	inv := createLockedInvoice(t, tenantID, userID, "secret-pass")

	m.invoiceRepo.On("FindByID", ctx, tenantID, inv.ID).Return(inv, nil)
	m.tokenRepo.On("Save", ctx, mock.Anything).Return(nil)

	result, err := svc.ExchangePassword(ctx, tenantID, inv.ID, userID, "secret-pass")

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.True(t, result.ExpiresAt.After(time.Now()))
	m.tokenRepo.AssertExpectations(t)
}

func TestInvoiceService_ExchangePassword_WrongPassword(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()
	svc, m := createInvoiceService()

	inv := createLockedInvoice(t, tenantID, userID, "secret-pass")

	m.invoiceRepo.On("FindByID", ctx, tenantID, inv.ID).Return(inv, nil)

	result, err := svc.ExchangePassword(ctx, tenantID, inv.ID, userID, "wrong")

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
}

func TestInvoiceService_ExchangePassword_UnlockedInvoiceRejected(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()
	svc, m := createInvoiceService()

	inv := createDraftInvoice(t, tenantID, userID)

	m.invoiceRepo.On("FindByID", ctx, tenantID, inv.ID).Return(inv, nil)

	// Same error as a wrong password so the response leaks nothing
	result, err := svc.ExchangePassword(ctx, tenantID, inv.ID, userID, "anything")

	require.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
}

func TestInvoiceService_Get_LockedInvoiceMasked(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()
	svc, m := createInvoiceService()

	inv := createLockedInvoice(t, tenantID, userID, "secret-pass")

	m.invoiceRepo.On("FindByID", ctx, tenantID, inv.ID).Return(inv, nil)

	dto, err := svc.Get(ctx, tenantID, inv.ID, userID, false, "")

	require.NoError(t, err)
	assert.True(t, dto.Masked)
	assert.Empty(t, dto.Lines)
	assert.Nil(t, dto.Total)
	assert.Empty(t, dto.Currency)
}

func TestInvoiceService_Get_ValidUnlockTokenRevealsInvoice(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()
	svc, m := createInvoiceService()

	inv := createLockedInvoice(t, tenantID, userID, "secret-pass")
	token, err := invoice.NewUnlockToken(tenantID, inv.ID, userID, 10*time.Minute)
	require.NoError(t, err)

	m.invoiceRepo.On("FindByID", ctx, tenantID, inv.ID).Return(inv, nil)
	m.tokenRepo.On("FindByToken", ctx, tenantID, token.Token).Return(token, nil)

	dto, err := svc.Get(ctx, tenantID, inv.ID, userID, false, token.Token)

	require.NoError(t, err)
	assert.False(t, dto.Masked)
	require.Len(t, dto.Lines, 1)
	require.NotNil(t, dto.Total)
	assert.True(t, dto.Total.Equal(decimal.NewFromInt(5000)))
}

func TestInvoiceService_Get_TokenForOtherInvoiceStaysMasked(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()
	svc, m := createInvoiceService()

	inv := createLockedInvoice(t, tenantID, userID, "secret-pass")
	token, err := invoice.NewUnlockToken(tenantID, uuid.New(), userID, 10*time.Minute)
	require.NoError(t, err)

	m.invoiceRepo.On("FindByID", ctx, tenantID, inv.ID).Return(inv, nil)
	m.tokenRepo.On("FindByToken", ctx, tenantID, token.Token).Return(token, nil)

	dto, err := svc.Get(ctx, tenantID, inv.ID, userID, false, token.Token)

	require.NoError(t, err)
	assert.True(t, dto.Masked)
}

func TestInvoiceService_Get_OtherUsersInvoiceHidden(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, m := createInvoiceService()

	inv := createDraftInvoice(t, tenantID, uuid.New())

	m.invoiceRepo.On("FindByID", ctx, tenantID, inv.ID).Return(inv, nil)

	dto, err := svc.Get(ctx, tenantID, inv.ID, uuid.New(), false, "")

	require.Error(t, err)
	assert.Nil(t, dto)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestInvoiceService_Delete_LockedInvoiceRejected(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()
	svc, m := createInvoiceService()

	inv := createLockedInvoice(t, tenantID, userID, "secret-pass")

	m.invoiceRepo.On("FindByID", ctx, tenantID, inv.ID).Return(inv, nil)

	err := svc.Delete(ctx, tenantID, inv.ID)

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "RESOURCE_LOCKED", domainErr.Code)
}

func TestInvoiceService_Delete_DraftSuccess(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()
	svc, m := createInvoiceService()

	inv := createDraftInvoice(t, tenantID, userID)

	m.invoiceRepo.On("FindByID", ctx, tenantID, inv.ID).Return(inv, nil)
	m.invoiceRepo.On("Delete", ctx, tenantID, inv.ID).Return(nil)

	err := svc.Delete(ctx, tenantID, inv.ID)

	require.NoError(t, err)
	m.invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_PurgeExpiredTokens(t *testing.T) {
	ctx := context.Background()
	svc, m := createInvoiceService()

	now := time.Now()
	m.tokenRepo.On("DeleteExpired", ctx, now).Return(int64(3), nil)

	purged, err := svc.PurgeExpiredTokens(ctx, now)

	require.NoError(t, err)
	assert.Equal(t, int64(3), purged)
	m.tokenRepo.AssertExpectations(t)
}

func TestInvoiceService_ListMine_LockedInvoicesMasked(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	userID := uuid.New()
	svc, m := createInvoiceService()

	open := createDraftInvoice(t, tenantID, userID)
	locked := createLockedInvoice(t, tenantID, userID, "secret-pass")
	filter := shared.DefaultFilter()

	m.invoiceRepo.On("FindByUser", ctx, tenantID, userID, filter).
		Return([]invoice.Invoice{*open, *locked}, int64(2), nil)

	page, err := svc.ListMine(ctx, tenantID, userID, filter)

	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.False(t, page.Items[0].Masked)
	assert.True(t, page.Items[1].Masked)
}
