package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hrm/backend/internal/domain/identity"
	"github.com/hrm/backend/internal/domain/shared"
)

// recordingTransactionManager runs the callback inline while recording
// whether a transaction is open, so tests can assert which writes run
// inside it
type recordingTransactionManager struct {
	calls int
	inTx  bool
}

func (m *recordingTransactionManager) Transact(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	m.inTx = true
	defer func() { m.inTx = false }()
	return fn(ctx)
}

func createOrganizationService() (*OrganizationService, *MockOrganizationRepository, *MockUserRepository, *MockEventPublisher) {
	orgRepo := new(MockOrganizationRepository)
	userRepo := new(MockUserRepository)
	publisher := new(MockEventPublisher)
	svc := NewOrganizationService(orgRepo, userRepo, new(recordingTransactionManager), publisher, zap.NewNop())
	return svc, orgRepo, userRepo, publisher
}

func TestOrganizationService_Register_AdminSaveFailureAborts(t *testing.T) {
	ctx := context.Background()
	orgRepo := new(MockOrganizationRepository)
	userRepo := new(MockUserRepository)
	tx := new(recordingTransactionManager)
	svc := NewOrganizationService(orgRepo, userRepo, tx, new(MockEventPublisher), zap.NewNop())

	orgRepo.On("ExistsBySlug", ctx, "acme").Return(false, nil)
	orgRepo.On("Save", ctx, mock.Anything).Return(nil).Run(func(mock.Arguments) {
		assert.True(t, tx.inTx, "organization save must run inside the transaction")
	})
	userRepo.On("Save", ctx, mock.Anything).Return(errors.New("connection reset"))

	_, err := svc.Register(ctx, RegisterOrganizationInput{
		Slug:          "acme",
		Name:          "Acme Inc",
		AdminEmail:    "admin@acme.test",
		AdminPassword: "Password123",
	})

	// The error surfaces from inside the transaction, so the organization
	// row rolls back with the failed admin save
	require.Error(t, err)
	assert.Equal(t, 1, tx.calls)
}

func TestOrganizationService_Register_Success(t *testing.T) {
	ctx := context.Background()
	svc, orgRepo, userRepo, publisher := createOrganizationService()

	orgRepo.On("ExistsBySlug", ctx, "acme").Return(false, nil)
	orgRepo.On("Save", ctx, mock.Anything).Return(nil)
	userRepo.On("Save", ctx, mock.Anything).Return(nil)
	publisher.On("Publish", ctx, mock.Anything).Return(nil)

	result, err := svc.Register(ctx, RegisterOrganizationInput{
		Slug:          "acme",
		Name:          "Acme Inc",
		AdminEmail:    "admin@acme.test",
		AdminPassword: "Password123",
		AdminName:     "First Admin",
	})

	require.NoError(t, err)
	assert.Equal(t, "acme", result.Organization.Slug)
	assert.Equal(t, "Acme Inc", result.Organization.Name)
	assert.Equal(t, "admin@acme.test", result.Admin.Email)
	assert.Equal(t, string(identity.RoleHRAdmin), result.Admin.Role)
	assert.Equal(t, string(identity.UserStatusActive), result.Admin.Status)
	assert.Equal(t, result.Organization.ID, result.Admin.TenantID)
	orgRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestOrganizationService_Register_SlugTaken(t *testing.T) {
	ctx := context.Background()
	svc, orgRepo, userRepo, _ := createOrganizationService()

	orgRepo.On("ExistsBySlug", ctx, "acme").Return(true, nil)

	_, err := svc.Register(ctx, RegisterOrganizationInput{
		Slug:          "acme",
		Name:          "Acme Inc",
		AdminEmail:    "admin@acme.test",
		AdminPassword: "Password123",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "SLUG_TAKEN", domainErr.Code)
	orgRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestOrganizationService_Register_InvalidSlug(t *testing.T) {
	ctx := context.Background()
	svc, orgRepo, _, _ := createOrganizationService()

	orgRepo.On("ExistsBySlug", ctx, "Bad Slug!").Return(false, nil)

	_, err := svc.Register(ctx, RegisterOrganizationInput{
		Slug:          "Bad Slug!",
		Name:          "Acme Inc",
		AdminEmail:    "admin@acme.test",
		AdminPassword: "Password123",
	})

	require.Error(t, err)
	orgRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestOrganizationService_Update_ContactDetails(t *testing.T) {
	ctx := context.Background()
	svc, orgRepo, _, _ := createOrganizationService()

	org := createTestOrganization()
	contactName := "Office Manager"
	contactEmail := "office@acme.test"

	orgRepo.On("FindByID", ctx, org.ID).Return(org, nil)
	orgRepo.On("Save", ctx, org).Return(nil)

	dto, err := svc.Update(ctx, UpdateOrganizationInput{
		ID:           org.ID,
		ContactName:  &contactName,
		ContactEmail: &contactEmail,
	})

	require.NoError(t, err)
	assert.Equal(t, "Office Manager", dto.ContactName)
	assert.Equal(t, "office@acme.test", dto.ContactEmail)
}

func TestOrganizationService_UpdateSettings_Success(t *testing.T) {
	ctx := context.Background()
	svc, orgRepo, _, publisher := createOrganizationService()

	org := createTestOrganization()
	settings := identity.DefaultOrganizationSettings()
	settings.WorkDaySeconds = 7 * 3600
	settings.LateThresholdMinutes = 30
	settings.AnnualLeaveDays = 25

	orgRepo.On("FindByID", ctx, org.ID).Return(org, nil)
	orgRepo.On("Save", ctx, org).Return(nil)
	publisher.On("Publish", ctx, mock.Anything).Return(nil)

	dto, err := svc.UpdateSettings(ctx, org.ID, settings)

	require.NoError(t, err)
	assert.Equal(t, 7*3600, dto.Settings.WorkDaySeconds)
	assert.Equal(t, 25, dto.Settings.AnnualLeaveDays)
}

func TestOrganizationService_UpdateSettings_InvalidWorkDay(t *testing.T) {
	ctx := context.Background()
	svc, orgRepo, _, _ := createOrganizationService()

	org := createTestOrganization()
	settings := identity.DefaultOrganizationSettings()
	settings.WorkDaySeconds = 0

	orgRepo.On("FindByID", ctx, org.ID).Return(org, nil)

	_, err := svc.UpdateSettings(ctx, org.ID, settings)

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "INVALID_SETTINGS", domainErr.Code)
	orgRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestOrganizationService_GetSettings_ReturnsDefaults(t *testing.T) {
	ctx := context.Background()
	svc, orgRepo, _, _ := createOrganizationService()

	org := createTestOrganization()

	orgRepo.On("FindByID", ctx, org.ID).Return(org, nil)

	settings, err := svc.GetSettings(ctx, org.ID)

	require.NoError(t, err)
	assert.Equal(t, 28800, settings.WorkDaySeconds)
	assert.Equal(t, "09:00", settings.WorkStartTime)
	assert.Equal(t, 20, settings.AnnualLeaveDays)
	assert.Equal(t, "USD", settings.Currency)
}
