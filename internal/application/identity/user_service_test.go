package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hrm/backend/internal/domain/identity"
	"github.com/hrm/backend/internal/domain/shared"
)

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func createUserService() (*UserService, *MockUserRepository, *MockEventPublisher) {
	userRepo := new(MockUserRepository)
	publisher := new(MockEventPublisher)
	svc := NewUserService(userRepo, publisher, zap.NewNop())
	return svc, userRepo, publisher
}

func TestUserService_Create_Success(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, userRepo, publisher := createUserService()

	userRepo.On("ExistsByEmail", ctx, tenantID, "new@acme.test").Return(false, nil)
	userRepo.On("Save", ctx, mock.Anything).Return(nil)
	publisher.On("Publish", ctx, mock.Anything).Return(nil)

	dto, err := svc.Create(ctx, CreateUserInput{
		TenantID:    tenantID,
		Email:       "new@acme.test",
		Password:    "Password123",
		DisplayName: "New Person",
		Role:        string(identity.RoleEmployee),
		Activate:    true,
	})

	require.NoError(t, err)
	assert.Equal(t, "new@acme.test", dto.Email)
	assert.Equal(t, "New Person", dto.DisplayName)
	assert.Equal(t, string(identity.UserStatusActive), dto.Status)
	userRepo.AssertExpectations(t)
}

func TestUserService_Create_PendingByDefault(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, userRepo, publisher := createUserService()

	userRepo.On("ExistsByEmail", ctx, tenantID, "new@acme.test").Return(false, nil)
	userRepo.On("Save", ctx, mock.Anything).Return(nil)
	publisher.On("Publish", ctx, mock.Anything).Return(nil)

	dto, err := svc.Create(ctx, CreateUserInput{
		TenantID: tenantID,
		Email:    "new@acme.test",
		Password: "Password123",
		Role:     string(identity.RoleEmployee),
	})

	require.NoError(t, err)
	assert.Equal(t, string(identity.UserStatusPending), dto.Status)
}

func TestUserService_Create_EmailTaken(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, userRepo, _ := createUserService()

	userRepo.On("ExistsByEmail", ctx, tenantID, "taken@acme.test").Return(true, nil)

	_, err := svc.Create(ctx, CreateUserInput{
		TenantID: tenantID,
		Email:    "taken@acme.test",
		Password: "Password123",
		Role:     string(identity.RoleEmployee),
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "EMAIL_TAKEN", domainErr.Code)
	userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUserService_Update_EmailTaken(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, userRepo, _ := createUserService()

	user := createTestUser(tenantID)
	newEmail := "other@acme.test"

	userRepo.On("FindByID", ctx, tenantID, user.ID).Return(user, nil)
	userRepo.On("ExistsByEmail", ctx, tenantID, newEmail).Return(true, nil)

	_, err := svc.Update(ctx, UpdateUserInput{TenantID: tenantID, ID: user.ID, Email: &newEmail})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "EMAIL_TAKEN", domainErr.Code)
	userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUserService_Update_ClearsDepartment(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, userRepo, _ := createUserService()

	user := createTestUser(tenantID)
	deptID := uuid.New()
	user.SetDepartment(&deptID)

	userRepo.On("FindByID", ctx, tenantID, user.ID).Return(user, nil)
	userRepo.On("Save", ctx, user).Return(nil)

	dto, err := svc.Update(ctx, UpdateUserInput{TenantID: tenantID, ID: user.ID, ClearDept: true})

	require.NoError(t, err)
	assert.Nil(t, dto.DepartmentID)
	assert.Nil(t, user.DepartmentID)
}

func TestUserService_ChangeRole_Success(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, userRepo, publisher := createUserService()

	user := createTestUser(tenantID)

	userRepo.On("FindByID", ctx, tenantID, user.ID).Return(user, nil)
	userRepo.On("Save", ctx, user).Return(nil)
	publisher.On("Publish", ctx, mock.Anything).Return(nil)

	dto, err := svc.ChangeRole(ctx, tenantID, user.ID, string(identity.RoleManager))

	require.NoError(t, err)
	assert.Equal(t, string(identity.RoleManager), dto.Role)
	userRepo.AssertNotCalled(t, "CountByRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestUserService_ChangeRole_LastAdminProtected(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, userRepo, _ := createUserService()

	admin, err := identity.NewActiveUser(tenantID, "admin@acme.test", "Password123", identity.RoleHRAdmin)
	require.NoError(t, err)
	admin.ClearDomainEvents()

	userRepo.On("FindByID", ctx, tenantID, admin.ID).Return(admin, nil)
	userRepo.On("CountByRole", ctx, tenantID, identity.RoleHRAdmin).Return(int64(1), nil)

	_, err = svc.ChangeRole(ctx, tenantID, admin.ID, string(identity.RoleEmployee))

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "LAST_ADMIN", domainErr.Code)
	assert.Equal(t, identity.RoleHRAdmin, admin.Role)
	userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUserService_ChangeRole_DemotesAdminWhenOthersRemain(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, userRepo, publisher := createUserService()

	admin, err := identity.NewActiveUser(tenantID, "admin@acme.test", "Password123", identity.RoleHRAdmin)
	require.NoError(t, err)
	admin.ClearDomainEvents()

	userRepo.On("FindByID", ctx, tenantID, admin.ID).Return(admin, nil)
	userRepo.On("CountByRole", ctx, tenantID, identity.RoleHRAdmin).Return(int64(2), nil)
	userRepo.On("Save", ctx, admin).Return(nil)
	publisher.On("Publish", ctx, mock.Anything).Return(nil)

	dto, err := svc.ChangeRole(ctx, tenantID, admin.ID, string(identity.RoleEmployee))

	require.NoError(t, err)
	assert.Equal(t, string(identity.RoleEmployee), dto.Role)
}

func TestUserService_Activate_AlreadyActive(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, userRepo, _ := createUserService()

	user := createTestUser(tenantID)

	userRepo.On("FindByID", ctx, tenantID, user.ID).Return(user, nil)

	err := svc.Activate(ctx, tenantID, user.ID)

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "ALREADY_ACTIVE", domainErr.Code)
	userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUserService_Deactivate_Success(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, userRepo, publisher := createUserService()

	user := createTestUser(tenantID)

	userRepo.On("FindByID", ctx, tenantID, user.ID).Return(user, nil)
	userRepo.On("Save", ctx, user).Return(nil)
	publisher.On("Publish", ctx, mock.Anything).Return(nil)

	err := svc.Deactivate(ctx, tenantID, user.ID)

	require.NoError(t, err)
	assert.True(t, user.IsDeactivated())
}

func TestUserService_ResetPassword_ForcesChangeAtNextLogin(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, userRepo, publisher := createUserService()

	user := createTestUser(tenantID)

	userRepo.On("FindByID", ctx, tenantID, user.ID).Return(user, nil)
	userRepo.On("Save", ctx, user).Return(nil)
	publisher.On("Publish", ctx, mock.Anything).Return(nil)

	err := svc.ResetPassword(ctx, ResetPasswordInput{
		TenantID:    tenantID,
		UserID:      user.ID,
		NewPassword: "TempPassword789",
	})

	require.NoError(t, err)
	assert.True(t, user.VerifyPassword("TempPassword789"))
	assert.True(t, user.MustChangePassword)
}

func TestUserService_ResetPassword_WeakPasswordRejected(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, userRepo, _ := createUserService()

	user := createTestUser(tenantID)

	userRepo.On("FindByID", ctx, tenantID, user.ID).Return(user, nil)

	err := svc.ResetPassword(ctx, ResetPasswordInput{
		TenantID:    tenantID,
		UserID:      user.ID,
		NewPassword: "short",
	})

	require.Error(t, err)
	userRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUserService_List(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, userRepo, _ := createUserService()

	user := createTestUser(tenantID)
	filter := shared.DefaultFilter()

	userRepo.On("FindAll", ctx, tenantID, filter).Return([]identity.User{*user}, int64(1), nil)

	result, err := svc.List(ctx, tenantID, filter)

	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, int64(1), result.Total)
	assert.Equal(t, "test@acme.test", result.Items[0].Email)
}
