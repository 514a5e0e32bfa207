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

// MockTeamRepository is a mock implementation of identity.TeamRepository
type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.Team, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Team), args.Error(1)
}

func (m *MockTeamRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*identity.Team, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Team), args.Error(1)
}

func (m *MockTeamRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.Team, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]identity.Team), args.Get(1).(int64), args.Error(2)
}

func (m *MockTeamRepository) FindByDepartment(ctx context.Context, tenantID, departmentID uuid.UUID) ([]identity.Team, error) {
	args := m.Called(ctx, tenantID, departmentID)
	return args.Get(0).([]identity.Team), args.Error(1)
}

func (m *MockTeamRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockTeamRepository) Save(ctx context.Context, team *identity.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *MockTeamRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func createTeamService() (*TeamService, *MockTeamRepository, *MockDepartmentRepository, *MockEventPublisher) {
	teamRepo := new(MockTeamRepository)
	deptRepo := new(MockDepartmentRepository)
	publisher := new(MockEventPublisher)
	svc := NewTeamService(teamRepo, deptRepo, publisher, zap.NewNop())
	return svc, teamRepo, deptRepo, publisher
}

func createTestTeam(tenantID, departmentID uuid.UUID) *identity.Team {
	team, err := identity.NewTeam(tenantID, departmentID, "CORE", "Core Platform")
	if err != nil {
		panic(err)
	}
	team.ClearDomainEvents()
	return team
}

func TestTeamService_Create_Success(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, teamRepo, deptRepo, publisher := createTeamService()

	dept := createTestDepartment(tenantID, "ENG", "Engineering")

	deptRepo.On("FindByID", ctx, tenantID, dept.ID).Return(dept, nil)
	teamRepo.On("ExistsByCode", ctx, tenantID, "CORE").Return(false, nil)
	teamRepo.On("Save", ctx, mock.Anything).Return(nil)
	publisher.On("Publish", ctx, mock.Anything).Return(nil)

	dto, err := svc.Create(ctx, CreateTeamInput{
		TenantID:     tenantID,
		DepartmentID: dept.ID,
		Code:         "CORE",
		Name:         "Core Platform",
	})

	require.NoError(t, err)
	assert.Equal(t, "CORE", dto.Code)
	assert.Equal(t, dept.ID, dto.DepartmentID)
	teamRepo.AssertExpectations(t)
}

func TestTeamService_Create_DepartmentNotFound(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	deptID := uuid.New()
	svc, teamRepo, deptRepo, _ := createTeamService()

	deptRepo.On("FindByID", ctx, tenantID, deptID).Return(nil, shared.ErrNotFound)

	_, err := svc.Create(ctx, CreateTeamInput{
		TenantID:     tenantID,
		DepartmentID: deptID,
		Code:         "CORE",
		Name:         "Core Platform",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "DEPARTMENT_NOT_FOUND", domainErr.Code)
	teamRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestTeamService_Create_CodeTaken(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, teamRepo, deptRepo, _ := createTeamService()

	dept := createTestDepartment(tenantID, "ENG", "Engineering")

	deptRepo.On("FindByID", ctx, tenantID, dept.ID).Return(dept, nil)
	teamRepo.On("ExistsByCode", ctx, tenantID, "CORE").Return(true, nil)

	_, err := svc.Create(ctx, CreateTeamInput{
		TenantID:     tenantID,
		DepartmentID: dept.ID,
		Code:         "CORE",
		Name:         "Core Platform",
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "CODE_TAKEN", domainErr.Code)
}

func TestTeamService_Update_MovesToAnotherDepartment(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, teamRepo, deptRepo, _ := createTeamService()

	oldDept := createTestDepartment(tenantID, "ENG", "Engineering")
	newDept := createTestDepartment(tenantID, "OPS", "Operations")
	team := createTestTeam(tenantID, oldDept.ID)

	teamRepo.On("FindByID", ctx, tenantID, team.ID).Return(team, nil)
	deptRepo.On("FindByID", ctx, tenantID, newDept.ID).Return(newDept, nil)
	teamRepo.On("Save", ctx, team).Return(nil)

	dto, err := svc.Update(ctx, UpdateTeamInput{
		TenantID:     tenantID,
		ID:           team.ID,
		DepartmentID: &newDept.ID,
	})

	require.NoError(t, err)
	assert.Equal(t, newDept.ID, dto.DepartmentID)
}

func TestTeamService_Update_TargetDepartmentMissing(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	missingDeptID := uuid.New()
	svc, teamRepo, deptRepo, _ := createTeamService()

	team := createTestTeam(tenantID, uuid.New())

	teamRepo.On("FindByID", ctx, tenantID, team.ID).Return(team, nil)
	deptRepo.On("FindByID", ctx, tenantID, missingDeptID).Return(nil, shared.ErrNotFound)

	_, err := svc.Update(ctx, UpdateTeamInput{
		TenantID:     tenantID,
		ID:           team.ID,
		DepartmentID: &missingDeptID,
	})

	require.Error(t, err)
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "DEPARTMENT_NOT_FOUND", domainErr.Code)
	teamRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestTeamService_Update_ClearsLead(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, teamRepo, _, _ := createTeamService()

	team := createTestTeam(tenantID, uuid.New())
	leadID := uuid.New()
	team.SetLead(&leadID)

	teamRepo.On("FindByID", ctx, tenantID, team.ID).Return(team, nil)
	teamRepo.On("Save", ctx, team).Return(nil)

	dto, err := svc.Update(ctx, UpdateTeamInput{
		TenantID:  tenantID,
		ID:        team.ID,
		ClearLead: true,
	})

	require.NoError(t, err)
	assert.Nil(t, dto.LeadID)
}

func TestTeamService_ListByDepartment(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	deptID := uuid.New()
	svc, teamRepo, _, _ := createTeamService()

	team := createTestTeam(tenantID, deptID)

	teamRepo.On("FindByDepartment", ctx, tenantID, deptID).Return([]identity.Team{*team}, nil)

	dtos, err := svc.ListByDepartment(ctx, tenantID, deptID)

	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, "CORE", dtos[0].Code)
}
