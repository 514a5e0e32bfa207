package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hrm/backend/internal/domain/identity"
	"github.com/hrm/backend/internal/domain/shared"
)

// TeamService handles teams inside departments
type TeamService struct {
	teamRepo       identity.TeamRepository
	deptRepo       identity.DepartmentRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewTeamService creates a new team service
func NewTeamService(
	teamRepo identity.TeamRepository,
	deptRepo identity.DepartmentRepository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *TeamService {
	return &TeamService{
		teamRepo:       teamRepo,
		deptRepo:       deptRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Create creates a team inside a department
func (s *TeamService) Create(ctx context.Context, input CreateTeamInput) (*TeamDTO, error) {
	if _, err := s.deptRepo.FindByID(ctx, input.TenantID, input.DepartmentID); err != nil {
		return nil, shared.NewDomainError("DEPARTMENT_NOT_FOUND", "Department not found")
	}

	exists, err := s.teamRepo.ExistsByCode(ctx, input.TenantID, input.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("CODE_TAKEN", "A team with this code already exists")
	}

	team, err := identity.NewTeam(input.TenantID, input.DepartmentID, input.Code, input.Name)
	if err != nil {
		return nil, err
	}
	if input.Description != "" {
		team.SetDescription(input.Description)
	}
	if input.LeadID != nil {
		team.SetLead(input.LeadID)
	}

	if err := s.teamRepo.Save(ctx, team); err != nil {
		return nil, err
	}

	publishEvents(ctx, s.eventPublisher, s.logger, team.GetDomainEvents())
	team.ClearDomainEvents()

	s.logger.Info("Team created",
		zap.String("team_id", team.ID.String()),
		zap.String("code", team.Code))

	dto := ToTeamDTO(team)
	return &dto, nil
}

// Get retrieves a team by ID
func (s *TeamService) Get(ctx context.Context, tenantID, id uuid.UUID) (*TeamDTO, error) {
	team, err := s.teamRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	dto := ToTeamDTO(team)
	return &dto, nil
}

// List returns a page of teams
func (s *TeamService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[TeamDTO], error) {
	teams, total, err := s.teamRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]TeamDTO, len(teams))
	for i := range teams {
		dtos[i] = ToTeamDTO(&teams[i])
	}

	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// ListByDepartment returns the teams of one department
func (s *TeamService) ListByDepartment(ctx context.Context, tenantID, departmentID uuid.UUID) ([]TeamDTO, error) {
	teams, err := s.teamRepo.FindByDepartment(ctx, tenantID, departmentID)
	if err != nil {
		return nil, err
	}

	dtos := make([]TeamDTO, len(teams))
	for i := range teams {
		dtos[i] = ToTeamDTO(&teams[i])
	}

	return dtos, nil
}

// Update changes a team's details or moves it to another department
func (s *TeamService) Update(ctx context.Context, input UpdateTeamInput) (*TeamDTO, error) {
	team, err := s.teamRepo.FindByID(ctx, input.TenantID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := team.SetName(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.Description != nil {
		team.SetDescription(*input.Description)
	}
	if input.DepartmentID != nil && *input.DepartmentID != team.DepartmentID {
		if _, err := s.deptRepo.FindByID(ctx, input.TenantID, *input.DepartmentID); err != nil {
			return nil, shared.NewDomainError("DEPARTMENT_NOT_FOUND", "Department not found")
		}
		if err := team.MoveToDepartment(*input.DepartmentID); err != nil {
			return nil, err
		}
	}
	if input.ClearLead {
		team.SetLead(nil)
	} else if input.LeadID != nil {
		team.SetLead(input.LeadID)
	}

	if err := s.teamRepo.Save(ctx, team); err != nil {
		return nil, err
	}

	dto := ToTeamDTO(team)
	return &dto, nil
}

// Delete removes a team
func (s *TeamService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.teamRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	s.logger.Info("Team deleted", zap.String("team_id", id.String()))

	return nil
}
