package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hrm/backend/internal/domain/identity"
	"github.com/hrm/backend/internal/domain/shared"
)

// UserService handles user account management
type UserService struct {
	userRepo       identity.UserRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	userRepo identity.UserRepository,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:       userRepo,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Create creates a new user account
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, input.TenantID, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "A user with this email already exists")
	}

	var user *identity.User
	if input.Activate {
		user, err = identity.NewActiveUser(input.TenantID, input.Email, input.Password, identity.Role(input.Role))
	} else {
		user, err = identity.NewUser(input.TenantID, input.Email, input.Password, identity.Role(input.Role))
	}
	if err != nil {
		return nil, err
	}

	if input.DisplayName != "" {
		if err := user.SetDisplayName(input.DisplayName); err != nil {
			return nil, err
		}
	}
	if input.DepartmentID != nil {
		user.SetDepartment(input.DepartmentID)
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to save user", zap.Error(err))
		return nil, err
	}

	s.publishEvents(ctx, user.GetDomainEvents())
	user.ClearDomainEvents()

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	dto := ToUserDTO(user)
	return &dto, nil
}

// Get retrieves a user by ID
func (s *UserService) Get(ctx context.Context, tenantID, id uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	dto := ToUserDTO(user)
	return &dto, nil
}

// List returns a page of users
func (s *UserService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[UserDTO], error) {
	users, total, err := s.userRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	dtos := make([]UserDTO, len(users))
	for i := range users {
		dtos[i] = ToUserDTO(&users[i])
	}

	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update changes a user's email, display name, or department
func (s *UserService) Update(ctx context.Context, input UpdateUserInput) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, input.TenantID, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil && *input.Email != user.Email {
		exists, err := s.userRepo.ExistsByEmail(ctx, input.TenantID, *input.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("EMAIL_TAKEN", "A user with this email already exists")
		}
		if err := user.SetEmail(*input.Email); err != nil {
			return nil, err
		}
	}
	if input.DisplayName != nil {
		if err := user.SetDisplayName(*input.DisplayName); err != nil {
			return nil, err
		}
	}
	if input.ClearDept {
		user.SetDepartment(nil)
	} else if input.DepartmentID != nil {
		user.SetDepartment(input.DepartmentID)
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	dto := ToUserDTO(user)
	return &dto, nil
}

// ChangeRole changes a user's role
func (s *UserService) ChangeRole(ctx context.Context, tenantID, id uuid.UUID, role string) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if user.IsHRAdmin() && identity.Role(role) != identity.RoleHRAdmin {
		count, err := s.userRepo.CountByRole(ctx, tenantID, identity.RoleHRAdmin)
		if err != nil {
			return nil, err
		}
		if count <= 1 {
			return nil, shared.NewDomainError("LAST_ADMIN", "Cannot demote the last HR administrator")
		}
	}

	if err := user.ChangeRole(identity.Role(role)); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, user.GetDomainEvents())
	user.ClearDomainEvents()

	dto := ToUserDTO(user)
	return &dto, nil
}

// Activate activates a pending or locked user
func (s *UserService) Activate(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.transition(ctx, tenantID, id, func(u *identity.User) error { return u.Activate() })
}

// Deactivate deactivates a user
func (s *UserService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.transition(ctx, tenantID, id, func(u *identity.User) error { return u.Deactivate() })
}

// Unlock unlocks a locked user
func (s *UserService) Unlock(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.transition(ctx, tenantID, id, func(u *identity.User) error { return u.Unlock() })
}

// ResetPassword sets a new password on behalf of a user and forces a
// change at the next login
func (s *UserService) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, input.TenantID, input.UserID)
	if err != nil {
		return err
	}

	if err := user.SetPassword(input.NewPassword); err != nil {
		return err
	}
	user.ForcePasswordChange()

	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	s.publishEvents(ctx, user.GetDomainEvents())
	user.ClearDomainEvents()

	s.logger.Info("User password reset", zap.String("user_id", input.UserID.String()))

	return nil
}

func (s *UserService) transition(ctx context.Context, tenantID, id uuid.UUID, fn func(*identity.User) error) error {
	user, err := s.userRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := fn(user); err != nil {
		return err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}

	s.publishEvents(ctx, user.GetDomainEvents())
	user.ClearDomainEvents()

	return nil
}

func (s *UserService) publishEvents(ctx context.Context, events []shared.DomainEvent) {
	publishEvents(ctx, s.eventPublisher, s.logger, events)
}

// publishEvents hands domain events to the publisher, logging failures
// instead of failing the operation
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
