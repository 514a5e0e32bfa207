package identity

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hrm/backend/internal/domain/identity"
	"github.com/hrm/backend/internal/domain/shared"
)

// OrganizationService handles organization registration and settings
type OrganizationService struct {
	orgRepo        identity.OrganizationRepository
	userRepo       identity.UserRepository
	tx             shared.TransactionManager
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewOrganizationService creates a new organization service
func NewOrganizationService(
	orgRepo identity.OrganizationRepository,
	userRepo identity.UserRepository,
	tx shared.TransactionManager,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *OrganizationService {
	return &OrganizationService{
		orgRepo:        orgRepo,
		userRepo:       userRepo,
		tx:             tx,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Register creates a new organization together with its first HR
// administrator account. The admin is active immediately.
func (s *OrganizationService) Register(ctx context.Context, input RegisterOrganizationInput) (*RegisterOrganizationResult, error) {
	exists, err := s.orgRepo.ExistsBySlug(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("SLUG_TAKEN", "An organization with this slug already exists")
	}

	org, err := identity.NewOrganization(input.Slug, input.Name)
	if err != nil {
		return nil, err
	}

	admin, err := identity.NewActiveUser(org.ID, input.AdminEmail, input.AdminPassword, identity.RoleHRAdmin)
	if err != nil {
		return nil, err
	}
	if input.AdminName != "" {
		if err := admin.SetDisplayName(input.AdminName); err != nil {
			return nil, err
		}
	}

	// The organization and its first admin commit together; a tenant
	// without an admin could never be logged into
	err = s.tx.Transact(ctx, func(ctx context.Context) error {
		if err := s.orgRepo.Save(ctx, org); err != nil {
			s.logger.Error("Failed to save organization", zap.Error(err))
			return err
		}
		if err := s.userRepo.Save(ctx, admin); err != nil {
			s.logger.Error("Failed to save admin user", zap.Error(err))
			return err
		}
		publishEvents(ctx, s.eventPublisher, s.logger, org.GetDomainEvents())
		publishEvents(ctx, s.eventPublisher, s.logger, admin.GetDomainEvents())
		return nil
	})
	if err != nil {
		return nil, err
	}
	org.ClearDomainEvents()
	admin.ClearDomainEvents()

	s.logger.Info("Organization registered",
		zap.String("org_id", org.ID.String()),
		zap.String("slug", org.Slug))

	return &RegisterOrganizationResult{
		Organization: ToOrganizationDTO(org),
		Admin:        ToUserDTO(admin),
	}, nil
}

// Get retrieves an organization by ID
func (s *OrganizationService) Get(ctx context.Context, id uuid.UUID) (*OrganizationDTO, error) {
	org, err := s.orgRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := ToOrganizationDTO(org)
	return &dto, nil
}

// Update changes the organization's display details
func (s *OrganizationService) Update(ctx context.Context, input UpdateOrganizationInput) (*OrganizationDTO, error) {
	org, err := s.orgRepo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := org.Update(*input.Name); err != nil {
			return nil, err
		}
	}
	if input.ContactName != nil || input.ContactPhone != nil || input.ContactEmail != nil {
		name, phone, email := org.ContactName, org.ContactPhone, org.ContactEmail
		if input.ContactName != nil {
			name = *input.ContactName
		}
		if input.ContactPhone != nil {
			phone = *input.ContactPhone
		}
		if input.ContactEmail != nil {
			email = *input.ContactEmail
		}
		if err := org.SetContact(name, phone, email); err != nil {
			return nil, err
		}
	}
	if input.Address != nil {
		if err := org.SetAddress(*input.Address); err != nil {
			return nil, err
		}
	}
	if input.LogoURL != nil {
		if err := org.SetLogoURL(*input.LogoURL); err != nil {
			return nil, err
		}
	}
	if input.Notes != nil {
		org.SetNotes(*input.Notes)
	}

	if err := s.orgRepo.Save(ctx, org); err != nil {
		return nil, err
	}

	dto := ToOrganizationDTO(org)
	return &dto, nil
}

// UpdateSettings replaces the organization's HR policy settings
func (s *OrganizationService) UpdateSettings(ctx context.Context, id uuid.UUID, settings identity.OrganizationSettings) (*OrganizationDTO, error) {
	org, err := s.orgRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := org.UpdateSettings(settings); err != nil {
		return nil, err
	}

	if err := s.orgRepo.Save(ctx, org); err != nil {
		return nil, err
	}

	publishEvents(ctx, s.eventPublisher, s.logger, org.GetDomainEvents())
	org.ClearDomainEvents()

	s.logger.Info("Organization settings updated", zap.String("org_id", id.String()))

	dto := ToOrganizationDTO(org)
	return &dto, nil
}

// GetSettings returns the organization's HR policy settings
func (s *OrganizationService) GetSettings(ctx context.Context, id uuid.UUID) (*identity.OrganizationSettings, error) {
	org, err := s.orgRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	settings := org.Settings
	return &settings, nil
}
