package hr

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hrm/backend/internal/domain/hr"
	"github.com/hrm/backend/internal/domain/identity"
	"github.com/hrm/backend/internal/domain/shared"
)

// How long presigned photo upload/download URLs stay valid
const photoURLTTL = 15 * time.Minute

// EmployeeService handles the employee directory and onboarding. It
// coordinates the user account, the profile, and the employment record
// that together make up one employee.
type EmployeeService struct {
	userRepo       identity.UserRepository
	profileRepo    hr.ProfileRepository
	employmentRepo hr.EmploymentRepository
	storage        ObjectStorageService
	tx             shared.TransactionManager
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(
	userRepo identity.UserRepository,
	profileRepo hr.ProfileRepository,
	employmentRepo hr.EmploymentRepository,
	storage ObjectStorageService,
	tx shared.TransactionManager,
	eventPublisher shared.EventPublisher,
	logger *zap.Logger,
) *EmployeeService {
	return &EmployeeService{
		userRepo:       userRepo,
		profileRepo:    profileRepo,
		employmentRepo: employmentRepo,
		storage:        storage,
		tx:             tx,
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// Onboard creates the account, profile, and employment of a new employee.
// The account starts pending; it activates together with the employment
// when onboarding completes.
func (s *EmployeeService) Onboard(ctx context.Context, input OnboardEmployeeInput) (*EmployeeDTO, error) {
	emailTaken, err := s.userRepo.ExistsByEmail(ctx, input.TenantID, input.Email)
	if err != nil {
		return nil, err
	}
	if emailTaken {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "A user with this email already exists")
	}

	codeTaken, err := s.employmentRepo.ExistsByEmployeeCode(ctx, input.TenantID, input.EmployeeCode)
	if err != nil {
		return nil, err
	}
	if codeTaken {
		return nil, shared.NewDomainError("EMPLOYEE_CODE_TAKEN", "An employee with this code already exists")
	}

	role := identity.Role(input.Role)
	if role == "" {
		role = identity.RoleEmployee
	}
	user, err := identity.NewUser(input.TenantID, input.Email, input.Password, role)
	if err != nil {
		return nil, err
	}
	user.SetDepartment(input.DepartmentID)

	profile, err := hr.NewProfile(input.TenantID, user.ID, input.FirstName, input.LastName)
	if err != nil {
		return nil, err
	}
	if input.Phone != "" {
		if err := profile.SetPhone(input.Phone); err != nil {
			return nil, err
		}
	}
	if err := user.SetDisplayName(profile.FullName()); err != nil {
		return nil, err
	}

	employment, err := hr.NewEmployment(input.TenantID, user.ID, input.EmployeeCode, input.Designation, hr.EmploymentType(input.Type), input.StartDate)
	if err != nil {
		return nil, err
	}
	employment.AssignDepartment(input.DepartmentID)
	if input.TeamID != nil {
		employment.AssignTeam(input.TeamID)
	}
	if input.ManagerID != nil {
		if err := employment.AssignManager(input.ManagerID); err != nil {
			return nil, err
		}
	}

	// The account, profile, and employment land together or not at all:
	// a partial onboarding would leave the email taken with no employee
	// behind it
	err = s.tx.Transact(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Save(ctx, user); err != nil {
			return err
		}
		if err := s.profileRepo.Save(ctx, profile); err != nil {
			return err
		}
		if err := s.employmentRepo.Save(ctx, employment); err != nil {
			return err
		}
		publishEvents(ctx, s.eventPublisher, s.logger, user.GetDomainEvents())
		publishEvents(ctx, s.eventPublisher, s.logger, employment.GetDomainEvents())
		return nil
	})
	if err != nil {
		return nil, err
	}
	user.ClearDomainEvents()
	employment.ClearDomainEvents()

	s.logger.Info("Employee onboarded",
		zap.String("user_id", user.ID.String()),
		zap.String("employee_code", employment.EmployeeCode))

	return s.composite(ctx, user, profile, employment, true)
}

// Get returns the composite employee view for one user
func (s *EmployeeService) Get(ctx context.Context, tenantID, userID uuid.UUID, withPayroll bool) (*EmployeeDTO, error) {
	user, err := s.userRepo.FindByID(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.FindByUserID(ctx, tenantID, userID)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}
	employment, err := s.employmentRepo.FindByUserID(ctx, tenantID, userID)
	if err != nil && err != shared.ErrNotFound {
		return nil, err
	}

	return s.composite(ctx, user, profile, employment, withPayroll)
}

// List returns a page of directory entries. Profiles are not joined in;
// the directory shows account and employment fields only.
func (s *EmployeeService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter, withPayroll bool) (*shared.Paginated[EmployeeDTO], error) {
	employments, total, err := s.employmentRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}

	userIDs := make([]uuid.UUID, len(employments))
	for i := range employments {
		userIDs[i] = employments[i].UserID
	}
	users, err := s.userRepo.FindByIDs(ctx, tenantID, userIDs)
	if err != nil {
		return nil, err
	}
	usersByID := make(map[uuid.UUID]*identity.User, len(users))
	for i := range users {
		usersByID[users[i].ID] = &users[i]
	}

	dtos := make([]EmployeeDTO, 0, len(employments))
	for i := range employments {
		emp := &employments[i]
		empDTO := ToEmploymentDTO(emp, withPayroll)
		dto := EmployeeDTO{
			UserID:     emp.UserID,
			Employment: &empDTO,
		}
		if user, ok := usersByID[emp.UserID]; ok {
			dto.Email = user.Email
			dto.DisplayName = user.DisplayName
			dto.Role = string(user.Role)
			dto.UserStatus = string(user.Status)
		}
		dtos = append(dtos, dto)
	}

	result := shared.NewPaginated(dtos, total, filter.Page, filter.PageSize)
	return &result, nil
}

// GetProfile returns one user's profile
func (s *EmployeeService) GetProfile(ctx context.Context, tenantID, userID uuid.UUID) (*ProfileDTO, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	dto := ToProfileDTO(profile)
	s.attachPhotoURL(ctx, &dto)
	return &dto, nil
}

// UpdateProfile applies partial edits to a profile
func (s *EmployeeService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*ProfileDTO, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, input.TenantID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.FirstName != nil || input.LastName != nil {
		first, last := profile.FirstName, profile.LastName
		if input.FirstName != nil {
			first = *input.FirstName
		}
		if input.LastName != nil {
			last = *input.LastName
		}
		if err := profile.SetName(first, last); err != nil {
			return nil, err
		}
	}
	if input.Phone != nil {
		if err := profile.SetPhone(*input.Phone); err != nil {
			return nil, err
		}
	}
	if input.ClearDOB {
		if err := profile.SetDateOfBirth(nil); err != nil {
			return nil, err
		}
	} else if input.DateOfBirth != nil {
		if err := profile.SetDateOfBirth(input.DateOfBirth); err != nil {
			return nil, err
		}
	}
	if input.Address != nil {
		if err := profile.SetAddress(*input.Address); err != nil {
			return nil, err
		}
	}
	if input.Bio != nil {
		if err := profile.SetBio(*input.Bio); err != nil {
			return nil, err
		}
	}
	if input.WorkModel != nil {
		if err := profile.SetWorkModel(hr.WorkModel(*input.WorkModel)); err != nil {
			return nil, err
		}
	}

	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}

	// Keep the directory display name in sync with the profile
	if user, err := s.userRepo.FindByID(ctx, input.TenantID, input.UserID); err == nil {
		if user.DisplayName != profile.FullName() {
			if err := user.SetDisplayName(profile.FullName()); err == nil {
				if err := s.userRepo.Save(ctx, user); err != nil {
					s.logger.Warn("Failed to sync display name", zap.Error(err))
				}
			}
		}
	}

	dto := ToProfileDTO(profile)
	s.attachPhotoURL(ctx, &dto)
	return &dto, nil
}

// PhotoUploadURL issues a presigned URL for uploading a profile photo
func (s *EmployeeService) PhotoUploadURL(ctx context.Context, tenantID, userID uuid.UUID, contentType string) (*UploadURLResult, error) {
	if _, err := s.profileRepo.FindByUserID(ctx, tenantID, userID); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("profiles/%s/%s/photo-%s", tenantID, userID, uuid.New())
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType, photoURLTTL)
	if err != nil {
		s.logger.Error("Failed to presign photo upload", zap.Error(err))
		return nil, shared.NewDomainError("STORAGE_ERROR", "Failed to generate upload URL")
	}

	return &UploadURLResult{UploadURL: url, StorageKey: key, ExpiresAt: expiresAt}, nil
}

// ConfirmPhoto records an uploaded photo key after verifying the object
// exists, replacing any previous photo
func (s *EmployeeService) ConfirmPhoto(ctx context.Context, tenantID, userID uuid.UUID, storageKey string) (*ProfileDTO, error) {
	profile, err := s.profileRepo.FindByUserID(ctx, tenantID, userID)
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

	oldKey := profile.PhotoKey
	if err := profile.SetPhotoKey(storageKey); err != nil {
		return nil, err
	}
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}

	if oldKey != "" && oldKey != storageKey {
		if err := s.storage.DeleteObject(ctx, oldKey); err != nil {
			s.logger.Warn("Failed to delete replaced photo", zap.String("key", oldKey), zap.Error(err))
		}
	}

	dto := ToProfileDTO(profile)
	s.attachPhotoURL(ctx, &dto)
	return &dto, nil
}

// UpdateEmployment applies HR edits to an employment record
func (s *EmployeeService) UpdateEmployment(ctx context.Context, input UpdateEmploymentInput) (*EmploymentDTO, error) {
	employment, err := s.employmentRepo.FindByUserID(ctx, input.TenantID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Designation != nil {
		if err := employment.SetDesignation(*input.Designation); err != nil {
			return nil, err
		}
	}
	if input.ClearDept {
		employment.AssignDepartment(nil)
	} else if input.DepartmentID != nil {
		employment.AssignDepartment(input.DepartmentID)
	}
	if input.ClearTeam {
		employment.AssignTeam(nil)
	} else if input.TeamID != nil {
		employment.AssignTeam(input.TeamID)
	}
	if input.ClearManager {
		if err := employment.AssignManager(nil); err != nil {
			return nil, err
		}
	} else if input.ManagerID != nil {
		if err := employment.AssignManager(input.ManagerID); err != nil {
			return nil, err
		}
	}
	if input.Type != nil {
		if err := employment.ChangeType(hr.EmploymentType(*input.Type)); err != nil {
			return nil, err
		}
	}

	if err := s.employmentRepo.Save(ctx, employment); err != nil {
		return nil, err
	}

	dto := ToEmploymentDTO(employment, true)
	return &dto, nil
}

// UpdateCompensation replaces the payroll fields of an employment
func (s *EmployeeService) UpdateCompensation(ctx context.Context, input UpdateCompensationInput) (*EmploymentDTO, error) {
	employment, err := s.employmentRepo.FindByUserID(ctx, input.TenantID, input.UserID)
	if err != nil {
		return nil, err
	}

	err = employment.UpdateCompensation(hr.Compensation{
		BaseSalary:   input.BaseSalary,
		Currency:     input.Currency,
		PayFrequency: hr.PayFrequency(input.PayFrequency),
		CustomFields: input.CustomFields,
	})
	if err != nil {
		return nil, err
	}

	if err := s.employmentRepo.Save(ctx, employment); err != nil {
		return nil, err
	}

	dto := ToEmploymentDTO(employment, true)
	return &dto, nil
}

// Activate completes onboarding: the employment and the account both
// become active
func (s *EmployeeService) Activate(ctx context.Context, tenantID, userID uuid.UUID) error {
	employment, err := s.employmentRepo.FindByUserID(ctx, tenantID, userID)
	if err != nil {
		return err
	}

	if err := employment.Activate(); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	userChanged := !user.IsActive()
	if userChanged {
		if err := user.Activate(); err != nil {
			return err
		}
	}

	err = s.tx.Transact(ctx, func(ctx context.Context) error {
		if userChanged {
			if err := s.userRepo.Save(ctx, user); err != nil {
				return err
			}
			publishEvents(ctx, s.eventPublisher, s.logger, user.GetDomainEvents())
		}
		if err := s.employmentRepo.Save(ctx, employment); err != nil {
			return err
		}
		publishEvents(ctx, s.eventPublisher, s.logger, employment.GetDomainEvents())
		return nil
	})
	if err != nil {
		return err
	}
	user.ClearDomainEvents()
	employment.ClearDomainEvents()

	s.logger.Info("Employee activated", zap.String("user_id", userID.String()))

	return nil
}

// Terminate ends an employment and deactivates the account
func (s *EmployeeService) Terminate(ctx context.Context, tenantID, userID uuid.UUID, terminationDate time.Time) error {
	employment, err := s.employmentRepo.FindByUserID(ctx, tenantID, userID)
	if err != nil {
		return err
	}

	if err := employment.Terminate(terminationDate); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	userChanged := !user.IsDeactivated()
	if userChanged {
		if err := user.Deactivate(); err != nil {
			return err
		}
	}

	err = s.tx.Transact(ctx, func(ctx context.Context) error {
		if userChanged {
			if err := s.userRepo.Save(ctx, user); err != nil {
				return err
			}
			publishEvents(ctx, s.eventPublisher, s.logger, user.GetDomainEvents())
		}
		if err := s.employmentRepo.Save(ctx, employment); err != nil {
			return err
		}
		publishEvents(ctx, s.eventPublisher, s.logger, employment.GetDomainEvents())
		return nil
	})
	if err != nil {
		return err
	}
	user.ClearDomainEvents()
	employment.ClearDomainEvents()

	s.logger.Info("Employee terminated",
		zap.String("user_id", userID.String()),
		zap.Time("termination_date", terminationDate))

	return nil
}

// ExportCSV writes the full employee directory as CSV. Payroll columns
// are never included in the export.
func (s *EmployeeService) ExportCSV(ctx context.Context, tenantID uuid.UUID) ([]byte, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 200
	filter.OrderBy = "employee_code"
	filter.OrderDir = "asc"

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"employee_code", "email", "display_name", "designation", "type", "status", "start_date", "department_id"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for page := 1; ; page++ {
		filter.Page = page
		result, err := s.List(ctx, tenantID, filter, false)
		if err != nil {
			return nil, err
		}
		for _, e := range result.Items {
			emp := e.Employment
			deptID := ""
			if emp.DepartmentID != nil {
				deptID = emp.DepartmentID.String()
			}
			row := []string{
				emp.EmployeeCode,
				e.Email,
				e.DisplayName,
				emp.Designation,
				emp.Type,
				emp.Status,
				emp.StartDate.Format("2006-01-02"),
				deptID,
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
		if page >= result.TotalPages || len(result.Items) == 0 {
			break
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Headcount returns the number of active employments
func (s *EmployeeService) Headcount(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return s.employmentRepo.CountActive(ctx, tenantID)
}

// DirectReports returns the employments reporting to a manager
func (s *EmployeeService) DirectReports(ctx context.Context, tenantID, managerID uuid.UUID) ([]EmploymentDTO, error) {
	employments, err := s.employmentRepo.FindByManager(ctx, tenantID, managerID)
	if err != nil {
		return nil, err
	}

	dtos := make([]EmploymentDTO, len(employments))
	for i := range employments {
		dtos[i] = ToEmploymentDTO(&employments[i], false)
	}

	return dtos, nil
}

func (s *EmployeeService) composite(ctx context.Context, user *identity.User, profile *hr.Profile, employment *hr.Employment, withPayroll bool) (*EmployeeDTO, error) {
	dto := &EmployeeDTO{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		UserStatus:  string(user.Status),
	}
	if profile != nil {
		p := ToProfileDTO(profile)
		s.attachPhotoURL(ctx, &p)
		dto.Profile = &p
	}
	if employment != nil {
		e := ToEmploymentDTO(employment, withPayroll)
		dto.Employment = &e
	}
	return dto, nil
}

func (s *EmployeeService) attachPhotoURL(ctx context.Context, dto *ProfileDTO) {
	if dto.PhotoKey == "" || s.storage == nil {
		return
	}
	url, _, err := s.storage.GenerateDownloadURL(ctx, dto.PhotoKey, photoURLTTL)
	if err != nil {
		s.logger.Warn("Failed to presign photo download", zap.Error(err))
		return
	}
	dto.PhotoURL = url
}
