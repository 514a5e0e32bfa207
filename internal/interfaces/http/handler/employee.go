package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hrm/backend/internal/application/hr"
	"github.com/hrm/backend/internal/interfaces/http/dto"
	"github.com/hrm/backend/internal/interfaces/http/middleware"
)

// EmployeeHandler handles employee directory, profile, and back-office
// employment requests
type EmployeeHandler struct {
	BaseHandler
	employeeService *hr.EmployeeService
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(employeeService *hr.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// OnboardEmployeeRequest is the onboarding request body
type OnboardEmployeeRequest struct {
	Email        string     `json:"email" binding:"required,email"`
	Password     string     `json:"password" binding:"required,min=8,max=128"`
	Role         string     `json:"role" binding:"required,oneof=employee manager hr_admin"`
	FirstName    string     `json:"first_name" binding:"required,max=100"`
	LastName     string     `json:"last_name" binding:"required,max=100"`
	Phone        string     `json:"phone" binding:"omitempty,max=32"`
	EmployeeCode string     `json:"employee_code" binding:"required,max=32"`
	Designation  string     `json:"designation" binding:"required,max=100"`
	Type         string     `json:"type" binding:"required,oneof=full_time part_time contract intern"`
	StartDate    string     `json:"start_date" binding:"required,datetime=2006-01-02"`
	DepartmentID *uuid.UUID `json:"department_id"`
	TeamID       *uuid.UUID `json:"team_id"`
	ManagerID    *uuid.UUID `json:"manager_id"`
}

// UpdateProfileRequest is the profile update request body; nil fields are
// left unchanged
type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name" binding:"omitempty,max=100"`
	LastName    *string `json:"last_name" binding:"omitempty,max=100"`
	Phone       *string `json:"phone" binding:"omitempty,max=32"`
	DateOfBirth *string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	ClearDOB    bool    `json:"clear_date_of_birth"`
	Address     *string `json:"address" binding:"omitempty,max=500"`
	Bio         *string `json:"bio" binding:"omitempty,max=2000"`
	WorkModel   *string `json:"work_model" binding:"omitempty,oneof=onsite remote hybrid"`
}

// PhotoUploadRequest asks for a presigned photo upload URL
type PhotoUploadRequest struct {
	ContentType string `json:"content_type" binding:"required,oneof=image/jpeg image/png image/webp"`
}

// ConfirmUploadRequest confirms a completed presigned upload
type ConfirmUploadRequest struct {
	StorageKey string `json:"storage_key" binding:"required,max=512"`
}

// UpdateEmploymentRequest is the HR employment edit request body
type UpdateEmploymentRequest struct {
	Designation  *string    `json:"designation" binding:"omitempty,max=100"`
	DepartmentID *uuid.UUID `json:"department_id"`
	ClearDept    bool       `json:"clear_department"`
	TeamID       *uuid.UUID `json:"team_id"`
	ClearTeam    bool       `json:"clear_team"`
	ManagerID    *uuid.UUID `json:"manager_id"`
	ClearManager bool       `json:"clear_manager"`
	Type         *string    `json:"type" binding:"omitempty,oneof=full_time part_time contract intern"`
}

// UpdateCompensationRequest is the payroll edit request body
type UpdateCompensationRequest struct {
	BaseSalary   decimal.Decimal   `json:"base_salary" binding:"required"`
	Currency     string            `json:"currency" binding:"required,len=3"`
	PayFrequency string            `json:"pay_frequency" binding:"required,oneof=monthly biweekly weekly"`
	CustomFields map[string]string `json:"custom_fields"`
}

// TerminateEmployeeRequest sets the employment termination date
type TerminateEmployeeRequest struct {
	TerminationDate string `json:"termination_date" binding:"required,datetime=2006-01-02"`
}

// Onboard godoc
// @Summary      Onboard an employee
// @Description  Create the account, profile, and employment in one step
// @Tags         hrEmployees
// @Accept       json
// @Produce      json
// @Param        request body OnboardEmployeeRequest true "Onboarding data"
// @Success      201 {object} dto.Response{data=hr.EmployeeDTO}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/employees [post]
func (h *EmployeeHandler) Onboard(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req OnboardEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		h.BadRequest(c, "Invalid start date")
		return
	}

	employee, err := h.employeeService.Onboard(c.Request.Context(), hr.OnboardEmployeeInput{
		TenantID:     tenantID,
		Email:        req.Email,
		Password:     req.Password,
		Role:         req.Role,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		EmployeeCode: req.EmployeeCode,
		Designation:  req.Designation,
		Type:         req.Type,
		StartDate:    startDate,
		DepartmentID: req.DepartmentID,
		TeamID:       req.TeamID,
		ManagerID:    req.ManagerID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, employee)
}

// List godoc
// @Summary      List employees
// @Description  Paginated employee directory; payroll fields only for HR
// @Tags         hrEmployees
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        search query string false "Search by name or code"
// @Success      200 {object} dto.Response{data=[]hr.EmployeeDTO,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /hr/employees [get]
func (h *EmployeeHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	filter, err := bindFilter(c)
	if err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	withPayroll := middleware.GetJWTRole(c) == "hr_admin"
	result, err := h.employeeService.List(c.Request.Context(), tenantID, filter, withPayroll)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get godoc
// @Summary      Get an employee
// @Tags         hrEmployees
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response{data=hr.EmployeeDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/employees/{id} [get]
func (h *EmployeeHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid employee ID")
		return
	}
	userID, _ := uuid.Parse(req.ID)

	withPayroll := middleware.GetJWTRole(c) == "hr_admin"
	employee, err := h.employeeService.Get(c.Request.Context(), tenantID, userID, withPayroll)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, employee)
}

// MyProfile godoc
// @Summary      Get my profile
// @Tags         user
// @Produce      json
// @Success      200 {object} dto.Response{data=hr.ProfileDTO}
// @Security     BearerAuth
// @Router       /me/profile [get]
func (h *EmployeeHandler) MyProfile(c *gin.Context) {
	tenantID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	profile, err := h.employeeService.GetProfile(c.Request.Context(), tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}

// UpdateMyProfile godoc
// @Summary      Update my profile
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body UpdateProfileRequest true "Profile fields"
// @Success      200 {object} dto.Response{data=hr.ProfileDTO}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /me/profile [put]
func (h *EmployeeHandler) UpdateMyProfile(c *gin.Context) {
	tenantID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	input := hr.UpdateProfileInput{
		TenantID:  tenantID,
		UserID:    userID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		ClearDOB:  req.ClearDOB,
		Address:   req.Address,
		Bio:       req.Bio,
		WorkModel: req.WorkModel,
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			h.BadRequest(c, "Invalid date of birth")
			return
		}
		input.DateOfBirth = &dob
	}

	profile, err := h.employeeService.UpdateProfile(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}

// PhotoUploadURL godoc
// @Summary      Request a photo upload URL
// @Description  Returns a presigned URL; the client uploads directly and
// @Description  then confirms the storage key
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body PhotoUploadRequest true "Content type"
// @Success      200 {object} dto.Response{data=hr.UploadURLResult}
// @Security     BearerAuth
// @Router       /me/profile/photo/upload-url [post]
func (h *EmployeeHandler) PhotoUploadURL(c *gin.Context) {
	tenantID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	var req PhotoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.employeeService.PhotoUploadURL(c.Request.Context(), tenantID, userID, req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ConfirmPhoto godoc
// @Summary      Confirm an uploaded photo
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body ConfirmUploadRequest true "Storage key"
// @Success      200 {object} dto.Response{data=hr.ProfileDTO}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /me/profile/photo/confirm [post]
func (h *EmployeeHandler) ConfirmPhoto(c *gin.Context) {
	tenantID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	var req ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	profile, err := h.employeeService.ConfirmPhoto(c.Request.Context(), tenantID, userID, req.StorageKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, profile)
}

// UpdateEmployment godoc
// @Summary      Update an employment record
// @Tags         hrEmployees
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID"
// @Param        request body UpdateEmploymentRequest true "Employment fields"
// @Success      200 {object} dto.Response{data=hr.EmploymentDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/employees/{id}/employment [put]
func (h *EmployeeHandler) UpdateEmployment(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, "Invalid employee ID")
		return
	}
	userID, _ := uuid.Parse(uriReq.ID)

	var req UpdateEmploymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	employment, err := h.employeeService.UpdateEmployment(c.Request.Context(), hr.UpdateEmploymentInput{
		TenantID:     tenantID,
		UserID:       userID,
		Designation:  req.Designation,
		DepartmentID: req.DepartmentID,
		ClearDept:    req.ClearDept,
		TeamID:       req.TeamID,
		ClearTeam:    req.ClearTeam,
		ManagerID:    req.ManagerID,
		ClearManager: req.ClearManager,
		Type:         req.Type,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, employment)
}

// UpdateCompensation godoc
// @Summary      Update payroll fields
// @Tags         hrEmployees
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID"
// @Param        request body UpdateCompensationRequest true "Compensation"
// @Success      200 {object} dto.Response{data=hr.EmploymentDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/employees/{id}/compensation [put]
func (h *EmployeeHandler) UpdateCompensation(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, "Invalid employee ID")
		return
	}
	userID, _ := uuid.Parse(uriReq.ID)

	var req UpdateCompensationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	employment, err := h.employeeService.UpdateCompensation(c.Request.Context(), hr.UpdateCompensationInput{
		TenantID:     tenantID,
		UserID:       userID,
		BaseSalary:   req.BaseSalary,
		Currency:     req.Currency,
		PayFrequency: req.PayFrequency,
		CustomFields: req.CustomFields,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, employment)
}

// Activate godoc
// @Summary      Activate an employee
// @Tags         hrEmployees
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/employees/{id}/activate [post]
func (h *EmployeeHandler) Activate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid employee ID")
		return
	}
	userID, _ := uuid.Parse(req.ID)

	if err := h.employeeService.Activate(c.Request.Context(), tenantID, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Employee activated"})
}

// Terminate godoc
// @Summary      Terminate an employee
// @Description  Ends the employment and deactivates the account
// @Tags         hrEmployees
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID"
// @Param        request body TerminateEmployeeRequest true "Termination date"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/employees/{id}/terminate [post]
func (h *EmployeeHandler) Terminate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, "Invalid employee ID")
		return
	}
	userID, _ := uuid.Parse(uriReq.ID)

	var req TerminateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	terminationDate, err := time.Parse("2006-01-02", req.TerminationDate)
	if err != nil {
		h.BadRequest(c, "Invalid termination date")
		return
	}

	if err := h.employeeService.Terminate(c.Request.Context(), tenantID, userID, terminationDate); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Employee terminated"})
}

// ExportCSV godoc
// @Summary      Export the employee directory as CSV
// @Tags         hrEmployees
// @Produce      text/csv
// @Success      200 {file} file
// @Security     BearerAuth
// @Router       /hr/employees/export [get]
func (h *EmployeeHandler) ExportCSV(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	data, err := h.employeeService.ExportCSV(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	filename := "employees-" + time.Now().Format("2006-01-02") + ".csv"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}

// DirectReports godoc
// @Summary      List my direct reports
// @Tags         user
// @Produce      json
// @Success      200 {object} dto.Response{data=[]hr.EmploymentDTO}
// @Security     BearerAuth
// @Router       /me/reports [get]
func (h *EmployeeHandler) DirectReports(c *gin.Context) {
	tenantID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	reports, err := h.employeeService.DirectReports(c.Request.Context(), tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, reports)
}
