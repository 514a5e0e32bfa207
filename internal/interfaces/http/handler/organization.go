package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/hrm/backend/internal/application/identity"
	"github.com/hrm/backend/internal/domain/identity"
	"github.com/hrm/backend/internal/interfaces/http/middleware"
)

// OrganizationHandler handles organization registration, details, and
// settings requests
type OrganizationHandler struct {
	BaseHandler
	orgService *identityapp.OrganizationService
}

// NewOrganizationHandler creates a new organization handler
func NewOrganizationHandler(orgService *identityapp.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

// RegisterOrganizationRequest registers a new organization with its first
// HR administrator
type RegisterOrganizationRequest struct {
	Slug          string `json:"slug" binding:"required,min=2,max=64"`
	Name          string `json:"name" binding:"required,max=200"`
	AdminEmail    string `json:"admin_email" binding:"required,email"`
	AdminPassword string `json:"admin_password" binding:"required,min=8,max=128"`
	AdminName     string `json:"admin_name" binding:"required,max=200"`
}

// UpdateOrganizationRequest updates organization contact details; nil
// fields are left unchanged
type UpdateOrganizationRequest struct {
	Name         *string `json:"name" binding:"omitempty,max=200"`
	ContactName  *string `json:"contact_name" binding:"omitempty,max=200"`
	ContactPhone *string `json:"contact_phone" binding:"omitempty,max=32"`
	ContactEmail *string `json:"contact_email" binding:"omitempty,email"`
	Address      *string `json:"address" binding:"omitempty,max=500"`
	LogoURL      *string `json:"logo_url" binding:"omitempty,url,max=500"`
	Notes        *string `json:"notes" binding:"omitempty,max=2000"`
}

// UpdateSettingsRequest replaces the organization settings
type UpdateSettingsRequest struct {
	WorkDaySeconds       int    `json:"work_day_seconds" binding:"required,gte=3600,lte=43200"`
	WorkStartTime        string `json:"work_start_time" binding:"required,datetime=15:04"`
	LateThresholdMinutes int    `json:"late_threshold_minutes" binding:"gte=0,lte=240"`
	LeaveCycleStartMonth int    `json:"leave_cycle_start_month" binding:"required,gte=1,lte=12"`
	AnnualLeaveDays      int    `json:"annual_leave_days" binding:"gte=0,lte=365"`
	SickLeaveDays        int    `json:"sick_leave_days" binding:"gte=0,lte=365"`
	CasualLeaveDays      int    `json:"casual_leave_days" binding:"gte=0,lte=365"`
	Currency             string `json:"currency" binding:"required,len=3"`
	Timezone             string `json:"timezone" binding:"required,max=64"`
}

// Register godoc
// @Summary      Register an organization
// @Description  Creates the organization and its first HR administrator
// @Tags         org
// @Accept       json
// @Produce      json
// @Param        request body RegisterOrganizationRequest true "Registration data"
// @Success      201 {object} dto.Response{data=identityapp.RegisterOrganizationResult}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /org/register [post]
func (h *OrganizationHandler) Register(c *gin.Context) {
	var req RegisterOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.orgService.Register(c.Request.Context(), identityapp.RegisterOrganizationInput{
		Slug:          req.Slug,
		Name:          req.Name,
		AdminEmail:    req.AdminEmail,
		AdminPassword: req.AdminPassword,
		AdminName:     req.AdminName,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// Get godoc
// @Summary      Get my organization
// @Tags         org
// @Produce      json
// @Success      200 {object} dto.Response{data=identityapp.OrganizationDTO}
// @Security     BearerAuth
// @Router       /org [get]
func (h *OrganizationHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	org, err := h.orgService.Get(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, org)
}

// Update godoc
// @Summary      Update organization details
// @Tags         org
// @Accept       json
// @Produce      json
// @Param        request body UpdateOrganizationRequest true "Organization fields"
// @Success      200 {object} dto.Response{data=identityapp.OrganizationDTO}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /org [put]
func (h *OrganizationHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	org, err := h.orgService.Update(c.Request.Context(), identityapp.UpdateOrganizationInput{
		ID:           tenantID,
		Name:         req.Name,
		ContactName:  req.ContactName,
		ContactPhone: req.ContactPhone,
		ContactEmail: req.ContactEmail,
		Address:      req.Address,
		LogoURL:      req.LogoURL,
		Notes:        req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, org)
}

// GetSettings godoc
// @Summary      Get organization settings
// @Tags         org
// @Produce      json
// @Success      200 {object} dto.Response{data=identity.OrganizationSettings}
// @Security     BearerAuth
// @Router       /org/settings [get]
func (h *OrganizationHandler) GetSettings(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	settings, err := h.orgService.GetSettings(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, settings)
}

// UpdateSettings godoc
// @Summary      Update organization settings
// @Description  Replaces the attendance and leave policy settings
// @Tags         org
// @Accept       json
// @Produce      json
// @Param        request body UpdateSettingsRequest true "Settings"
// @Success      200 {object} dto.Response{data=identityapp.OrganizationDTO}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /org/settings [put]
func (h *OrganizationHandler) UpdateSettings(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	org, err := h.orgService.UpdateSettings(c.Request.Context(), tenantID, identity.OrganizationSettings{
		WorkDaySeconds:       req.WorkDaySeconds,
		WorkStartTime:        req.WorkStartTime,
		LateThresholdMinutes: req.LateThresholdMinutes,
		LeaveCycleStartMonth: req.LeaveCycleStartMonth,
		AnnualLeaveDays:      req.AnnualLeaveDays,
		SickLeaveDays:        req.SickLeaveDays,
		CasualLeaveDays:      req.CasualLeaveDays,
		Currency:             req.Currency,
		Timezone:             req.Timezone,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, org)
}
