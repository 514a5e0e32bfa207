package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/hrm/backend/internal/application/identity"
	"github.com/hrm/backend/internal/interfaces/http/dto"
	"github.com/hrm/backend/internal/interfaces/http/middleware"
)

// UserHandler handles user account administration requests
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUserRequest is the account creation request body
type CreateUserRequest struct {
	Email        string     `json:"email" binding:"required,email"`
	Password     string     `json:"password" binding:"required,min=8,max=128"`
	DisplayName  string     `json:"display_name" binding:"omitempty,max=200"`
	Role         string     `json:"role" binding:"required,oneof=employee manager hr_admin"`
	DepartmentID *uuid.UUID `json:"department_id"`
	Activate     bool       `json:"activate"`
}

// UpdateUserRequest is the account update request body
type UpdateUserRequest struct {
	Email        *string    `json:"email" binding:"omitempty,email"`
	DisplayName  *string    `json:"display_name" binding:"omitempty,max=200"`
	DepartmentID *uuid.UUID `json:"department_id"`
	ClearDept    bool       `json:"clear_department"`
}

// ChangeRoleRequest changes an account's role
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=employee manager hr_admin"`
}

// AdminResetPasswordRequest is the admin password reset request body
type AdminResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// Create godoc
// @Summary      Create a user account
// @Tags         hrUsers
// @Accept       json
// @Produce      json
// @Param        request body CreateUserRequest true "Account data"
// @Success      201 {object} dto.Response{data=identityapp.UserDTO}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	user, err := h.userService.Create(c.Request.Context(), identityapp.CreateUserInput{
		TenantID:     tenantID,
		Email:        req.Email,
		Password:     req.Password,
		DisplayName:  req.DisplayName,
		Role:         req.Role,
		DepartmentID: req.DepartmentID,
		Activate:     req.Activate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, user)
}

// Get godoc
// @Summary      Get a user account
// @Tags         hrUsers
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response{data=identityapp.UserDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := h.bindUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// List godoc
// @Summary      List user accounts
// @Tags         hrUsers
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        search query string false "Search by email or name"
// @Success      200 {object} dto.Response{data=[]identityapp.UserDTO,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /hr/users [get]
func (h *UserHandler) List(c *gin.Context) {
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

	result, err := h.userService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update godoc
// @Summary      Update a user account
// @Tags         hrUsers
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID"
// @Param        request body UpdateUserRequest true "Account fields"
// @Success      200 {object} dto.Response{data=identityapp.UserDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := h.bindUserID(c)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	user, err := h.userService.Update(c.Request.Context(), identityapp.UpdateUserInput{
		TenantID:     tenantID,
		ID:           id,
		Email:        req.Email,
		DisplayName:  req.DisplayName,
		DepartmentID: req.DepartmentID,
		ClearDept:    req.ClearDept,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// ChangeRole godoc
// @Summary      Change a user's role
// @Tags         hrUsers
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID"
// @Param        request body ChangeRoleRequest true "New role"
// @Success      200 {object} dto.Response{data=identityapp.UserDTO}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/users/{id}/role [put]
func (h *UserHandler) ChangeRole(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := h.bindUserID(c)
	if !ok {
		return
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	user, err := h.userService.ChangeRole(c.Request.Context(), tenantID, id, req.Role)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Activate godoc
// @Summary      Activate a user account
// @Tags         hrUsers
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/users/{id}/activate [post]
func (h *UserHandler) Activate(c *gin.Context) {
	h.lifecycle(c, h.userService.Activate, "User activated")
}

// Deactivate godoc
// @Summary      Deactivate a user account
// @Tags         hrUsers
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/users/{id}/deactivate [post]
func (h *UserHandler) Deactivate(c *gin.Context) {
	h.lifecycle(c, h.userService.Deactivate, "User deactivated")
}

// Unlock godoc
// @Summary      Unlock a locked user account
// @Tags         hrUsers
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} dto.Response
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/users/{id}/unlock [post]
func (h *UserHandler) Unlock(c *gin.Context) {
	h.lifecycle(c, h.userService.Unlock, "User unlocked")
}

// ResetPassword godoc
// @Summary      Reset a user's password
// @Description  Sets a temporary password the user must change on next login
// @Tags         hrUsers
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID"
// @Param        request body AdminResetPasswordRequest true "New password"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/users/{id}/reset-password [post]
func (h *UserHandler) ResetPassword(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := h.bindUserID(c)
	if !ok {
		return
	}

	var req AdminResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	err = h.userService.ResetPassword(c.Request.Context(), identityapp.ResetPasswordInput{
		TenantID:    tenantID,
		UserID:      id,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Password reset"})
}

func (h *UserHandler) lifecycle(c *gin.Context, fn func(ctx context.Context, tenantID, id uuid.UUID) error, message string) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := h.bindUserID(c)
	if !ok {
		return
	}

	if err := fn(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"message": message})
}

func (h *UserHandler) bindUserID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid user ID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid user ID")
		return uuid.Nil, false
	}
	return id, true
}
