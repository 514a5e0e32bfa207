package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/hrm/backend/internal/application/identity"
	"github.com/hrm/backend/internal/interfaces/http/dto"
	"github.com/hrm/backend/internal/interfaces/http/middleware"
)

// DepartmentHandler handles department back-office requests
type DepartmentHandler struct {
	BaseHandler
	departmentService *identityapp.DepartmentService
}

// NewDepartmentHandler creates a new department handler
func NewDepartmentHandler(departmentService *identityapp.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{departmentService: departmentService}
}

// CreateDepartmentRequest is the department creation request body
type CreateDepartmentRequest struct {
	Code        string     `json:"code" binding:"required,max=32"`
	Name        string     `json:"name" binding:"required,max=200"`
	Description string     `json:"description" binding:"omitempty,max=1000"`
	ParentID    *uuid.UUID `json:"parent_id"`
	ManagerID   *uuid.UUID `json:"manager_id"`
	SortOrder   int        `json:"sort_order" binding:"gte=0"`
}

// UpdateDepartmentRequest is the department update request body
type UpdateDepartmentRequest struct {
	Name        *string    `json:"name" binding:"omitempty,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=1000"`
	ManagerID   *uuid.UUID `json:"manager_id"`
	ClearMgr    bool       `json:"clear_manager"`
	SortOrder   *int       `json:"sort_order" binding:"omitempty,gte=0"`
}

// MoveDepartmentRequest re-parents a department
type MoveDepartmentRequest struct {
	NewParentID *uuid.UUID `json:"new_parent_id"`
}

// Create godoc
// @Summary      Create a department
// @Tags         orgStructure
// @Accept       json
// @Produce      json
// @Param        request body CreateDepartmentRequest true "Department data"
// @Success      201 {object} dto.Response{data=identityapp.DepartmentDTO}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/departments [post]
func (h *DepartmentHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	dept, err := h.departmentService.Create(c.Request.Context(), identityapp.CreateDepartmentInput{
		TenantID:    tenantID,
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		ManagerID:   req.ManagerID,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, dept)
}

// Get godoc
// @Summary      Get a department
// @Tags         orgStructure
// @Produce      json
// @Param        id path string true "Department ID"
// @Success      200 {object} dto.Response{data=identityapp.DepartmentDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/departments/{id} [get]
func (h *DepartmentHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := h.bindDepartmentID(c)
	if !ok {
		return
	}

	dept, err := h.departmentService.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dept)
}

// List godoc
// @Summary      List departments
// @Tags         orgStructure
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]identityapp.DepartmentDTO,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /hr/departments [get]
func (h *DepartmentHandler) List(c *gin.Context) {
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

	result, err := h.departmentService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Tree godoc
// @Summary      Department tree
// @Description  The full department hierarchy of the organization
// @Tags         orgStructure
// @Produce      json
// @Success      200 {object} dto.Response{data=[]identityapp.DepartmentTreeNode}
// @Security     BearerAuth
// @Router       /hr/departments/tree [get]
func (h *DepartmentHandler) Tree(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	tree, err := h.departmentService.Tree(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, tree)
}

// Update godoc
// @Summary      Update a department
// @Tags         orgStructure
// @Accept       json
// @Produce      json
// @Param        id path string true "Department ID"
// @Param        request body UpdateDepartmentRequest true "Department fields"
// @Success      200 {object} dto.Response{data=identityapp.DepartmentDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/departments/{id} [put]
func (h *DepartmentHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := h.bindDepartmentID(c)
	if !ok {
		return
	}

	var req UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	dept, err := h.departmentService.Update(c.Request.Context(), identityapp.UpdateDepartmentInput{
		TenantID:    tenantID,
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		ManagerID:   req.ManagerID,
		ClearMgr:    req.ClearMgr,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dept)
}

// Move godoc
// @Summary      Move a department
// @Description  Re-parents a department; a nil parent moves it to the root
// @Tags         orgStructure
// @Accept       json
// @Produce      json
// @Param        id path string true "Department ID"
// @Param        request body MoveDepartmentRequest true "New parent"
// @Success      200 {object} dto.Response{data=identityapp.DepartmentDTO}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/departments/{id}/move [post]
func (h *DepartmentHandler) Move(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := h.bindDepartmentID(c)
	if !ok {
		return
	}

	var req MoveDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	dept, err := h.departmentService.Move(c.Request.Context(), tenantID, id, req.NewParentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dept)
}

// Delete godoc
// @Summary      Delete a department
// @Tags         orgStructure
// @Produce      json
// @Param        id path string true "Department ID"
// @Success      204 "No Content"
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/departments/{id} [delete]
func (h *DepartmentHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := h.bindDepartmentID(c)
	if !ok {
		return
	}

	if err := h.departmentService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *DepartmentHandler) bindDepartmentID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid department ID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid department ID")
		return uuid.Nil, false
	}
	return id, true
}
