package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/hrm/backend/internal/application/identity"
	"github.com/hrm/backend/internal/interfaces/http/dto"
	"github.com/hrm/backend/internal/interfaces/http/middleware"
)

// TeamHandler handles team back-office requests
type TeamHandler struct {
	BaseHandler
	teamService *identityapp.TeamService
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(teamService *identityapp.TeamService) *TeamHandler {
	return &TeamHandler{teamService: teamService}
}

// CreateTeamRequest is the team creation request body
type CreateTeamRequest struct {
	DepartmentID uuid.UUID  `json:"department_id" binding:"required"`
	Code         string     `json:"code" binding:"required,max=32"`
	Name         string     `json:"name" binding:"required,max=200"`
	Description  string     `json:"description" binding:"omitempty,max=1000"`
	LeadID       *uuid.UUID `json:"lead_id"`
}

// UpdateTeamRequest is the team update request body
type UpdateTeamRequest struct {
	Name         *string    `json:"name" binding:"omitempty,max=200"`
	Description  *string    `json:"description" binding:"omitempty,max=1000"`
	DepartmentID *uuid.UUID `json:"department_id"`
	LeadID       *uuid.UUID `json:"lead_id"`
	ClearLead    bool       `json:"clear_lead"`
}

// Create godoc
// @Summary      Create a team
// @Tags         orgStructure
// @Accept       json
// @Produce      json
// @Param        request body CreateTeamRequest true "Team data"
// @Success      201 {object} dto.Response{data=identityapp.TeamDTO}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/teams [post]
func (h *TeamHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	team, err := h.teamService.Create(c.Request.Context(), identityapp.CreateTeamInput{
		TenantID:     tenantID,
		DepartmentID: req.DepartmentID,
		Code:         req.Code,
		Name:         req.Name,
		Description:  req.Description,
		LeadID:       req.LeadID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, team)
}

// Get godoc
// @Summary      Get a team
// @Tags         orgStructure
// @Produce      json
// @Param        id path string true "Team ID"
// @Success      200 {object} dto.Response{data=identityapp.TeamDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/teams/{id} [get]
func (h *TeamHandler) Get(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := h.bindTeamID(c)
	if !ok {
		return
	}

	team, err := h.teamService.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, team)
}

// List godoc
// @Summary      List teams
// @Tags         orgStructure
// @Produce      json
// @Param        department_id query string false "Filter by department"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]identityapp.TeamDTO,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /hr/teams [get]
func (h *TeamHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if deptIDStr := c.Query("department_id"); deptIDStr != "" {
		deptID, err := uuid.Parse(deptIDStr)
		if err != nil {
			h.BadRequest(c, "Invalid department ID")
			return
		}
		teams, err := h.teamService.ListByDepartment(c.Request.Context(), tenantID, deptID)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, teams)
		return
	}

	filter, err := bindFilter(c)
	if err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.teamService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update godoc
// @Summary      Update a team
// @Tags         orgStructure
// @Accept       json
// @Produce      json
// @Param        id path string true "Team ID"
// @Param        request body UpdateTeamRequest true "Team fields"
// @Success      200 {object} dto.Response{data=identityapp.TeamDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/teams/{id} [put]
func (h *TeamHandler) Update(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := h.bindTeamID(c)
	if !ok {
		return
	}

	var req UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	team, err := h.teamService.Update(c.Request.Context(), identityapp.UpdateTeamInput{
		TenantID:     tenantID,
		ID:           id,
		Name:         req.Name,
		Description:  req.Description,
		DepartmentID: req.DepartmentID,
		LeadID:       req.LeadID,
		ClearLead:    req.ClearLead,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, team)
}

// Delete godoc
// @Summary      Delete a team
// @Tags         orgStructure
// @Produce      json
// @Param        id path string true "Team ID"
// @Success      204 "No Content"
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/teams/{id} [delete]
func (h *TeamHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	id, ok := h.bindTeamID(c)
	if !ok {
		return
	}

	if err := h.teamService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *TeamHandler) bindTeamID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid team ID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid team ID")
		return uuid.Nil, false
	}
	return id, true
}
