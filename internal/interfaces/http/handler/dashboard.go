package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/hrm/backend/internal/application/dashboard"
)

// DashboardHandler handles the landing page summaries
type DashboardHandler struct {
	BaseHandler
	dashboardService *dashboard.Service
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Overview godoc
// @Summary      Organization overview
// @Description  Headcount, today's attendance, and pending leave for the
// @Description  HR landing page
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} dto.Response{data=dashboard.OverviewDTO}
// @Security     BearerAuth
// @Router       /dashboard/overview [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	overview, err := h.dashboardService.Overview(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, overview)
}

// MyDay godoc
// @Summary      My day summary
// @Description  Attendance timers, pending leave, and unread messages for
// @Description  the employee landing page
// @Tags         dashboard
// @Produce      json
// @Success      200 {object} dto.Response{data=dashboard.MyDayDTO}
// @Security     BearerAuth
// @Router       /dashboard/my-day [get]
func (h *DashboardHandler) MyDay(c *gin.Context) {
	tenantID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	myDay, err := h.dashboardService.MyDay(c.Request.Context(), tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, myDay)
}
