package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/hrm/backend/internal/application/attendance"
	"github.com/hrm/backend/internal/interfaces/http/dto"
	"github.com/hrm/backend/internal/interfaces/http/middleware"
)

// AttendanceHandler handles attendance check-in, timers, and HR roster
// requests
type AttendanceHandler struct {
	BaseHandler
	attendanceService *attendance.Service
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(attendanceService *attendance.Service) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// StartDayRequest is the check-in request body
type StartDayRequest struct {
	Source   string `json:"source" binding:"omitempty,oneof=web mobile"`
	Location string `json:"location" binding:"omitempty,max=200"`
}

// HistoryRequest bounds an attendance history query
type HistoryRequest struct {
	From string `form:"from" binding:"required,datetime=2006-01-02"`
	To   string `form:"to" binding:"required,datetime=2006-01-02"`
}

// MonthlySummaryRequest selects one month of attendance
type MonthlySummaryRequest struct {
	Year  int `form:"year" binding:"required,gte=2000,lte=2100"`
	Month int `form:"month" binding:"required,gte=1,lte=12"`
}

// RosterRequest selects one day of the organization roster
type RosterRequest struct {
	Date string `form:"date" binding:"required,datetime=2006-01-02"`
}

// ManualRecordRequest is the HR manual day-entry request body
type ManualRecordRequest struct {
	UserID       uuid.UUID `json:"user_id" binding:"required"`
	Date         string    `json:"date" binding:"required,datetime=2006-01-02"`
	Status       string    `json:"status" binding:"required,oneof=present late remote on_leave absent"`
	WorkSeconds  int       `json:"work_seconds" binding:"gte=0,lte=86400"`
	BreakSeconds int       `json:"break_seconds" binding:"gte=0,lte=86400"`
}

// CorrectRecordRequest is the HR correction request body
type CorrectRecordRequest struct {
	Status       string `json:"status" binding:"required,oneof=present late remote on_leave absent"`
	WorkSeconds  int    `json:"work_seconds" binding:"gte=0,lte=86400"`
	BreakSeconds int    `json:"break_seconds" binding:"gte=0,lte=86400"`
}

// Today godoc
// @Summary      Today's attendance state
// @Description  The current day's record with timers reconciled server-side
// @Tags         attendance
// @Produce      json
// @Success      200 {object} dto.Response{data=attendance.TodayDTO}
// @Security     BearerAuth
// @Router       /attendance/today [get]
func (h *AttendanceHandler) Today(c *gin.Context) {
	tenantID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	today, err := h.attendanceService.Today(c.Request.Context(), tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, today)
}

// StartDay godoc
// @Summary      Check in
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        request body StartDayRequest false "Source and location"
// @Success      201 {object} dto.Response{data=attendance.RecordDTO}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /attendance/start [post]
func (h *AttendanceHandler) StartDay(c *gin.Context) {
	tenantID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	var req StartDayRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
	}

	record, err := h.attendanceService.StartDay(c.Request.Context(), attendance.StartDayInput{
		TenantID: tenantID,
		UserID:   userID,
		Source:   req.Source,
		Location: req.Location,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, record)
}

// StartBreak godoc
// @Summary      Start a break
// @Tags         attendance
// @Produce      json
// @Success      200 {object} dto.Response{data=attendance.RecordDTO}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /attendance/break/start [post]
func (h *AttendanceHandler) StartBreak(c *gin.Context) {
	h.transition(c, h.attendanceService.StartBreak)
}

// EndBreak godoc
// @Summary      End a break
// @Tags         attendance
// @Produce      json
// @Success      200 {object} dto.Response{data=attendance.RecordDTO}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /attendance/break/end [post]
func (h *AttendanceHandler) EndBreak(c *gin.Context) {
	h.transition(c, h.attendanceService.EndBreak)
}

// MarkRemote godoc
// @Summary      Mark today as remote work
// @Tags         attendance
// @Produce      json
// @Success      200 {object} dto.Response{data=attendance.RecordDTO}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /attendance/remote [post]
func (h *AttendanceHandler) MarkRemote(c *gin.Context) {
	h.transition(c, h.attendanceService.MarkRemote)
}

// EndDay godoc
// @Summary      Check out
// @Tags         attendance
// @Produce      json
// @Success      200 {object} dto.Response{data=attendance.RecordDTO}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /attendance/end [post]
func (h *AttendanceHandler) EndDay(c *gin.Context) {
	h.transition(c, h.attendanceService.EndDay)
}

// History godoc
// @Summary      My attendance history
// @Tags         attendance
// @Produce      json
// @Param        from query string true "Start date (YYYY-MM-DD)"
// @Param        to query string true "End date (YYYY-MM-DD)"
// @Success      200 {object} dto.Response{data=[]attendance.RecordDTO}
// @Security     BearerAuth
// @Router       /attendance/history [get]
func (h *AttendanceHandler) History(c *gin.Context) {
	tenantID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	var req HistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	from, _ := time.Parse("2006-01-02", req.From)
	to, _ := time.Parse("2006-01-02", req.To)
	if to.Before(from) {
		h.BadRequest(c, "End date must not be before start date")
		return
	}

	records, err := h.attendanceService.History(c.Request.Context(), tenantID, userID, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, records)
}

// MonthlySummary godoc
// @Summary      My monthly attendance summary
// @Tags         attendance
// @Produce      json
// @Param        year query int true "Year"
// @Param        month query int true "Month (1-12)"
// @Success      200 {object} dto.Response{data=attendance.MonthlySummaryDTO}
// @Security     BearerAuth
// @Router       /attendance/summary [get]
func (h *AttendanceHandler) MonthlySummary(c *gin.Context) {
	tenantID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	var req MonthlySummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	summary, err := h.attendanceService.MonthlySummary(c.Request.Context(), tenantID, userID, req.Year, req.Month)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// DayRoster godoc
// @Summary      Organization roster for one day
// @Tags         hrAttendance
// @Produce      json
// @Param        date query string true "Date (YYYY-MM-DD)"
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]attendance.RecordDTO,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /hr/attendance [get]
func (h *AttendanceHandler) DayRoster(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req RosterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	date, _ := time.Parse("2006-01-02", req.Date)

	filter, err := bindFilter(c)
	if err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.attendanceService.DayRoster(c.Request.Context(), tenantID, date, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// CreateManualRecord godoc
// @Summary      Enter a day record manually
// @Tags         hrAttendance
// @Accept       json
// @Produce      json
// @Param        request body ManualRecordRequest true "Record data"
// @Success      201 {object} dto.Response{data=attendance.RecordDTO}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/attendance [post]
func (h *AttendanceHandler) CreateManualRecord(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ManualRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	date, _ := time.Parse("2006-01-02", req.Date)

	record, err := h.attendanceService.CreateManualRecord(c.Request.Context(), attendance.ManualRecordInput{
		TenantID:     tenantID,
		UserID:       req.UserID,
		Date:         date,
		Status:       req.Status,
		WorkSeconds:  req.WorkSeconds,
		BreakSeconds: req.BreakSeconds,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, record)
}

// Correct godoc
// @Summary      Correct an attendance record
// @Tags         hrAttendance
// @Accept       json
// @Produce      json
// @Param        id path string true "Record ID"
// @Param        request body CorrectRecordRequest true "Corrected values"
// @Success      200 {object} dto.Response{data=attendance.RecordDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/attendance/{id} [put]
func (h *AttendanceHandler) Correct(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var uriReq dto.IDRequest
	if err := c.ShouldBindUri(&uriReq); err != nil {
		h.BadRequest(c, "Invalid record ID")
		return
	}
	recordID, _ := uuid.Parse(uriReq.ID)

	var req CorrectRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	record, err := h.attendanceService.Correct(c.Request.Context(), attendance.CorrectRecordInput{
		TenantID:     tenantID,
		RecordID:     recordID,
		Status:       req.Status,
		WorkSeconds:  req.WorkSeconds,
		BreakSeconds: req.BreakSeconds,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// transition runs one of the parameterless state transitions
func (h *AttendanceHandler) transition(c *gin.Context, fn func(ctx context.Context, tenantID, userID uuid.UUID) (*attendance.RecordDTO, error)) {
	tenantID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	record, err := fn(c.Request.Context(), tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}
