package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hrm/backend/internal/application/hr"
	"github.com/hrm/backend/internal/application/identity"
	"github.com/hrm/backend/internal/application/leave"
	"github.com/hrm/backend/internal/infrastructure/printing"
	"github.com/hrm/backend/internal/interfaces/http/dto"
	"github.com/hrm/backend/internal/interfaces/http/middleware"
)

// LeaveHandler handles leave requests, balances, attachments, and the HR
// review workflow
type LeaveHandler struct {
	BaseHandler
	leaveService    *leave.Service
	employeeService *hr.EmployeeService
	orgService      *identity.OrganizationService
	userService     *identity.UserService
	documentService *printing.DocumentService
}

// NewLeaveHandler creates a new leave handler
func NewLeaveHandler(
	leaveService *leave.Service,
	employeeService *hr.EmployeeService,
	orgService *identity.OrganizationService,
	userService *identity.UserService,
	documentService *printing.DocumentService,
) *LeaveHandler {
	return &LeaveHandler{
		leaveService:    leaveService,
		employeeService: employeeService,
		orgService:      orgService,
		userService:     userService,
		documentService: documentService,
	}
}

// CreateLeaveRequest is the draft creation request body
type CreateLeaveRequest struct {
	Type        string          `json:"type" binding:"required,oneof=annual sick casual unpaid"`
	StartDate   string          `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate     string          `json:"end_date" binding:"required,datetime=2006-01-02"`
	WorkingDays decimal.Decimal `json:"working_days" binding:"required"`
	Reason      string          `json:"reason" binding:"omitempty,max=2000"`
}

// DecideLeaveRequest carries the optional reviewer note
type DecideLeaveRequest struct {
	Note string `json:"note" binding:"omitempty,max=2000"`
}

// AdjustBalanceRequest is the HR allocation adjustment request body
type AdjustBalanceRequest struct {
	UserID    uuid.UUID       `json:"user_id" binding:"required"`
	Type      string          `json:"type" binding:"required,oneof=annual sick casual unpaid"`
	CycleYear int             `json:"cycle_year" binding:"required,gte=2000,lte=2100"`
	Allocated decimal.Decimal `json:"allocated" binding:"required"`
}

// AttachmentUploadRequest asks for a presigned attachment upload URL
type AttachmentUploadRequest struct {
	ContentType string `json:"content_type" binding:"required,oneof=application/pdf image/jpeg image/png"`
}

// AttachmentDownloadRequest selects one attachment by storage key
type AttachmentDownloadRequest struct {
	StorageKey string `form:"storage_key" binding:"required,max=512"`
}

// allowAny reports whether the caller may read other users' requests
func (h *LeaveHandler) allowAny(c *gin.Context) bool {
	role := middleware.GetJWTRole(c)
	return role == "hr_admin" || role == "manager"
}

// Balances godoc
// @Summary      My leave balances
// @Tags         leave
// @Produce      json
// @Param        cycle_year query int false "Cycle year, defaults to current"
// @Success      200 {object} dto.Response{data=[]leave.BalanceDTO}
// @Security     BearerAuth
// @Router       /leave/balances [get]
func (h *LeaveHandler) Balances(c *gin.Context) {
	tenantID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	cycleYear := time.Now().Year()
	var req struct {
		CycleYear int `form:"cycle_year" binding:"omitempty,gte=2000,lte=2100"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if req.CycleYear != 0 {
		cycleYear = req.CycleYear
	}

	balances, err := h.leaveService.Balances(c.Request.Context(), tenantID, userID, cycleYear)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, balances)
}

// ListMine godoc
// @Summary      My leave requests
// @Tags         leave
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]leave.RequestDTO,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /leave/requests [get]
func (h *LeaveHandler) ListMine(c *gin.Context) {
	tenantID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	filter, err := bindFilter(c)
	if err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.leaveService.ListMine(c.Request.Context(), tenantID, userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get godoc
// @Summary      Get a leave request
// @Tags         leave
// @Produce      json
// @Param        id path string true "Request ID"
// @Success      200 {object} dto.Response{data=leave.RequestDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /leave/requests/{id} [get]
func (h *LeaveHandler) Get(c *gin.Context) {
	tenantID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	requestID, ok := h.bindID(c, "Invalid request ID")
	if !ok {
		return
	}

	request, err := h.leaveService.Get(c.Request.Context(), tenantID, requestID, userID, h.allowAny(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// Create godoc
// @Summary      Create a leave request draft
// @Tags         leave
// @Accept       json
// @Produce      json
// @Param        request body CreateLeaveRequest true "Request data"
// @Success      201 {object} dto.Response{data=leave.RequestDTO}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /leave/requests [post]
func (h *LeaveHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)

	request, err := h.leaveService.CreateDraft(c.Request.Context(), leave.CreateRequestInput{
		TenantID:    tenantID,
		UserID:      userID,
		Type:        req.Type,
		StartDate:   startDate,
		EndDate:     endDate,
		WorkingDays: req.WorkingDays,
		Reason:      req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, request)
}

// Update godoc
// @Summary      Edit a draft leave request
// @Tags         leave
// @Accept       json
// @Produce      json
// @Param        id path string true "Request ID"
// @Param        request body CreateLeaveRequest true "Request data"
// @Success      200 {object} dto.Response{data=leave.RequestDTO}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /leave/requests/{id} [put]
func (h *LeaveHandler) Update(c *gin.Context) {
	tenantID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	requestID, ok := h.bindID(c, "Invalid request ID")
	if !ok {
		return
	}

	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)

	request, err := h.leaveService.UpdateDraft(c.Request.Context(), leave.UpdateRequestInput{
		TenantID:    tenantID,
		RequestID:   requestID,
		UserID:      userID,
		Type:        req.Type,
		StartDate:   startDate,
		EndDate:     endDate,
		WorkingDays: req.WorkingDays,
		Reason:      req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// Submit godoc
// @Summary      Submit a leave request for review
// @Tags         leave
// @Produce      json
// @Param        id path string true "Request ID"
// @Success      200 {object} dto.Response{data=leave.RequestDTO}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /leave/requests/{id}/submit [post]
func (h *LeaveHandler) Submit(c *gin.Context) {
	tenantID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	requestID, ok := h.bindID(c, "Invalid request ID")
	if !ok {
		return
	}

	request, err := h.leaveService.Submit(c.Request.Context(), tenantID, requestID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// Cancel godoc
// @Summary      Cancel a leave request
// @Tags         leave
// @Produce      json
// @Param        id path string true "Request ID"
// @Success      200 {object} dto.Response{data=leave.RequestDTO}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /leave/requests/{id}/cancel [post]
func (h *LeaveHandler) Cancel(c *gin.Context) {
	tenantID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	requestID, ok := h.bindID(c, "Invalid request ID")
	if !ok {
		return
	}

	request, err := h.leaveService.Cancel(c.Request.Context(), tenantID, requestID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// AttachmentUploadURL godoc
// @Summary      Request an attachment upload URL
// @Tags         leave
// @Accept       json
// @Produce      json
// @Param        id path string true "Request ID"
// @Param        request body AttachmentUploadRequest true "Content type"
// @Success      200 {object} dto.Response{data=leave.AttachmentUploadResult}
// @Security     BearerAuth
// @Router       /leave/requests/{id}/attachments/upload-url [post]
func (h *LeaveHandler) AttachmentUploadURL(c *gin.Context) {
	tenantID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	requestID, ok := h.bindID(c, "Invalid request ID")
	if !ok {
		return
	}

	var req AttachmentUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.leaveService.AttachmentUploadURL(c.Request.Context(), tenantID, requestID, userID, req.ContentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ConfirmAttachment godoc
// @Summary      Confirm an uploaded attachment
// @Tags         leave
// @Accept       json
// @Produce      json
// @Param        id path string true "Request ID"
// @Param        request body ConfirmUploadRequest true "Storage key"
// @Success      200 {object} dto.Response{data=leave.RequestDTO}
// @Security     BearerAuth
// @Router       /leave/requests/{id}/attachments/confirm [post]
func (h *LeaveHandler) ConfirmAttachment(c *gin.Context) {
	tenantID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	requestID, ok := h.bindID(c, "Invalid request ID")
	if !ok {
		return
	}

	var req ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	request, err := h.leaveService.ConfirmAttachment(c.Request.Context(), tenantID, requestID, userID, req.StorageKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// AttachmentDownloadURL godoc
// @Summary      Get a presigned attachment download URL
// @Tags         leave
// @Produce      json
// @Param        id path string true "Request ID"
// @Param        storage_key query string true "Storage key"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /leave/requests/{id}/attachments/download-url [get]
func (h *LeaveHandler) AttachmentDownloadURL(c *gin.Context) {
	tenantID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	requestID, ok := h.bindID(c, "Invalid request ID")
	if !ok {
		return
	}

	var req AttachmentDownloadRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	url, err := h.leaveService.AttachmentDownloadURL(c.Request.Context(), tenantID, requestID, userID, h.allowAny(c), req.StorageKey)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"download_url": url})
}

// ApplicationPDF godoc
// @Summary      Download the leave application as PDF
// @Tags         leave
// @Produce      application/pdf
// @Param        id path string true "Request ID"
// @Success      200 {file} file
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /leave/requests/{id}/pdf [get]
func (h *LeaveHandler) ApplicationPDF(c *gin.Context) {
	tenantID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	requestID, ok := h.bindID(c, "Invalid request ID")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	request, err := h.leaveService.Get(ctx, tenantID, requestID, userID, h.allowAny(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	org, err := h.orgService.Get(ctx, tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	employee, err := h.employeeService.Get(ctx, tenantID, request.UserID, false)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	employeeName := employee.Email
	if employee.Profile != nil && employee.Profile.FullName != "" {
		employeeName = employee.Profile.FullName
	}
	var employeeCode, designation string
	if employee.Employment != nil {
		employeeCode = employee.Employment.EmployeeCode
		designation = employee.Employment.Designation
	}

	reviewerName := ""
	if request.ReviewerID != nil {
		if reviewer, err := h.userService.Get(ctx, tenantID, *request.ReviewerID); err == nil {
			reviewerName = reviewer.DisplayName
			if reviewerName == "" {
				reviewerName = reviewer.Email
			}
		}
	}

	data := printing.LeaveApplicationData{
		OrganizationName: org.Name,
		EmployeeName:     employeeName,
		EmployeeCode:     employeeCode,
		Designation:      designation,
		LeaveType:        request.Type,
		StartDate:        request.StartDate,
		EndDate:          request.EndDate,
		WorkingDays:      request.WorkingDays,
		Status:           request.Status,
		Reason:           request.Reason,
		DecisionNote:     request.DecisionNote,
		ReviewerName:     reviewerName,
		Reference:        request.ID.String(),
		GeneratedAt:      time.Now(),
	}
	pdf, err := h.documentService.RenderLeaveApplication(ctx, data)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	filename := "leave-application-" + requestID.String() + ".pdf"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// ListPending godoc
// @Summary      Pending leave requests
// @Tags         hrLeave
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]leave.RequestDTO,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /hr/leave/pending [get]
func (h *LeaveHandler) ListPending(c *gin.Context) {
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

	result, err := h.leaveService.ListPending(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// StartProcessing godoc
// @Summary      Claim a leave request for review
// @Tags         hrLeave
// @Produce      json
// @Param        id path string true "Request ID"
// @Success      200 {object} dto.Response{data=leave.RequestDTO}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/leave/{id}/process [post]
func (h *LeaveHandler) StartProcessing(c *gin.Context) {
	tenantID, reviewerID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	requestID, ok := h.bindID(c, "Invalid request ID")
	if !ok {
		return
	}

	request, err := h.leaveService.StartProcessing(c.Request.Context(), tenantID, requestID, reviewerID, middleware.GetJWTRole(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// Approve godoc
// @Summary      Approve a leave request
// @Tags         hrLeave
// @Accept       json
// @Produce      json
// @Param        id path string true "Request ID"
// @Param        request body DecideLeaveRequest false "Reviewer note"
// @Success      200 {object} dto.Response{data=leave.RequestDTO}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/leave/{id}/approve [post]
func (h *LeaveHandler) Approve(c *gin.Context) {
	h.decide(c, h.leaveService.Approve)
}

// Deny godoc
// @Summary      Deny a leave request
// @Tags         hrLeave
// @Accept       json
// @Produce      json
// @Param        id path string true "Request ID"
// @Param        request body DecideLeaveRequest false "Reviewer note"
// @Success      200 {object} dto.Response{data=leave.RequestDTO}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/leave/{id}/deny [post]
func (h *LeaveHandler) Deny(c *gin.Context) {
	h.decide(c, h.leaveService.Deny)
}

// AdjustBalance godoc
// @Summary      Adjust a leave allocation
// @Tags         hrLeave
// @Accept       json
// @Produce      json
// @Param        request body AdjustBalanceRequest true "Allocation"
// @Success      200 {object} dto.Response{data=leave.BalanceDTO}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/leave/balances [put]
func (h *LeaveHandler) AdjustBalance(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req AdjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	balance, err := h.leaveService.AdjustBalance(c.Request.Context(), leave.AdjustBalanceInput{
		TenantID:  tenantID,
		UserID:    req.UserID,
		Type:      req.Type,
		CycleYear: req.CycleYear,
		Allocated: req.Allocated,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, balance)
}

func (h *LeaveHandler) decide(c *gin.Context, fn func(ctx context.Context, input leave.DecideInput) (*leave.RequestDTO, error)) {
	tenantID, reviewerID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	requestID, ok := h.bindID(c, "Invalid request ID")
	if !ok {
		return
	}

	var req DecideLeaveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			middleware.HandleValidationError(c, err)
			return
		}
	}

	request, err := fn(c.Request.Context(), leave.DecideInput{
		TenantID:     tenantID,
		RequestID:    requestID,
		ReviewerID:   reviewerID,
		ReviewerRole: middleware.GetJWTRole(c),
		Note:         req.Note,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, request)
}

// bindID binds the :id path parameter as a UUID
func (h *LeaveHandler) bindID(c *gin.Context, message string) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, message)
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, message)
		return uuid.Nil, false
	}
	return id, true
}
