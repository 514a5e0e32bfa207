package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hrm/backend/internal/application/hr"
	"github.com/hrm/backend/internal/application/invoice"
	"github.com/hrm/backend/internal/infrastructure/printing"
	"github.com/hrm/backend/internal/interfaces/http/dto"
	"github.com/hrm/backend/internal/interfaces/http/middleware"
)

// UnlockTokenHeader carries the short-lived invoice unlock token
const UnlockTokenHeader = "X-Unlock-Token"

// InvoiceHandler handles payroll invoice requests: generation, locking,
// the password-gated unlock flow, and PDF downloads
type InvoiceHandler struct {
	BaseHandler
	invoiceService  *invoice.Service
	employeeService *hr.EmployeeService
	documentService *printing.DocumentService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(
	invoiceService *invoice.Service,
	employeeService *hr.EmployeeService,
	documentService *printing.DocumentService,
) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService:  invoiceService,
		employeeService: employeeService,
		documentService: documentService,
	}
}

// GenerateInvoiceRequest is the invoice generation request body
type GenerateInvoiceRequest struct {
	UserID      uuid.UUID `json:"user_id" binding:"required"`
	PeriodYear  int       `json:"period_year" binding:"required,gte=2000,lte=2100"`
	PeriodMonth int       `json:"period_month" binding:"required,gte=1,lte=12"`
}

// InvoiceLineRequest is one client-supplied invoice line
type InvoiceLineRequest struct {
	ID          *uuid.UUID      `json:"id"`
	Description string          `json:"description" binding:"required,max=500"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

// ReplaceLinesRequest replaces all lines of a draft invoice
type ReplaceLinesRequest struct {
	Lines []InvoiceLineRequest `json:"lines" binding:"required,min=1,max=100,dive"`
}

// SetNotesRequest sets the invoice notes
type SetNotesRequest struct {
	Notes string `json:"notes" binding:"max=2000"`
}

// LockInvoiceRequest locks an invoice behind a password
type LockInvoiceRequest struct {
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// ExchangePasswordRequest exchanges the invoice password for a token
type ExchangePasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// ListMine godoc
// @Summary      My payroll invoices
// @Tags         invoice
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]invoice.InvoiceDTO,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /invoices [get]
func (h *InvoiceHandler) ListMine(c *gin.Context) {
	tenantID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	filter, err := bindFilter(c)
	if err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.invoiceService.ListMine(c.Request.Context(), tenantID, userID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get godoc
// @Summary      Get an invoice
// @Description  A locked invoice comes back masked unless a valid unlock
// @Description  token is supplied in the X-Unlock-Token header
// @Tags         invoice
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} dto.Response{data=invoice.InvoiceDTO}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	tenantID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	invoiceID, ok := h.bindInvoiceID(c)
	if !ok {
		return
	}

	inv, err := h.invoiceService.Get(c.Request.Context(), tenantID, invoiceID, userID,
		h.isHRAdmin(c), c.GetHeader(UnlockTokenHeader))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, inv)
}

// ExchangePassword godoc
// @Summary      Exchange the invoice password for an unlock token
// @Tags         invoice
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        request body ExchangePasswordRequest true "Password"
// @Success      200 {object} dto.Response{data=invoice.UnlockExchangeResult}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id}/exchange [post]
func (h *InvoiceHandler) ExchangePassword(c *gin.Context) {
	tenantID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	invoiceID, ok := h.bindInvoiceID(c)
	if !ok {
		return
	}

	var req ExchangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	result, err := h.invoiceService.ExchangePassword(c.Request.Context(), tenantID, invoiceID, userID, req.Password)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// PDF godoc
// @Summary      Download an invoice as PDF
// @Tags         invoice
// @Produce      application/pdf
// @Param        id path string true "Invoice ID"
// @Success      200 {file} file
// @Failure      423 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *gin.Context) {
	tenantID, userID, ok := h.getIdentity(c)
	if !ok {
		return
	}

	invoiceID, ok := h.bindInvoiceID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	inv, err := h.invoiceService.Get(ctx, tenantID, invoiceID, userID,
		h.isHRAdmin(c), c.GetHeader(UnlockTokenHeader))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if inv.Masked {
		h.Error(c, http.StatusLocked, "RESOURCE_LOCKED", "Invoice is locked; exchange the password first")
		return
	}

	employee, err := h.employeeService.Get(ctx, tenantID, inv.UserID, false)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	employeeName := employee.Email
	if employee.Profile != nil && employee.Profile.FullName != "" {
		employeeName = employee.Profile.FullName
	}
	var employeeCode string
	if employee.Employment != nil {
		employeeCode = employee.Employment.EmployeeCode
	}

	lines := make([]printing.InvoiceLineData, len(inv.Lines))
	for i, line := range inv.Lines {
		lines[i] = printing.InvoiceLineData{
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Amount:      line.Amount,
		}
	}
	var total decimal.Decimal
	if inv.Total != nil {
		total = *inv.Total
	}

	pdf, err := h.documentService.RenderInvoice(ctx, printing.InvoiceData{
		EmployeeName: employeeName,
		EmployeeCode: employeeCode,
		Period:       inv.Period,
		Currency:     inv.Currency,
		Lines:        lines,
		Total:        total,
		Notes:        inv.Notes,
		Status:       inv.Status,
		GeneratedAt:  inv.UpdatedAt,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	filename := "invoice-" + inv.Period + ".pdf"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Generate godoc
// @Summary      Generate a payroll invoice
// @Description  Builds a draft invoice for one employee and period from the
// @Description  employment compensation
// @Tags         hrInvoices
// @Accept       json
// @Produce      json
// @Param        request body GenerateInvoiceRequest true "Employee and period"
// @Success      201 {object} dto.Response{data=invoice.InvoiceDTO}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/invoices [post]
func (h *InvoiceHandler) Generate(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req GenerateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	inv, err := h.invoiceService.Generate(c.Request.Context(), invoice.GenerateInvoiceInput{
		TenantID:    tenantID,
		UserID:      req.UserID,
		PeriodYear:  req.PeriodYear,
		PeriodMonth: req.PeriodMonth,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, inv)
}

// ListAll godoc
// @Summary      List all invoices
// @Tags         hrInvoices
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Success      200 {object} dto.Response{data=[]invoice.InvoiceDTO,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /hr/invoices [get]
func (h *InvoiceHandler) ListAll(c *gin.Context) {
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

	result, err := h.invoiceService.ListAll(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// ReplaceLines godoc
// @Summary      Replace invoice lines
// @Tags         hrInvoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        request body ReplaceLinesRequest true "Lines"
// @Success      200 {object} dto.Response{data=invoice.InvoiceDTO}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/invoices/{id}/lines [put]
func (h *InvoiceHandler) ReplaceLines(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	invoiceID, ok := h.bindInvoiceID(c)
	if !ok {
		return
	}

	var req ReplaceLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	lines := make([]invoice.LineItemInput, len(req.Lines))
	for i, line := range req.Lines {
		input := invoice.LineItemInput{
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		}
		if line.ID != nil {
			input.ID = *line.ID
		}
		lines[i] = input
	}

	inv, err := h.invoiceService.ReplaceLines(c.Request.Context(), invoice.ReplaceLinesInput{
		TenantID:  tenantID,
		InvoiceID: invoiceID,
		Lines:     lines,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, inv)
}

// SetNotes godoc
// @Summary      Set invoice notes
// @Tags         hrInvoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        request body SetNotesRequest true "Notes"
// @Success      200 {object} dto.Response{data=invoice.InvoiceDTO}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/invoices/{id}/notes [put]
func (h *InvoiceHandler) SetNotes(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	invoiceID, ok := h.bindInvoiceID(c)
	if !ok {
		return
	}

	var req SetNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	inv, err := h.invoiceService.SetNotes(c.Request.Context(), tenantID, invoiceID, req.Notes)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, inv)
}

// SubmitForReview godoc
// @Summary      Submit an invoice for review
// @Tags         hrInvoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} dto.Response{data=invoice.InvoiceDTO}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/invoices/{id}/submit [post]
func (h *InvoiceHandler) SubmitForReview(c *gin.Context) {
	h.transition(c, h.invoiceService.SubmitForReview)
}

// ReturnToDraft godoc
// @Summary      Return an invoice to draft
// @Tags         hrInvoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} dto.Response{data=invoice.InvoiceDTO}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/invoices/{id}/return [post]
func (h *InvoiceHandler) ReturnToDraft(c *gin.Context) {
	h.transition(c, h.invoiceService.ReturnToDraft)
}

// MarkReady godoc
// @Summary      Mark an invoice ready for delivery
// @Tags         hrInvoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} dto.Response{data=invoice.InvoiceDTO}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/invoices/{id}/ready [post]
func (h *InvoiceHandler) MarkReady(c *gin.Context) {
	h.transition(c, h.invoiceService.MarkReady)
}

// Lock godoc
// @Summary      Lock an invoice
// @Description  Locks the invoice behind a password; readers must exchange
// @Description  it for a short-lived token
// @Tags         hrInvoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        request body LockInvoiceRequest true "Password"
// @Success      200 {object} dto.Response{data=invoice.InvoiceDTO}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/invoices/{id}/lock [post]
func (h *InvoiceHandler) Lock(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	invoiceID, ok := h.bindInvoiceID(c)
	if !ok {
		return
	}

	var req LockInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	inv, err := h.invoiceService.Lock(c.Request.Context(), tenantID, invoiceID, req.Password)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, inv)
}

// Unlock godoc
// @Summary      Unlock an invoice
// @Tags         hrInvoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} dto.Response{data=invoice.InvoiceDTO}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/invoices/{id}/unlock [post]
func (h *InvoiceHandler) Unlock(c *gin.Context) {
	h.transition(c, h.invoiceService.Unlock)
}

// Delete godoc
// @Summary      Delete a draft invoice
// @Tags         hrInvoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      204 "No Content"
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /hr/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	invoiceID, ok := h.bindInvoiceID(c)
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), tenantID, invoiceID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *InvoiceHandler) isHRAdmin(c *gin.Context) bool {
	return middleware.GetJWTRole(c) == "hr_admin"
}

func (h *InvoiceHandler) transition(c *gin.Context, fn func(ctx context.Context, tenantID, invoiceID uuid.UUID) (*invoice.InvoiceDTO, error)) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	invoiceID, ok := h.bindInvoiceID(c)
	if !ok {
		return
	}

	inv, err := fn(c.Request.Context(), tenantID, invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, inv)
}

func (h *InvoiceHandler) bindInvoiceID(c *gin.Context) (uuid.UUID, bool) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return uuid.Nil, false
	}
	return id, true
}
