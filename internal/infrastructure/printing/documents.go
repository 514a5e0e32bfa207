package printing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hrm/backend/internal/domain/invoice"
	"github.com/hrm/backend/internal/domain/leave"
)

// LeaveApplicationData is the template model for a leave application preview
type LeaveApplicationData struct {
	OrganizationName string
	EmployeeName     string
	EmployeeCode     string
	Designation      string
	LeaveType        string
	StartDate        time.Time
	EndDate          time.Time
	WorkingDays      decimal.Decimal
	Status           string
	Reason           string
	DecisionNote     string
	ReviewerName     string
	Reference        string
	GeneratedAt      time.Time
}

// NewLeaveApplicationData builds the template model from a leave request.
// Employee and reviewer names come from the caller since the aggregate only
// carries IDs.
func NewLeaveApplicationData(req *leave.Request, orgName, employeeName, employeeCode, designation, reviewerName string) LeaveApplicationData {
	return LeaveApplicationData{
		OrganizationName: orgName,
		EmployeeName:     employeeName,
		EmployeeCode:     employeeCode,
		Designation:      designation,
		LeaveType:        string(req.Type),
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		WorkingDays:      req.WorkingDays,
		Status:           string(req.Status),
		Reason:           req.Reason,
		DecisionNote:     req.DecisionNote,
		ReviewerName:     reviewerName,
		Reference:        req.ID.String(),
		GeneratedAt:      time.Now(),
	}
}

// InvoiceLineData is one invoice line in the template model
type InvoiceLineData struct {
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
}

// InvoiceData is the template model for a rendered invoice
type InvoiceData struct {
	EmployeeName string
	EmployeeCode string
	Period       string
	Currency     string
	Lines        []InvoiceLineData
	Total        decimal.Decimal
	Notes        string
	Status       string
	GeneratedAt  time.Time
}

// NewInvoiceData builds the template model from an invoice aggregate
func NewInvoiceData(inv *invoice.Invoice, employeeName, employeeCode string) InvoiceData {
	lines := make([]InvoiceLineData, 0, len(inv.Lines))
	for _, line := range inv.Lines {
		lines = append(lines, InvoiceLineData{
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Amount:      line.Amount,
		})
	}

	return InvoiceData{
		EmployeeName: employeeName,
		EmployeeCode: employeeCode,
		Period:       inv.PeriodLabel(),
		Currency:     inv.Currency,
		Lines:        lines,
		Total:        inv.Total,
		Notes:        inv.Notes,
		Status:       string(inv.Status),
		GeneratedAt:  time.Now(),
	}
}

// DocumentService turns domain aggregates into rendered PDF documents
type DocumentService struct {
	engine   *TemplateEngine
	renderer PDFRenderer
	logger   *zap.Logger
}

// NewDocumentService creates a document service
func NewDocumentService(engine *TemplateEngine, renderer PDFRenderer, logger *zap.Logger) *DocumentService {
	return &DocumentService{
		engine:   engine,
		renderer: renderer,
		logger:   logger,
	}
}

// RenderLeaveApplication renders a leave application preview to PDF
func (s *DocumentService) RenderLeaveApplication(ctx context.Context, data LeaveApplicationData) ([]byte, error) {
	html, err := s.engine.Render(TemplateLeaveApplication, data)
	if err != nil {
		return nil, err
	}
	return s.renderPDF(ctx, html, "Leave Application")
}

// RenderInvoice renders an invoice to PDF
func (s *DocumentService) RenderInvoice(ctx context.Context, data InvoiceData) ([]byte, error) {
	html, err := s.engine.Render(TemplateInvoice, data)
	if err != nil {
		return nil, err
	}
	return s.renderPDF(ctx, html, "Invoice "+data.Period)
}

func (s *DocumentService) renderPDF(ctx context.Context, html, title string) ([]byte, error) {
	result, err := s.renderer.Render(ctx, &RenderRequest{
		HTML:        html,
		PaperSize:   PaperA4,
		Orientation: OrientationPortrait,
		Margins:     DefaultMargins(),
		Title:       title,
	})
	if err != nil {
		s.logger.Error("Document rendering failed", zap.String("title", title), zap.Error(err))
		return nil, err
	}
	return result.PDFData, nil
}
