package printing

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type capturingRenderer struct {
	lastRequest *RenderRequest
	result      *RenderResult
	err         error
}

func (r *capturingRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	r.lastRequest = req
	if r.err != nil {
		return nil, r.err
	}
	if r.result != nil {
		return r.result, nil
	}
	return &RenderResult{PDFData: []byte("%PDF-1.4 stub"), PageCount: 1}, nil
}

func (r *capturingRenderer) Close() error { return nil }

func TestDocumentService_RenderLeaveApplication(t *testing.T) {
	renderer := &capturingRenderer{}
	svc := NewDocumentService(NewTemplateEngine(), renderer, zap.NewNop())

	pdf, err := svc.RenderLeaveApplication(context.Background(), LeaveApplicationData{
		OrganizationName: "Acme Corp",
		EmployeeName:     "Jordan Lee",
		LeaveType:        "sick",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, pdf)

	require.NotNil(t, renderer.lastRequest)
	assert.Equal(t, PaperA4, renderer.lastRequest.PaperSize)
	assert.Equal(t, OrientationPortrait, renderer.lastRequest.Orientation)
	assert.Contains(t, renderer.lastRequest.HTML, "Jordan Lee")
	assert.Equal(t, "Leave Application", renderer.lastRequest.Title)
}

func TestDocumentService_RenderInvoiceTitleCarriesPeriod(t *testing.T) {
	renderer := &capturingRenderer{}
	svc := NewDocumentService(NewTemplateEngine(), renderer, zap.NewNop())

	_, err := svc.RenderInvoice(context.Background(), InvoiceData{Period: "2025-07"})
	require.NoError(t, err)
	assert.Equal(t, "Invoice 2025-07", renderer.lastRequest.Title)
}

func TestDocumentService_RenderPropagatesRendererError(t *testing.T) {
	renderer := &capturingRenderer{err: NewRenderError(ErrCodeRenderFailed, "boom", nil)}
	svc := NewDocumentService(NewTemplateEngine(), renderer, zap.NewNop())

	_, err := svc.RenderLeaveApplication(context.Background(), LeaveApplicationData{})
	require.Error(t, err)

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeRenderFailed, renderErr.Code)
}

func TestChromedpRenderer_RejectsInvalidRequests(t *testing.T) {
	renderer, err := NewChromedpRenderer(&ChromedpConfig{NoSandbox: true})
	require.NoError(t, err)
	defer func() { _ = renderer.Close() }()

	cases := []struct {
		name string
		req  *RenderRequest
		code string
	}{
		{"nil request", nil, ErrCodeInvalidHTML},
		{"empty html", &RenderRequest{HTML: "   ", PaperSize: PaperA4}, ErrCodeInvalidHTML},
		{"bad paper size", &RenderRequest{HTML: "<p>hi</p>", PaperSize: "A17"}, ErrCodeInvalidPaperSize},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := renderer.Render(context.Background(), tc.req)
			require.Error(t, err)

			var renderErr *RenderError
			require.ErrorAs(t, err, &renderErr)
			assert.Equal(t, tc.code, renderErr.Code)
		})
	}
}

func TestBuildCompleteHTML(t *testing.T) {
	renderer := &ChromedpRenderer{config: &ChromedpConfig{}}

	wrapped := renderer.buildCompleteHTML(&RenderRequest{HTML: "<p>hello</p>", Title: "Doc"})
	assert.True(t, strings.HasPrefix(wrapped, "<!DOCTYPE html>"))
	assert.Contains(t, wrapped, "<title>Doc</title>")

	full := "<!DOCTYPE html><html><body>x</body></html>"
	assert.Equal(t, full, renderer.buildCompleteHTML(&RenderRequest{HTML: full}))
}

func TestEstimatePageCount(t *testing.T) {
	pdf := []byte("%PDF /Type /Pages /Type /Page /Type /Page end")
	assert.Equal(t, 2, estimatePageCount(pdf))
	assert.Equal(t, 1, estimatePageCount([]byte("%PDF")))
}
