package printing

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// TemplateEngine renders HTML document templates with formatting helpers.
// Parsed templates are cached by name.
type TemplateEngine struct {
	funcMap template.FuncMap

	mu    sync.RWMutex
	cache map[string]*template.Template
}

// NewTemplateEngine creates a template engine with the default helpers
// and the built-in document templates registered.
func NewTemplateEngine() *TemplateEngine {
	e := &TemplateEngine{
		cache: make(map[string]*template.Template),
	}
	e.funcMap = template.FuncMap{
		"formatMoney":    formatMoney,
		"formatDate":     formatDate,
		"formatDateTime": formatDateTime,
		"formatDays":     formatDays,
		"upper":          strings.ToUpper,
		"lower":          strings.ToLower,
		"default":        defaultFunc,
		"nl2br":          nl2br,
	}

	// Built-in documents; callers may override by re-registering.
	_ = e.Register(TemplateLeaveApplication, leaveApplicationTemplate)
	_ = e.Register(TemplateInvoice, invoiceTemplate)

	return e
}

// Register parses and caches a template under the given name
func (e *TemplateEngine) Register(name, content string) error {
	tmpl, err := template.New(name).Funcs(e.funcMap).Parse(content)
	if err != nil {
		return NewRenderError(ErrCodeTemplateFailed, "failed to parse template "+name, err)
	}

	e.mu.Lock()
	e.cache[name] = tmpl
	e.mu.Unlock()
	return nil
}

// Render executes a registered template with the given data
func (e *TemplateEngine) Render(name string, data any) (string, error) {
	e.mu.RLock()
	tmpl, ok := e.cache[name]
	e.mu.RUnlock()
	if !ok {
		return "", NewRenderError(ErrCodeTemplateFailed, "template not registered: "+name, nil)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "failed to execute template "+name, err)
	}
	return buf.String(), nil
}

func formatMoney(amount decimal.Decimal, currency string) string {
	return fmt.Sprintf("%s %s", strings.ToUpper(currency), amount.StringFixed(2))
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

func formatDays(d decimal.Decimal) string {
	if d.IsInteger() {
		return d.StringFixed(0)
	}
	return d.StringFixed(1)
}

func defaultFunc(def, value any) any {
	switch v := value.(type) {
	case nil:
		return def
	case string:
		if strings.TrimSpace(v) == "" {
			return def
		}
	}
	return value
}

func nl2br(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}
