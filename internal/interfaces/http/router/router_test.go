package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hrm/backend/internal/infrastructure/config"
	"github.com/hrm/backend/internal/interfaces/http/handler"
	"github.com/hrm/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubJWT mimics the real JWT middleware: it rejects requests without a
// bearer token and stores the role claim for downstream role gates.
func stubJWT(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false})
		return
	}
	c.Set(middleware.JWTUserIDKey, "11111111-1111-1111-1111-111111111111")
	c.Set(middleware.JWTTenantIDKey, "22222222-2222-2222-2222-222222222222")
	c.Set(middleware.JWTRoleKey, c.GetHeader("X-Test-Role"))
	c.Next()
}

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	engine := gin.New()
	Setup(engine, Handlers{
		Auth:         &handler.AuthHandler{},
		Employee:     &handler.EmployeeHandler{},
		Attendance:   &handler.AttendanceHandler{},
		Leave:        &handler.LeaveHandler{},
		Invoice:      &handler.InvoiceHandler{},
		Notification: &handler.NotificationHandler{},
		SSE:          handler.NewNotificationSSEHandler(),
		Dashboard:    &handler.DashboardHandler{},
		Organization: &handler.OrganizationHandler{},
		Department:   &handler.DepartmentHandler{},
		Team:         &handler.TeamHandler{},
		User:         &handler.UserHandler{},
		System:       handler.NewSystemHandler(nil, nil, "hrm", "test"),
		Outbox:       &handler.OutboxHandler{},
	}, Config{
		HTTPConfig:    config.HTTPConfig{MaxBodySize: 1 << 20},
		JWTMiddleware: stubJWT,
		Logger:        zap.NewNop(),
	})
	return engine
}

func routeSet(engine *gin.Engine) map[string]bool {
	set := make(map[string]bool)
	for _, route := range engine.Routes() {
		set[route.Method+" "+route.Path] = true
	}
	return set
}

func TestSetupRegistersRouteTable(t *testing.T) {
	engine := newTestEngine(t)
	routes := routeSet(engine)

	expected := []string{
		"GET /health",
		"GET /api/v1/health",
		"POST /api/v1/auth/login",
		"POST /api/v1/auth/refresh",
		"POST /api/v1/auth/logout",
		"GET /api/v1/auth/me",
		"PUT /api/v1/auth/password",
		"POST /api/v1/org/register",
		"GET /api/v1/org",
		"PUT /api/v1/org",
		"GET /api/v1/org/settings",
		"PUT /api/v1/org/settings",
		"GET /api/v1/me/profile",
		"PUT /api/v1/me/profile",
		"POST /api/v1/me/profile/photo/upload-url",
		"POST /api/v1/me/profile/photo/confirm",
		"GET /api/v1/me/reports",
		"GET /api/v1/dashboard/my-day",
		"GET /api/v1/dashboard/overview",
		"GET /api/v1/attendance/today",
		"POST /api/v1/attendance/start",
		"POST /api/v1/attendance/break/start",
		"POST /api/v1/attendance/break/end",
		"POST /api/v1/attendance/remote",
		"POST /api/v1/attendance/end",
		"GET /api/v1/attendance/history",
		"GET /api/v1/attendance/summary",
		"GET /api/v1/leave/balances",
		"GET /api/v1/leave/requests",
		"POST /api/v1/leave/requests",
		"GET /api/v1/leave/requests/:id",
		"PUT /api/v1/leave/requests/:id",
		"POST /api/v1/leave/requests/:id/submit",
		"POST /api/v1/leave/requests/:id/cancel",
		"POST /api/v1/leave/requests/:id/attachments/upload-url",
		"POST /api/v1/leave/requests/:id/attachments/confirm",
		"GET /api/v1/leave/requests/:id/attachments/download-url",
		"GET /api/v1/leave/requests/:id/pdf",
		"GET /api/v1/invoices",
		"GET /api/v1/invoices/:id",
		"POST /api/v1/invoices/:id/exchange",
		"GET /api/v1/invoices/:id/pdf",
		"GET /api/v1/notifications",
		"GET /api/v1/notifications/unread-count",
		"GET /api/v1/notifications/stream",
		"POST /api/v1/notifications/:id/read",
		"POST /api/v1/notifications/read-all",
		"GET /api/v1/hr/leave/pending",
		"POST /api/v1/hr/leave/:id/process",
		"POST /api/v1/hr/leave/:id/approve",
		"POST /api/v1/hr/leave/:id/deny",
		"PUT /api/v1/hr/leave/balances",
		"POST /api/v1/hr/employees",
		"GET /api/v1/hr/employees",
		"GET /api/v1/hr/employees/export",
		"GET /api/v1/hr/employees/:id",
		"PUT /api/v1/hr/employees/:id/employment",
		"PUT /api/v1/hr/employees/:id/compensation",
		"POST /api/v1/hr/employees/:id/activate",
		"POST /api/v1/hr/employees/:id/terminate",
		"POST /api/v1/hr/users",
		"GET /api/v1/hr/users",
		"GET /api/v1/hr/users/:id",
		"PUT /api/v1/hr/users/:id",
		"PUT /api/v1/hr/users/:id/role",
		"POST /api/v1/hr/users/:id/activate",
		"POST /api/v1/hr/users/:id/deactivate",
		"POST /api/v1/hr/users/:id/unlock",
		"POST /api/v1/hr/users/:id/reset-password",
		"POST /api/v1/hr/departments",
		"GET /api/v1/hr/departments",
		"GET /api/v1/hr/departments/tree",
		"GET /api/v1/hr/departments/:id",
		"PUT /api/v1/hr/departments/:id",
		"POST /api/v1/hr/departments/:id/move",
		"DELETE /api/v1/hr/departments/:id",
		"POST /api/v1/hr/teams",
		"GET /api/v1/hr/teams",
		"GET /api/v1/hr/teams/:id",
		"PUT /api/v1/hr/teams/:id",
		"DELETE /api/v1/hr/teams/:id",
		"GET /api/v1/hr/attendance",
		"POST /api/v1/hr/attendance",
		"PUT /api/v1/hr/attendance/:id",
		"POST /api/v1/hr/invoices",
		"GET /api/v1/hr/invoices",
		"PUT /api/v1/hr/invoices/:id/lines",
		"PUT /api/v1/hr/invoices/:id/notes",
		"POST /api/v1/hr/invoices/:id/submit",
		"POST /api/v1/hr/invoices/:id/return",
		"POST /api/v1/hr/invoices/:id/ready",
		"POST /api/v1/hr/invoices/:id/lock",
		"POST /api/v1/hr/invoices/:id/unlock",
		"DELETE /api/v1/hr/invoices/:id",
		"POST /api/v1/hr/announcements",
		"GET /api/v1/hr/announcements",
		"GET /api/v1/hr/announcements/:id",
		"PUT /api/v1/hr/announcements/:id",
		"POST /api/v1/hr/announcements/:id/schedule",
		"POST /api/v1/hr/announcements/:id/send",
		"POST /api/v1/hr/announcements/:id/cancel",
		"GET /api/v1/system/info",
		"GET /api/v1/system/outbox/dead",
		"POST /api/v1/system/outbox/dead/retry-all",
		"GET /api/v1/system/outbox/stats",
		"GET /api/v1/system/outbox/:id",
		"POST /api/v1/system/outbox/:id/retry",
	}

	for _, route := range expected {
		assert.True(t, routes[route], "route not registered: %s", route)
	}
}

func TestSetupRejectsUnauthenticatedRequests(t *testing.T) {
	engine := newTestEngine(t)

	paths := []string{
		"/api/v1/me/profile",
		"/api/v1/attendance/today",
		"/api/v1/leave/requests",
		"/api/v1/invoices",
		"/api/v1/notifications",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "path %s", path)
	}
}

func TestSetupRoleGates(t *testing.T) {
	engine := newTestEngine(t)

	cases := []struct {
		name   string
		method string
		path   string
		role   string
		want   int
	}{
		{"employee cannot list pending leave", http.MethodGet, "/api/v1/hr/leave/pending", RoleEmployee, http.StatusForbidden},
		{"employee cannot list employees", http.MethodGet, "/api/v1/hr/employees", RoleEmployee, http.StatusForbidden},
		{"manager cannot list employees", http.MethodGet, "/api/v1/hr/employees", RoleManager, http.StatusForbidden},
		{"employee cannot see overview", http.MethodGet, "/api/v1/dashboard/overview", RoleEmployee, http.StatusForbidden},
		{"employee cannot read outbox stats", http.MethodGet, "/api/v1/system/outbox/stats", RoleEmployee, http.StatusForbidden},
		{"manager cannot adjust balances", http.MethodPut, "/api/v1/hr/leave/balances", RoleManager, http.StatusForbidden},
		{"employee cannot update org settings", http.MethodPut, "/api/v1/org/settings", RoleEmployee, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			req.Header.Set("Authorization", "Bearer test-token")
			req.Header.Set("X-Test-Role", tc.role)
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestSetupSwaggerDisabledByDefault(t *testing.T) {
	engine := newTestEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	// No swagger mount configured, the route does not exist
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCORSFromConfigDefaults(t *testing.T) {
	cfg := corsFromConfig(config.HTTPConfig{})
	def := middleware.DefaultCORSConfig()

	assert.Equal(t, def.AllowOrigins, cfg.AllowOrigins)
	assert.Equal(t, def.AllowMethods, cfg.AllowMethods)
}

func TestCORSFromConfigOverrides(t *testing.T) {
	cfg := corsFromConfig(config.HTTPConfig{
		CORSAllowOrigins: []string{"https://app.example.com"},
		CORSAllowMethods: []string{"GET", "POST"},
		CORSAllowHeaders: []string{"Content-Type"},
	})

	require.Equal(t, []string{"https://app.example.com"}, cfg.AllowOrigins)
	assert.Equal(t, []string{"GET", "POST"}, cfg.AllowMethods)
	assert.Equal(t, []string{"Content-Type"}, cfg.AllowHeaders)
}
