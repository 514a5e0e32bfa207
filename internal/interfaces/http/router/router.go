// Package router assembles the gin engine: the middleware chain and the
// full HR API route table under /api/v1.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"go.uber.org/zap"

	"github.com/hrm/backend/internal/infrastructure/config"
	"github.com/hrm/backend/internal/infrastructure/logger"
	"github.com/hrm/backend/internal/interfaces/http/handler"
	"github.com/hrm/backend/internal/interfaces/http/middleware"
)

// Roles used for route gating
const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleHRAdmin  = "hr_admin"
)

// Handlers bundles every HTTP handler the router mounts
type Handlers struct {
	Auth         *handler.AuthHandler
	Employee     *handler.EmployeeHandler
	Attendance   *handler.AttendanceHandler
	Leave        *handler.LeaveHandler
	Invoice      *handler.InvoiceHandler
	Notification *handler.NotificationHandler
	SSE          *handler.NotificationSSEHandler
	Dashboard    *handler.DashboardHandler
	Organization *handler.OrganizationHandler
	Department   *handler.DepartmentHandler
	Team         *handler.TeamHandler
	User         *handler.UserHandler
	System       *handler.SystemHandler
	Outbox       *handler.OutboxHandler
}

// Config carries middleware dependencies and settings
type Config struct {
	HTTPConfig    config.HTTPConfig
	JWTMiddleware gin.HandlerFunc
	RateLimiter   *limiter.Limiter
	AuthLimiter   *limiter.Limiter
	Swagger       middleware.SwaggerConfig
	SwaggerMount  gin.HandlerFunc
	Logger        *zap.Logger
}

// Setup wires the middleware chain and route table into the engine
func Setup(engine *gin.Engine, h Handlers, cfg Config) {
	middleware.SetupValidator()

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(cfg.Logger))
	engine.Use(logger.GinMiddleware(cfg.Logger))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(corsFromConfig(cfg.HTTPConfig)))
	if cfg.HTTPConfig.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.HTTPConfig.MaxBodySize))
	}

	engine.GET("/health", h.System.Health)

	if cfg.SwaggerMount != nil {
		engine.GET("/swagger/*any",
			middleware.SwaggerProtection(cfg.Swagger, cfg.JWTMiddleware),
			cfg.SwaggerMount)
	}

	api := engine.Group("/api/v1")
	if cfg.RateLimiter != nil {
		api.Use(middleware.RateLimit(cfg.RateLimiter, cfg.Logger))
	}
	api.Use(cfg.JWTMiddleware)

	api.GET("/health", h.System.Health)

	// Public endpoints; the JWT middleware skips these paths, and the
	// stricter auth limiter guards credential guessing
	auth := api.Group("/auth")
	if cfg.AuthLimiter != nil {
		auth.Use(middleware.RateLimit(cfg.AuthLimiter, cfg.Logger))
	}
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.RefreshToken)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/me", h.Auth.GetCurrentUser)
		auth.PUT("/password", h.Auth.ChangePassword)
	}

	org := api.Group("/org")
	{
		org.POST("/register", h.Organization.Register)
		org.GET("", h.Organization.Get)
		org.GET("/settings", h.Organization.GetSettings)

		orgAdmin := org.Group("")
		orgAdmin.Use(middleware.RequireRoles(RoleHRAdmin))
		{
			orgAdmin.PUT("", h.Organization.Update)
			orgAdmin.PUT("/settings", h.Organization.UpdateSettings)
		}
	}

	me := api.Group("/me")
	{
		me.GET("/profile", h.Employee.MyProfile)
		me.PUT("/profile", h.Employee.UpdateMyProfile)
		me.POST("/profile/photo/upload-url", h.Employee.PhotoUploadURL)
		me.POST("/profile/photo/confirm", h.Employee.ConfirmPhoto)
		me.GET("/reports", h.Employee.DirectReports)
	}

	dashboard := api.Group("/dashboard")
	{
		dashboard.GET("/my-day", h.Dashboard.MyDay)
		dashboard.GET("/overview",
			middleware.RequireRoles(RoleManager, RoleHRAdmin),
			h.Dashboard.Overview)
	}

	attendance := api.Group("/attendance")
	{
		attendance.GET("/today", h.Attendance.Today)
		attendance.POST("/start", h.Attendance.StartDay)
		attendance.POST("/break/start", h.Attendance.StartBreak)
		attendance.POST("/break/end", h.Attendance.EndBreak)
		attendance.POST("/remote", h.Attendance.MarkRemote)
		attendance.POST("/end", h.Attendance.EndDay)
		attendance.GET("/history", h.Attendance.History)
		attendance.GET("/summary", h.Attendance.MonthlySummary)
	}

	leave := api.Group("/leave")
	{
		leave.GET("/balances", h.Leave.Balances)
		leave.GET("/requests", h.Leave.ListMine)
		leave.POST("/requests", h.Leave.Create)
		leave.GET("/requests/:id", h.Leave.Get)
		leave.PUT("/requests/:id", h.Leave.Update)
		leave.POST("/requests/:id/submit", h.Leave.Submit)
		leave.POST("/requests/:id/cancel", h.Leave.Cancel)
		leave.POST("/requests/:id/attachments/upload-url", h.Leave.AttachmentUploadURL)
		leave.POST("/requests/:id/attachments/confirm", h.Leave.ConfirmAttachment)
		leave.GET("/requests/:id/attachments/download-url", h.Leave.AttachmentDownloadURL)
		leave.GET("/requests/:id/pdf", h.Leave.ApplicationPDF)
	}

	invoices := api.Group("/invoices")
	{
		invoices.GET("", h.Invoice.ListMine)
		invoices.GET("/:id", h.Invoice.Get)
		invoices.POST("/:id/exchange", h.Invoice.ExchangePassword)
		invoices.GET("/:id/pdf", h.Invoice.PDF)
	}

	notifications := api.Group("/notifications")
	{
		notifications.GET("", h.Notification.Inbox)
		notifications.GET("/unread-count", h.Notification.UnreadCount)
		notifications.GET("/stream", h.SSE.Stream)
		notifications.POST("/:id/read", h.Notification.MarkRead)
		notifications.POST("/read-all", h.Notification.MarkAllRead)
	}

	// HR back office
	hr := api.Group("/hr")

	hrLeave := hr.Group("/leave")
	hrLeave.Use(middleware.RequireRoles(RoleManager, RoleHRAdmin))
	{
		hrLeave.GET("/pending", h.Leave.ListPending)
		hrLeave.POST("/:id/process", h.Leave.StartProcessing)
		hrLeave.POST("/:id/approve", h.Leave.Approve)
		hrLeave.POST("/:id/deny", h.Leave.Deny)
		hrLeave.PUT("/balances",
			middleware.RequireRoles(RoleHRAdmin),
			h.Leave.AdjustBalance)
	}

	hrAdmin := hr.Group("")
	hrAdmin.Use(middleware.RequireRoles(RoleHRAdmin))
	{
		hrAdmin.POST("/employees", h.Employee.Onboard)
		hrAdmin.GET("/employees", h.Employee.List)
		hrAdmin.GET("/employees/export", h.Employee.ExportCSV)
		hrAdmin.GET("/employees/:id", h.Employee.Get)
		hrAdmin.PUT("/employees/:id/employment", h.Employee.UpdateEmployment)
		hrAdmin.PUT("/employees/:id/compensation", h.Employee.UpdateCompensation)
		hrAdmin.POST("/employees/:id/activate", h.Employee.Activate)
		hrAdmin.POST("/employees/:id/terminate", h.Employee.Terminate)

		hrAdmin.POST("/users", h.User.Create)
		hrAdmin.GET("/users", h.User.List)
		hrAdmin.GET("/users/:id", h.User.Get)
		hrAdmin.PUT("/users/:id", h.User.Update)
		hrAdmin.PUT("/users/:id/role", h.User.ChangeRole)
		hrAdmin.POST("/users/:id/activate", h.User.Activate)
		hrAdmin.POST("/users/:id/deactivate", h.User.Deactivate)
		hrAdmin.POST("/users/:id/unlock", h.User.Unlock)
		hrAdmin.POST("/users/:id/reset-password", h.User.ResetPassword)

		hrAdmin.POST("/departments", h.Department.Create)
		hrAdmin.GET("/departments", h.Department.List)
		hrAdmin.GET("/departments/tree", h.Department.Tree)
		hrAdmin.GET("/departments/:id", h.Department.Get)
		hrAdmin.PUT("/departments/:id", h.Department.Update)
		hrAdmin.POST("/departments/:id/move", h.Department.Move)
		hrAdmin.DELETE("/departments/:id", h.Department.Delete)

		hrAdmin.POST("/teams", h.Team.Create)
		hrAdmin.GET("/teams", h.Team.List)
		hrAdmin.GET("/teams/:id", h.Team.Get)
		hrAdmin.PUT("/teams/:id", h.Team.Update)
		hrAdmin.DELETE("/teams/:id", h.Team.Delete)

		hrAdmin.GET("/attendance", h.Attendance.DayRoster)
		hrAdmin.POST("/attendance", h.Attendance.CreateManualRecord)
		hrAdmin.PUT("/attendance/:id", h.Attendance.Correct)

		hrAdmin.POST("/invoices", h.Invoice.Generate)
		hrAdmin.GET("/invoices", h.Invoice.ListAll)
		hrAdmin.PUT("/invoices/:id/lines", h.Invoice.ReplaceLines)
		hrAdmin.PUT("/invoices/:id/notes", h.Invoice.SetNotes)
		hrAdmin.POST("/invoices/:id/submit", h.Invoice.SubmitForReview)
		hrAdmin.POST("/invoices/:id/return", h.Invoice.ReturnToDraft)
		hrAdmin.POST("/invoices/:id/ready", h.Invoice.MarkReady)
		hrAdmin.POST("/invoices/:id/lock", h.Invoice.Lock)
		hrAdmin.POST("/invoices/:id/unlock", h.Invoice.Unlock)
		hrAdmin.DELETE("/invoices/:id", h.Invoice.Delete)

		hrAdmin.POST("/announcements", h.Notification.CreateAnnouncement)
		hrAdmin.GET("/announcements", h.Notification.List)
		hrAdmin.GET("/announcements/:id", h.Notification.Get)
		hrAdmin.PUT("/announcements/:id", h.Notification.UpdateDraft)
		hrAdmin.POST("/announcements/:id/schedule", h.Notification.Schedule)
		hrAdmin.POST("/announcements/:id/send", h.Notification.SendNow)
		hrAdmin.POST("/announcements/:id/cancel", h.Notification.CancelScheduled)
	}

	system := api.Group("/system")
	system.Use(middleware.RequireRoles(RoleHRAdmin))
	{
		system.GET("/info", h.System.Info)
		system.GET("/outbox/dead", h.Outbox.GetDeadLetterEntries)
		system.POST("/outbox/dead/retry-all", h.Outbox.RetryAllDeadEntries)
		system.GET("/outbox/stats", h.Outbox.GetStats)
		system.GET("/outbox/:id", h.Outbox.GetEntry)
		system.POST("/outbox/:id/retry", h.Outbox.RetryDeadEntry)
	}
}

func corsFromConfig(httpCfg config.HTTPConfig) middleware.CORSConfig {
	cfg := middleware.DefaultCORSConfig()
	if len(httpCfg.CORSAllowOrigins) > 0 {
		cfg.AllowOrigins = httpCfg.CORSAllowOrigins
	}
	if len(httpCfg.CORSAllowMethods) > 0 {
		cfg.AllowMethods = httpCfg.CORSAllowMethods
	}
	if len(httpCfg.CORSAllowHeaders) > 0 {
		cfg.AllowHeaders = httpCfg.CORSAllowHeaders
	}
	return cfg
}
