package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	attendanceapp "github.com/hrm/backend/internal/application/attendance"
	dashboardapp "github.com/hrm/backend/internal/application/dashboard"
	eventapp "github.com/hrm/backend/internal/application/event"
	hrapp "github.com/hrm/backend/internal/application/hr"
	identityapp "github.com/hrm/backend/internal/application/identity"
	invoiceapp "github.com/hrm/backend/internal/application/invoice"
	leaveapp "github.com/hrm/backend/internal/application/leave"
	notificationapp "github.com/hrm/backend/internal/application/notification"
	"github.com/hrm/backend/internal/infrastructure/auth"
	"github.com/hrm/backend/internal/infrastructure/cache"
	"github.com/hrm/backend/internal/infrastructure/config"
	"github.com/hrm/backend/internal/infrastructure/event"
	"github.com/hrm/backend/internal/infrastructure/logger"
	"github.com/hrm/backend/internal/infrastructure/persistence"
	"github.com/hrm/backend/internal/infrastructure/printing"
	"github.com/hrm/backend/internal/infrastructure/scheduler"
	"github.com/hrm/backend/internal/infrastructure/storage"
	"github.com/hrm/backend/internal/interfaces/http/handler"
	"github.com/hrm/backend/internal/interfaces/http/middleware"
	"github.com/hrm/backend/internal/interfaces/http/router"

	_ "github.com/hrm/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

//	@title			HRM Backend API
//	@version		1.0
//	@description	Multi-tenant HR administration backend: employee directory, attendance, leave, payroll invoices, and announcements.

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

// version is overridable at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting HRM Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("port", cfg.App.Port),
	)

	// Database with SQL logs routed through zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Redis backs the token blacklist, the organization cache, and the rate
	// limiter. When unreachable, all three fall back to in-process stores.
	redisClient := goredis.NewClient(&goredis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis unreachable, using in-memory fallbacks", zap.Error(err))
		_ = redisClient.Close()
		redisClient = nil
	}
	cancelPing()

	var blacklist auth.TokenBlacklist
	var orgCache cache.OrganizationCache
	if redisClient != nil {
		blacklist = auth.NewRedisTokenBlacklist(redisClient)
		orgCache = cache.NewRedisOrganizationCache(redisClient, log)
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		orgCache = cache.NewInMemoryOrganizationCache(5 * time.Minute)
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	orgRepo := cache.NewCachedOrganizationRepository(
		persistence.NewGormOrganizationRepository(db.DB), orgCache)
	deptRepo := persistence.NewGormDepartmentRepository(db.DB)
	teamRepo := persistence.NewGormTeamRepository(db.DB)
	profileRepo := persistence.NewGormProfileRepository(db.DB)
	employmentRepo := persistence.NewGormEmploymentRepository(db.DB)
	attendanceRepo := persistence.NewGormAttendanceRepository(db.DB)
	leaveRequestRepo := persistence.NewGormLeaveRequestRepository(db.DB)
	leaveBalanceRepo := persistence.NewGormLeaveBalanceRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	unlockTokenRepo := persistence.NewGormUnlockTokenRepository(db.DB)
	notifRepo := persistence.NewGormNotificationRepository(db.DB)
	deliveryRepo := persistence.NewGormDeliveryRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Transactional outbox: services publish domain events to the outbox
	// table; the processor relays them onto the in-process bus.
	serializer := event.NewEventSerializer()
	event.RegisterDomainEvents(serializer)
	outboxPublisher := event.NewOutboxPublisher(serializer)
	eventPublisher := event.NewOutboxEventPublisher(db.DB, outboxPublisher)
	eventBus := event.NewInMemoryEventBus(log)

	// Object storage for profile photos and leave attachments
	var hrStorage hrapp.ObjectStorageService
	var leaveStorage leaveapp.ObjectStorageService
	if cfg.Storage.AccessKey != "" {
		s3, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		hrStorage, leaveStorage = s3, s3
	} else {
		stub := storage.NewStubObjectStorage()
		hrStorage, leaveStorage = stub, stub
		log.Warn("Object storage not configured, upload URLs are stubs")
	}

	// Application services
	txManager := persistence.NewGormTransactionManager(db.DB)
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(orgRepo, userRepo, jwtService, blacklist,
		identityapp.DefaultAuthServiceConfig(), log)
	userService := identityapp.NewUserService(userRepo, eventPublisher, log)
	orgService := identityapp.NewOrganizationService(orgRepo, userRepo, txManager, eventPublisher, log)
	deptService := identityapp.NewDepartmentService(deptRepo, employmentRepo, eventPublisher, log)
	teamService := identityapp.NewTeamService(teamRepo, deptRepo, eventPublisher, log)
	employeeService := hrapp.NewEmployeeService(userRepo, profileRepo, employmentRepo,
		hrStorage, txManager, eventPublisher, log)
	attendanceService := attendanceapp.NewService(attendanceRepo, orgRepo, eventPublisher, log)
	leaveService := leaveapp.NewService(leaveRequestRepo, leaveBalanceRepo, orgRepo,
		employmentRepo, leaveStorage, txManager, eventPublisher, log)
	invoiceService := invoiceapp.NewService(invoiceRepo, unlockTokenRepo, employmentRepo,
		eventPublisher, invoiceapp.ServiceConfig{UnlockTokenTTL: cfg.Invoice.UnlockTokenTTL}, log)
	notificationService := notificationapp.NewService(notifRepo, deliveryRepo, eventPublisher, log)
	dashboardService := dashboardapp.NewService(employmentRepo, attendanceRepo,
		leaveRequestRepo, deliveryRepo, log)
	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	// PDF rendering for leave applications and invoices
	templateEngine := printing.NewTemplateEngine()
	renderer, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
		NoSandbox: cfg.App.Env != "development",
		Logger:    log,
	})
	if err != nil {
		log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
	}
	defer func() {
		if err := renderer.Close(); err != nil {
			log.Error("Error closing PDF renderer", zap.Error(err))
		}
	}()
	documentService := printing.NewDocumentService(templateEngine, renderer, log)

	// SSE hub for in-app notification delivery
	sseHandler := handler.NewNotificationSSEHandler(handler.WithSSELogger(log))
	if err := sseHandler.Start(); err != nil {
		log.Fatal("Failed to start SSE hub", zap.Error(err))
	}
	defer sseHandler.Stop()

	// Event handlers: notification fan-out plus the reactions that create
	// notifications from leave, invoice, and employment events
	sentHandler := notificationapp.NewSentHandler(userRepo, deliveryRepo, sseHandler, log)
	eventBus.Subscribe(sentHandler, sentHandler.EventTypes()...)
	leaveDecidedHandler := notificationapp.NewLeaveDecidedHandler(notificationService, log)
	eventBus.Subscribe(leaveDecidedHandler, leaveDecidedHandler.EventTypes()...)
	invoiceReadyHandler := notificationapp.NewInvoiceReadyHandler(notificationService, log)
	eventBus.Subscribe(invoiceReadyHandler, invoiceReadyHandler.EventTypes()...)
	employmentCreatedHandler := notificationapp.NewEmploymentCreatedHandler(notificationService, log)
	eventBus.Subscribe(employmentCreatedHandler, employmentCreatedHandler.EventTypes()...)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	if cfg.Event.ProcessorEnabled {
		processor := event.NewOutboxProcessor(outboxRepo, eventBus, serializer, event.OutboxProcessorConfig{
			BatchSize:        cfg.Event.BatchSize,
			PollInterval:     cfg.Event.PollInterval,
			CleanupEnabled:   cfg.Event.CleanupEnabled,
			CleanupRetention: cfg.Event.CleanupRetention,
			CleanupInterval:  time.Hour,
		}, log)
		if err := processor.Start(context.Background()); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := processor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
	}

	// Background scheduler: due announcements and unlock token purging
	if cfg.Scheduler.Enabled {
		sched := scheduler.NewScheduler(scheduler.Config{
			Enabled:            cfg.Scheduler.Enabled,
			DispatchInterval:   cfg.Scheduler.DispatchInterval,
			DispatchBatchSize:  cfg.Scheduler.DispatchBatchSize,
			TokenPurgeInterval: cfg.Scheduler.TokenPurgeInterval,
		}, notificationService, invoiceService, log)
		if err := sched.Start(context.Background()); err != nil {
			log.Fatal("Failed to start scheduler", zap.Error(err))
		}
		defer func() {
			if err := sched.Stop(context.Background()); err != nil {
				log.Error("Error stopping scheduler", zap.Error(err))
			}
		}()
	}

	// HTTP layer
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	jwtCfg := middleware.DefaultJWTConfig(jwtService)
	jwtCfg.TokenBlacklist = blacklist
	jwtCfg.Logger = log
	jwtMiddleware := middleware.JWTAuthMiddlewareWithConfig(jwtCfg)

	var rateLimiter, authLimiter *limiter.Limiter
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter, err = middleware.NewRateLimiter(redisClient,
			cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow, "hrm:ratelimit", log)
		if err != nil {
			log.Fatal("Failed to create rate limiter", zap.Error(err))
		}
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter, err = middleware.NewRateLimiter(redisClient,
			cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow, "hrm:ratelimit:auth", log)
		if err != nil {
			log.Fatal("Failed to create auth rate limiter", zap.Error(err))
		}
	}

	var swaggerMount gin.HandlerFunc
	if cfg.Swagger.Enabled {
		swaggerMount = ginSwagger.WrapHandler(swaggerFiles.Handler)
	}

	router.Setup(engine, router.Handlers{
		Auth:         handler.NewAuthHandler(authService, cfg.Cookie),
		Employee:     handler.NewEmployeeHandler(employeeService),
		Attendance:   handler.NewAttendanceHandler(attendanceService),
		Leave:        handler.NewLeaveHandler(leaveService, employeeService, orgService, userService, documentService),
		Invoice:      handler.NewInvoiceHandler(invoiceService, employeeService, documentService),
		Notification: handler.NewNotificationHandler(notificationService),
		SSE:          sseHandler,
		Dashboard:    handler.NewDashboardHandler(dashboardService),
		Organization: handler.NewOrganizationHandler(orgService),
		Department:   handler.NewDepartmentHandler(deptService),
		Team:         handler.NewTeamHandler(teamService),
		User:         handler.NewUserHandler(userService),
		System:       handler.NewSystemHandler(db.DB, redisClient, cfg.App.Name, version),
		Outbox:       handler.NewOutboxHandler(outboxService),
	}, router.Config{
		HTTPConfig:    cfg.HTTP,
		JWTMiddleware: jwtMiddleware,
		RateLimiter:   rateLimiter,
		AuthLimiter:   authLimiter,
		Swagger: middleware.SwaggerConfig{
			Enabled:     cfg.Swagger.Enabled,
			RequireAuth: cfg.Swagger.RequireAuth,
			AllowedIPs:  cfg.Swagger.AllowedIPs,
		},
		SwaggerMount: swaggerMount,
		Logger:       log,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
