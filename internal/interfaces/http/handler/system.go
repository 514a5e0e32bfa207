package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/hrm/backend/internal/interfaces/http/dto"
)

// SystemHandler handles health and system info endpoints
type SystemHandler struct {
	BaseHandler
	db        *gorm.DB
	redis     *goredis.Client
	appName   string
	version   string
	startTime time.Time
}

// NewSystemHandler creates a new system handler. The redis client may be
// nil when redis is not configured.
func NewSystemHandler(db *gorm.DB, redis *goredis.Client, appName, version string) *SystemHandler {
	return &SystemHandler{
		db:        db,
		redis:     redis,
		appName:   appName,
		version:   version,
		startTime: time.Now(),
	}
}

// HealthResponse reports overall and per-component health
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
	Uptime     string            `json:"uptime"`
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// Health godoc
// @Summary      Health check
// @Description  Reports readiness of the database and redis
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=HealthResponse}
// @Failure      503 {object} dto.Response{data=HealthResponse}
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	components := map[string]string{}
	healthy := true

	if sqlDB, err := h.db.DB(); err != nil {
		components["database"] = "error: " + err.Error()
		healthy = false
	} else if err := sqlDB.PingContext(ctx); err != nil {
		components["database"] = "unreachable"
		healthy = false
	} else {
		components["database"] = "ok"
	}

	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			components["redis"] = "unreachable"
			healthy = false
		} else {
			components["redis"] = "ok"
		}
	}

	status := "ok"
	code := http.StatusOK
	if !healthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, dto.NewSuccessResponse(HealthResponse{
		Status:     status,
		Components: components,
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
	}))
}

// Info godoc
// @Summary      Get system information
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=SystemInfoResponse}
// @Security     BearerAuth
// @Router       /system/info [get]
func (h *SystemHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(SystemInfoResponse{
		Name:      h.appName,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}))
}
