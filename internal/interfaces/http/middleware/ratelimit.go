package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.uber.org/zap"
)

// NewRateLimiter builds a limiter backed by redis, falling back to an
// in-memory store when no redis client is given (single-instance dev runs).
func NewRateLimiter(redisClient *goredis.Client, requests int, window time.Duration, prefix string, logger *zap.Logger) (*limiter.Limiter, error) {
	rate := limiter.Rate{
		Period: window,
		Limit:  int64(requests),
	}

	if redisClient == nil {
		logger.Warn("Rate limiter using in-memory store; limits are per-instance")
		return limiter.New(memory.NewStore(), rate), nil
	}

	store, err := sredis.NewStoreWithOptions(redisClient, limiter.StoreOptions{
		Prefix: prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis rate limit store: %w", err)
	}
	return limiter.New(store, rate), nil
}

// RateLimit limits requests per client IP. Tenant-authenticated requests are
// additionally keyed by tenant so one noisy org cannot exhaust a shared IP.
func RateLimit(instance *limiter.Limiter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if tenantID := GetJWTTenantID(c); tenantID != "" {
			key = tenantID + ":" + key
		}

		lctx, err := instance.Get(c.Request.Context(), key)
		if err != nil {
			// Never take the API down because the limiter store hiccuped
			logger.Error("Rate limit check failed", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", lctx.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", lctx.Remaining))

		if lctx.Reached {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ERR_RATE_LIMITED",
					"message": "Too many requests. Please try again later.",
				},
			})
			return
		}

		c.Next()
	}
}
