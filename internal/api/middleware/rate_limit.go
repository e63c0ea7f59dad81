package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/stitts-dev/fantasy-golf/internal/services"
	"github.com/stitts-dev/fantasy-golf/pkg/utils"
)

// RateLimit throttles callers by user id, or by client ip when anonymous.
// Limiter failures let the request through.
func RateLimit(limiter services.RateLimiter, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if userID := c.GetString(ctxUserID); userID != "" {
			key = "user:" + userID
		}

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.WithError(err).WithField("key", key).Warn("Rate limiter unavailable")
			c.Next()
			return
		}
		if !allowed {
			utils.SendTooManyRequests(c, "Too many requests, slow down")
			c.Abort()
			return
		}

		c.Next()
	}
}
