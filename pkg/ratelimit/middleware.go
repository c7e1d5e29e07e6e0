package ratelimit

import (
	"fmt"
	"net/http"
	"strings"

	"showtix/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

// Middleware enforces per-IP rate limits keyed by route class
func Middleware(rateLimiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		limitType := getRateLimitType(c.FullPath())

		result, err := rateLimiter.IsAllowed(c.Request.Context(), clientIP, limitType)
		if err != nil {
			// Fail open: a Redis hiccup must not take the API down.
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetTime))

		if !result.Allowed {
			response.RespondJSON(c, "error", http.StatusTooManyRequests,
				"Rate limit exceeded", nil, map[string]interface{}{
					"limit":      result.Limit,
					"reset_time": result.ResetTime,
				})
			c.Abort()
			return
		}

		c.Next()
	}
}

func getRateLimitType(path string) RateLimitType {
	switch {
	case strings.Contains(path, "/auth/"):
		return RateLimitTypeAuth
	case strings.Contains(path, "/bookings"), strings.Contains(path, "/payments"):
		return RateLimitTypeBooking
	case strings.Contains(path, "/admin/"):
		return RateLimitTypeAdmin
	case strings.Contains(path, "/events"), strings.Contains(path, "/theaters"):
		return RateLimitTypePublic
	default:
		return RateLimitTypeDefault
	}
}
