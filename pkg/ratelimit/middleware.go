package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"activitiesui/internal/shared/utils/response"
	"activitiesui/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Middleware counts every request against its route's limit. When Redis
// cannot be reached the request goes through unlimited.
func Middleware(rateLimiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := getClientIP(c)
		limitType := getRateLimitType(c.Request.Method, c.FullPath())

		result, err := rateLimiter.IsAllowed(c.Request.Context(), clientIP, limitType)
		if err != nil {
			logger.GetDefault().ErrorWithContext(c.Request.Context(), "Rate limit check failed", err,
				map[string]interface{}{"ip": clientIP})
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetTime))

		if !result.Allowed {
			logger.GetDefault().LogRateLimitExceeded(c.Request.Context(), clientIP, c.Request.URL.Path)
			if strings.HasPrefix(c.Request.URL.Path, "/ui/") {
				response.RespondJSON(c, "error", http.StatusTooManyRequests,
					"Rate limit exceeded", nil, map[string]interface{}{
						"limit":      result.Limit,
						"reset_time": result.ResetTime,
					})
			} else {
				response.RenderStatus(c, http.StatusTooManyRequests, "pages/error", gin.H{
					"status":  http.StatusTooManyRequests,
					"message": "Too many requests. Wait a minute and try again.",
				})
			}
			c.Abort()
			return
		}

		c.Next()
	}
}

func getRateLimitType(method, path string) RateLimitType {
	switch {
	case strings.HasPrefix(path, "/health"),
		strings.HasPrefix(path, "/ping"),
		strings.HasPrefix(path, "/info"),
		strings.HasPrefix(path, "/metrics"):
		return RateLimitTypeHealth

	case strings.HasPrefix(path, "/ui/prisoner-search"):
		return RateLimitTypeSearch

	// journey step submissions call the backend
	case method == http.MethodPost && strings.Contains(path, ":journeyId"),
		method == http.MethodPost && strings.HasPrefix(path, "/attendance/"):
		return RateLimitTypeJourney

	default:
		return RateLimitTypeDefault
	}
}

// extracts real client IP
func getClientIP(c *gin.Context) string {
	xForwardedFor := c.GetHeader("X-Forwarded-For")
	if xForwardedFor != "" {
		ips := strings.Split(xForwardedFor, ",")
		if len(ips) > 0 {
			ip := strings.TrimSpace(ips[0])
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	xRealIP := c.GetHeader("X-Real-IP")
	if xRealIP != "" {
		if net.ParseIP(xRealIP) != nil {
			return xRealIP
		}
	}

	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}

	return ip
}
