package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"marketly/pkg/logger"
	"marketly/pkg/response"
)

// Limiter is satisfied by ratelimit.RateLimiter.
type Limiter interface {
	Allow(key, action string) (bool, time.Duration)
}

// RateLimit throttles per user when authentication has already run on the
// route, per client IP otherwise.
func RateLimit(limiter Limiter, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := UID(c)
			if key == "" {
				key = "ip:" + c.RealIP()
			}

			allowed, wait := limiter.Allow(key, action)
			if !allowed {
				logger.Warn("RATE LIMIT: %s exceeded %s (retry in %v)", key, action, wait)

				retryAfter := int(wait.Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
				return c.JSON(http.StatusTooManyRequests, response.Response{
					Success:   false,
					Timestamp: time.Now().UTC().Format(time.RFC3339),
					Error: &response.ErrorInfo{
						Code:      "TOO_MANY_REQUESTS",
						Message:   "Rate limit exceeded",
						Retryable: true,
						Details:   map[string]int{"retry_after": retryAfter},
					},
				})
			}

			return next(c)
		}
	}
}
