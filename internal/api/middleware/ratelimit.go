package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimit applies a coarse per-process limiter to a route group. It is a
// backstop against credential-stuffing bursts; the per-account throttle in
// Redis handles targeted attacks.
func RateLimit(r rate.Limit, burst int) echo.MiddlewareFunc {
	limiter := rate.NewLimiter(r, burst)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !limiter.Allow() {
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "too many requests"})
			}
			return next(c)
		}
	}
}
