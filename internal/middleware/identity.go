package middleware

import (
	"github.com/labstack/echo/v4"
)

// currentUserID extracts the authenticated user id stored by JWTAuth. The
// auth endpoints run without JWTAuth, so "anon" is the common case there and
// the rate limiter falls back to keying on the client IP.
func currentUserID(c echo.Context) string {
	if v := c.Get("user_id"); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "anon"
}
