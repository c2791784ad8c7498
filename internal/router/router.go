// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/auth-service/internal/handler"
	"github.com/iliyamo/auth-service/internal/middleware"
	"github.com/iliyamo/auth-service/internal/token"
)

// Register sets up the full route table. Credential endpoints live under
// /v1/auth and run behind the rate limiter; protected endpoints live under
// /v1 and require a valid access token.
func Register(e *echo.Echo, a *handler.AuthHandler, h *handler.HealthHandler, engine *token.Engine, limiter echo.MiddlewareFunc) {
	e.GET("/healthz", h.Health)

	g := e.Group("/v1/auth")
	g.Use(limiter)
	g.POST("/signup", a.Signup)
	g.POST("/login", a.Login)
	g.POST("/logout", a.Logout)
	g.POST("/refresh", a.Refresh)
	g.POST("/revoke", a.Revoke)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(engine))
	auth.GET("/sessions", a.Sessions)
	auth.GET("/me", a.Me)
}
