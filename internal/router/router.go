package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/lfcamara/user-auth-service/internal/handler"
	"github.com/lfcamara/user-auth-service/internal/middleware"
	"github.com/lfcamara/user-auth-service/internal/model"
)

// Register wires every route of the service. Unauthenticated lifecycle
// operations live under /v1/auth; token-protected endpoints apply the
// JWT middleware, and the admin surface additionally requires the admin
// role.
func Register(e *echo.Echo, a *handler.AuthHandler, u *handler.UsersHandler, jwtSecret string) {
	e.GET("/healthz", handler.Health)

	// Credential lifecycle: no session required.
	auth := e.Group("/v1/auth")
	auth.POST("/register", a.Register)
	auth.POST("/login", a.Login)
	auth.POST("/refresh", a.Refresh)
	auth.POST("/forgot-password", a.ForgotPassword)
	auth.POST("/reset-password", a.ResetPassword)

	// Session required; no role filter (empty RequireRole set).
	session := e.Group("/v1/auth")
	session.Use(middleware.JWTAuth(jwtSecret))
	session.Use(middleware.RequireRole())
	session.POST("/logout", a.Logout)
	session.GET("/profile", a.Profile)

	// Admin-only user directory surface.
	admin := e.Group("/v1/users")
	admin.Use(middleware.JWTAuth(jwtSecret))
	admin.Use(middleware.RequireRole(string(model.RoleAdmin)))
	admin.GET("", u.List)
	admin.PATCH("/:id/role", u.UpdateRole)
	admin.PATCH("/:id/activate", u.Activate)
	admin.PATCH("/:id/deactivate", u.Deactivate)
	admin.DELETE("/:id", u.Delete)
}
