package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/attendance-service/internal/api/http/handlers"
	"github.com/spec-kit/attendance-service/internal/auth"
	"github.com/spec-kit/attendance-service/internal/domain"
)

// Staff permissions gating directory mutations.
const (
	PermManageStudents = "manage_students"
	PermManageUsers    = "manage_users"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Students       *handlers.StudentsHandler
	Faculty        *handlers.FacultyHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Role and permission guards compose
// on top of the authentication guard; a route may carry either or both.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)

	authProtected := authGroup.Group("", cfg.AuthMiddleware.Handle)
	authProtected.Post("/logout", cfg.Auth.Logout)
	authProtected.Post("/refresh", cfg.Auth.Refresh)
	authProtected.Get("/me", cfg.Auth.Me)
	authProtected.Post("/password/change", cfg.Auth.ChangePassword)

	students := api.Group("/students", cfg.AuthMiddleware.Handle,
		auth.Chain(auth.RequireRole(domain.PrincipalTypeFaculty, domain.PrincipalTypeAdmin)))
	students.Get("/", cfg.Students.List)
	students.Get("/:id", cfg.Students.Get)
	students.Post("/", auth.Chain(auth.RequirePermission(PermManageStudents)), cfg.Students.Create)
	students.Put("/:id", auth.Chain(auth.RequirePermission(PermManageStudents)), cfg.Students.Update)
	students.Delete("/:id", auth.Chain(auth.RequirePermission(PermManageStudents)), cfg.Students.Deactivate)

	faculty := api.Group("/faculty", cfg.AuthMiddleware.Handle,
		auth.Chain(auth.RequireRole(domain.PrincipalTypeFaculty, domain.PrincipalTypeAdmin)))
	faculty.Get("/", cfg.Faculty.List)
	faculty.Get("/:id", cfg.Faculty.Get)
	faculty.Post("/", auth.Chain(auth.RequirePermission(PermManageUsers)), cfg.Faculty.Create)
	faculty.Put("/:id", auth.Chain(auth.RequirePermission(PermManageUsers)), cfg.Faculty.Update)
	faculty.Put("/:id/permissions", auth.Chain(auth.RequireRole(domain.PrincipalTypeAdmin)), cfg.Faculty.SetPermissions)
	faculty.Delete("/:id", auth.Chain(auth.RequireRole(domain.PrincipalTypeAdmin)), cfg.Faculty.Deactivate)
}
