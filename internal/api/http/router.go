package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/trend-blog/internal/api/http/handlers"
	"github.com/spec-kit/trend-blog/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Admin          *handlers.AdminHandler
	Posts          *handlers.PostsHandler
	Management     *handlers.ManagementHandler
	AuthMiddleware *auth.AuthMiddleware
	Freshness      *auth.FreshnessGuard
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	// Public
	api.Post("/register", cfg.Users.Register)
	api.Post("/login", cfg.Users.Login)
	api.Post("/logout", cfg.Users.Logout)

	// Blog endpoints are intentionally unauthenticated.
	api.Get("/getBlogPosts", cfg.Posts.ListPosts)
	api.Get("/getBlogPost", cfg.Posts.GetPost)
	api.Post("/saveBlogPost", cfg.Posts.SavePost)

	// Token required. check-admin carries no timestamp.
	api.Get("/check-admin", cfg.AuthMiddleware.Handle, cfg.Users.CheckAdmin)

	// Timestamp-carrying routes check freshness before any token or store
	// work; a stale request never reaches the role gate.
	protected := api.Group("", cfg.Freshness.Middleware(), cfg.AuthMiddleware.Handle)
	protected.Post("/change-password", cfg.Users.ChangePassword)
	protected.Post("/update-profile", cfg.Users.UpdateProfile)

	// Token + admin role required
	admin := protected.Group("", auth.RequireAdmin())
	admin.Get("/users", cfg.Admin.ListUsers)
	admin.Post("/approve-user", cfg.Admin.ApproveUser)
	admin.Post("/delete-user", cfg.Admin.DeleteUser)
	admin.Post("/update-user", cfg.Admin.UpdateUser)

	// Legacy multiplexed endpoint; authenticates per action.
	api.Get("/user-management", cfg.Management.Handle)
	api.Post("/user-management", cfg.Management.Handle)
	api.Put("/user-management", cfg.Management.Handle)
}
