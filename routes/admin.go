package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/localserv/localserv-backend/controllers/admin"
	"github.com/localserv/localserv-backend/middleware"
)

// SetupAdminRoutes configures provider listing management, admins only.
func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin", middleware.Protected(), middleware.RequireRole("admin"))

	adminGroup.Post("/providers", admin.CreateProvider)
	adminGroup.Patch("/providers/:uid", admin.UpdateProvider)
	adminGroup.Delete("/providers/:uid", admin.DeleteProvider)
	adminGroup.Post("/providers/:uid/photo", admin.UploadProviderPhoto)
}
