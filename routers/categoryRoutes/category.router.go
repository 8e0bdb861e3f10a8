package categoryRoutes

import (
	controllers "lms/controllers/category"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupCategoryRoutes sets up category browsing and admin management routes
func SetupCategoryRoutes(app *fiber.App) {
	categoryGroup := app.Group("/category")

	categoryGroup.Get("/list", controllers.GetCategories)
	categoryGroup.Get("/:id/courses", controllers.GetCategoryCourses)

	adminGroup := app.Group("/admin/category", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"))
	adminGroup.Post("/create", controllers.AdminCreateCategory)
	adminGroup.Delete("/:id", controllers.AdminDeleteCategory)
}
