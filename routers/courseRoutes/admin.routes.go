package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up all admin course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"))

	// Course CRUD
	adminGroup.Post("/create", validators.CreateCourse(), controllers.AdminCreateCourse)
	adminGroup.Put("/:id", validators.CourseID(), validators.CreateCourse(), controllers.AdminUpdateCourse)
	adminGroup.Delete("/:id", validators.CourseID(), controllers.AdminDeleteCourse)
	adminGroup.Get("/list", validators.CourseList(), controllers.AdminGetAllCourses)
	adminGroup.Post("/:id/publish", validators.CourseID(), controllers.AdminPublishCourse)

	// Lesson Management
	adminGroup.Post("/:id/lesson", validators.CourseID(), validators.CreateLesson(), controllers.AdminCreateLesson)
	adminGroup.Get("/:id/lessons", validators.CourseID(), controllers.AdminListLessons)

	lessonGroup := app.Group("/admin/lesson", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"))
	lessonGroup.Put("/:lesson_id", validators.LessonID(), validators.CreateLesson(), controllers.AdminUpdateLesson)
	lessonGroup.Delete("/:lesson_id", validators.LessonID(), controllers.AdminDeleteLesson)

	// Enrollment Tracking
	adminGroup.Get("/:id/enrollments", validators.CourseID(), controllers.AdminGetCourseEnrollments)

	// Review Moderation
	reviewGroup := app.Group("/admin/review", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"))
	reviewGroup.Get("/pending", controllers.AdminGetPendingReviews)
	reviewGroup.Post("/:review_id/moderate", validators.ReviewID(), validators.ModerateReview(), controllers.AdminModerateReview)
	reviewGroup.Delete("/:review_id", validators.ReviewID(), controllers.AdminDeleteReview)

	// Dashboard
	dashGroup := app.Group("/admin/dashboard", middleware.JWTMiddleware, middleware.RequireRole("ADMIN"))
	dashGroup.Get("/stats", controllers.AdminDashboardStats)
}
