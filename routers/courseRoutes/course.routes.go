package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	userGroup := app.Group("/course")

	// Course listing and details (public published courses)
	userGroup.Get("/list", middleware.JWTMiddleware, validators.CourseList(), controllers.GetAllCourses)
	userGroup.Get("/:id", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)

	// Enrollment
	userGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.CourseID(), controllers.EnrollInCourse)

	// Reviews
	userGroup.Get("/:id/reviews", validators.CourseID(), controllers.GetCourseReviews)
	userGroup.Post("/:id/reviews", middleware.JWTMiddleware, validators.CourseID(), validators.SubmitReview(), controllers.SubmitReview)

	// Progress tracking
	userGroup.Get("/:id/progress", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseProgress)

	// Lesson completion
	lessonGroup := app.Group("/lesson")
	lessonGroup.Post("/:lesson_id/complete", middleware.JWTMiddleware, validators.LessonID(), validators.CompleteLesson(), controllers.CompleteLesson)

	// Enrollment lifecycle
	enrollmentGroup := app.Group("/enrollment")
	enrollmentGroup.Put("/:id/progress", middleware.JWTMiddleware, validators.EnrollmentID(), validators.UpdateProgress(), controllers.UpdateEnrollmentProgress)
	enrollmentGroup.Put("/:id/status", middleware.JWTMiddleware, validators.EnrollmentID(), validators.SetStatus(), controllers.ChangeEnrollmentStatus)

	// User enrollments, certificates and dashboard
	userEnrollGroup := app.Group("/user")
	userEnrollGroup.Get("/enrollments", middleware.JWTMiddleware, validators.GetUserEnrollments(), controllers.GetEnrollments)
	userEnrollGroup.Get("/certificates", middleware.JWTMiddleware, controllers.GetUserCertificates)
	userEnrollGroup.Get("/stats", middleware.JWTMiddleware, controllers.GetStudentStats)
}
