package courseValidator

import (
	"strconv"
	"strings"

	"lms/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// CreateCourseRequest is the validated admin course payload
type CreateCourseRequest struct {
	Title          string `json:"title" validate:"required,min=3"`
	Description    string `json:"description" validate:"required,min=5"`
	Author         string `json:"author"`
	Duration       int64  `json:"duration" validate:"gte=0"`
	ThumbnailURL   string `json:"thumbnail_url"`
	CategoryID     *uint  `json:"category_id"`
	MaxEnrollments *int   `json:"max_enrollments"`
	Prerequisites  []uint `json:"prerequisites"`
}

// ListRequest is the shared pagination payload
type ListRequest struct {
	Page  *int `json:"page"`
	Limit *int `json:"limit"`
}

// CourseID validates the :id route param and stashes it in locals
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("id"))
		if courseIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		// Validate CourseID is a valid integer
		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Description = strings.TrimSpace(reqData.Description)

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "Title":
					errors["title"] = "Title must be at least 3 characters long!"
				case "Description":
					errors["description"] = "Description must be at least 5 characters long!"
				case "Duration":
					errors["duration"] = "Duration cannot be negative!"
				}
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		if reqData.MaxEnrollments != nil && *reqData.MaxEnrollments < 1 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"max_enrollments": "Max enrollments must be at least 1!",
			})
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ListRequest)

		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)

		// Validate Page
		if reqData.Page != nil && *reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}

		// Validate Limit
		if reqData.Limit != nil && *reqData.Limit < 1 {
			errors["limit"] = "Limit must be greater than 0!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedList", reqData)
		return c.Next()
	}
}
