package courseValidator

import (
	"strconv"
	"strings"

	"lms/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// LessonRequest is the validated admin lesson payload
type LessonRequest struct {
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description"`
	ContentURL  string `json:"content_url"`
	Duration    int    `json:"duration" validate:"gte=0"`
	OrderIndex  int    `json:"order_index" validate:"gte=0"`
}

// CompleteLessonRequest is the validated lesson-completion payload
type CompleteLessonRequest struct {
	TimeSpent int `json:"time_spent"` // minutes
}

// LessonID validates the :lesson_id route param and stashes it in locals
func LessonID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("lesson_id"))
		if idStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Lesson ID is required!", nil)
		}

		lessonID, err := strconv.Atoi(idStr)
		if err != nil || lessonID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}

		c.Locals("lessonID", lessonID)
		return c.Next()
	}
}

func CreateLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LessonRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Title = strings.TrimSpace(reqData.Title)

		if err := validate.Struct(reqData); err != nil {
			errors := make(map[string]string)
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "Title":
					errors["title"] = "Title must be at least 3 characters long!"
				case "Duration":
					errors["duration"] = "Duration cannot be negative!"
				case "OrderIndex":
					errors["order_index"] = "Order index cannot be negative!"
				}
			}
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLesson", reqData)
		return c.Next()
	}
}

func CompleteLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CompleteLessonRequest)

		// Body is optional; time spent defaults to zero
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}

		if reqData.TimeSpent < 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"time_spent": "Time spent cannot be negative!",
			})
		}

		c.Locals("validatedCompleteLesson", reqData)
		return c.Next()
	}
}
