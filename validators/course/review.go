package courseValidator

import (
	"strconv"
	"strings"

	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// ReviewRequest is the validated review submission payload
type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// ModerateReviewRequest is the validated moderation payload
type ModerateReviewRequest struct {
	Action string `json:"action"` // APPROVE, REJECT
}

// ReviewID validates the :review_id route param and stashes it in locals
func ReviewID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idStr := strings.TrimSpace(c.Params("review_id"))
		if idStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Review ID is required!", nil)
		}

		reviewID, err := strconv.Atoi(idStr)
		if err != nil || reviewID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Review ID!", nil)
		}

		c.Locals("reviewID", reviewID)
		return c.Next()
	}
}

func SubmitReview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ReviewRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if reqData.Rating < 1 || reqData.Rating > 5 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Rating must be between 1 and 5!", nil)
		}

		c.Locals("validatedReview", reqData)
		return c.Next()
	}
}

func ModerateReview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ModerateReviewRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		reqData.Action = strings.ToUpper(strings.TrimSpace(reqData.Action))
		if reqData.Action != "APPROVE" && reqData.Action != "REJECT" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid action! Use APPROVE or REJECT.", nil)
		}

		c.Locals("validatedModeration", reqData)
		return c.Next()
	}
}
