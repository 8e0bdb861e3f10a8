package controllers

import (
	"time"

	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	"lms/services"
	courseValidator "lms/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SubmitReview allows an enrolled user to submit a review for a course.
// Reviews start unapproved and only contribute to the course rating once
// approved.
func SubmitReview(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedReview").(*courseValidator.ReviewRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Check if course exists
	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Only enrolled users may review
	var enrollment courseModels.Enrollment
	err := db.Where("user_id = ? AND course_id = ? AND is_deleted = ? AND status <> ?",
		userID, courseID, false, courseModels.EnrollmentCancelled).
		First(&enrollment).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You must be enrolled to review this course!", nil)
	}

	// One review per (course, user)
	var existingReview courseModels.Review
	if err := db.Where("course_id = ? AND user_id = ? AND deleted_at IS NULL", courseID, userID).First(&existingReview).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "You have already reviewed this course!", nil)
	}

	review := courseModels.Review{
		CourseID: uint(courseID),
		UserID:   userID,
		Rating:   reqData.Rating,
		Comment:  reqData.Comment,
	}

	if err := db.Create(&review).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit review!", nil)
	}

	// Unapproved reviews don't move the aggregate, but the enqueue keeps the
	// trigger in one place
	services.EnqueueCourseRecalc(uint(courseID))

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Review submitted successfully! Pending approval.", review)
}

// GetCourseReviews returns approved reviews for a course (visible to all)
func GetCourseReviews(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db

	var total int64
	db.Model(&courseModels.Review{}).
		Where("course_id = ? AND is_approved = ? AND deleted_at IS NULL", courseID, true).
		Count(&total)

	var reviews []courseModels.Review
	if err := db.Where("course_id = ? AND is_approved = ? AND deleted_at IS NULL", courseID, true).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name") // Only fetch name
		}).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&reviews).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reviews!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews fetched!", fiber.Map{
		"reviews": reviews,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// AdminModerateReview approves or rejects a review and triggers the course
// aggregate recalculation
func AdminModerateReview(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reviewID := c.Locals("reviewID").(int)

	reqData, ok := c.Locals("validatedModeration").(*courseValidator.ModerateReviewRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var review courseModels.Review
	if err := db.Where("id = ?", reviewID).First(&review).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Review not found!", nil)
	}

	if reqData.Action == "APPROVE" {
		now := time.Now()
		review.IsApproved = true
		review.ApprovedAt = &now
		review.ApprovedBy = &userID
	} else {
		review.IsApproved = false
		review.ApprovedAt = nil
		review.ApprovedBy = nil
	}

	if err := db.Save(&review).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update review!", nil)
	}

	services.EnqueueCourseRecalc(review.CourseID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review updated successfully!", review)
}

// AdminDeleteReview removes a review; the course aggregate is recomputed
// from the remaining approved reviews
func AdminDeleteReview(c *fiber.Ctx) error {
	reviewID := c.Locals("reviewID").(int)

	db := database.Database.Db

	var review courseModels.Review
	if err := db.Where("id = ?", reviewID).First(&review).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Review not found!", nil)
	}

	if err := db.Delete(&review).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete review!", nil)
	}

	services.EnqueueCourseRecalc(review.CourseID)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review deleted successfully!", nil)
}

// AdminGetPendingReviews lists reviews awaiting moderation
func AdminGetPendingReviews(c *fiber.Ctx) error {
	var reviews []courseModels.Review
	if err := database.Database.Db.Where("is_approved = ?", false).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name")
		}).
		Order("created_at asc").Find(&reviews).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reviews!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Pending reviews fetched!", fiber.Map{
		"reviews": reviews,
		"total":   len(reviews),
	})
}
