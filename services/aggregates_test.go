package services

import (
	"testing"
	"time"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedReview(t *testing.T, db *gorm.DB, courseID, userID uint, rating int, approved bool) courseModels.Review {
	t.Helper()

	review := courseModels.Review{
		CourseID:   courseID,
		UserID:     userID,
		Rating:     rating,
		IsApproved: approved,
	}
	if approved {
		now := time.Now()
		review.ApprovedAt = &now
	}
	require.NoError(t, db.Create(&review).Error)
	return review
}

func TestRecalculateCourseRating(t *testing.T) {
	t.Run("averages approved reviews only", func(t *testing.T) {
		db := newTestDB(t)
		course := seedCourse(t, db, "Go Basics", nil)
		a := seedUser(t, db, "a@example.com")
		b := seedUser(t, db, "b@example.com")
		c := seedUser(t, db, "c@example.com")

		seedReview(t, db, course.ID, a.ID, 5, true)
		seedReview(t, db, course.ID, b.ID, 3, true)
		seedReview(t, db, course.ID, c.ID, 1, false) // pending, excluded

		require.NoError(t, RecalculateCourseRating(db, course.ID))

		var reloaded courseModels.Course
		require.NoError(t, db.First(&reloaded, course.ID).Error)
		assert.InDelta(t, 4.0, reloaded.AverageRating, 0.001)
		assert.Equal(t, 2, reloaded.TotalReviews)
	})

	t.Run("deleting a review recomputes to the remaining mean", func(t *testing.T) {
		db := newTestDB(t)
		course := seedCourse(t, db, "Go Basics", nil)
		a := seedUser(t, db, "a@example.com")
		b := seedUser(t, db, "b@example.com")

		seedReview(t, db, course.ID, a.ID, 5, true)
		removed := seedReview(t, db, course.ID, b.ID, 1, true)
		require.NoError(t, RecalculateCourseRating(db, course.ID))

		require.NoError(t, db.Delete(&removed).Error)
		require.NoError(t, RecalculateCourseRating(db, course.ID))

		var reloaded courseModels.Course
		require.NoError(t, db.First(&reloaded, course.ID).Error)
		assert.InDelta(t, 5.0, reloaded.AverageRating, 0.001)
		assert.Equal(t, 1, reloaded.TotalReviews)
	})

	t.Run("resets to zero when no approved reviews remain", func(t *testing.T) {
		db := newTestDB(t)
		course := seedCourse(t, db, "Go Basics", nil)
		a := seedUser(t, db, "a@example.com")

		only := seedReview(t, db, course.ID, a.ID, 4, true)
		require.NoError(t, RecalculateCourseRating(db, course.ID))

		require.NoError(t, db.Delete(&only).Error)
		require.NoError(t, RecalculateCourseRating(db, course.ID))

		var reloaded courseModels.Course
		require.NoError(t, db.First(&reloaded, course.ID).Error)
		assert.Zero(t, reloaded.AverageRating)
		assert.Zero(t, reloaded.TotalReviews)
	})

	t.Run("recomputation is idempotent", func(t *testing.T) {
		db := newTestDB(t)
		course := seedCourse(t, db, "Go Basics", nil)
		a := seedUser(t, db, "a@example.com")
		seedReview(t, db, course.ID, a.ID, 4, true)

		require.NoError(t, RecalculateCourseRating(db, course.ID))
		require.NoError(t, RecalculateCourseRating(db, course.ID))

		var reloaded courseModels.Course
		require.NoError(t, db.First(&reloaded, course.ID).Error)
		assert.InDelta(t, 4.0, reloaded.AverageRating, 0.001)
		assert.Equal(t, 1, reloaded.TotalReviews)
	})
}

func TestRecalculatorWorker(t *testing.T) {
	db := newTestDB(t)
	course := seedCourse(t, db, "Go Basics", nil)
	a := seedUser(t, db, "a@example.com")
	seedReview(t, db, course.ID, a.ID, 5, true)

	r := NewRecalculator(db)
	r.Start()
	r.Enqueue(course.ID)
	r.Stop() // drains the queue before returning

	var reloaded courseModels.Course
	require.NoError(t, db.First(&reloaded, course.ID).Error)
	assert.InDelta(t, 5.0, reloaded.AverageRating, 0.001)
	assert.Equal(t, 1, reloaded.TotalReviews)
}

func TestRecalculateAllCourseRatings(t *testing.T) {
	db := newTestDB(t)
	first := seedCourse(t, db, "First", nil)
	second := seedCourse(t, db, "Second", nil)
	a := seedUser(t, db, "a@example.com")

	seedReview(t, db, first.ID, a.ID, 5, true)
	seedReview(t, db, second.ID, a.ID, 2, true)

	recomputed, err := RecalculateAllCourseRatings(db)
	require.NoError(t, err)
	assert.Equal(t, 2, recomputed)

	var reloaded courseModels.Course
	require.NoError(t, db.First(&reloaded, second.ID).Error)
	assert.InDelta(t, 2.0, reloaded.AverageRating, 0.001)
}
