package services

import (
	"fmt"
	"testing"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentStats(t *testing.T) {
	t.Run("empty dashboard for a student with no enrollments", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, "a@example.com")

		stats, err := StudentStats(db, user.ID)
		require.NoError(t, err)
		assert.Zero(t, stats.TotalEnrollments)
		assert.Zero(t, stats.TotalTimeSpent)
		assert.Empty(t, stats.ByStatus)
		assert.Empty(t, stats.Recent)
	})

	t.Run("buckets by status with mean progress and sums time", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, "a@example.com")

		active1 := seedCourse(t, db, "Active One", nil)
		active2 := seedCourse(t, db, "Active Two", nil)
		done := seedCourse(t, db, "Done", nil)

		e1, err := EnrollStudent(db, user.ID, active1.ID)
		require.NoError(t, err)
		_, err = UpdateProgress(db, e1.ID, user.ID, ProgressUpdate{Progress: intPtr(20), TimeSpentDelta: intPtr(30)})
		require.NoError(t, err)

		e2, err := EnrollStudent(db, user.ID, active2.ID)
		require.NoError(t, err)
		_, err = UpdateProgress(db, e2.ID, user.ID, ProgressUpdate{Progress: intPtr(60), TimeSpentDelta: intPtr(45)})
		require.NoError(t, err)

		e3, err := EnrollStudent(db, user.ID, done.ID)
		require.NoError(t, err)
		_, err = UpdateProgress(db, e3.ID, user.ID, ProgressUpdate{Progress: intPtr(100), TimeSpentDelta: intPtr(90)})
		require.NoError(t, err)

		stats, err := StudentStats(db, user.ID)
		require.NoError(t, err)

		assert.Equal(t, 3, stats.TotalEnrollments)
		assert.Equal(t, 165, stats.TotalTimeSpent)

		activeBucket := stats.ByStatus[courseModels.EnrollmentActive]
		assert.Equal(t, 2, activeBucket.Count)
		assert.InDelta(t, 40.0, activeBucket.AverageProgress, 0.001)

		completedBucket := stats.ByStatus[courseModels.EnrollmentCompleted]
		assert.Equal(t, 1, completedBucket.Count)
		assert.InDelta(t, 100.0, completedBucket.AverageProgress, 0.001)
	})

	t.Run("recent lists at most the five latest enrollments with course info", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, "a@example.com")

		for i := 1; i <= 7; i++ {
			course := seedCourse(t, db, fmt.Sprintf("Course %d", i), nil)
			_, err := EnrollStudent(db, user.ID, course.ID)
			require.NoError(t, err)
		}

		stats, err := StudentStats(db, user.ID)
		require.NoError(t, err)

		assert.Equal(t, 7, stats.TotalEnrollments)
		require.Len(t, stats.Recent, 5)
		for _, recent := range stats.Recent {
			assert.NotEmpty(t, recent.CourseTitle)
			assert.Equal(t, "Jane Doe", recent.CourseAuthor)
		}
	})

	t.Run("only the requested student's enrollments count", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, "a@example.com")
		other := seedUser(t, db, "b@example.com")
		course := seedCourse(t, db, "Shared", nil)

		_, err := EnrollStudent(db, user.ID, course.ID)
		require.NoError(t, err)
		_, err = EnrollStudent(db, other.ID, course.ID)
		require.NoError(t, err)

		stats, err := StudentStats(db, user.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.TotalEnrollments)
	})
}

func TestPlatformStats(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "a@example.com")
	other := seedUser(t, db, "b@example.com")

	published := seedCourse(t, db, "Published", nil)
	draft := courseModels.Course{Title: "Draft", Description: "wip", Status: "DRAFT"}
	require.NoError(t, db.Create(&draft).Error)

	e1, err := EnrollStudent(db, user.ID, published.ID)
	require.NoError(t, err)
	_, err = UpdateProgress(db, e1.ID, user.ID, ProgressUpdate{Progress: intPtr(100)})
	require.NoError(t, err)

	_, err = EnrollStudent(db, other.ID, published.ID)
	require.NoError(t, err)

	seedReview(t, db, published.ID, user.ID, 5, true)
	seedReview(t, db, published.ID, other.ID, 4, false)

	stats, err := PlatformStats(db)
	require.NoError(t, err)

	assert.EqualValues(t, 2, stats.TotalCourses)
	assert.EqualValues(t, 1, stats.PublishedCourses)
	assert.EqualValues(t, 2, stats.TotalEnrollments)
	assert.EqualValues(t, 1, stats.ActiveEnrollments)
	assert.EqualValues(t, 1, stats.CompletedCourses)
	assert.InDelta(t, 50.0, stats.CompletionRate, 0.001)
	assert.EqualValues(t, 2, stats.TotalReviews)
	assert.EqualValues(t, 1, stats.PendingReviews)
}
