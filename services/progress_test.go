package services

import (
	"fmt"
	"testing"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateProgress(t *testing.T) {
	t.Run("applies partial updates and accumulates time", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, "a@example.com")
		course := seedCourse(t, db, "Go Basics", nil)
		lessonA := seedLesson(t, db, course.ID, "Intro")
		lessonB := seedLesson(t, db, course.ID, "Types")

		enrollment, err := EnrollStudent(db, user.ID, course.ID)
		require.NoError(t, err)

		updated, err := UpdateProgress(db, enrollment.ID, user.ID, ProgressUpdate{
			Progress:         intPtr(40),
			CompletedLessons: []uint{lessonA.ID},
			TimeSpentDelta:   intPtr(25),
			CurrentLessonID:  &lessonB.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, 40, updated.Progress)
		assert.Equal(t, []uint{lessonA.ID}, updated.CompletedLessonIDs())
		assert.Equal(t, 25, updated.TimeSpent)
		require.NotNil(t, updated.CurrentLessonID)
		assert.Equal(t, lessonB.ID, *updated.CurrentLessonID)
		require.NotNil(t, updated.LastAccessedAt)

		// A second update unions lessons and keeps accumulating
		updated, err = UpdateProgress(db, enrollment.ID, user.ID, ProgressUpdate{
			CompletedLessons: []uint{lessonA.ID, lessonB.ID},
			TimeSpentDelta:   intPtr(15),
		})
		require.NoError(t, err)
		assert.Equal(t, 40, updated.Progress)
		assert.Equal(t, []uint{lessonA.ID, lessonB.ID}, updated.CompletedLessonIDs())
		assert.Equal(t, 40, updated.TimeSpent)
	})

	t.Run("rejects a progress value outside 0..100", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, "a@example.com")
		course := seedCourse(t, db, "Go Basics", nil)

		enrollment, err := EnrollStudent(db, user.ID, course.ID)
		require.NoError(t, err)

		_, err = UpdateProgress(db, enrollment.ID, user.ID, ProgressUpdate{Progress: intPtr(101)})
		require.Error(t, err)
		assert.Equal(t, KindValidation, kindOf(t, err))

		_, err = UpdateProgress(db, enrollment.ID, user.ID, ProgressUpdate{Progress: intPtr(-1)})
		require.Error(t, err)
		assert.Equal(t, KindValidation, kindOf(t, err))

		_, err = UpdateProgress(db, enrollment.ID, user.ID, ProgressUpdate{TimeSpentDelta: intPtr(-5)})
		require.Error(t, err)
		assert.Equal(t, KindValidation, kindOf(t, err))
	})

	t.Run("rejects an unknown or foreign enrollment", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, "a@example.com")
		other := seedUser(t, db, "b@example.com")
		course := seedCourse(t, db, "Go Basics", nil)

		enrollment, err := EnrollStudent(db, user.ID, course.ID)
		require.NoError(t, err)

		_, err = UpdateProgress(db, 9999, user.ID, ProgressUpdate{Progress: intPtr(10)})
		require.Error(t, err)
		assert.Equal(t, KindNotFound, kindOf(t, err))

		_, err = UpdateProgress(db, enrollment.ID, other.ID, ProgressUpdate{Progress: intPtr(10)})
		require.Error(t, err)
		assert.Equal(t, KindNotFound, kindOf(t, err))
	})

	t.Run("reaching 100 completes the enrollment and issues one certificate", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, "a@example.com")
		course := seedCourse(t, db, "Go Basics", nil)

		enrollment, err := EnrollStudent(db, user.ID, course.ID)
		require.NoError(t, err)

		completed, err := UpdateProgress(db, enrollment.ID, user.ID, ProgressUpdate{Progress: intPtr(100)})
		require.NoError(t, err)

		assert.Equal(t, courseModels.EnrollmentCompleted, completed.Status)
		assert.Equal(t, 100, completed.Progress)
		require.NotNil(t, completed.CompletedAt)
		require.Len(t, completed.Certificates, 1)

		cert := completed.Certificates[0]
		assert.Equal(t, fmt.Sprintf("CERT-%d-%d", completed.ID, cert.IssuedAt.Unix()), cert.SerialNumber)
		assert.NotEmpty(t, cert.VerificationCode)
		assert.Equal(t, user.ID, cert.UserID)
		assert.Equal(t, course.ID, cert.CourseID)
	})

	t.Run("completion is idempotent and never re-certifies", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, "a@example.com")
		course := seedCourse(t, db, "Go Basics", nil)

		enrollment, err := EnrollStudent(db, user.ID, course.ID)
		require.NoError(t, err)

		first, err := UpdateProgress(db, enrollment.ID, user.ID, ProgressUpdate{Progress: intPtr(100)})
		require.NoError(t, err)
		require.NotNil(t, first.CompletedAt)
		completedAt := *first.CompletedAt

		again, err := UpdateProgress(db, enrollment.ID, user.ID, ProgressUpdate{Progress: intPtr(100)})
		require.NoError(t, err)
		assert.Equal(t, courseModels.EnrollmentCompleted, again.Status)

		var certCount int64
		db.Model(&courseModels.Certificate{}).
			Where("enrollment_id = ?", enrollment.ID).Count(&certCount)
		assert.EqualValues(t, 1, certCount)

		var reloaded courseModels.Enrollment
		require.NoError(t, db.First(&reloaded, enrollment.ID).Error)
		require.NotNil(t, reloaded.CompletedAt)
		assert.Equal(t, completedAt.Unix(), reloaded.CompletedAt.Unix())
	})

	t.Run("non-active non-completed enrollments reject updates", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, "a@example.com")
		course := seedCourse(t, db, "Go Basics", nil)

		enrollment, err := EnrollStudent(db, user.ID, course.ID)
		require.NoError(t, err)
		_, err = SetStatus(db, enrollment.ID, user.ID, courseModels.EnrollmentSuspended)
		require.NoError(t, err)

		_, err = UpdateProgress(db, enrollment.ID, user.ID, ProgressUpdate{Progress: intPtr(50)})
		require.Error(t, err)
		assert.Equal(t, KindNotFound, kindOf(t, err))
	})
}

func TestSetStatus(t *testing.T) {
	t.Run("completed is terminal", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, "a@example.com")
		course := seedCourse(t, db, "Go Basics", nil)

		enrollment, err := EnrollStudent(db, user.ID, course.ID)
		require.NoError(t, err)
		_, err = SetStatus(db, enrollment.ID, user.ID, courseModels.EnrollmentCompleted)
		require.NoError(t, err)

		_, err = SetStatus(db, enrollment.ID, user.ID, courseModels.EnrollmentActive)
		require.Error(t, err)
		assert.Equal(t, KindInvalidTransition, kindOf(t, err))
	})

	t.Run("suspend and resume round trip", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, "a@example.com")
		course := seedCourse(t, db, "Go Basics", nil)

		enrollment, err := EnrollStudent(db, user.ID, course.ID)
		require.NoError(t, err)

		suspended, err := SetStatus(db, enrollment.ID, user.ID, courseModels.EnrollmentSuspended)
		require.NoError(t, err)
		assert.Equal(t, courseModels.EnrollmentSuspended, suspended.Status)

		resumed, err := SetStatus(db, enrollment.ID, user.ID, courseModels.EnrollmentActive)
		require.NoError(t, err)
		assert.Equal(t, courseModels.EnrollmentActive, resumed.Status)
	})

	t.Run("suspended cannot complete directly", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, "a@example.com")
		course := seedCourse(t, db, "Go Basics", nil)

		enrollment, err := EnrollStudent(db, user.ID, course.ID)
		require.NoError(t, err)
		_, err = SetStatus(db, enrollment.ID, user.ID, courseModels.EnrollmentSuspended)
		require.NoError(t, err)

		_, err = SetStatus(db, enrollment.ID, user.ID, courseModels.EnrollmentCompleted)
		require.Error(t, err)
		assert.Equal(t, KindInvalidTransition, kindOf(t, err))
	})

	t.Run("completion via status change issues the certificate", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, "a@example.com")
		course := seedCourse(t, db, "Go Basics", nil)

		enrollment, err := EnrollStudent(db, user.ID, course.ID)
		require.NoError(t, err)

		completed, err := SetStatus(db, enrollment.ID, user.ID, courseModels.EnrollmentCompleted)
		require.NoError(t, err)
		assert.Equal(t, 100, completed.Progress)
		require.NotNil(t, completed.CompletedAt)
		require.Len(t, completed.Certificates, 1)
	})

	t.Run("cancellation decrements the enrollment counter once", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, "a@example.com")
		course := seedCourse(t, db, "Go Basics", nil)

		enrollment, err := EnrollStudent(db, user.ID, course.ID)
		require.NoError(t, err)

		_, err = SetStatus(db, enrollment.ID, user.ID, courseModels.EnrollmentCancelled)
		require.NoError(t, err)

		var reloaded courseModels.Course
		require.NoError(t, db.First(&reloaded, course.ID).Error)
		assert.Equal(t, 0, reloaded.EnrollmentCount)

		// Cancelled is terminal
		_, err = SetStatus(db, enrollment.ID, user.ID, courseModels.EnrollmentActive)
		require.Error(t, err)
		assert.Equal(t, KindInvalidTransition, kindOf(t, err))
	})

	t.Run("dropping leaves the counter untouched", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, "a@example.com")
		course := seedCourse(t, db, "Go Basics", nil)

		enrollment, err := EnrollStudent(db, user.ID, course.ID)
		require.NoError(t, err)

		dropped, err := SetStatus(db, enrollment.ID, user.ID, courseModels.EnrollmentDropped)
		require.NoError(t, err)
		assert.Equal(t, courseModels.EnrollmentDropped, dropped.Status)

		var reloaded courseModels.Course
		require.NoError(t, db.First(&reloaded, course.ID).Error)
		assert.Equal(t, 1, reloaded.EnrollmentCount)
	})

	t.Run("rejects an unknown status value", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, "a@example.com")
		course := seedCourse(t, db, "Go Basics", nil)

		enrollment, err := EnrollStudent(db, user.ID, course.ID)
		require.NoError(t, err)

		_, err = SetStatus(db, enrollment.ID, user.ID, courseModels.EnrollmentStatus("PAUSED"))
		require.Error(t, err)
		assert.Equal(t, KindValidation, kindOf(t, err))
	})
}

func TestCompleteLesson(t *testing.T) {
	t.Run("records the lesson and unions it into the enrollment", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, "a@example.com")
		course := seedCourse(t, db, "Go Basics", nil)
		lesson := seedLesson(t, db, course.ID, "Intro")

		_, err := EnrollStudent(db, user.ID, course.ID)
		require.NoError(t, err)

		progress, err := CompleteLesson(db, user.ID, lesson.ID, 20)
		require.NoError(t, err)
		assert.True(t, progress.IsCompleted)
		assert.Equal(t, 20, progress.TimeSpent)
		require.NotNil(t, progress.CompletedAt)

		var enrollment courseModels.Enrollment
		require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).
			First(&enrollment).Error)
		assert.Equal(t, []uint{lesson.ID}, enrollment.CompletedLessonIDs())
		assert.Equal(t, 20, enrollment.TimeSpent)
	})

	t.Run("completing the same lesson twice is a no-op", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, "a@example.com")
		course := seedCourse(t, db, "Go Basics", nil)
		lesson := seedLesson(t, db, course.ID, "Intro")

		_, err := EnrollStudent(db, user.ID, course.ID)
		require.NoError(t, err)

		_, err = CompleteLesson(db, user.ID, lesson.ID, 20)
		require.NoError(t, err)
		again, err := CompleteLesson(db, user.ID, lesson.ID, 45)
		require.NoError(t, err)
		assert.Equal(t, 20, again.TimeSpent)

		var enrollment courseModels.Enrollment
		require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).
			First(&enrollment).Error)
		assert.Equal(t, 20, enrollment.TimeSpent)
	})

	t.Run("requires an active enrollment for the lesson's course", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, "a@example.com")
		course := seedCourse(t, db, "Go Basics", nil)
		lesson := seedLesson(t, db, course.ID, "Intro")

		_, err := CompleteLesson(db, user.ID, lesson.ID, 10)
		require.Error(t, err)
		assert.Equal(t, KindNotFound, kindOf(t, err))
	})

	t.Run("rejects unpublished lessons", func(t *testing.T) {
		db := newTestDB(t)
		user := seedUser(t, db, "a@example.com")
		course := seedCourse(t, db, "Go Basics", nil)

		draft := courseModels.Lesson{CourseID: course.ID, Title: "Draft", Duration: 10}
		require.NoError(t, db.Create(&draft).Error)

		_, err := EnrollStudent(db, user.ID, course.ID)
		require.NoError(t, err)

		_, err = CompleteLesson(db, user.ID, draft.ID, 10)
		require.Error(t, err)
		assert.Equal(t, KindNotFound, kindOf(t, err))
	})
}

func TestCleanupDeletedLesson(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "a@example.com")
	course := seedCourse(t, db, "Go Basics", nil)
	keep := seedLesson(t, db, course.ID, "Keep")
	gone := seedLesson(t, db, course.ID, "Gone")

	_, err := EnrollStudent(db, user.ID, course.ID)
	require.NoError(t, err)
	_, err = CompleteLesson(db, user.ID, keep.ID, 10)
	require.NoError(t, err)
	_, err = CompleteLesson(db, user.ID, gone.ID, 10)
	require.NoError(t, err)

	tx := db.Begin()
	require.NoError(t, tx.Error)
	require.NoError(t, CleanupDeletedLesson(tx, gone.ID, course.ID))
	require.NoError(t, tx.Commit().Error)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", user.ID, course.ID).
		First(&enrollment).Error)
	assert.Equal(t, []uint{keep.ID}, enrollment.CompletedLessonIDs())

	var rows int64
	db.Model(&courseModels.LessonProgress{}).Where("lesson_id = ?", gone.ID).Count(&rows)
	assert.EqualValues(t, 0, rows)
}
