package services

import (
	"time"

	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// ProgressUpdate carries the optional fields of a progress update. Nil fields
// are left untouched.
type ProgressUpdate struct {
	Progress         *int   `json:"progress"`
	CompletedLessons []uint `json:"completed_lessons"`
	TimeSpentDelta   *int   `json:"time_spent_delta"`
	CurrentLessonID  *uint  `json:"current_lesson_id"`
}

// UpdateProgress applies a progress update to the caller's active enrollment.
// CompletedLessons unions into the stored set and never shrinks here.
// TimeSpentDelta accumulates. Reaching progress 100 completes the enrollment
// and issues its certificate in the same transaction. Calling again on an
// already completed enrollment is a no-op that returns it unchanged.
func UpdateProgress(db *gorm.DB, enrollmentID, userID uint, update ProgressUpdate) (*courseModels.Enrollment, error) {
	if update.Progress != nil && (*update.Progress < 0 || *update.Progress > 100) {
		return nil, Validation("Progress must be between 0 and 100!")
	}
	if update.TimeSpentDelta != nil && *update.TimeSpentDelta < 0 {
		return nil, Validation("Time spent delta cannot be negative!")
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, Dependency("Failed to start transaction!", tx.Error)
	}
	defer tx.Rollback()

	var enrollment courseModels.Enrollment
	err := tx.Where("id = ? AND user_id = ? AND is_deleted = ?", enrollmentID, userID, false).
		First(&enrollment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NotFound("Enrollment not found!")
		}
		return nil, Dependency("Failed to load enrollment!", err)
	}

	// Completed enrollments accept the update idempotently: nothing changes
	// and no second certificate is ever issued
	if enrollment.Status == courseModels.EnrollmentCompleted {
		return &enrollment, nil
	}
	if enrollment.Status != courseModels.EnrollmentActive {
		return nil, NotFound("No active enrollment found!")
	}

	now := time.Now()
	enrollment.LastAccessedAt = &now

	if update.Progress != nil {
		enrollment.Progress = *update.Progress
	}
	if len(update.CompletedLessons) > 0 {
		enrollment.CompletedLessons = courseModels.UnionIDSet(enrollment.CompletedLessons, update.CompletedLessons...)
	}
	if update.TimeSpentDelta != nil {
		enrollment.TimeSpent += *update.TimeSpentDelta
	}
	if update.CurrentLessonID != nil {
		enrollment.CurrentLessonID = update.CurrentLessonID
	}

	if enrollment.Progress == 100 {
		if err := completeEnrollment(tx, &enrollment, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Save(&enrollment).Error; err != nil {
		return nil, Dependency("Failed to update progress!", err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, Dependency("Failed to update progress!", err)
	}

	if enrollment.Status == courseModels.EnrollmentCompleted {
		db.Where("enrollment_id = ? AND is_deleted = ?", enrollment.ID, false).
			Order("issued_at asc").Find(&enrollment.Certificates)
	}

	notifyCertificate(db, &enrollment)
	return &enrollment, nil
}

// CompleteLesson marks one lesson as done for the user. Idempotent: a lesson
// completed earlier returns its existing record unchanged. The per-lesson row
// and the enrollment's lesson set move together in one transaction; the
// enrollment set stays authoritative.
func CompleteLesson(db *gorm.DB, userID, lessonID uint, timeSpentMinutes int) (*courseModels.LessonProgress, error) {
	if timeSpentMinutes < 0 {
		return nil, Validation("Time spent cannot be negative!")
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, Dependency("Failed to start transaction!", tx.Error)
	}
	defer tx.Rollback()

	var lesson courseModels.Lesson
	err := tx.Where("id = ? AND is_deleted = ? AND is_published = ?", lessonID, false, true).
		First(&lesson).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NotFound("Lesson not found!")
		}
		return nil, Dependency("Failed to load lesson!", err)
	}

	var enrollment courseModels.Enrollment
	err = tx.Where("user_id = ? AND course_id = ? AND is_deleted = ? AND status = ?",
		userID, lesson.CourseID, false, courseModels.EnrollmentActive).
		First(&enrollment).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NotFound("No active enrollment for this course!")
		}
		return nil, Dependency("Failed to load enrollment!", err)
	}

	var existing courseModels.LessonProgress
	err = tx.Where("user_id = ? AND lesson_id = ? AND is_deleted = ?", userID, lessonID, false).
		First(&existing).Error
	if err == nil && existing.IsCompleted {
		return &existing, nil
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, Dependency("Failed to check lesson progress!", err)
	}

	now := time.Now()
	progress := existing
	if err == gorm.ErrRecordNotFound {
		progress = courseModels.LessonProgress{
			UserID:   userID,
			LessonID: lessonID,
			CourseID: lesson.CourseID,
		}
	}
	progress.IsCompleted = true
	progress.TimeSpent += timeSpentMinutes
	progress.CompletedAt = &now

	if err := tx.Save(&progress).Error; err != nil {
		return nil, Dependency("Failed to save lesson progress!", err)
	}

	enrollment.CompletedLessons = courseModels.UnionIDSet(enrollment.CompletedLessons, lessonID)
	enrollment.TimeSpent += timeSpentMinutes
	enrollment.LastAccessedAt = &now
	if err := tx.Save(&enrollment).Error; err != nil {
		return nil, Dependency("Failed to update enrollment!", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, Dependency("Failed to save lesson progress!", err)
	}
	return &progress, nil
}

// CleanupDeletedLesson removes every reference to a deleted lesson: the
// per-lesson progress rows and the lesson's entry in each enrollment's
// completed set. This is the only path that shrinks CompletedLessons. Runs
// inside the caller's lesson-deletion transaction.
func CleanupDeletedLesson(tx *gorm.DB, lessonID, courseID uint) error {
	err := tx.Unscoped().
		Where("lesson_id = ?", lessonID).
		Delete(&courseModels.LessonProgress{}).Error
	if err != nil {
		return Dependency("Failed to delete lesson progress records!", err)
	}

	var enrollments []courseModels.Enrollment
	err = tx.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Find(&enrollments).Error
	if err != nil {
		return Dependency("Failed to load enrollments for cleanup!", err)
	}

	for i := range enrollments {
		cleaned := courseModels.RemoveFromIDSet(enrollments[i].CompletedLessons, lessonID)
		if string(cleaned) == string(enrollments[i].CompletedLessons) {
			continue
		}
		enrollments[i].CompletedLessons = cleaned
		if err := tx.Save(&enrollments[i]).Error; err != nil {
			return Dependency("Failed to clean enrollment lesson set!", err)
		}
	}
	return nil
}
