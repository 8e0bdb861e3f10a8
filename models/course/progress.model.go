package course

import (
	"time"

	"gorm.io/gorm"
)

// LessonProgress is the per-lesson completion record for one user. It is a
// denormalized detail of Enrollment.CompletedLessons, which stays the
// authoritative course-level set.
type LessonProgress struct {
	gorm.Model
	UserID      uint       `json:"user_id" gorm:"uniqueIndex:idx_progress_user_lesson;not null"`
	LessonID    uint       `json:"lesson_id" gorm:"uniqueIndex:idx_progress_user_lesson;not null"`
	CourseID    uint       `json:"course_id" gorm:"index;not null"`
	IsCompleted bool       `json:"is_completed" gorm:"default:false"`
	TimeSpent   int        `json:"time_spent" gorm:"default:0"` // minutes
	CompletedAt *time.Time `json:"completed_at"`
	IsDeleted   bool       `gorm:"default:false"`
}
