package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EnrollmentStatus is the lifecycle state of an enrollment
type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "ACTIVE"
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentDropped   EnrollmentStatus = "DROPPED"
	EnrollmentSuspended EnrollmentStatus = "SUSPENDED"
	EnrollmentCancelled EnrollmentStatus = "CANCELLED"
)

// Enrollment tracks a user's enrollment in a course with progress.
// At most one non-cancelled enrollment may exist per (user, course); the partial
// unique index created in database.RunMigrations is the backstop for that rule.
type Enrollment struct {
	gorm.Model
	UserID   uint             `json:"user_id" gorm:"index:idx_enrollment_user_course;not null"`
	CourseID uint             `json:"course_id" gorm:"index:idx_enrollment_user_course;not null"`
	Status   EnrollmentStatus `json:"status" gorm:"type:varchar(20);default:'ACTIVE'"`

	Progress         int            `json:"progress" gorm:"default:0"`                 // completion percentage (0-100)
	CompletedLessons datatypes.JSON `json:"completed_lessons" gorm:"default:'[]'"`     // array of lesson IDs, never shrinks except lesson-deletion cleanup
	CurrentLessonID  *uint          `json:"current_lesson_id"`
	Grade            *int           `json:"grade"`                                     // optional, 0-100
	TimeSpent        int            `json:"time_spent" gorm:"default:0"`               // accumulated minutes

	EnrolledAt     time.Time  `json:"enrolled_at"`
	LastAccessedAt *time.Time `json:"last_accessed_at"`
	CompletedAt    *time.Time `json:"completed_at"` // set only on completion
	IsDeleted      bool       `gorm:"default:false"`

	Certificates []Certificate `json:"certificates,omitempty" gorm:"foreignKey:EnrollmentID"`
}

// CompletedLessonIDs decodes the stored lesson-ID set
func (e *Enrollment) CompletedLessonIDs() []uint {
	return decodeIDSet(e.CompletedLessons)
}

// CanTransitionTo reports whether the status change is permitted by the
// enrollment state table. COMPLETED and CANCELLED are terminal.
func (s EnrollmentStatus) CanTransitionTo(next EnrollmentStatus) bool {
	switch s {
	case EnrollmentActive:
		return next == EnrollmentCompleted || next == EnrollmentSuspended ||
			next == EnrollmentDropped || next == EnrollmentCancelled
	case EnrollmentSuspended:
		return next == EnrollmentActive || next == EnrollmentCancelled
	default:
		return false
	}
}
