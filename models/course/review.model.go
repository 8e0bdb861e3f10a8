package course

import (
	"time"

	"lms/models"

	"gorm.io/gorm"
)

// Review is a student's rating of a course. Only approved reviews contribute
// to the course's average rating and review count.
type Review struct {
	gorm.Model
	CourseID   uint       `json:"course_id" gorm:"index;not null"`
	UserID     uint       `json:"user_id" gorm:"index;not null"`
	Rating     int        `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment    string     `json:"comment" gorm:"type:text;default:''"`
	IsApproved bool       `json:"is_approved" gorm:"default:false"`
	ApprovedAt *time.Time `json:"approved_at"`
	ApprovedBy *uint      `json:"approved_by"`

	// Associations - omit in JSON list unless Preloaded
	User models.User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
