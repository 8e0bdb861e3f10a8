package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate represents an issued certificate for course completion.
// SerialNumber is stable once issued and is never regenerated.
type Certificate struct {
	gorm.Model
	UserID           uint      `json:"user_id" gorm:"index;not null"`
	CourseID         uint      `json:"course_id" gorm:"index;not null"`
	EnrollmentID     uint      `json:"enrollment_id" gorm:"index;not null"`
	SerialNumber     string    `json:"serial_number" gorm:"unique;not null"` // CERT-<enrollmentID>-<issuance unix ts>
	VerificationCode string    `json:"verification_code" gorm:"unique"`
	IssuedAt         time.Time `json:"issued_at"`
	IsDeleted        bool      `gorm:"default:false"`
}
