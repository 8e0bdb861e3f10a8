package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course represents a learning course
type Course struct {
	gorm.Model
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Author       string         `json:"author"`
	CategoryID   *uint          `json:"category_id" gorm:"index"`
	Duration     int64          `json:"duration" gorm:"default:0"`     // duration in hours
	Status       string         `json:"status" gorm:"default:'DRAFT'"` // DRAFT, ACTIVE, INACTIVE
	ThumbnailURL string         `json:"thumbnail_url"`
	IsPublished  bool           `json:"is_published" gorm:"default:false"`
	IsDeleted    bool           `gorm:"default:false"`

	// Admission control
	MaxEnrollments *int           `json:"max_enrollments"`                          // nil means unlimited seats
	Prerequisites  datatypes.JSON `json:"prerequisites" gorm:"default:'[]'"`        // array of course IDs

	// Derived aggregates. EnrollmentCount moves inside the same transaction as the
	// enrollment state change; rating fields are recomputed by the aggregates worker.
	EnrollmentCount int     `json:"enrollment_count" gorm:"default:0"`
	AverageRating   float64 `json:"average_rating" gorm:"default:0"`
	TotalReviews    int     `json:"total_reviews" gorm:"default:0"`
}

// PrerequisiteIDs decodes the prerequisite course-ID set
func (c *Course) PrerequisiteIDs() []uint {
	return decodeIDSet(c.Prerequisites)
}
