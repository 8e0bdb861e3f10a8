package course

import "gorm.io/gorm"

// Lesson is a single unit of course content
type Lesson struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description" gorm:"type:text"`
	ContentURL  string `json:"content_url"`
	Duration    int    `json:"duration" gorm:"default:0"` // duration in minutes
	OrderIndex  int    `json:"order_index" gorm:"default:0"`
	IsPublished bool   `json:"is_published" gorm:"default:false"`
	IsDeleted   bool   `gorm:"default:false"`
}
