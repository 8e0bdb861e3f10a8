package services

import (
	courseModels "lms/models/course"

	"gorm.io/gorm"
)

// StatusBucket summarizes a student's enrollments sharing one status
type StatusBucket struct {
	Count           int     `json:"count"`
	AverageProgress float64 `json:"average_progress"`
}

// RecentEnrollment is an enrollment with the minimal course projection the
// dashboard needs
type RecentEnrollment struct {
	courseModels.Enrollment
	CourseTitle        string `json:"course_title"`
	CourseAuthor       string `json:"course_author"`
	CourseThumbnailURL string `json:"course_thumbnail_url"`
}

// StudentStatistics is the read-only dashboard view of one student
type StudentStatistics struct {
	ByStatus         map[courseModels.EnrollmentStatus]StatusBucket `json:"by_status"`
	TotalEnrollments int                                            `json:"total_enrollments"`
	TotalTimeSpent   int                                            `json:"total_time_spent"` // minutes
	Recent           []RecentEnrollment                             `json:"recent"`
}

// StudentStats groups the student's enrollments by status with count and mean
// progress per bucket, total accumulated time, and the 5 most recently
// accessed enrollments. Read-only; always reflects committed state.
func StudentStats(db *gorm.DB, userID uint) (*StudentStatistics, error) {
	var enrollments []courseModels.Enrollment
	err := db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Find(&enrollments).Error
	if err != nil {
		return nil, Dependency("Failed to fetch enrollments!", err)
	}

	stats := &StudentStatistics{
		ByStatus:         make(map[courseModels.EnrollmentStatus]StatusBucket),
		TotalEnrollments: len(enrollments),
	}

	progressSums := make(map[courseModels.EnrollmentStatus]int)
	for _, e := range enrollments {
		bucket := stats.ByStatus[e.Status]
		bucket.Count++
		stats.ByStatus[e.Status] = bucket
		progressSums[e.Status] += e.Progress
		stats.TotalTimeSpent += e.TimeSpent
	}
	for status, bucket := range stats.ByStatus {
		bucket.AverageProgress = float64(progressSums[status]) / float64(bucket.Count)
		stats.ByStatus[status] = bucket
	}

	var recent []courseModels.Enrollment
	err = db.Where("user_id = ? AND is_deleted = ?", userID, false).
		Order("updated_at desc").Limit(5).
		Find(&recent).Error
	if err != nil {
		return nil, Dependency("Failed to fetch recent enrollments!", err)
	}

	stats.Recent = make([]RecentEnrollment, len(recent))
	for i, e := range recent {
		var c courseModels.Course
		db.Select("title, author, thumbnail_url").Where("id = ?", e.CourseID).First(&c)
		stats.Recent[i] = RecentEnrollment{
			Enrollment:         e,
			CourseTitle:        c.Title,
			CourseAuthor:       c.Author,
			CourseThumbnailURL: c.ThumbnailURL,
		}
	}

	return stats, nil
}

// PlatformStatistics is the admin dashboard rollup
type PlatformStatistics struct {
	TotalCourses      int64   `json:"total_courses"`
	PublishedCourses  int64   `json:"published_courses"`
	TotalEnrollments  int64   `json:"total_enrollments"`
	ActiveEnrollments int64   `json:"active_enrollments"`
	CompletedCourses  int64   `json:"completed_courses"`
	CompletionRate    float64 `json:"completion_rate"` // percent
	TotalReviews      int64   `json:"total_reviews"`
	PendingReviews    int64   `json:"pending_reviews"`
}

// PlatformStats computes the admin dashboard counters
func PlatformStats(db *gorm.DB) (*PlatformStatistics, error) {
	stats := &PlatformStatistics{}

	db.Model(&courseModels.Course{}).Where("is_deleted = ?", false).Count(&stats.TotalCourses)
	db.Model(&courseModels.Course{}).Where("is_deleted = ? AND is_published = ?", false, true).Count(&stats.PublishedCourses)

	err := db.Model(&courseModels.Enrollment{}).Where("is_deleted = ?", false).
		Count(&stats.TotalEnrollments).Error
	if err != nil {
		return nil, Dependency("Failed to count enrollments!", err)
	}
	db.Model(&courseModels.Enrollment{}).
		Where("is_deleted = ? AND status = ?", false, courseModels.EnrollmentActive).
		Count(&stats.ActiveEnrollments)
	db.Model(&courseModels.Enrollment{}).
		Where("is_deleted = ? AND status = ?", false, courseModels.EnrollmentCompleted).
		Count(&stats.CompletedCourses)

	if stats.TotalEnrollments > 0 {
		stats.CompletionRate = float64(stats.CompletedCourses) / float64(stats.TotalEnrollments) * 100
	}

	db.Model(&courseModels.Review{}).Count(&stats.TotalReviews)
	db.Model(&courseModels.Review{}).Where("is_approved = ?", false).Count(&stats.PendingReviews)

	return stats, nil
}
