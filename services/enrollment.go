package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	courseModels "lms/models/course"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OnCertificateIssued, when set, is invoked after a completion transaction
// commits. Failures inside the hook never affect the enrollment operation.
var OnCertificateIssued func(cert courseModels.Certificate, enrollment courseModels.Enrollment)

// EnrollStudent runs the admission checks and creates the enrollment. All
// checks and the creation run in one transaction; the first failing check
// aborts it. Check order: course available, capacity, duplicate,
// prerequisites.
func EnrollStudent(db *gorm.DB, userID, courseID uint) (*courseModels.Enrollment, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, Dependency("Failed to start transaction!", tx.Error)
	}
	defer tx.Rollback()

	// Course must exist, be active and published. The row is locked so a
	// concurrent enroll for the same course serializes the capacity check.
	courseQuery := tx.Where("id = ? AND is_deleted = ? AND status = ? AND is_published = ?",
		courseID, false, "ACTIVE", true)
	if tx.Dialector.Name() != "sqlite" {
		courseQuery = courseQuery.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var course courseModels.Course
	if err := courseQuery.First(&course).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NotFound("Course not found or not active!")
		}
		return nil, Dependency("Failed to load course!", err)
	}

	// Capacity: active + completed enrollments hold a seat
	if course.MaxEnrollments != nil {
		var taken int64
		err := tx.Model(&courseModels.Enrollment{}).
			Where("course_id = ? AND is_deleted = ? AND status IN ?",
				courseID, false, []courseModels.EnrollmentStatus{courseModels.EnrollmentActive, courseModels.EnrollmentCompleted}).
			Count(&taken).Error
		if err != nil {
			return nil, Dependency("Failed to count enrollments!", err)
		}
		if taken >= int64(*course.MaxEnrollments) {
			return nil, Conflict("Course capacity exceeded!")
		}
	}

	// Duplicate: at most one non-cancelled enrollment per (user, course)
	var existing courseModels.Enrollment
	err := tx.Where("user_id = ? AND course_id = ? AND is_deleted = ? AND status <> ?",
		userID, courseID, false, courseModels.EnrollmentCancelled).
		First(&existing).Error
	if err == nil {
		return nil, Conflict("User already enrolled in this course!")
	}
	if err != gorm.ErrRecordNotFound {
		return nil, Dependency("Failed to check existing enrollment!", err)
	}

	// Prerequisites: every listed course must be completed by this student
	if missing, depErr := missingPrerequisites(tx, userID, &course); depErr != nil {
		return nil, depErr
	} else if len(missing) > 0 {
		return nil, Validation(fmt.Sprintf("Prerequisites not met! Missing course(s): %s", joinIDs(missing)))
	}

	enrollment := courseModels.Enrollment{
		UserID:           userID,
		CourseID:         courseID,
		Status:           courseModels.EnrollmentActive,
		Progress:         0,
		CompletedLessons: courseModels.UnionIDSet(nil),
		EnrolledAt:       time.Now(),
	}

	if err := tx.Create(&enrollment).Error; err != nil {
		// The partial unique index catches the race two concurrent enrolls lose
		if isDuplicateKey(err) {
			return nil, Conflict("User already enrolled in this course!")
		}
		return nil, Dependency("Failed to enroll in course!", err)
	}

	// Counter moves in the same transaction as the enrollment creation
	err = tx.Model(&courseModels.Course{}).Where("id = ?", courseID).
		UpdateColumn("enrollment_count", gorm.Expr("enrollment_count + 1")).Error
	if err != nil {
		return nil, Dependency("Failed to update enrollment count!", err)
	}

	if err := tx.Commit().Error; err != nil {
		if isDuplicateKey(err) {
			return nil, Conflict("User already enrolled in this course!")
		}
		return nil, Dependency("Failed to enroll in course!", err)
	}

	return &enrollment, nil
}

// SetStatus applies a status change for the caller's enrollment, validated
// against the state table. COMPLETED and CANCELLED are terminal.
func SetStatus(db *gorm.DB, enrollmentID, userID uint, newStatus courseModels.EnrollmentStatus) (*courseModels.Enrollment, error) {
	switch newStatus {
	case courseModels.EnrollmentActive, courseModels.EnrollmentCompleted,
		courseModels.EnrollmentSuspended, courseModels.EnrollmentDropped,
		courseModels.EnrollmentCancelled:
	default:
		return nil, Validation(fmt.Sprintf("Unknown enrollment status %q!", newStatus))
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

	if !enrollment.Status.CanTransitionTo(newStatus) {
		return nil, InvalidTransition(fmt.Sprintf("Cannot change enrollment status from %s to %s!",
			enrollment.Status, newStatus))
	}

	now := time.Now()
	enrollment.LastAccessedAt = &now

	switch newStatus {
	case courseModels.EnrollmentCompleted:
		if err := completeEnrollment(tx, &enrollment, now); err != nil {
			return nil, err
		}
	case courseModels.EnrollmentCancelled:
		enrollment.Status = courseModels.EnrollmentCancelled
		// Counter moves in the same transaction as the cancellation
		err := tx.Model(&courseModels.Course{}).
			Where("id = ? AND enrollment_count > 0", enrollment.CourseID).
			UpdateColumn("enrollment_count", gorm.Expr("enrollment_count - 1")).Error
		if err != nil {
			return nil, Dependency("Failed to update enrollment count!", err)
		}
	default:
		enrollment.Status = newStatus
	}

	if err := tx.Save(&enrollment).Error; err != nil {
		return nil, Dependency("Failed to update enrollment!", err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, Dependency("Failed to update enrollment!", err)
	}

	if enrollment.Status == courseModels.EnrollmentCompleted {
		db.Where("enrollment_id = ? AND is_deleted = ?", enrollment.ID, false).
			Order("issued_at asc").Find(&enrollment.Certificates)
	}

	notifyCertificate(db, &enrollment)
	return &enrollment, nil
}

// completeEnrollment performs the completion transition inside the caller's
// transaction: progress pinned to 100, CompletedAt set, exactly one
// certificate. Issuance is idempotent; an enrollment that already has a
// certificate is never issued a second one.
func completeEnrollment(tx *gorm.DB, enrollment *courseModels.Enrollment, now time.Time) error {
	enrollment.Status = courseModels.EnrollmentCompleted
	enrollment.Progress = 100
	if enrollment.CompletedAt == nil {
		enrollment.CompletedAt = &now
	}

	var existing int64
	err := tx.Model(&courseModels.Certificate{}).
		Where("enrollment_id = ? AND is_deleted = ?", enrollment.ID, false).
		Count(&existing).Error
	if err != nil {
		return Dependency("Failed to check certificates!", err)
	}
	if existing > 0 {
		return nil
	}

	cert := courseModels.Certificate{
		UserID:           enrollment.UserID,
		CourseID:         enrollment.CourseID,
		EnrollmentID:     enrollment.ID,
		SerialNumber:     fmt.Sprintf("CERT-%d-%d", enrollment.ID, now.Unix()),
		VerificationCode: uuid.NewString(),
		IssuedAt:         now,
	}
	if err := tx.Create(&cert).Error; err != nil {
		return Dependency("Failed to issue certificate!", err)
	}
	return nil
}

// notifyCertificate fires the post-commit certificate hook for a freshly
// completed enrollment. Best effort only.
func notifyCertificate(db *gorm.DB, enrollment *courseModels.Enrollment) {
	if OnCertificateIssued == nil || enrollment.Status != courseModels.EnrollmentCompleted {
		return
	}
	var cert courseModels.Certificate
	err := db.Where("enrollment_id = ? AND is_deleted = ?", enrollment.ID, false).
		Order("issued_at asc").First(&cert).Error
	if err != nil {
		return
	}
	go OnCertificateIssued(cert, *enrollment)
}

// missingPrerequisites returns the prerequisite course IDs the student has
// not completed, sorted for a stable error message.
func missingPrerequisites(tx *gorm.DB, userID uint, course *courseModels.Course) ([]uint, error) {
	required := course.PrerequisiteIDs()
	if len(required) == 0 {
		return nil, nil
	}

	var completed []uint
	err := tx.Model(&courseModels.Enrollment{}).
		Where("user_id = ? AND is_deleted = ? AND status = ? AND course_id IN ?",
			userID, false, courseModels.EnrollmentCompleted, required).
		Pluck("course_id", &completed).Error
	if err != nil {
		return nil, Dependency("Failed to check prerequisites!", err)
	}

	done := make(map[uint]bool, len(completed))
	for _, id := range completed {
		done[id] = true
	}

	var missing []uint
	for _, id := range required {
		if !done[id] {
			missing = append(missing, id)
		}
	}
	sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
	return missing, nil
}

func joinIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, ", ")
}

// isDuplicateKey detects unique-constraint violations across the supported
// dialects. GORM only translates these when error translation is enabled, so
// the message check stays as a fallback.
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if err == gorm.ErrDuplicatedKey {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "Duplicate entry")
}
