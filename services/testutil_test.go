package services

import (
	"testing"

	"lms/database"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the production schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Keep the single shared in-memory database alive across queries
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()

	user := models.User{
		Name:     "Test Student",
		Email:    email,
		Password: "hashed",
		Role:     "STUDENT",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedCourse(t *testing.T, db *gorm.DB, title string, maxEnrollments *int, prerequisites ...uint) courseModels.Course {
	t.Helper()

	course := courseModels.Course{
		Title:          title,
		Description:    "A course used by the test suite",
		Author:         "Jane Doe",
		Status:         "ACTIVE",
		IsPublished:    true,
		MaxEnrollments: maxEnrollments,
		Prerequisites:  courseModels.UnionIDSet(nil, prerequisites...),
	}
	require.NoError(t, db.Create(&course).Error)
	return course
}

func seedLesson(t *testing.T, db *gorm.DB, courseID uint, title string) courseModels.Lesson {
	t.Helper()

	lesson := courseModels.Lesson{
		CourseID:    courseID,
		Title:       title,
		Duration:    30,
		IsPublished: true,
	}
	require.NoError(t, db.Create(&lesson).Error)
	return lesson
}

func intPtr(v int) *int { return &v }

func kindOf(t *testing.T, err error) Kind {
	t.Helper()

	svcErr, ok := err.(*Error)
	require.True(t, ok, "expected *services.Error, got %T: %v", err, err)
	return svcErr.Kind
}
