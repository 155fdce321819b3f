package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"eadsystem/backend/models"
	"eadsystem/backend/utils"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter int64

// newTestDB opens a fresh in-memory database per test. The shared-cache DSN
// keeps all pooled connections pointed at the same in-memory instance.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:svc%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := utils.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, name, email, role string) *models.User {
	t.Helper()
	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
		Active:       true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &user
}

func createTestCourse(t *testing.T, db *gorm.DB, teacher *models.User, title string, public bool) *models.Course {
	t.Helper()
	course := models.Course{
		Title:       title,
		Description: "A course about " + title,
		TeacherID:   teacher.ID,
		TeacherName: teacher.Name,
		Public:      public,
		Active:      true,
	}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("create course: %v", err)
	}
	return &course
}

func createTestLesson(t *testing.T, db *gorm.DB, courseID uint, title string, order, minutes int) *models.Lesson {
	t.Helper()
	lesson := models.Lesson{
		CourseID:        courseID,
		Title:           title,
		SequenceOrder:   order,
		DurationMinutes: minutes,
		Active:          true,
	}
	if err := db.Create(&lesson).Error; err != nil {
		t.Fatalf("create lesson: %v", err)
	}
	return &lesson
}
