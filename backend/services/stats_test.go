package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetUserStats(t *testing.T) {
	db := newTestDB(t)
	ps := NewProgressService(db)
	ss := NewStatsService(db)

	teacher := createTestUser(t, db, "Teacher", "teacher@example.com", "teacher")
	student := createTestUser(t, db, "Student", "student@example.com", "student")
	course := createTestCourse(t, db, teacher, "Go Basics", true)
	lesson := createTestLesson(t, db, course.ID, "Intro", 1, 90)

	assert.NoError(t, ps.MarkLessonAsCompleted(student.ID, lesson.ID, course.ID))

	stats := ss.GetUserStats(student.ID)
	assert.Equal(t, 1, stats.CompletedCourses)
	assert.Equal(t, 0, stats.CoursesInProgress)
	assert.Equal(t, 1.5, stats.StudyHours)
	assert.Equal(t, courseCompletionScore, stats.Score)
	assert.Equal(t, 100, stats.AverageProgress)
	assert.Equal(t, 1, stats.StreakDays)

	// Unknown users get zeroes, not an error.
	assert.Equal(t, UserStats{}, ss.GetUserStats(999))
}

func TestGetPlatformStats(t *testing.T) {
	db := newTestDB(t)
	ps := NewProgressService(db)
	gs := NewEngagementService(db)
	ss := NewStatsService(db)

	teacher := createTestUser(t, db, "Teacher", "teacher@example.com", "teacher")
	student := createTestUser(t, db, "Student", "student@example.com", "student")
	course := createTestCourse(t, db, teacher, "Go Basics", true)
	lesson := createTestLesson(t, db, course.ID, "Intro", 1, 30)
	createTestLesson(t, db, course.ID, "Types", 2, 30)

	assert.NoError(t, ps.MarkLessonAsCompleted(student.ID, lesson.ID, course.ID))
	_, err := gs.CreateCourseRating(course.ID, student.ID, student.Name, 4, "", "")
	assert.NoError(t, err)

	stats := ss.GetPlatformStats()
	assert.EqualValues(t, 1, stats.TotalCourses)
	assert.EqualValues(t, 1, stats.TotalStudents)
	assert.EqualValues(t, 2, stats.TotalLessons)
	assert.Equal(t, 1.0, stats.ContentHours)
	assert.EqualValues(t, 0, stats.CompletedCourses)
	assert.Equal(t, 4.0, stats.AverageRating)
}
