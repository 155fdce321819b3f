package services

import (
	"fmt"
	"testing"

	"eadsystem/backend/models"

	"github.com/stretchr/testify/assert"
)

func TestWatchedSecondsAreMonotonic(t *testing.T) {
	db := newTestDB(t)
	ps := NewProgressService(db)

	teacher := createTestUser(t, db, "Teacher", "teacher@example.com", "teacher")
	student := createTestUser(t, db, "Student", "student@example.com", "student")
	course := createTestCourse(t, db, teacher, "Go Basics", true)
	lesson := createTestLesson(t, db, course.ID, "Intro", 1, 10)

	progress, err := ps.UpdateLessonProgress(student.ID, lesson.ID, course.ID, 120, 600)
	assert.NoError(t, err)
	assert.Equal(t, 120.0, progress.WatchedSeconds)
	assert.InDelta(t, 20.0, progress.Percentage, 0.001)

	// A seek backward must not regress the stored watch time.
	progress, err = ps.UpdateLessonProgress(student.ID, lesson.ID, course.ID, 30, 600)
	assert.NoError(t, err)
	assert.Equal(t, 120.0, progress.WatchedSeconds)

	progress, err = ps.UpdateLessonProgress(student.ID, lesson.ID, course.ID, 300, 600)
	assert.NoError(t, err)
	assert.Equal(t, 300.0, progress.WatchedSeconds)
	assert.False(t, progress.Completed)
}

func TestLessonCompletesAtThreshold(t *testing.T) {
	db := newTestDB(t)
	ps := NewProgressService(db)

	teacher := createTestUser(t, db, "Teacher", "teacher@example.com", "teacher")
	student := createTestUser(t, db, "Student", "student@example.com", "student")
	course := createTestCourse(t, db, teacher, "Go Basics", true)
	lesson := createTestLesson(t, db, course.ID, "Intro", 1, 10)

	progress, err := ps.UpdateLessonProgress(student.ID, lesson.ID, course.ID, 540, 600)
	assert.NoError(t, err)
	assert.True(t, progress.Completed)
	assert.NotNil(t, progress.CompletedAt)

	firstCompletedAt := *ps.GetUserLessonProgress(student.ID, lesson.ID).CompletedAt

	// Watching the rest does not move the completion timestamp.
	progress, err = ps.UpdateLessonProgress(student.ID, lesson.ID, course.ID, 600, 600)
	assert.NoError(t, err)
	assert.True(t, progress.Completed)
	assert.True(t, firstCompletedAt.Equal(*progress.CompletedAt))
}

func TestMarkLessonAsCompletedIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	ps := NewProgressService(db)

	teacher := createTestUser(t, db, "Teacher", "teacher@example.com", "teacher")
	student := createTestUser(t, db, "Student", "student@example.com", "student")
	course := createTestCourse(t, db, teacher, "Go Basics", true)
	lesson := createTestLesson(t, db, course.ID, "Intro", 1, 10)

	assert.NoError(t, ps.MarkLessonAsCompleted(student.ID, lesson.ID, course.ID))
	first := ps.GetUserLessonProgress(student.ID, lesson.ID)
	assert.True(t, first.Completed)

	rollup := ps.GetUserProgress(student.ID, course.ID)
	minutesAfterFirst := rollup.StudyMinutes

	assert.NoError(t, ps.MarkLessonAsCompleted(student.ID, lesson.ID, course.ID))
	second := ps.GetUserLessonProgress(student.ID, lesson.ID)
	assert.True(t, first.CompletedAt.Equal(*second.CompletedAt))

	// The watched set insert is a no-op, so study minutes do not accrue twice.
	rollup = ps.GetUserProgress(student.ID, course.ID)
	assert.Equal(t, minutesAfterFirst, rollup.StudyMinutes)
}

// Full walk from enrollment to completion: two lessons, 50% after the first,
// 100% after the second, a single score bonus and a completion notification.
func TestCourseCompletionScenario(t *testing.T) {
	db := newTestDB(t)
	es := NewEnrollmentService(db)
	ps := NewProgressService(db)

	teacher := createTestUser(t, db, "Teacher", "teacher@example.com", "teacher")
	student := createTestUser(t, db, "Student", "student@example.com", "student")
	course := createTestCourse(t, db, teacher, "Go Basics", true)
	lesson1 := createTestLesson(t, db, course.ID, "Intro", 1, 10)
	lesson2 := createTestLesson(t, db, course.ID, "Types", 2, 20)

	_, err := es.AutoApproveEnrollment(course.ID, student.ID, student.Name, student.Email)
	assert.NoError(t, err)

	_, err = ps.UpdateLessonProgress(student.ID, lesson1.ID, course.ID, 600, 600)
	assert.NoError(t, err)

	rollup := ps.GetUserProgress(student.ID, course.ID)
	assert.InDelta(t, 50.0, rollup.Percentage, 0.001)
	assert.Nil(t, rollup.CompletedAt)
	assert.Equal(t, 10, rollup.StudyMinutes)

	_, err = ps.UpdateLessonProgress(student.ID, lesson2.ID, course.ID, 1200, 1200)
	assert.NoError(t, err)

	rollup = ps.GetUserProgress(student.ID, course.ID)
	assert.InDelta(t, 100.0, rollup.Percentage, 0.001)
	assert.NotNil(t, rollup.CompletedAt)
	assert.Equal(t, 30, rollup.StudyMinutes)

	var user models.User
	assert.NoError(t, db.First(&user, student.ID).Error)
	assert.Equal(t, courseCompletionScore, user.Score)
	assert.True(t, models.IDListContains(user.CompletedCourses, course.ID))
	assert.Equal(t, 30, user.StudyMinutes)

	notifications := NewNotificationService(db).GetByUser(student.ID)
	var completion *models.Notification
	for i := range notifications {
		if notifications[i].Title == "Congratulations! Course Completed!" {
			completion = &notifications[i]
		}
	}
	if assert.NotNil(t, completion) {
		assert.Equal(t, fmt.Sprintf("/course/%d", course.ID), completion.Link)
	}
}

func TestCourseCompletionBonusIsAwardedOnce(t *testing.T) {
	db := newTestDB(t)
	ps := NewProgressService(db)

	teacher := createTestUser(t, db, "Teacher", "teacher@example.com", "teacher")
	student := createTestUser(t, db, "Student", "student@example.com", "student")
	course := createTestCourse(t, db, teacher, "Go Basics", true)
	lesson := createTestLesson(t, db, course.ID, "Intro", 1, 10)

	assert.NoError(t, ps.MarkLessonAsCompleted(student.ID, lesson.ID, course.ID))

	var user models.User
	db.First(&user, student.ID)
	assert.Equal(t, courseCompletionScore, user.Score)

	// Replaying the completion path leaves the score untouched.
	assert.NoError(t, ps.MarkLessonAsCompleted(student.ID, lesson.ID, course.ID))
	rollup := ps.GetUserProgress(student.ID, course.ID)
	assert.NoError(t, ps.checkCourseCompletion(rollup))

	db.First(&user, student.ID)
	assert.Equal(t, courseCompletionScore, user.Score)
}

func TestUpdateUserStatsTracksInProgressCourses(t *testing.T) {
	db := newTestDB(t)
	ps := NewProgressService(db)

	teacher := createTestUser(t, db, "Teacher", "teacher@example.com", "teacher")
	student := createTestUser(t, db, "Student", "student@example.com", "student")
	course := createTestCourse(t, db, teacher, "Go Basics", true)
	createTestLesson(t, db, course.ID, "Intro", 1, 10)
	lesson2 := createTestLesson(t, db, course.ID, "Types", 2, 20)

	assert.NoError(t, ps.MarkLessonAsWatched(student.ID, course.ID, lesson2.ID))

	var user models.User
	db.First(&user, student.ID)
	assert.True(t, models.IDListContains(user.InProgressCourses, course.ID))
	assert.False(t, models.IDListContains(user.CompletedCourses, course.ID))
	assert.Equal(t, 20, user.StudyMinutes)
}

func TestSetSelfRating(t *testing.T) {
	db := newTestDB(t)
	ps := NewProgressService(db)

	teacher := createTestUser(t, db, "Teacher", "teacher@example.com", "teacher")
	student := createTestUser(t, db, "Student", "student@example.com", "student")
	course := createTestCourse(t, db, teacher, "Go Basics", true)
	lesson := createTestLesson(t, db, course.ID, "Intro", 1, 10)

	assert.ErrorIs(t, ps.SetSelfRating(student.ID, course.ID, 6, ""), ErrInvalidRating)
	assert.ErrorIs(t, ps.SetSelfRating(student.ID, course.ID, 4, ""), ErrCourseNotFound)

	assert.NoError(t, ps.MarkLessonAsWatched(student.ID, course.ID, lesson.ID))
	assert.NoError(t, ps.SetSelfRating(student.ID, course.ID, 4, "solid intro"))

	rollup := ps.GetUserProgress(student.ID, course.ID)
	assert.Equal(t, 4, rollup.SelfRating)
	assert.Equal(t, "solid intro", rollup.SelfComment)
}
