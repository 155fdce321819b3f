package services

import (
	"testing"

	"eadsystem/backend/models"

	"github.com/stretchr/testify/assert"
)

func TestCreateCourseDefaults(t *testing.T) {
	db := newTestDB(t)
	cs := NewCatalogService(db)

	teacher := createTestUser(t, db, "Teacher", "teacher@example.com", "teacher")
	course := models.Course{
		Title:       "Go Basics",
		TeacherID:   teacher.ID,
		TeacherName: teacher.Name,
	}
	assert.NoError(t, cs.CreateCourse(&course))
	assert.Equal(t, "General", course.Category)
	assert.Equal(t, "beginner", course.Level)
	assert.True(t, course.Active)
}

func TestLessonSequenceOrder(t *testing.T) {
	db := newTestDB(t)
	cs := NewCatalogService(db)

	teacher := createTestUser(t, db, "Teacher", "teacher@example.com", "teacher")
	course := createTestCourse(t, db, teacher, "Go Basics", true)

	first, err := cs.CreateLesson(course.ID, &models.Lesson{Title: "Intro"})
	assert.NoError(t, err)
	second, err := cs.CreateLesson(course.ID, &models.Lesson{Title: "Types"})
	assert.NoError(t, err)
	third, err := cs.CreateLesson(course.ID, &models.Lesson{Title: "Slices"})
	assert.NoError(t, err)

	assert.Equal(t, 1, first.SequenceOrder)
	assert.Equal(t, 2, second.SequenceOrder)
	assert.Equal(t, 3, third.SequenceOrder)

	// Default duration kicks in when none is given.
	assert.Equal(t, defaultLessonMinutes, first.DurationMinutes)

	_, err = cs.CreateLesson(999, &models.Lesson{Title: "Orphan"})
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestDeleteLessonKeepsSparseRank(t *testing.T) {
	db := newTestDB(t)
	cs := NewCatalogService(db)

	teacher := createTestUser(t, db, "Teacher", "teacher@example.com", "teacher")
	course := createTestCourse(t, db, teacher, "Go Basics", true)

	_, err := cs.CreateLesson(course.ID, &models.Lesson{Title: "Intro"})
	assert.NoError(t, err)
	second, err := cs.CreateLesson(course.ID, &models.Lesson{Title: "Types"})
	assert.NoError(t, err)
	_, err = cs.CreateLesson(course.ID, &models.Lesson{Title: "Slices"})
	assert.NoError(t, err)

	assert.NoError(t, cs.DeleteLesson(second.ID))

	// Survivors keep their original order values; the gap is expected.
	lessons := cs.GetLessonsByCourse(course.ID)
	assert.Len(t, lessons, 2)
	assert.Equal(t, 1, lessons[0].SequenceOrder)
	assert.Equal(t, 3, lessons[1].SequenceOrder)

	assert.ErrorIs(t, cs.DeleteLesson(second.ID), ErrLessonNotFound)
}

func TestUpdateCourseStats(t *testing.T) {
	db := newTestDB(t)
	cs := NewCatalogService(db)
	es := NewEnrollmentService(db)
	gs := NewEngagementService(db)

	teacher := createTestUser(t, db, "Teacher", "teacher@example.com", "teacher")
	course := createTestCourse(t, db, teacher, "Go Basics", true)

	_, err := cs.CreateLesson(course.ID, &models.Lesson{Title: "Intro", DurationMinutes: 10})
	assert.NoError(t, err)
	_, err = cs.CreateLesson(course.ID, &models.Lesson{Title: "Types", DurationMinutes: 20})
	assert.NoError(t, err)

	approved := createTestUser(t, db, "Approved", "approved@example.com", "student")
	pending := createTestUser(t, db, "Pending", "pending@example.com", "student")
	_, err = es.AutoApproveEnrollment(course.ID, approved.ID, approved.Name, approved.Email)
	assert.NoError(t, err)
	_, err = es.RequestEnrollment(course.ID, pending.ID, pending.Name, pending.Email, "")
	assert.NoError(t, err)

	_, err = gs.CreateCourseRating(course.ID, approved.ID, approved.Name, 4, "", "")
	assert.NoError(t, err)

	assert.NoError(t, cs.UpdateCourseStats(course.ID))

	updated := cs.GetCourseByID(course.ID)
	// Only approved enrollments count as students.
	assert.Equal(t, 1, updated.StudentCount)
	assert.Equal(t, 30, updated.EstimatedDuration)
	assert.Equal(t, 4.0, updated.AverageRating)
	assert.Equal(t, 1, updated.RatingCount)
}

func TestDeleteCourseCascades(t *testing.T) {
	db := newTestDB(t)
	cs := NewCatalogService(db)
	es := NewEnrollmentService(db)
	gs := NewEngagementService(db)
	ps := NewProgressService(db)
	chats := NewChatService(db)

	teacher := createTestUser(t, db, "Teacher", "teacher@example.com", "teacher")
	student := createTestUser(t, db, "Student", "student@example.com", "student")
	course := createTestCourse(t, db, teacher, "Go Basics", true)

	lesson, err := cs.CreateLesson(course.ID, &models.Lesson{Title: "Intro", DurationMinutes: 10})
	assert.NoError(t, err)
	assert.NoError(t, cs.AddMaterial(lesson.ID, &models.Material{Name: "Slides", Kind: "link", URL: "https://example.com"}))

	_, err = es.AutoApproveEnrollment(course.ID, student.ID, student.Name, student.Email)
	assert.NoError(t, err)

	comment, err := gs.CreateLessonComment(lesson.ID, student.ID, student.Name, "great", "")
	assert.NoError(t, err)
	_, err = gs.ReplyToComment(comment.ID, teacher.ID, teacher.Name, "thanks", "")
	assert.NoError(t, err)
	_, err = gs.CreateCourseRating(course.ID, student.ID, student.Name, 5, "", "")
	assert.NoError(t, err)

	_, err = ps.UpdateLessonProgress(student.ID, lesson.ID, course.ID, 600, 600)
	assert.NoError(t, err)

	chat := chats.GetChatByCourse(course.ID)
	assert.NotNil(t, chat)
	_, err = chats.SendMessage(chat.ID, student.ID, student.Name, "student", "hello", "")
	assert.NoError(t, err)

	assert.NoError(t, cs.DeleteCourse(course.ID))

	assert.Nil(t, cs.GetCourseByID(course.ID))
	assert.Empty(t, cs.GetLessonsByCourse(course.ID))
	assert.Nil(t, chats.GetChatByCourse(course.ID))
	assert.Nil(t, es.GetUserCourseEnrollment(student.ID, course.ID))
	assert.Nil(t, ps.GetUserProgress(student.ID, course.ID))
	assert.Nil(t, ps.GetUserLessonProgress(student.ID, lesson.ID))
	assert.Empty(t, gs.GetCommentsByLesson(lesson.ID, student.ID))
	assert.Empty(t, gs.GetRatingsByCourse(course.ID, student.ID))
	assert.Empty(t, chats.GetMessages(chat.ID))

	assert.ErrorIs(t, cs.DeleteCourse(course.ID), ErrCourseNotFound)
}
