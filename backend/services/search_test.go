package services

import (
	"testing"

	"eadsystem/backend/models"

	"github.com/stretchr/testify/assert"
)

func TestSearchRanksTitleAboveDescription(t *testing.T) {
	db := newTestDB(t)
	ss := NewSearchService(db)

	teacher := createTestUser(t, db, "Teacher", "teacher@example.com", "teacher")

	titleHit := createTestCourse(t, db, teacher, "Docker Deep Dive", true)
	descHit := models.Course{
		Title:       "Container Basics",
		Description: "An introduction to docker and friends",
		TeacherID:   teacher.ID,
		TeacherName: teacher.Name,
		Active:      true,
	}
	assert.NoError(t, db.Create(&descHit).Error)

	results := ss.Search("docker", nil)
	assert.Len(t, results, 2)
	assert.Equal(t, titleHit.ID, results[0].ID)
	assert.Greater(t, results[0].Relevance, results[1].Relevance)
}

func TestSearchIncludesLessons(t *testing.T) {
	db := newTestDB(t)
	ss := NewSearchService(db)

	teacher := createTestUser(t, db, "Teacher", "teacher@example.com", "teacher")
	course := createTestCourse(t, db, teacher, "Go Programming", true)
	lesson := createTestLesson(t, db, course.ID, "Goroutines and channels", 1, 10)

	results := ss.Search("goroutines", nil)
	assert.Len(t, results, 1)
	assert.Equal(t, "lesson", results[0].Type)
	assert.Equal(t, lesson.ID, results[0].ID)
	assert.Equal(t, course.ID, results[0].CourseID)
}

func TestSearchFilters(t *testing.T) {
	db := newTestDB(t)
	ss := NewSearchService(db)

	teacher := createTestUser(t, db, "Grace Hopper", "grace@example.com", "teacher")

	public := createTestCourse(t, db, teacher, "Go Programming", true)
	public.Category = "Programming"
	public.AverageRating = 4.5
	assert.NoError(t, db.Save(public).Error)

	private := createTestCourse(t, db, teacher, "Go Internals", false)
	private.Category = "Programming"
	private.AverageRating = 3.0
	assert.NoError(t, db.Save(private).Error)

	results := ss.Search("go", &SearchFilters{Visibility: "public"})
	assert.Len(t, results, 1)
	assert.Equal(t, public.ID, results[0].ID)

	results = ss.Search("go", &SearchFilters{MinRating: 4.0})
	assert.Len(t, results, 1)
	assert.Equal(t, public.ID, results[0].ID)

	results = ss.Search("go", &SearchFilters{Teacher: "hopper"})
	assert.Len(t, results, 2)

	results = ss.Search("go", &SearchFilters{Category: "Cooking"})
	assert.Empty(t, results)
}

func TestFilterOnlySearch(t *testing.T) {
	db := newTestDB(t)
	ss := NewSearchService(db)

	teacher := createTestUser(t, db, "Teacher", "teacher@example.com", "teacher")
	course := createTestCourse(t, db, teacher, "Go Programming", true)
	course.Category = "Programming"
	assert.NoError(t, db.Save(course).Error)

	// No term at all returns nothing.
	assert.Empty(t, ss.Search("", nil))

	// A bare filter still lists matching courses, without lesson hits.
	results := ss.Search("", &SearchFilters{Category: "Programming"})
	assert.Len(t, results, 1)
	assert.Equal(t, "course", results[0].Type)
	assert.Equal(t, 1, results[0].Relevance)
}
