package services

import (
	"errors"
	"math"

	"eadsystem/backend/models"

	"gorm.io/gorm"
)

// CatalogService owns courses, lessons and materials, including the cascade
// delete and the cached course aggregates.
type CatalogService struct {
	DB *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{DB: db}
}

func (cs *CatalogService) CreateCourse(course *models.Course) error {
	if course.Category == "" {
		course.Category = "General"
	}
	if course.Level == "" {
		course.Level = "beginner"
	}
	course.Active = true
	return cs.DB.Create(course).Error
}

func (cs *CatalogService) GetCourseByID(courseID uint) *models.Course {
	var course models.Course
	if err := cs.DB.First(&course, courseID).Error; err != nil {
		return nil
	}
	return &course
}

func (cs *CatalogService) GetActiveCourses() []models.Course {
	var courses []models.Course
	cs.DB.Where("active = ?", true).Find(&courses)
	return courses
}

func (cs *CatalogService) UpdateCourse(course *models.Course) error {
	return cs.DB.Save(course).Error
}

// DeleteCourse removes the course and everything referencing it: lessons and
// their materials and comments, both progress levels, enrollments, ratings,
// the chat and its messages. Orphaned records referencing a missing course
// are a correctness bug, so the cascade is not optional.
func (cs *CatalogService) DeleteCourse(courseID uint) error {
	var course models.Course
	if err := cs.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	var lessonIDs []uint
	cs.DB.Model(&models.Lesson{}).Where("course_id = ?", courseID).Pluck("id", &lessonIDs)

	if len(lessonIDs) > 0 {
		var commentIDs []uint
		cs.DB.Model(&models.LessonComment{}).Where("lesson_id IN ?", lessonIDs).Pluck("id", &commentIDs)
		if len(commentIDs) > 0 {
			cs.DB.Where("comment_id IN ?", commentIDs).Delete(&models.LessonCommentReply{})
		}
		cs.DB.Where("lesson_id IN ?", lessonIDs).Delete(&models.LessonComment{})
		cs.DB.Where("lesson_id IN ?", lessonIDs).Delete(&models.Material{})
	}

	cs.DB.Where("course_id = ?", courseID).Delete(&models.Lesson{})
	cs.DB.Where("course_id = ?", courseID).Delete(&models.LessonProgress{})
	cs.DB.Where("course_id = ?", courseID).Delete(&models.UserProgress{})
	cs.DB.Where("course_id = ?", courseID).Delete(&models.CourseEnrollment{})
	cs.DB.Where("course_id = ?", courseID).Delete(&models.CourseRating{})

	var chat models.CourseChat
	if err := cs.DB.Where("course_id = ?", courseID).First(&chat).Error; err == nil {
		cs.DB.Where("chat_id = ?", chat.ID).Delete(&models.ChatMessage{})
		cs.DB.Delete(&chat)
	}

	return cs.DB.Delete(&course).Error
}

// CreateLesson appends a lesson to the course. The sequence order is
// existing count + 1 and is never renumbered after deletions, so gaps are
// expected; reads sort by it as a sparse rank.
func (cs *CatalogService) CreateLesson(courseID uint, lesson *models.Lesson) (*models.Lesson, error) {
	var course models.Course
	if err := cs.DB.First(&course, courseID).Error; err != nil {
		return nil, ErrCourseNotFound
	}

	var count int64
	cs.DB.Model(&models.Lesson{}).Where("course_id = ?", courseID).Count(&count)

	lesson.CourseID = courseID
	lesson.SequenceOrder = int(count) + 1
	if lesson.DurationMinutes <= 0 {
		lesson.DurationMinutes = defaultLessonMinutes
	}
	lesson.Active = true

	if err := cs.DB.Create(lesson).Error; err != nil {
		return nil, err
	}
	if err := cs.UpdateCourseStats(courseID); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (cs *CatalogService) GetLessonByID(lessonID uint) *models.Lesson {
	var lesson models.Lesson
	if err := cs.DB.Preload("Materials").First(&lesson, lessonID).Error; err != nil {
		return nil
	}
	return &lesson
}

func (cs *CatalogService) GetLessonsByCourse(courseID uint) []models.Lesson {
	var lessons []models.Lesson
	cs.DB.Preload("Materials").
		Where("course_id = ? AND active = ?", courseID, true).
		Order("sequence_order ASC").
		Find(&lessons)
	return lessons
}

func (cs *CatalogService) UpdateLesson(lesson *models.Lesson) error {
	if err := cs.DB.Save(lesson).Error; err != nil {
		return err
	}
	return cs.UpdateCourseStats(lesson.CourseID)
}

func (cs *CatalogService) DeleteLesson(lessonID uint) error {
	var lesson models.Lesson
	if err := cs.DB.First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLessonNotFound
		}
		return err
	}
	cs.DB.Where("lesson_id = ?", lessonID).Delete(&models.Material{})
	if err := cs.DB.Delete(&lesson).Error; err != nil {
		return err
	}
	return cs.UpdateCourseStats(lesson.CourseID)
}

func (cs *CatalogService) AddMaterial(lessonID uint, material *models.Material) error {
	var lesson models.Lesson
	if err := cs.DB.First(&lesson, lessonID).Error; err != nil {
		return ErrLessonNotFound
	}
	material.LessonID = lessonID
	return cs.DB.Create(material).Error
}

// UpdateCourseStats fully recomputes the cached course aggregates. Student
// count comes from approved enrollments (the authoritative source; rollup
// records are derived data), duration from the sum of lesson durations and
// the rating figures from the ratings table.
func (cs *CatalogService) UpdateCourseStats(courseID uint) error {
	var course models.Course
	if err := cs.DB.First(&course, courseID).Error; err != nil {
		return nil
	}

	var studentCount int64
	cs.DB.Model(&models.CourseEnrollment{}).
		Where("course_id = ? AND status = ?", courseID, models.EnrollmentApproved).
		Count(&studentCount)
	course.StudentCount = int(studentCount)

	var lessons []models.Lesson
	cs.DB.Where("course_id = ? AND active = ?", courseID, true).Find(&lessons)
	total := 0
	for _, l := range lessons {
		if l.DurationMinutes > 0 {
			total += l.DurationMinutes
		} else {
			total += defaultLessonMinutes
		}
	}
	course.EstimatedDuration = total

	var ratings []models.CourseRating
	cs.DB.Where("course_id = ?", courseID).Find(&ratings)
	if len(ratings) > 0 {
		sum := 0
		for _, r := range ratings {
			sum += r.Rating
		}
		average := float64(sum) / float64(len(ratings))
		course.AverageRating = math.Round(average*10) / 10
		course.RatingCount = len(ratings)
	} else {
		course.AverageRating = 0
		course.RatingCount = 0
	}

	return cs.DB.Save(&course).Error
}
