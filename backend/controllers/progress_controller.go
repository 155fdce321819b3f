package controllers

import (
	"errors"
	"strconv"

	"eadsystem/backend/config"
	"eadsystem/backend/models"
	"eadsystem/backend/services"
	"eadsystem/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProgressController struct {
	DB          *gorm.DB
	Cfg         *config.Config
	Progress    *services.ProgressService
	Enrollments *services.EnrollmentService
}

func NewProgressController(db *gorm.DB, cfg *config.Config) *ProgressController {
	return &ProgressController{
		DB:          db,
		Cfg:         cfg,
		Progress:    services.NewProgressService(db),
		Enrollments: services.NewEnrollmentService(db),
	}
}

// UpdateLessonProgress godoc
// @Summary Report video watch time
// @Description Records watched seconds for a lesson; crossing 90% completes it
// @Tags progress
// @Accept json
// @Produce json
// @Success 200 {object} models.LessonProgress
// @Failure 403 {object} map[string]interface{}
// @Security ApiKeyAuth
// @Router /lessons/{id}/progress [post]
func (pc *ProgressController) UpdateLessonProgress(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	lessonID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lesson ID",
		})
	}

	var lesson models.Lesson
	if err := pc.DB.First(&lesson, lessonID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lesson not found",
		})
	}

	if !pc.Enrollments.IsUserEnrolledInCourse(userID, lesson.CourseID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You are not enrolled in this course",
		})
	}

	var input struct {
		WatchedSeconds float64 `json:"watched_seconds"`
		TotalSeconds   float64 `json:"total_seconds"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	if input.WatchedSeconds < 0 || input.TotalSeconds < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Watched and total seconds must not be negative",
		})
	}

	progress, err := pc.Progress.UpdateLessonProgress(userID, lesson.ID, lesson.CourseID, input.WatchedSeconds, input.TotalSeconds)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update progress",
		})
	}

	return c.JSON(progress)
}

// CompleteLesson marks a lesson done without watch time, for lessons that
// have no video.
func (pc *ProgressController) CompleteLesson(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	lessonID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lesson ID",
		})
	}

	var lesson models.Lesson
	if err := pc.DB.First(&lesson, lessonID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lesson not found",
		})
	}

	if !pc.Enrollments.IsUserEnrolledInCourse(userID, lesson.CourseID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You are not enrolled in this course",
		})
	}

	if err := pc.Progress.MarkLessonAsCompleted(userID, lesson.ID, lesson.CourseID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not complete lesson",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Lesson completed",
	})
}

// GetCourseProgress returns the caller's rollup for a course, including the
// per-lesson records.
func (pc *ProgressController) GetCourseProgress(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	progress := pc.Progress.GetUserProgress(userID, uint(courseID))

	var lessonProgress []models.LessonProgress
	pc.DB.Where("user_id = ? AND course_id = ?", userID, courseID).Find(&lessonProgress)

	return c.JSON(fiber.Map{
		"course_progress": progress,
		"lesson_progress": lessonProgress,
	})
}

// RateCourse stores the learner's self-rating on their own rollup. This is
// separate from the public course ratings.
func (pc *ProgressController) RateCourse(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, pc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid course ID",
		})
	}

	var input struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if err := pc.Progress.SetSelfRating(userID, uint(courseID), input.Rating, input.Comment); err != nil {
		if errors.Is(err, services.ErrInvalidRating) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Rating must be between 1 and 5",
			})
		}
		if errors.Is(err, services.ErrCourseNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No progress found for this course",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save rating",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Rating saved",
	})
}
