package controllers

import (
	"errors"
	"strconv"
	"strings"

	"eadsystem/backend/config"
	"eadsystem/backend/models"
	"eadsystem/backend/services"
	"eadsystem/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CoursesController struct {
	DB          *gorm.DB
	Cfg         *config.Config
	Catalog     *services.CatalogService
	Enrollments *services.EnrollmentService
	Progress    *services.ProgressService
	Engagement  *services.EngagementService
}

func NewCoursesController(db *gorm.DB, cfg *config.Config) *CoursesController {
	return &CoursesController{
		DB:          db,
		Cfg:         cfg,
		Catalog:     services.NewCatalogService(db),
		Enrollments: services.NewEnrollmentService(db),
		Progress:    services.NewProgressService(db),
		Engagement:  services.NewEngagementService(db),
	}
}

// canManageCourse is the owner-or-admin check used by every mutating
// course endpoint.
func (cc *CoursesController) canManageCourse(userID uint, course *models.Course) bool {
	if course.TeacherID == userID {
		return true
	}
	var user models.User
	if err := cc.DB.First(&user, userID).Error; err != nil {
		return false
	}
	return user.Role == "admin"
}

func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	var user models.User
	if err := cc.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}
	if user.Role != "teacher" && user.Role != "admin" {
		return utils.Forbidden(c, "Only teachers and admins can create courses")
	}

	var course models.Course
	if err := c.BodyParser(&course); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	course.TeacherID = userID
	course.TeacherName = user.Name
	if err := cc.Catalog.CreateCourse(&course); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create course",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Course created",
		"course":  course,
	})
}

func (cc *CoursesController) GetCourses(c *fiber.Ctx) error {
	courses := cc.Catalog.GetActiveCourses()
	return c.JSON(courses)
}

func (cc *CoursesController) GetCourseDetails(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
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

	course := cc.Catalog.GetCourseByID(uint(courseID))
	if course == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}

	lessons := cc.Catalog.GetLessonsByCourse(course.ID)
	progress := cc.Progress.GetUserProgress(userID, course.ID)
	enrollment := cc.Enrollments.GetUserCourseEnrollment(userID, course.ID)
	average, total := cc.Engagement.GetCourseAverageRating(course.ID)

	enrollmentStatus := ""
	if enrollment != nil {
		enrollmentStatus = enrollment.Status
	}

	return c.JSON(fiber.Map{
		"course":            course,
		"lessons":           lessons,
		"progress":          progress,
		"enrollment_status": enrollmentStatus,
		"enrolled":          cc.Enrollments.IsUserEnrolledInCourse(userID, course.ID),
		"rating":            fiber.Map{"average": average, "total": total},
	})
}

func (cc *CoursesController) UpdateCourse(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
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

	course := cc.Catalog.GetCourseByID(uint(courseID))
	if course == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}
	if !cc.canManageCourse(userID, course) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You don't have permission to edit this course",
		})
	}

	var input struct {
		Title        string   `json:"title"`
		Description  string   `json:"description"`
		ThumbnailURL string   `json:"thumbnail_url"`
		Category     string   `json:"category"`
		Level        string   `json:"level"`
		Tags         []string `json:"tags"`
		Public       *bool    `json:"public"`
		Active       *bool    `json:"active"`
		Price        *float64 `json:"price"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if input.Title != "" {
		course.Title = input.Title
	}
	if input.Description != "" {
		course.Description = input.Description
	}
	if input.ThumbnailURL != "" {
		course.ThumbnailURL = input.ThumbnailURL
	}
	if input.Category != "" {
		course.Category = input.Category
	}
	if input.Level != "" {
		course.Level = input.Level
	}
	if input.Tags != nil {
		course.Tags = joinTags(input.Tags)
	}
	if input.Public != nil {
		course.Public = *input.Public
	}
	if input.Active != nil {
		course.Active = *input.Active
	}
	if input.Price != nil {
		course.Price = *input.Price
	}

	if err := cc.Catalog.UpdateCourse(course); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update course",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Course updated",
		"course":  course,
	})
}

func (cc *CoursesController) DeleteCourse(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
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

	course := cc.Catalog.GetCourseByID(uint(courseID))
	if course == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}
	if !cc.canManageCourse(userID, course) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You don't have permission to delete this course",
		})
	}

	if err := cc.Catalog.DeleteCourse(course.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete course",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Course deleted",
	})
}

func (cc *CoursesController) AddLesson(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
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

	course := cc.Catalog.GetCourseByID(uint(courseID))
	if course == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}
	if !cc.canManageCourse(userID, course) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You don't have permission to add lessons to this course",
		})
	}

	var input struct {
		Title           string `json:"title"`
		Description     string `json:"description"`
		VideoFileID     string `json:"video_file_id"`
		DurationMinutes int    `json:"duration_minutes"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	lesson := models.Lesson{
		Title:           input.Title,
		Description:     input.Description,
		VideoFileID:     input.VideoFileID,
		DurationMinutes: input.DurationMinutes,
	}
	created, err := cc.Catalog.CreateLesson(course.ID, &lesson)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create lesson",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Lesson added",
		"lesson":  created,
	})
}

func (cc *CoursesController) UpdateLesson(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
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
	lessonID, err := strconv.Atoi(c.Params("lessonId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lesson ID",
		})
	}

	course := cc.Catalog.GetCourseByID(uint(courseID))
	if course == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}
	if !cc.canManageCourse(userID, course) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You don't have permission to edit lessons in this course",
		})
	}

	lesson := cc.Catalog.GetLessonByID(uint(lessonID))
	if lesson == nil || lesson.CourseID != course.ID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lesson not found",
		})
	}

	var input struct {
		Title           string `json:"title"`
		Description     string `json:"description"`
		VideoFileID     string `json:"video_file_id"`
		DurationMinutes int    `json:"duration_minutes"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	if input.Title != "" {
		lesson.Title = input.Title
	}
	if input.Description != "" {
		lesson.Description = input.Description
	}
	if input.VideoFileID != "" {
		lesson.VideoFileID = input.VideoFileID
	}
	if input.DurationMinutes > 0 {
		lesson.DurationMinutes = input.DurationMinutes
	}

	if err := cc.Catalog.UpdateLesson(lesson); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not update lesson",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Lesson updated",
		"lesson":  lesson,
	})
}

func (cc *CoursesController) DeleteLesson(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
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
	lessonID, err := strconv.Atoi(c.Params("lessonId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lesson ID",
		})
	}

	course := cc.Catalog.GetCourseByID(uint(courseID))
	if course == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}
	if !cc.canManageCourse(userID, course) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You don't have permission to delete lessons in this course",
		})
	}

	if err := cc.Catalog.DeleteLesson(uint(lessonID)); err != nil {
		if errors.Is(err, services.ErrLessonNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Lesson not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete lesson",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Lesson deleted",
	})
}

func (cc *CoursesController) AddMaterial(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
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
	lessonID, err := strconv.Atoi(c.Params("lessonId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid lesson ID",
		})
	}

	course := cc.Catalog.GetCourseByID(uint(courseID))
	if course == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}
	if !cc.canManageCourse(userID, course) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You don't have permission to add materials to this course",
		})
	}

	var input struct {
		Name   string `json:"name"`
		Kind   string `json:"kind"`
		URL    string `json:"url"`
		FileID string `json:"file_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}

	// Links carry a URL, every other kind carries a stored file ID.
	if input.Kind == "link" && input.URL == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Link materials require a URL",
		})
	}
	if input.Kind != "link" && input.FileID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "File materials require a file ID",
		})
	}

	material := models.Material{
		Name:   input.Name,
		Kind:   input.Kind,
		URL:    input.URL,
		FileID: input.FileID,
	}
	if err := cc.Catalog.AddMaterial(uint(lessonID), &material); err != nil {
		if errors.Is(err, services.ErrLessonNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Lesson not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not add material",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Material added",
		"material": material,
	})
}

func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}
