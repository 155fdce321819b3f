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

type EngagementController struct {
	DB          *gorm.DB
	Cfg         *config.Config
	Engagement  *services.EngagementService
	Enrollments *services.EnrollmentService
	Catalog     *services.CatalogService
}

func NewEngagementController(db *gorm.DB, cfg *config.Config) *EngagementController {
	return &EngagementController{
		DB:          db,
		Cfg:         cfg,
		Engagement:  services.NewEngagementService(db),
		Enrollments: services.NewEnrollmentService(db),
		Catalog:     services.NewCatalogService(db),
	}
}

// CreateComment posts a comment on a lesson. Commenting requires an approved
// enrollment in the lesson's course; the course teacher can always comment.
func (gc *EngagementController) CreateComment(c *fiber.Ctx) error {
	user, err := gc.currentUser(c)
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
	if err := gc.DB.First(&lesson, lessonID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Lesson not found",
		})
	}
	if !gc.canEngage(user, lesson.CourseID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You are not enrolled in this course",
		})
	}

	var input struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	input.Text = strings.TrimSpace(input.Text)
	if input.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Comment text is required",
		})
	}

	comment, err := gc.Engagement.CreateLessonComment(lesson.ID, user.ID, user.Name, input.Text, user.AvatarURL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create comment",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (gc *EngagementController) GetComments(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, gc.Cfg)
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
	return c.JSON(gc.Engagement.GetCommentsByLesson(uint(lessonID), userID))
}

func (gc *EngagementController) ReplyToComment(c *fiber.Ctx) error {
	user, err := gc.currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	commentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid comment ID",
		})
	}

	var input struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cannot parse JSON",
		})
	}
	input.Text = strings.TrimSpace(input.Text)
	if input.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Reply text is required",
		})
	}

	reply, err := gc.Engagement.ReplyToComment(uint(commentID), user.ID, user.Name, input.Text, user.AvatarURL)
	if err != nil {
		if errors.Is(err, services.ErrCommentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Comment not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create reply",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(reply)
}

func (gc *EngagementController) ToggleCommentLike(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, gc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	commentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid comment ID",
		})
	}

	if err := gc.Engagement.ToggleCommentLike(uint(commentID), userID); err != nil {
		if errors.Is(err, services.ErrCommentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Comment not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not toggle like",
		})
	}
	return c.JSON(fiber.Map{"message": "Like toggled"})
}

func (gc *EngagementController) ToggleReplyLike(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, gc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	commentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid comment ID",
		})
	}
	replyID, err := strconv.Atoi(c.Params("replyId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid reply ID",
		})
	}

	if err := gc.Engagement.ToggleReplyLike(uint(commentID), uint(replyID), userID); err != nil {
		if errors.Is(err, services.ErrReplyNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Reply not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not toggle like",
		})
	}
	return c.JSON(fiber.Map{"message": "Like toggled"})
}

// RateCourse upserts the caller's public rating on a course and refreshes
// the course's cached rating aggregates.
func (gc *EngagementController) RateCourse(c *fiber.Ctx) error {
	user, err := gc.currentUser(c)
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

	course := gc.Catalog.GetCourseByID(uint(courseID))
	if course == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}
	if !gc.Enrollments.IsUserEnrolledInCourse(user.ID, course.ID) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You are not enrolled in this course",
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

	rating, err := gc.Engagement.CreateCourseRating(course.ID, user.ID, user.Name, input.Rating, input.Comment, user.AvatarURL)
	if err != nil {
		if errors.Is(err, services.ErrInvalidRating) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Rating must be between 1 and 5",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save rating",
		})
	}

	gc.Catalog.UpdateCourseStats(course.ID)

	return c.JSON(rating)
}

func (gc *EngagementController) GetRatings(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, gc.Cfg)
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

	average, count := gc.Engagement.GetCourseAverageRating(uint(courseID))
	return c.JSON(fiber.Map{
		"average": average,
		"count":   count,
		"ratings": gc.Engagement.GetRatingsByCourse(uint(courseID), userID),
	})
}

func (gc *EngagementController) ToggleRatingLike(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, gc.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	ratingID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid rating ID",
		})
	}

	if err := gc.Engagement.ToggleRatingLike(uint(ratingID), userID); err != nil {
		if errors.Is(err, services.ErrRatingNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Rating not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not toggle like",
		})
	}
	return c.JSON(fiber.Map{"message": "Like toggled"})
}

func (gc *EngagementController) currentUser(c *fiber.Ctx) (*models.User, error) {
	userID, err := utils.ExtractUserIDFromToken(c, gc.Cfg)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := gc.DB.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (gc *EngagementController) canEngage(user *models.User, courseID uint) bool {
	if gc.Enrollments.IsUserEnrolledInCourse(user.ID, courseID) {
		return true
	}
	course := gc.Catalog.GetCourseByID(courseID)
	if course != nil && course.TeacherID == user.ID {
		return true
	}
	return user.Role == "admin"
}
