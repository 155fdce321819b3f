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

type EnrollmentController struct {
	DB          *gorm.DB
	Cfg         *config.Config
	Enrollments *services.EnrollmentService
	Catalog     *services.CatalogService
}

func NewEnrollmentController(db *gorm.DB, cfg *config.Config) *EnrollmentController {
	return &EnrollmentController{
		DB:          db,
		Cfg:         cfg,
		Enrollments: services.NewEnrollmentService(db),
		Catalog:     services.NewCatalogService(db),
	}
}

// RequestEnrollment enrolls the caller in a course. Public courses are
// auto-approved on the spot; private courses create a pending request for
// the owner to review.
func (ec *EnrollmentController) RequestEnrollment(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ec.Cfg)
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

	course := ec.Catalog.GetCourseByID(uint(courseID))
	if course == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}

	var user models.User
	if err := ec.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}

	var input struct {
		Notes string `json:"notes"`
	}
	c.BodyParser(&input)

	var enrollment *models.CourseEnrollment
	if course.Public {
		enrollment, err = ec.Enrollments.AutoApproveEnrollment(course.ID, user.ID, user.Name, user.Email)
	} else {
		enrollment, err = ec.Enrollments.RequestEnrollment(course.ID, user.ID, user.Name, user.Email, input.Notes)
	}
	if err != nil {
		if errors.Is(err, services.ErrDuplicateEnrollment) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not create enrollment",
		})
	}

	if enrollment.Status == models.EnrollmentApproved {
		ec.Catalog.UpdateCourseStats(course.ID)
	}

	return c.JSON(fiber.Map{
		"message":    "Enrollment " + enrollment.Status,
		"enrollment": enrollment,
	})
}

func (ec *EnrollmentController) ApproveEnrollment(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ec.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	enrollmentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid enrollment ID",
		})
	}

	if !ec.canReview(userID, uint(enrollmentID)) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only the course owner or an admin can review enrollments",
		})
	}

	if err := ec.Enrollments.Approve(uint(enrollmentID), userID); err != nil {
		if errors.Is(err, services.ErrEnrollmentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Enrollment not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not approve enrollment",
		})
	}

	var enrollment models.CourseEnrollment
	if err := ec.DB.First(&enrollment, enrollmentID).Error; err == nil {
		ec.Catalog.UpdateCourseStats(enrollment.CourseID)
	}

	return c.JSON(fiber.Map{
		"message": "Enrollment approved",
	})
}

func (ec *EnrollmentController) RejectEnrollment(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ec.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	enrollmentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid enrollment ID",
		})
	}

	if !ec.canReview(userID, uint(enrollmentID)) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only the course owner or an admin can review enrollments",
		})
	}

	var input struct {
		Reason string `json:"reason"`
	}
	c.BodyParser(&input)

	if err := ec.Enrollments.Reject(uint(enrollmentID), userID, input.Reason); err != nil {
		if errors.Is(err, services.ErrEnrollmentNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Enrollment not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not reject enrollment",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Enrollment rejected",
	})
}

func (ec *EnrollmentController) GetPendingByCourse(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ec.Cfg)
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

	course := ec.Catalog.GetCourseByID(uint(courseID))
	if course == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Course not found",
		})
	}
	if !ec.isOwnerOrAdmin(userID, course) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only the course owner or an admin can review enrollments",
		})
	}

	return c.JSON(ec.Enrollments.GetPendingEnrollmentsByCourse(course.ID))
}

func (ec *EnrollmentController) GetMyEnrollments(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, ec.Cfg)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}
	return c.JSON(ec.Enrollments.GetUserEnrollments(userID))
}

func (ec *EnrollmentController) isOwnerOrAdmin(userID uint, course *models.Course) bool {
	if course.TeacherID == userID {
		return true
	}
	var user models.User
	if err := ec.DB.First(&user, userID).Error; err != nil {
		return false
	}
	return user.Role == "admin"
}

func (ec *EnrollmentController) canReview(userID, enrollmentID uint) bool {
	var enrollment models.CourseEnrollment
	if err := ec.DB.First(&enrollment, enrollmentID).Error; err != nil {
		// Let the engine surface not-found.
		return true
	}
	course := ec.Catalog.GetCourseByID(enrollment.CourseID)
	if course == nil {
		return false
	}
	return ec.isOwnerOrAdmin(userID, course)
}
