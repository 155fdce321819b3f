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

type ChatController struct {
	DB          *gorm.DB
	Cfg         *config.Config
	Chats       *services.ChatService
	Enrollments *services.EnrollmentService
	Catalog     *services.CatalogService
}

func NewChatController(db *gorm.DB, cfg *config.Config) *ChatController {
	return &ChatController{
		DB:          db,
		Cfg:         cfg,
		Chats:       services.NewChatService(db),
		Enrollments: services.NewEnrollmentService(db),
		Catalog:     services.NewCatalogService(db),
	}
}

// GetCourseChat returns the course chat and its history. The chat is created
// lazily on first access; only members (approved students, the teacher, an
// admin) may read it.
func (cc *ChatController) GetCourseChat(c *fiber.Ctx) error {
	user, err := cc.currentUser(c)
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

	chat, err := cc.Chats.CreateCourseChat(course.ID, course.Title)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not open chat",
		})
	}

	if !cc.canAccess(user, course) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You do not have access to this chat",
		})
	}

	return c.JSON(fiber.Map{
		"chat":     chat,
		"messages": cc.Chats.GetMessages(chat.ID),
	})
}

func (cc *ChatController) SendMessage(c *fiber.Ctx) error {
	user, err := cc.currentUser(c)
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

	chat, err := cc.Chats.CreateCourseChat(course.ID, course.Title)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not open chat",
		})
	}

	if !cc.canAccess(user, course) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You do not have access to this chat",
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
	if strings.TrimSpace(input.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message text is required",
		})
	}

	message, err := cc.Chats.SendMessage(chat.ID, user.ID, user.Name, user.Role, input.Text, user.AvatarURL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not send message",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}

// EditMessage lets the author amend their own message. Admins cannot edit
// other people's words, only delete them.
func (cc *ChatController) EditMessage(c *fiber.Ctx) error {
	user, err := cc.currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	messageID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid message ID",
		})
	}

	message := cc.Chats.GetMessage(uint(messageID))
	if message == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Message not found",
		})
	}
	if message.UserID != user.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You can only edit your own messages",
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
	if strings.TrimSpace(input.Text) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message text is required",
		})
	}

	if err := cc.Chats.EditMessage(message.ID, input.Text); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not edit message",
		})
	}
	return c.JSON(fiber.Map{"message": "Message updated"})
}

// DeleteMessage removes a message permanently. Allowed for the author and
// for admins.
func (cc *ChatController) DeleteMessage(c *fiber.Ctx) error {
	user, err := cc.currentUser(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	messageID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid message ID",
		})
	}

	message := cc.Chats.GetMessage(uint(messageID))
	if message == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Message not found",
		})
	}
	if message.UserID != user.ID && user.Role != "admin" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You can only delete your own messages",
		})
	}

	if err := cc.Chats.DeleteMessage(message.ID); err != nil {
		if errors.Is(err, services.ErrMessageNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Message not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete message",
		})
	}
	return c.JSON(fiber.Map{"message": "Message deleted"})
}

func (cc *ChatController) currentUser(c *fiber.Ctx) (*models.User, error) {
	userID, err := utils.ExtractUserIDFromToken(c, cc.Cfg)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := cc.DB.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (cc *ChatController) canAccess(user *models.User, course *models.Course) bool {
	if user.Role == "admin" || course.TeacherID == user.ID {
		return true
	}
	return cc.Chats.CanUserAccessChat(user.ID, course.ID)
}
