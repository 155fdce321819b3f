package services

import (
	"errors"
	"strings"
	"time"

	"eadsystem/backend/models"

	"gorm.io/gorm"
)

type ChatService struct {
	DB *gorm.DB
}

func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{DB: db}
}

func (cs *ChatService) GetChatByCourse(courseID uint) *models.CourseChat {
	var chat models.CourseChat
	if err := cs.DB.Where("course_id = ?", courseID).First(&chat).Error; err != nil {
		return nil
	}
	return &chat
}

// CreateCourseChat is idempotent: if the course already has a chat it is
// returned unchanged. A new chat starts with the course's approved
// enrollments as members.
func (cs *ChatService) CreateCourseChat(courseID uint, courseName string) (*models.CourseChat, error) {
	if existing := cs.GetChatByCourse(courseID); existing != nil {
		return existing, nil
	}

	var enrollments []models.CourseEnrollment
	cs.DB.Where("course_id = ? AND status = ?", courseID, models.EnrollmentApproved).Find(&enrollments)

	memberIDs := make([]uint, 0, len(enrollments))
	for _, e := range enrollments {
		memberIDs = append(memberIDs, e.UserID)
	}

	chat := models.CourseChat{
		CourseID:     courseID,
		CourseName:   courseName,
		Participants: models.JoinIDList(memberIDs),
		Active:       true,
	}
	if err := cs.DB.Create(&chat).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

func (cs *ChatService) AddParticipant(courseID, userID uint) error {
	chat := cs.GetChatByCourse(courseID)
	if chat == nil {
		return ErrChatNotFound
	}
	if models.IDListContains(chat.Participants, userID) {
		return nil
	}
	chat.Participants = models.AppendID(chat.Participants, userID)
	return cs.DB.Save(chat).Error
}

func (cs *ChatService) RemoveParticipant(courseID, userID uint) error {
	chat := cs.GetChatByCourse(courseID)
	if chat == nil {
		return ErrChatNotFound
	}
	chat.Participants = models.RemoveID(chat.Participants, userID)
	return cs.DB.Save(chat).Error
}

// CanUserAccessChat reports whether a chat exists for the course and the
// user is one of its members. Callers must check this before rendering or
// sending.
func (cs *ChatService) CanUserAccessChat(userID, courseID uint) bool {
	chat := cs.GetChatByCourse(courseID)
	if chat == nil {
		return false
	}
	return models.IDListContains(chat.Participants, userID)
}

func (cs *ChatService) SendMessage(chatID, userID uint, userName, userRole, text, avatar string) (*models.ChatMessage, error) {
	var chat models.CourseChat
	if err := cs.DB.First(&chat, chatID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}

	message := models.ChatMessage{
		ChatID:     chatID,
		UserID:     userID,
		UserName:   userName,
		UserAvatar: avatar,
		UserRole:   userRole,
		Text:       strings.TrimSpace(text),
		Kind:       "text",
	}
	if err := cs.DB.Create(&message).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// EditMessage mutates the message in place; no edit history is kept.
func (cs *ChatService) EditMessage(messageID uint, newText string) error {
	var message models.ChatMessage
	if err := cs.DB.First(&message, messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMessageNotFound
		}
		return err
	}
	now := time.Now()
	message.Text = strings.TrimSpace(newText)
	message.Edited = true
	message.EditedAt = &now
	return cs.DB.Save(&message).Error
}

func (cs *ChatService) DeleteMessage(messageID uint) error {
	result := cs.DB.Unscoped().Delete(&models.ChatMessage{}, messageID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func (cs *ChatService) GetMessage(messageID uint) *models.ChatMessage {
	var message models.ChatMessage
	if err := cs.DB.First(&message, messageID).Error; err != nil {
		return nil
	}
	return &message
}

// GetMessages returns the chat history, oldest first.
func (cs *ChatService) GetMessages(chatID uint) []models.ChatMessage {
	var messages []models.ChatMessage
	cs.DB.Where("chat_id = ?", chatID).Order("created_at ASC").Find(&messages)
	return messages
}
