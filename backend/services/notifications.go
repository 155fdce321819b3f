package services

import (
	"eadsystem/backend/models"

	"gorm.io/gorm"
)

type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

func (ns *NotificationService) Create(userID uint, title, message, severity, link string) error {
	if severity == "" {
		severity = "info"
	}
	notification := models.Notification{
		UserID:   userID,
		Title:    title,
		Message:  message,
		Severity: severity,
		Link:     link,
	}
	return ns.DB.Create(&notification).Error
}

// GetByUser returns the user's notifications, newest first.
func (ns *NotificationService) GetByUser(userID uint) []models.Notification {
	var notifications []models.Notification
	ns.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&notifications)
	return notifications
}

func (ns *NotificationService) MarkAsRead(notificationID uint) error {
	var notification models.Notification
	if err := ns.DB.First(&notification, notificationID).Error; err != nil {
		return err
	}
	notification.Read = true
	return ns.DB.Save(&notification).Error
}

func (ns *NotificationService) UnreadCount(userID uint) int64 {
	var count int64
	ns.DB.Model(&models.Notification{}).Where("user_id = ? AND read = ?", userID, false).Count(&count)
	return count
}
