package models

import (
	"time"

	"gorm.io/gorm"
)

// CourseChat is the per-course channel. Membership is kept in sync with
// approved enrollments by the enrollment engine.
type CourseChat struct {
	gorm.Model
	CourseID     uint `gorm:"uniqueIndex"`
	CourseName   string
	Participants string // comma-separated user IDs
	Active       bool   `gorm:"default:true"`
}

type ChatMessage struct {
	gorm.Model
	ChatID     uint
	UserID     uint
	UserName   string
	UserAvatar string
	UserRole   string
	Text       string
	Kind       string `gorm:"default:text"` // text, file, image
	FileID     string
	Edited     bool
	EditedAt   *time.Time
}
