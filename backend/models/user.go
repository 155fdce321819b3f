package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name         string `gorm:"not null"`
	Email        string `gorm:"unique;not null"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"default:student"` // student, teacher, admin
	Nickname     string
	AvatarURL    string
	Bio          string
	Phone        string
	Address      string
	BirthDate    string
	Active       bool `gorm:"default:true"`
	LastLoginAt  *time.Time

	// Cached aggregates, written only by the progress engine.
	CompletedCourses  string // comma-separated course IDs
	InProgressCourses string // comma-separated course IDs
	StudyMinutes      int    `gorm:"default:0"`
	Score             int    `gorm:"default:0"`
}
