package models

import "gorm.io/gorm"

type Notification struct {
	gorm.Model
	UserID   uint
	Title    string
	Message  string
	Severity string `gorm:"default:info"` // info, success, warning, error
	Read     bool
	Link     string
}
