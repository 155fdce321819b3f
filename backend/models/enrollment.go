package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	EnrollmentPending  = "pending"
	EnrollmentApproved = "approved"
	EnrollmentRejected = "rejected"
)

// CourseEnrollment grants a user access to a course once approved.
// At most one record exists per (user, course) pair, in any status.
type CourseEnrollment struct {
	gorm.Model
	CourseID    uint `gorm:"uniqueIndex:idx_enrollment_user_course"`
	UserID      uint `gorm:"uniqueIndex:idx_enrollment_user_course"`
	UserName    string
	UserEmail   string
	Status      string `gorm:"default:pending"`
	RequestedAt time.Time
	ApprovedAt  *time.Time
	ApprovedBy  string // approver user ID, or "system" for public courses
	Notes       string
}
