package models

import (
	"time"

	"gorm.io/gorm"
)

// LessonProgress tracks how much of one lesson a user has watched.
// WatchedSeconds never decreases and Completed is never reset.
type LessonProgress struct {
	gorm.Model
	UserID         uint `gorm:"uniqueIndex:idx_lesson_progress_user_lesson"`
	LessonID       uint `gorm:"uniqueIndex:idx_lesson_progress_user_lesson"`
	CourseID       uint
	WatchedSeconds float64
	TotalSeconds   float64
	Percentage     float64
	Completed      bool
	StartedAt      time.Time
	CompletedAt    *time.Time
}

// UserProgress is the course-level rollup. CompletedAt doubles as the
// idempotence guard for the completion side effects.
type UserProgress struct {
	gorm.Model
	UserID              uint `gorm:"uniqueIndex:idx_user_progress_user_course"`
	CourseID            uint `gorm:"uniqueIndex:idx_user_progress_user_course"`
	WatchedLessons      string // comma-separated lesson IDs, set semantics
	Percentage          float64
	StudyMinutes        int
	LastWatchedLessonID uint
	StartedAt           time.Time
	CompletedAt         *time.Time
	SelfRating          int `gorm:"check:self_rating>=0 AND self_rating<=5"`
	SelfComment         string
}
