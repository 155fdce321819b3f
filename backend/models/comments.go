package models

import "gorm.io/gorm"

type LessonComment struct {
	gorm.Model
	LessonID   uint
	UserID     uint
	UserName   string
	UserAvatar string
	Text       string
	Likes      int
	LikedBy    string // comma-separated user IDs
	Replies    []LessonCommentReply `gorm:"foreignKey:CommentID"`

	// Computed per viewer on read, never stored.
	LikedByViewer bool `gorm:"-"`
}

type LessonCommentReply struct {
	gorm.Model
	CommentID  uint
	UserID     uint
	UserName   string
	UserAvatar string
	Text       string
	Likes      int
	LikedBy    string

	LikedByViewer bool `gorm:"-"`
}

// CourseRating holds exactly one rating per (user, course); re-rating
// overwrites the record in place.
type CourseRating struct {
	gorm.Model
	CourseID   uint `gorm:"uniqueIndex:idx_rating_user_course"`
	UserID     uint `gorm:"uniqueIndex:idx_rating_user_course"`
	UserName   string
	UserAvatar string
	Rating     int `gorm:"check:rating>=1 AND rating<=5"`
	Comment    string
	Likes      int
	LikedBy    string

	LikedByViewer bool `gorm:"-"`
}
