package services

import "errors"

var (
	ErrDuplicateEnrollment = errors.New("an enrollment request already exists for this course")
	ErrEnrollmentNotFound  = errors.New("enrollment not found")
	ErrCourseNotFound      = errors.New("course not found")
	ErrLessonNotFound      = errors.New("lesson not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrDuplicateEmail      = errors.New("this email is already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrChatNotFound        = errors.New("chat not found")
	ErrMessageNotFound     = errors.New("message not found")
	ErrCommentNotFound     = errors.New("comment not found")
	ErrReplyNotFound       = errors.New("reply not found")
	ErrRatingNotFound      = errors.New("rating not found")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrFileNotFound        = errors.New("file not found")
	ErrFileTooLarge        = errors.New("file exceeds the maximum allowed size")
	ErrInsufficientStorage = errors.New("not enough storage space available")
)
