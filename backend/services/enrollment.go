package services

import (
	"fmt"
	"strconv"
	"time"

	"eadsystem/backend/models"

	"gorm.io/gorm"
)

// EnrollmentService owns the request/approve/reject workflow that gates
// access to courses. Its access predicate, IsUserEnrolledInCourse, is the
// single source of truth used by the chat, engagement and progress layers.
type EnrollmentService struct {
	DB            *gorm.DB
	Notifications *NotificationService
	Chats         *ChatService
}

func NewEnrollmentService(db *gorm.DB) *EnrollmentService {
	return &EnrollmentService{
		DB:            db,
		Notifications: NewNotificationService(db),
		Chats:         NewChatService(db),
	}
}

func (es *EnrollmentService) GetUserCourseEnrollment(userID, courseID uint) *models.CourseEnrollment {
	var enrollment models.CourseEnrollment
	err := es.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	if err != nil {
		return nil
	}
	return &enrollment
}

// IsUserEnrolledInCourse is true only for an approved enrollment.
func (es *EnrollmentService) IsUserEnrolledInCourse(userID, courseID uint) bool {
	enrollment := es.GetUserCourseEnrollment(userID, courseID)
	return enrollment != nil && enrollment.Status == models.EnrollmentApproved
}

// RequestEnrollment creates a pending record for a private course. A second
// request for the same (user, course) pair fails regardless of the status
// of the first one.
func (es *EnrollmentService) RequestEnrollment(courseID, userID uint, userName, userEmail, notes string) (*models.CourseEnrollment, error) {
	if existing := es.GetUserCourseEnrollment(userID, courseID); existing != nil {
		return nil, ErrDuplicateEnrollment
	}

	enrollment := models.CourseEnrollment{
		CourseID:    courseID,
		UserID:      userID,
		UserName:    userName,
		UserEmail:   userEmail,
		Status:      models.EnrollmentPending,
		RequestedAt: time.Now(),
		Notes:       notes,
	}
	if err := es.DB.Create(&enrollment).Error; err != nil {
		return nil, err
	}

	es.Notifications.Create(userID,
		"Enrollment Request Sent",
		"Your enrollment request has been sent and is awaiting approval.",
		"info", "")

	return &enrollment, nil
}

// AutoApproveEnrollment is the public-course path: the record is created
// directly in approved status with "system" as the approver.
func (es *EnrollmentService) AutoApproveEnrollment(courseID, userID uint, userName, userEmail string) (*models.CourseEnrollment, error) {
	if existing := es.GetUserCourseEnrollment(userID, courseID); existing != nil {
		return nil, ErrDuplicateEnrollment
	}

	now := time.Now()
	enrollment := models.CourseEnrollment{
		CourseID:    courseID,
		UserID:      userID,
		UserName:    userName,
		UserEmail:   userEmail,
		Status:      models.EnrollmentApproved,
		RequestedAt: now,
		ApprovedAt:  &now,
		ApprovedBy:  "system",
	}
	if err := es.DB.Create(&enrollment).Error; err != nil {
		return nil, err
	}

	es.addToCourseChat(courseID, userID)

	es.Notifications.Create(userID,
		"Enrollment Complete!",
		"You have been successfully enrolled in the course!",
		"success", fmt.Sprintf("/course/%d", courseID))

	return &enrollment, nil
}

// Approve moves a pending enrollment to approved. The engine does not check
// who the approver is; ensuring only the course owner or an admin calls this
// is the HTTP layer's job.
func (es *EnrollmentService) Approve(enrollmentID, approverID uint) error {
	var enrollment models.CourseEnrollment
	if err := es.DB.First(&enrollment, enrollmentID).Error; err != nil {
		return ErrEnrollmentNotFound
	}

	now := time.Now()
	enrollment.Status = models.EnrollmentApproved
	enrollment.ApprovedAt = &now
	enrollment.ApprovedBy = strconv.FormatUint(uint64(approverID), 10)
	if err := es.DB.Save(&enrollment).Error; err != nil {
		return err
	}

	es.addToCourseChat(enrollment.CourseID, enrollment.UserID)

	es.Notifications.Create(enrollment.UserID,
		"Enrollment Approved!",
		"Your enrollment was approved! You can now access the course.",
		"success", fmt.Sprintf("/course/%d", enrollment.CourseID))

	return nil
}

func (es *EnrollmentService) Reject(enrollmentID, rejecterID uint, reason string) error {
	var enrollment models.CourseEnrollment
	if err := es.DB.First(&enrollment, enrollmentID).Error; err != nil {
		return ErrEnrollmentNotFound
	}

	now := time.Now()
	enrollment.Status = models.EnrollmentRejected
	enrollment.ApprovedAt = &now
	enrollment.ApprovedBy = strconv.FormatUint(uint64(rejecterID), 10)
	if reason != "" {
		enrollment.Notes = reason
	}
	if err := es.DB.Save(&enrollment).Error; err != nil {
		return err
	}

	message := "Your enrollment request was rejected."
	if reason != "" {
		message += " " + reason
	}
	es.Notifications.Create(enrollment.UserID, "Enrollment Rejected", message, "warning", "")

	return nil
}

// addToCourseChat puts a freshly approved user into the course chat,
// creating the chat first when it does not exist yet.
func (es *EnrollmentService) addToCourseChat(courseID, userID uint) {
	var course models.Course
	if err := es.DB.First(&course, courseID).Error; err != nil {
		return
	}
	if _, err := es.Chats.CreateCourseChat(courseID, course.Title); err != nil {
		return
	}
	es.Chats.AddParticipant(courseID, userID)
}

func (es *EnrollmentService) GetEnrollmentsByCourse(courseID uint) []models.CourseEnrollment {
	var enrollments []models.CourseEnrollment
	es.DB.Where("course_id = ?", courseID).Find(&enrollments)
	return enrollments
}

func (es *EnrollmentService) GetUserEnrollments(userID uint) []models.CourseEnrollment {
	var enrollments []models.CourseEnrollment
	es.DB.Where("user_id = ?", userID).Find(&enrollments)
	return enrollments
}

func (es *EnrollmentService) GetPendingEnrollmentsByCourse(courseID uint) []models.CourseEnrollment {
	var enrollments []models.CourseEnrollment
	es.DB.Where("course_id = ? AND status = ?", courseID, models.EnrollmentPending).Find(&enrollments)
	return enrollments
}

func (es *EnrollmentService) GetApprovedEnrollmentsByCourse(courseID uint) []models.CourseEnrollment {
	var enrollments []models.CourseEnrollment
	es.DB.Where("course_id = ? AND status = ?", courseID, models.EnrollmentApproved).Find(&enrollments)
	return enrollments
}
