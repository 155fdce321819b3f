package services

import (
	"fmt"
	"time"

	"eadsystem/backend/models"

	"gorm.io/gorm"
)

const (
	completionThreshold   = 90.0
	courseCompletionScore = 100
	defaultLessonMinutes  = 15
)

// ProgressService tracks per-lesson watch time and rolls it up into
// per-course completion, updating the cached user aggregates as it goes.
type ProgressService struct {
	DB            *gorm.DB
	Notifications *NotificationService
}

func NewProgressService(db *gorm.DB) *ProgressService {
	return &ProgressService{
		DB:            db,
		Notifications: NewNotificationService(db),
	}
}

func (ps *ProgressService) GetUserLessonProgress(userID, lessonID uint) *models.LessonProgress {
	var progress models.LessonProgress
	err := ps.DB.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&progress).Error
	if err != nil {
		return nil
	}
	return &progress
}

// UpdateLessonProgress records watch time for a lesson. Watched seconds are
// monotonic: a report smaller than the stored value (a seek backward) never
// regresses it. Crossing the 90% threshold completes the lesson exactly once
// and feeds the course-level rollup.
func (ps *ProgressService) UpdateLessonProgress(userID, lessonID, courseID uint, watchedSeconds, totalSeconds float64) (*models.LessonProgress, error) {
	progress := ps.GetUserLessonProgress(userID, lessonID)
	if progress == nil {
		progress = &models.LessonProgress{
			UserID:    userID,
			LessonID:  lessonID,
			CourseID:  courseID,
			StartedAt: time.Now(),
		}
	}

	if watchedSeconds > progress.WatchedSeconds {
		progress.WatchedSeconds = watchedSeconds
	}
	progress.TotalSeconds = totalSeconds
	if totalSeconds > 0 {
		progress.Percentage = progress.WatchedSeconds / totalSeconds * 100
	} else {
		progress.Percentage = 0
	}

	if progress.Percentage >= completionThreshold && !progress.Completed {
		now := time.Now()
		progress.Completed = true
		progress.CompletedAt = &now
		if err := ps.DB.Save(progress).Error; err != nil {
			return nil, err
		}
		if err := ps.MarkLessonAsWatched(userID, courseID, lessonID); err != nil {
			return nil, err
		}
		return progress, nil
	}

	if err := ps.DB.Save(progress).Error; err != nil {
		return nil, err
	}
	return progress, nil
}

// MarkLessonAsCompleted force-completes a lesson regardless of watch time,
// for lessons without a video. Safe to call on an already completed record.
func (ps *ProgressService) MarkLessonAsCompleted(userID, lessonID, courseID uint) error {
	progress := ps.GetUserLessonProgress(userID, lessonID)
	now := time.Now()
	if progress == nil {
		progress = &models.LessonProgress{
			UserID:      userID,
			LessonID:    lessonID,
			CourseID:    courseID,
			Percentage:  100,
			Completed:   true,
			StartedAt:   now,
			CompletedAt: &now,
		}
	} else {
		progress.Completed = true
		progress.Percentage = 100
		if progress.CompletedAt == nil {
			progress.CompletedAt = &now
		}
	}

	if err := ps.DB.Save(progress).Error; err != nil {
		return err
	}
	return ps.MarkLessonAsWatched(userID, courseID, lessonID)
}

func (ps *ProgressService) IsLessonCompleted(userID, lessonID uint) bool {
	progress := ps.GetUserLessonProgress(userID, lessonID)
	return progress != nil && progress.Completed
}

func (ps *ProgressService) GetUserProgress(userID, courseID uint) *models.UserProgress {
	var progress models.UserProgress
	err := ps.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&progress).Error
	if err != nil {
		return nil
	}
	return &progress
}

func (ps *ProgressService) GetUserCourseProgress(userID uint) []models.UserProgress {
	var progresses []models.UserProgress
	ps.DB.Where("user_id = ?", userID).Find(&progresses)
	return progresses
}

// MarkLessonAsWatched inserts the lesson into the course rollup's watched
// set, recomputes the course percentage and accrues estimated study minutes.
// Already-watched lessons are a no-op.
func (ps *ProgressService) MarkLessonAsWatched(userID, courseID, lessonID uint) error {
	progress := ps.GetUserProgress(userID, courseID)
	if progress == nil {
		progress = &models.UserProgress{
			UserID:    userID,
			CourseID:  courseID,
			StartedAt: time.Now(),
		}
	}

	if models.IDListContains(progress.WatchedLessons, lessonID) {
		return nil
	}

	progress.WatchedLessons = models.AppendID(progress.WatchedLessons, lessonID)
	progress.LastWatchedLessonID = lessonID

	var totalLessons int64
	ps.DB.Model(&models.Lesson{}).Where("course_id = ? AND active = ?", courseID, true).Count(&totalLessons)
	if totalLessons > 0 {
		watched := len(models.ParseIDList(progress.WatchedLessons))
		progress.Percentage = float64(watched) / float64(totalLessons) * 100
	}

	var lesson models.Lesson
	if err := ps.DB.First(&lesson, lessonID).Error; err == nil {
		minutes := lesson.DurationMinutes
		if minutes <= 0 {
			minutes = defaultLessonMinutes
		}
		progress.StudyMinutes += minutes
	}

	if err := ps.DB.Save(progress).Error; err != nil {
		return err
	}

	if err := ps.checkCourseCompletion(progress); err != nil {
		return err
	}

	return ps.UpdateUserStats(userID)
}

// checkCourseCompletion fires the one-time completion side effects. The
// guard is the absence of a completion timestamp, so the score bonus and
// notification can never be awarded twice.
func (ps *ProgressService) checkCourseCompletion(progress *models.UserProgress) error {
	if progress.Percentage < completionThreshold || progress.CompletedAt != nil {
		return nil
	}

	now := time.Now()
	progress.CompletedAt = &now
	if err := ps.DB.Save(progress).Error; err != nil {
		return err
	}

	var user models.User
	if err := ps.DB.First(&user, progress.UserID).Error; err != nil {
		return nil
	}
	if models.IDListContains(user.CompletedCourses, progress.CourseID) {
		return nil
	}

	user.CompletedCourses = models.AppendID(user.CompletedCourses, progress.CourseID)
	user.Score += courseCompletionScore
	if err := ps.DB.Save(&user).Error; err != nil {
		return err
	}

	courseTitle := ""
	var course models.Course
	if err := ps.DB.First(&course, progress.CourseID).Error; err == nil {
		courseTitle = course.Title
	}
	ps.Notifications.Create(progress.UserID,
		"Congratulations! Course Completed!",
		fmt.Sprintf("You have completed the course %q. Keep learning!", courseTitle),
		"success", fmt.Sprintf("/course/%d", progress.CourseID))

	return nil
}

// UpdateUserStats fully recomputes the user's in-progress course list and
// cumulative study minutes from the rollup records. Safe to call redundantly.
func (ps *ProgressService) UpdateUserStats(userID uint) error {
	var user models.User
	if err := ps.DB.First(&user, userID).Error; err != nil {
		return nil
	}

	progresses := ps.GetUserCourseProgress(userID)

	inProgress := make([]uint, 0, len(progresses))
	totalMinutes := 0
	for _, p := range progresses {
		if p.Percentage > 0 && p.Percentage < completionThreshold {
			inProgress = append(inProgress, p.CourseID)
		}
		totalMinutes += p.StudyMinutes
	}

	user.InProgressCourses = models.JoinIDList(inProgress)
	user.StudyMinutes = totalMinutes
	return ps.DB.Save(&user).Error
}

// SetSelfRating stores the learner's optional rating and comment on their
// own course rollup.
func (ps *ProgressService) SetSelfRating(userID, courseID uint, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	progress := ps.GetUserProgress(userID, courseID)
	if progress == nil {
		return ErrCourseNotFound
	}
	progress.SelfRating = rating
	progress.SelfComment = comment
	return ps.DB.Save(progress).Error
}
