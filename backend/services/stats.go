package services

import (
	"math"
	"time"

	"eadsystem/backend/models"

	"gorm.io/gorm"
)

type UserStats struct {
	CompletedCourses  int     `json:"completed_courses"`
	CoursesInProgress int     `json:"courses_in_progress"`
	StudyHours        float64 `json:"study_hours"`
	Score             int     `json:"score"`
	AverageProgress   int     `json:"average_progress"`
	StreakDays        int     `json:"streak_days"`
}

type PlatformStats struct {
	TotalCourses     int64   `json:"total_courses"`
	TotalStudents    int64   `json:"total_students"`
	TotalLessons     int64   `json:"total_lessons"`
	ContentHours     float64 `json:"content_hours"`
	CompletedCourses int64   `json:"completed_courses"`
	AverageRating    float64 `json:"average_rating"`
}

// StatsService derives read-only dashboard figures. Nothing here is
// authoritative; it is all recomputed from the underlying records.
type StatsService struct {
	DB *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{DB: db}
}

func (ss *StatsService) GetUserStats(userID uint) UserStats {
	var user models.User
	if err := ss.DB.First(&user, userID).Error; err != nil {
		return UserStats{}
	}

	var progresses []models.UserProgress
	ss.DB.Where("user_id = ?", userID).Find(&progresses)

	averageProgress := 0.0
	if len(progresses) > 0 {
		sum := 0.0
		for _, p := range progresses {
			sum += p.Percentage
		}
		averageProgress = sum / float64(len(progresses))
	}

	return UserStats{
		CompletedCourses:  len(models.ParseIDList(user.CompletedCourses)),
		CoursesInProgress: len(models.ParseIDList(user.InProgressCourses)),
		StudyHours:        math.Round(float64(user.StudyMinutes)/60*10) / 10,
		Score:             user.Score,
		AverageProgress:   int(math.Round(averageProgress)),
		StreakDays:        ss.streakDays(progresses),
	}
}

// streakDays approximates an activity streak from rollups touched in the
// last week, capped at 30.
func (ss *StatsService) streakDays(progresses []models.UserProgress) int {
	cutoff := time.Now().AddDate(0, 0, -7)
	recent := 0
	for _, p := range progresses {
		if p.UpdatedAt.After(cutoff) {
			recent++
		}
	}
	if recent > 30 {
		return 30
	}
	return recent
}

func (ss *StatsService) GetPlatformStats() PlatformStats {
	var stats PlatformStats

	ss.DB.Model(&models.Course{}).Where("active = ?", true).Count(&stats.TotalCourses)
	ss.DB.Model(&models.User{}).Where("role = ? AND active = ?", "student", true).Count(&stats.TotalStudents)
	ss.DB.Model(&models.Lesson{}).Where("active = ?", true).Count(&stats.TotalLessons)
	ss.DB.Model(&models.UserProgress{}).Where("completed_at IS NOT NULL").Count(&stats.CompletedCourses)

	var lessons []models.Lesson
	ss.DB.Where("active = ?", true).Find(&lessons)
	totalMinutes := 0
	for _, l := range lessons {
		if l.DurationMinutes > 0 {
			totalMinutes += l.DurationMinutes
		} else {
			totalMinutes += defaultLessonMinutes
		}
	}
	stats.ContentHours = math.Round(float64(totalMinutes)/60*10) / 10

	var ratings []models.CourseRating
	ss.DB.Find(&ratings)
	if len(ratings) > 0 {
		sum := 0
		for _, r := range ratings {
			sum += r.Rating
		}
		stats.AverageRating = math.Round(float64(sum)/float64(len(ratings))*10) / 10
	}

	return stats
}
