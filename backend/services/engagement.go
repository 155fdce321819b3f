package services

import (
	"errors"
	"math"

	"eadsystem/backend/models"

	"gorm.io/gorm"
)

// EngagementService covers lesson comments with one level of replies,
// course ratings and the like toggles on all three.
type EngagementService struct {
	DB *gorm.DB
}

func NewEngagementService(db *gorm.DB) *EngagementService {
	return &EngagementService{DB: db}
}

func (es *EngagementService) CreateLessonComment(lessonID, userID uint, userName, text, avatar string) (*models.LessonComment, error) {
	comment := models.LessonComment{
		LessonID:   lessonID,
		UserID:     userID,
		UserName:   userName,
		UserAvatar: avatar,
		Text:       text,
	}
	if err := es.DB.Create(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetCommentsByLesson returns comments newest first, with the per-viewer
// liked flag resolved for viewerID.
func (es *EngagementService) GetCommentsByLesson(lessonID, viewerID uint) []models.LessonComment {
	var comments []models.LessonComment
	es.DB.Preload("Replies").
		Where("lesson_id = ?", lessonID).
		Order("created_at DESC").
		Find(&comments)

	for i := range comments {
		comments[i].LikedByViewer = models.IDListContains(comments[i].LikedBy, viewerID)
		for j := range comments[i].Replies {
			comments[i].Replies[j].LikedByViewer = models.IDListContains(comments[i].Replies[j].LikedBy, viewerID)
		}
	}
	return comments
}

// ReplyToComment appends a reply to the parent comment. Replies cannot be
// nested further.
func (es *EngagementService) ReplyToComment(commentID, userID uint, userName, text, avatar string) (*models.LessonCommentReply, error) {
	var comment models.LessonComment
	if err := es.DB.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	reply := models.LessonCommentReply{
		CommentID:  comment.ID,
		UserID:     userID,
		UserName:   userName,
		UserAvatar: avatar,
		Text:       text,
	}
	if err := es.DB.Create(&reply).Error; err != nil {
		return nil, err
	}
	return &reply, nil
}

func (es *EngagementService) ToggleCommentLike(commentID, userID uint) error {
	var comment models.LessonComment
	if err := es.DB.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	comment.Likes, comment.LikedBy = toggleLike(comment.Likes, comment.LikedBy, userID)
	return es.DB.Save(&comment).Error
}

func (es *EngagementService) ToggleReplyLike(commentID, replyID, userID uint) error {
	var reply models.LessonCommentReply
	err := es.DB.Where("id = ? AND comment_id = ?", replyID, commentID).First(&reply).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReplyNotFound
		}
		return err
	}
	reply.Likes, reply.LikedBy = toggleLike(reply.Likes, reply.LikedBy, userID)
	return es.DB.Save(&reply).Error
}

// CreateCourseRating upserts the caller's rating: a prior rating for the
// same course is overwritten in place rather than duplicated.
func (es *EngagementService) CreateCourseRating(courseID, userID uint, userName string, rating int, comment, avatar string) (*models.CourseRating, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	if existing := es.GetUserCourseRating(courseID, userID); existing != nil {
		existing.Rating = rating
		existing.Comment = comment
		if err := es.DB.Save(existing).Error; err != nil {
			return nil, err
		}
		return existing, nil
	}

	record := models.CourseRating{
		CourseID:   courseID,
		UserID:     userID,
		UserName:   userName,
		UserAvatar: avatar,
		Rating:     rating,
		Comment:    comment,
	}
	if err := es.DB.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (es *EngagementService) GetUserCourseRating(courseID, userID uint) *models.CourseRating {
	var rating models.CourseRating
	err := es.DB.Where("course_id = ? AND user_id = ?", courseID, userID).First(&rating).Error
	if err != nil {
		return nil
	}
	return &rating
}

func (es *EngagementService) GetRatingsByCourse(courseID, viewerID uint) []models.CourseRating {
	var ratings []models.CourseRating
	es.DB.Where("course_id = ?", courseID).Order("created_at DESC").Find(&ratings)
	for i := range ratings {
		ratings[i].LikedByViewer = models.IDListContains(ratings[i].LikedBy, viewerID)
	}
	return ratings
}

func (es *EngagementService) ToggleRatingLike(ratingID, userID uint) error {
	var rating models.CourseRating
	if err := es.DB.First(&rating, ratingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRatingNotFound
		}
		return err
	}
	rating.Likes, rating.LikedBy = toggleLike(rating.Likes, rating.LikedBy, userID)
	return es.DB.Save(&rating).Error
}

// GetCourseAverageRating returns the 1-decimal average and total count, or
// {0, 0} when the course has no ratings yet.
func (es *EngagementService) GetCourseAverageRating(courseID uint) (float64, int) {
	var ratings []models.CourseRating
	es.DB.Where("course_id = ?", courseID).Find(&ratings)
	if len(ratings) == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Rating
	}
	average := float64(sum) / float64(len(ratings))
	return math.Round(average*10) / 10, len(ratings)
}

// toggleLike flips the viewer's like, flooring the count at zero.
func toggleLike(likes int, likedBy string, userID uint) (int, string) {
	if models.IDListContains(likedBy, userID) {
		likes--
		if likes < 0 {
			likes = 0
		}
		return likes, models.RemoveID(likedBy, userID)
	}
	return likes + 1, models.AppendID(likedBy, userID)
}
