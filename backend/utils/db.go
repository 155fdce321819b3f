package utils

import (
	"fmt"

	"eadsystem/backend/config"
	"eadsystem/backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Lesson{},
		&models.Material{},
		&models.CourseEnrollment{},
		&models.LessonProgress{},
		&models.UserProgress{},
		&models.LessonComment{},
		&models.LessonCommentReply{},
		&models.CourseRating{},
		&models.CourseChat{},
		&models.ChatMessage{},
		&models.Notification{},
		&models.StoredFile{},
	)
}
