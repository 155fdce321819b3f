package models

import "gorm.io/gorm"

type Course struct {
	gorm.Model
	Title        string
	Description  string
	TeacherID    uint
	TeacherName  string
	ThumbnailURL string
	Category     string `gorm:"default:General"`
	Level        string `gorm:"default:beginner"` // beginner, intermediate, advanced
	Tags         string // comma-separated
	Public       bool
	Active       bool `gorm:"default:true"`
	Price        float64

	// Cached aggregates, recomputed by CatalogService.UpdateCourseStats.
	StudentCount      int
	AverageRating     float64
	RatingCount       int
	EstimatedDuration int // minutes

	Lessons []Lesson
}

type Lesson struct {
	gorm.Model
	CourseID        uint
	Title           string
	Description     string
	SequenceOrder   int // assigned as count+1 at creation, never renumbered
	VideoFileID     string
	DurationMinutes int  `gorm:"default:15"`
	Active          bool `gorm:"default:true"`
	Materials       []Material
}

type Material struct {
	gorm.Model
	LessonID uint
	Name     string
	Kind     string // pdf, image, link, video, other
	URL      string // set when Kind == "link"
	FileID   string // stored file ID for every other kind
}
