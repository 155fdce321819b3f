package services

import (
	"sort"
	"strings"

	"eadsystem/backend/models"

	"gorm.io/gorm"
)

type SearchFilters struct {
	Category   string
	Level      string
	Visibility string // "public" or "private"
	Teacher    string
	MinRating  float64
}

type SearchResult struct {
	Type        string `json:"type"` // course or lesson
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	TeacherName string `json:"teacher_name"`
	Category    string `json:"category"`
	CourseID    uint   `json:"course_id,omitempty"`
	Relevance   int    `json:"relevance"`
}

// SearchService runs a relevance-scored scan over course and lesson text.
// Title matches weigh 3, descriptions and teacher names 2, category, tags
// and material names 1.
type SearchService struct {
	DB *gorm.DB
}

func NewSearchService(db *gorm.DB) *SearchService {
	return &SearchService{DB: db}
}

func (ss *SearchService) Search(query string, filters *SearchFilters) []SearchResult {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" && filters == nil {
		return []SearchResult{}
	}

	var courses []models.Course
	ss.DB.Where("active = ?", true).Find(&courses)

	results := []SearchResult{}
	for _, course := range courses {
		if !courseMatchesFilters(&course, filters) {
			continue
		}

		relevance := 0
		if term != "" {
			if strings.Contains(strings.ToLower(course.Title), term) {
				relevance += 3
			}
			if strings.Contains(strings.ToLower(course.Description), term) {
				relevance += 2
			}
			if strings.Contains(strings.ToLower(course.TeacherName), term) {
				relevance += 2
			}
			if strings.Contains(strings.ToLower(course.Category), term) {
				relevance++
			}
			if strings.Contains(strings.ToLower(course.Tags), term) {
				relevance++
			}
		} else {
			// Filter-only search still includes the course.
			relevance = 1
		}

		if relevance > 0 {
			results = append(results, SearchResult{
				Type:        "course",
				ID:          course.ID,
				Title:       course.Title,
				Description: course.Description,
				TeacherName: course.TeacherName,
				Category:    course.Category,
				Relevance:   relevance,
			})
		}
	}

	if term != "" {
		var lessons []models.Lesson
		ss.DB.Preload("Materials").Where("active = ?", true).Find(&lessons)

		courseByID := make(map[uint]*models.Course, len(courses))
		for i := range courses {
			courseByID[courses[i].ID] = &courses[i]
		}

		for _, lesson := range lessons {
			course, ok := courseByID[lesson.CourseID]
			if !ok || !courseMatchesFilters(course, filters) {
				continue
			}

			relevance := 0
			if strings.Contains(strings.ToLower(lesson.Title), term) {
				relevance += 3
			}
			if strings.Contains(strings.ToLower(lesson.Description), term) {
				relevance += 2
			}
			for _, material := range lesson.Materials {
				if strings.Contains(strings.ToLower(material.Name), term) {
					relevance++
					break
				}
			}

			if relevance > 0 {
				results = append(results, SearchResult{
					Type:        "lesson",
					ID:          lesson.ID,
					Title:       lesson.Title,
					Description: lesson.Description,
					TeacherName: course.TeacherName,
					Category:    course.Category,
					CourseID:    course.ID,
					Relevance:   relevance,
				})
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})
	return results
}

func courseMatchesFilters(course *models.Course, filters *SearchFilters) bool {
	if filters == nil {
		return true
	}
	if filters.Category != "" && course.Category != filters.Category {
		return false
	}
	if filters.Level != "" && course.Level != filters.Level {
		return false
	}
	if filters.Visibility != "" {
		if (filters.Visibility == "public") != course.Public {
			return false
		}
	}
	if filters.Teacher != "" && !strings.Contains(strings.ToLower(course.TeacherName), strings.ToLower(filters.Teacher)) {
		return false
	}
	if filters.MinRating > 0 && course.AverageRating < filters.MinRating {
		return false
	}
	return true
}
