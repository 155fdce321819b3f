package controllers

import (
	"strconv"

	"eadsystem/backend/config"
	"eadsystem/backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SearchController struct {
	Cfg       *config.Config
	SearchSvc *services.SearchService
}

func NewSearchController(db *gorm.DB, cfg *config.Config) *SearchController {
	return &SearchController{Cfg: cfg, SearchSvc: services.NewSearchService(db)}
}

// Search godoc
// @Summary Search courses and lessons
// @Description Relevance-ranked text search with optional category, level, visibility, teacher and min_rating filters
// @Tags search
// @Produce json
// @Success 200 {array} services.SearchResult
// @Router /search [get]
func (sc *SearchController) Search(c *fiber.Ctx) error {
	query := c.Query("q")

	var filters *services.SearchFilters
	category := c.Query("category")
	level := c.Query("level")
	visibility := c.Query("visibility")
	teacher := c.Query("teacher")
	minRating, _ := strconv.ParseFloat(c.Query("min_rating"), 64)

	if category != "" || level != "" || visibility != "" || teacher != "" || minRating > 0 {
		filters = &services.SearchFilters{
			Category:   category,
			Level:      level,
			Visibility: visibility,
			Teacher:    teacher,
			MinRating:  minRating,
		}
	}

	return c.JSON(sc.SearchSvc.Search(query, filters))
}
