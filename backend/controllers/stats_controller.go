package controllers

import (
	"eadsystem/backend/config"
	"eadsystem/backend/services"
	"eadsystem/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type StatsController struct {
	Cfg   *config.Config
	Stats *services.StatsService
}

func NewStatsController(db *gorm.DB, cfg *config.Config) *StatsController {
	return &StatsController{Cfg: cfg, Stats: services.NewStatsService(db)}
}

// GetPlatformStats godoc
// @Summary Platform overview
// @Description Aggregate counters for the dashboard: courses, students, lessons, content hours, average rating
// @Tags stats
// @Produce json
// @Success 200 {object} services.PlatformStats
// @Security ApiKeyAuth
// @Router /stats/platform [get]
func (sc *StatsController) GetPlatformStats(c *fiber.Ctx) error {
	if _, err := utils.ExtractUserIDFromToken(c, sc.Cfg); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}
	return c.JSON(sc.Stats.GetPlatformStats())
}
