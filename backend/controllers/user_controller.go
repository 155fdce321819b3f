package controllers

import (
	"strconv"

	"eadsystem/backend/config"
	"eadsystem/backend/models"
	"eadsystem/backend/services"
	"eadsystem/backend/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Stats    *services.StatsService
	Progress *services.ProgressService
}

func NewUserController(db *gorm.DB, cfg *config.Config) *UserController {
	return &UserController{
		DB:       db,
		Cfg:      cfg,
		Stats:    services.NewStatsService(db),
		Progress: services.NewProgressService(db),
	}
}

// GetProfile godoc
// @Summary Get user profile
// @Description Returns the authenticated user's profile, stats and active courses
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /user/profile [get]
func (uc *UserController) GetProfile(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, uc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	progresses := uc.Progress.GetUserCourseProgress(userID)

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"id":                  user.ID,
		"name":                user.Name,
		"nickname":            user.Nickname,
		"email":               user.Email,
		"role":                user.Role,
		"avatar_url":          user.AvatarURL,
		"bio":                 user.Bio,
		"created_at":          user.CreatedAt,
		"last_login_at":       user.LastLoginAt,
		"completed_courses":   models.ParseIDList(user.CompletedCourses),
		"in_progress_courses": models.ParseIDList(user.InProgressCourses),
		"study_minutes":       user.StudyMinutes,
		"score":               user.Score,
		"stats":               uc.Stats.GetUserStats(userID),
		"course_progress":     progresses,
	})
}

// UpdateProfile updates the caller's own profile. A password change
// requires the old password.
func (uc *UserController) UpdateProfile(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, uc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var input struct {
		Name        string `json:"name"`
		Nickname    string `json:"nickname"`
		AvatarURL   string `json:"avatar_url"`
		Bio         string `json:"bio"`
		Phone       string `json:"phone"`
		Address     string `json:"address"`
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var user models.User
	if err := uc.DB.First(&user, userID).Error; err != nil {
		return utils.NotFound(c, "User not found")
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Nickname != "" {
		user.Nickname = input.Nickname
	}
	if input.AvatarURL != "" {
		user.AvatarURL = input.AvatarURL
	}
	if input.Bio != "" {
		user.Bio = input.Bio
	}
	if input.Phone != "" {
		user.Phone = input.Phone
	}
	if input.Address != "" {
		user.Address = input.Address
	}

	if input.NewPassword != "" {
		if input.OldPassword == "" {
			return utils.BadRequest(c, "Old password is required to set new password")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)); err != nil {
			return utils.Unauthorized(c, "Invalid old password")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return utils.InternalServerError(c, "Could not hash password")
		}
		user.PasswordHash = string(hashed)
	}

	if err := uc.DB.Save(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not update user")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "Profile updated successfully",
	})
}

func (uc *UserController) GetUserStats(c *fiber.Ctx) error {
	userID, err := utils.ExtractUserIDFromToken(c, uc.Cfg)
	if err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}
	return utils.Success(c, fiber.StatusOK, uc.Stats.GetUserStats(userID))
}

// ListUsers is admin-only; routed behind AdminMiddleware.
func (uc *UserController) ListUsers(c *fiber.Ctx) error {
	var users []models.User
	uc.DB.Find(&users)

	result := make([]fiber.Map, 0, len(users))
	for _, user := range users {
		result = append(result, fiber.Map{
			"id":         user.ID,
			"name":       user.Name,
			"email":      user.Email,
			"role":       user.Role,
			"active":     user.Active,
			"created_at": user.CreatedAt,
			"score":      user.Score,
		})
	}
	return c.JSON(result)
}

// DeleteUser is admin-only. User deletion is an administrative action; the
// engines themselves never remove users.
func (uc *UserController) DeleteUser(c *fiber.Ctx) error {
	targetID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	result := uc.DB.Delete(&models.User{}, targetID)
	if result.Error != nil {
		return utils.InternalServerError(c, "Could not delete user")
	}
	if result.RowsAffected == 0 {
		return utils.NotFound(c, "User not found")
	}
	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"message": "User deleted",
	})
}
