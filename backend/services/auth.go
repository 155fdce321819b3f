package services

import (
	"errors"
	"strings"
	"time"

	"eadsystem/backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService is the identity provider: registration and credential checks.
// Everything else identifies users by the ID it hands out.
type AuthService struct {
	DB            *gorm.DB
	Notifications *NotificationService
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{
		DB:            db,
		Notifications: NewNotificationService(db),
	}
}

func (as *AuthService) Register(name, email, password, role string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var existing models.User
	if err := as.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	if role == "" {
		role = "student"
	}
	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Nickname:     name,
		Active:       true,
	}
	if err := as.DB.Create(&user).Error; err != nil {
		return nil, err
	}

	as.Notifications.Create(user.ID,
		"Welcome to the EAD System!",
		"Your account was created successfully. Explore our courses and start learning!",
		"success", "")

	return &user, nil
}

// Authenticate returns the user for valid credentials and stamps the login
// time. Unknown email and wrong password are indistinguishable to the caller.
func (as *AuthService) Authenticate(email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := as.DB.Where("email = ? AND active = ?", email, true).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLoginAt = &now
	as.DB.Save(&user)

	return &user, nil
}

func (as *AuthService) GetUserByID(userID uint) *models.User {
	var user models.User
	if err := as.DB.First(&user, userID).Error; err != nil {
		return nil
	}
	return &user
}
