package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	db := newTestDB(t)
	as := NewAuthService(db)

	user, err := as.Register("Ada", "  Ada@Example.COM ", "password123", "")
	assert.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "student", user.Role)
	assert.True(t, user.Active)
	assert.NotEqual(t, "password123", user.PasswordHash)

	// Welcome notification goes out on signup.
	assert.Len(t, NewNotificationService(db).GetByUser(user.ID), 1)

	authed, err := as.Authenticate("ada@example.com", "password123")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)
	assert.NotNil(t, authed.LastLoginAt)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	as := NewAuthService(db)

	_, err := as.Register("Ada", "ada@example.com", "password123", "")
	assert.NoError(t, err)

	// Case and whitespace do not make it a different address.
	_, err = as.Register("Ada Again", " ADA@example.com ", "password456", "")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	db := newTestDB(t)
	as := NewAuthService(db)

	user, err := as.Register("Ada", "ada@example.com", "password123", "")
	assert.NoError(t, err)

	_, err = as.Authenticate("ada@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = as.Authenticate("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Deactivated accounts cannot log in.
	user.Active = false
	assert.NoError(t, db.Save(user).Error)
	_, err = as.Authenticate("ada@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
