package auth

import (
	"time"

	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new auth repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser inserts a new user
func (r *Repository) CreateUser(user *User) error {
	return r.db.Create(user).Error
}

// GetUserByEmail fetches a user by email
func (r *Repository) GetUserByEmail(email string) (*User, error) {
	var user User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByID fetches a user by id
func (r *Repository) GetUserByID(id string) (*User, error) {
	var user User
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// EmailExists checks whether an email is already registered
func (r *Repository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// UpdateLastLogin stamps the last login time
func (r *Repository) UpdateLastLogin(id string) error {
	return r.db.Model(&User{}).Where("id = ?", id).Update("last_login_at", time.Now()).Error
}

// SaveRefreshToken stores the current refresh token and its expiry
func (r *Repository) SaveRefreshToken(id, token string, expiresAt time.Time) error {
	return r.db.Model(&User{}).Where("id = ?", id).Updates(map[string]interface{}{
		"refresh_token":            token,
		"refresh_token_expires_at": expiresAt,
	}).Error
}
