package repositories

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/doveable-ai/doveable-backend/internal/modules/builder/models"
)

type ProfileRepo interface {
	GetByID(id uuid.UUID) (*models.Profile, error)
	GetOrCreate(id uuid.UUID, email string, initialCredits int) (*models.Profile, error)
	Save(profile *models.Profile) error
	List() ([]models.Profile, error)
}

type profileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) ProfileRepo {
	return &profileRepo{db: db}
}

func (r *profileRepo) GetByID(id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetOrCreate fetches a profile, creating it with the initial free credit
// grant on first access. New sign-ups hit this path.
func (r *profileRepo) GetOrCreate(id uuid.UUID, email string, initialCredits int) (*models.Profile, error) {
	profile, err := r.GetByID(id)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	profile = &models.Profile{
		ID:          id,
		Email:       email,
		FreeCredits: initialCredits,
	}
	if err := r.db.Create(profile).Error; err != nil {
		return nil, err
	}
	return profile, nil
}

func (r *profileRepo) Save(profile *models.Profile) error {
	return r.db.Save(profile).Error
}

func (r *profileRepo) List() ([]models.Profile, error) {
	var profiles []models.Profile
	err := r.db.Order("created_at DESC").Find(&profiles).Error
	return profiles, err
}
