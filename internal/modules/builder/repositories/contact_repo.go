package repositories

import (
	"gorm.io/gorm"

	"github.com/doveable-ai/doveable-backend/internal/modules/builder/models"
)

type ContactRepo interface {
	Create(msg *models.ContactMessage) error
}

type contactRepo struct {
	db *gorm.DB
}

func NewContactRepo(db *gorm.DB) ContactRepo {
	return &contactRepo{db: db}
}

func (r *contactRepo) Create(msg *models.ContactMessage) error {
	return r.db.Create(msg).Error
}
