package repositories

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/doveable-ai/doveable-backend/internal/modules/builder/models"
)

type ProjectRepo interface {
	Upsert(project *models.Project) error
	GetOwned(id, userID uuid.UUID) (*models.Project, error)
	ListByUser(userID uuid.UUID) ([]models.ProjectSummary, error)
	Delete(id, userID uuid.UUID) error
	DeleteExpired(now time.Time) (int64, error)
}

type projectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) ProjectRepo {
	return &projectRepo{db: db}
}

func (r *projectRepo) Upsert(project *models.Project) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "code", "messages", "expires_at", "updated_at",
		}),
	}).Create(project).Error
}

func (r *projectRepo) GetOwned(id, userID uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepo) ListByUser(userID uuid.UUID) ([]models.ProjectSummary, error) {
	var summaries []models.ProjectSummary
	err := r.db.Model(&models.Project{}).
		Select("id", "name", "user_id", "created_at", "expires_at").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&summaries).Error

	return summaries, err
}

func (r *projectRepo) Delete(id, userID uuid.UUID) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Project{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *projectRepo) DeleteExpired(now time.Time) (int64, error) {
	result := r.db.Where("expires_at IS NOT NULL AND expires_at < ?", now).Delete(&models.Project{})
	return result.RowsAffected, result.Error
}
