package services

import (
	"time"

	"github.com/robfig/cron/v3"

	"github.com/doveable-ai/doveable-backend/internal/modules/builder/repositories"
	"github.com/doveable-ai/doveable-backend/internal/shared/utils"
)

// CleanupService sweeps expired projects. Projects saved by users without
// linked durable storage carry an expiry timestamp; anything past it is
// removed.
type CleanupService struct {
	cron     *cron.Cron
	projects repositories.ProjectRepo
}

func NewCleanupService(projects repositories.ProjectRepo) *CleanupService {
	return &CleanupService{
		cron:     cron.New(),
		projects: projects,
	}
}

// Start schedules the hourly sweep and runs one immediately so restarts
// don't leave expired rows around for up to an hour.
func (s *CleanupService) Start() error {
	if _, err := s.cron.AddFunc("@hourly", s.sweep); err != nil {
		return err
	}
	s.cron.Start()
	go s.sweep()
	return nil
}

// Stop halts the schedule.
func (s *CleanupService) Stop() {
	s.cron.Stop()
}

func (s *CleanupService) sweep() {
	deleted, err := s.projects.DeleteExpired(time.Now())
	if err != nil {
		utils.LogError("expired project sweep failed", err, nil)
		return
	}
	if deleted > 0 {
		utils.LogInfo("expired projects removed", map[string]interface{}{
			"count": deleted,
		})
	}
}
