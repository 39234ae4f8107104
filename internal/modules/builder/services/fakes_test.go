package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/doveable-ai/doveable-backend/internal/modules/builder/models"
)

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*models.Profile
	saveErr  error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[uuid.UUID]*models.Profile)}
}

func (r *fakeProfileRepo) GetByID(id uuid.UUID) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProfileRepo) GetOrCreate(id uuid.UUID, email string, initialCredits int) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.profiles[id]; ok {
		copied := *p
		return &copied, nil
	}
	p := &models.Profile{ID: id, Email: email, FreeCredits: initialCredits}
	r.profiles[id] = p
	copied := *p
	return &copied, nil
}

func (r *fakeProfileRepo) Save(profile *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	copied := *profile
	r.profiles[profile.ID] = &copied
	return nil
}

func (r *fakeProfileRepo) List() ([]models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, *p)
	}
	return out, nil
}

type fakeProjectRepo struct {
	mu       sync.Mutex
	projects map[uuid.UUID]*models.Project
	upserts  int
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[uuid.UUID]*models.Project)}
}

func (r *fakeProjectRepo) Upsert(project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *project
	r.projects[project.ID] = &copied
	r.upserts++
	return nil
}

func (r *fakeProjectRepo) GetOwned(id, userID uuid.UUID) (*models.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok || p.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakeProjectRepo) ListByUser(userID uuid.UUID) ([]models.ProjectSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ProjectSummary
	for _, p := range r.projects {
		if p.UserID == userID {
			out = append(out, models.ProjectSummary{ID: p.ID, Name: p.Name})
		}
	}
	return out, nil
}

func (r *fakeProjectRepo) Delete(id, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok || p.UserID != userID {
		return gorm.ErrRecordNotFound
	}
	delete(r.projects, id)
	return nil
}

func (r *fakeProjectRepo) DeleteExpired(now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, p := range r.projects {
		if p.ExpiresAt != nil && p.ExpiresAt.Before(now) {
			delete(r.projects, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeProjectRepo) upsertCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.upserts
}

func (r *fakeProjectRepo) single() *models.Project {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.projects {
		copied := *p
		return &copied
	}
	return nil
}

// fakeProvider replays canned replies in order, or a fixed error.
type fakeProvider struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   int
}

func (p *fakeProvider) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string, image *models.Attachment) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	if len(p.replies) == 0 {
		return "", errors.New("no canned reply")
	}
	reply := p.replies[0]
	if len(p.replies) > 1 {
		p.replies = p.replies[1:]
	}
	return reply, nil
}

func (p *fakeProvider) GetProviderName() string {
	return "fake"
}
