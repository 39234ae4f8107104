package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/doveable-ai/doveable-backend/internal/core/llm"
	"github.com/doveable-ai/doveable-backend/internal/modules/builder/models"
	"github.com/doveable-ai/doveable-backend/internal/modules/builder/repositories"
	"github.com/doveable-ai/doveable-backend/internal/shared/utils"
)

var (
	// ErrGenerationInFlight means the session already has an outstanding
	// generation request. New requests are rejected, not queued.
	ErrGenerationInFlight = errors.New("a generation request is already in progress")

	// ErrEmptyPrompt means neither prompt text nor an attachment was given.
	ErrEmptyPrompt = errors.New("a prompt or an image attachment is required")

	// ErrSessionNotFound means no open session matches the id and owner.
	ErrSessionNotFound = errors.New("session not found")
)

// Session is the server-side interactive state of one open project: the
// conversation log, the current code bundle and the autosave machine.
type Session struct {
	ID     uuid.UUID
	UserID uuid.UUID

	mu          sync.Mutex
	projectID   uuid.UUID // Nil until the first save establishes identity
	projectName string
	code        *models.GeneratedCode
	log         *ConversationLog
	saver       *Autosaver
	generating  bool
	lastSaveErr error
}

// SessionView is the client-facing snapshot of a session.
type SessionView struct {
	ID         uuid.UUID             `json:"id"`
	ProjectID  *uuid.UUID            `json:"project_id,omitempty"`
	Name       string                `json:"name,omitempty"`
	Code       *models.GeneratedCode `json:"code,omitempty"`
	Messages   []models.Message      `json:"messages"`
	SaveStatus SaveState             `json:"save_status"`
	Generating bool                  `json:"generating"`
	SaveError  string                `json:"save_error,omitempty"`
}

// GenerateResult is returned after a successful generation.
type GenerateResult struct {
	Code             *models.GeneratedCode `json:"code"`
	PlanSteps        []string              `json:"plan_steps"`
	Files            []string              `json:"files"`
	FreeCredits      int                   `json:"free_credits"`
	PurchasedCredits int                   `json:"purchased_credits"`
}

// SessionService owns all open sessions and orchestrates the generate flow:
// daily grant → credit gate → conversation bookkeeping → backend call →
// charge on success → autosave.
type SessionService struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session

	projects  repositories.ProjectRepo
	profiles  repositories.ProfileRepo
	credits   *CreditService
	generator *GenerationService

	quiet      time.Duration
	projectTTL time.Duration
}

func NewSessionService(
	projects repositories.ProjectRepo,
	profiles repositories.ProfileRepo,
	credits *CreditService,
	generator *GenerationService,
	quiet, projectTTL time.Duration,
) *SessionService {
	return &SessionService{
		sessions:   make(map[uuid.UUID]*Session),
		projects:   projects,
		profiles:   profiles,
		credits:    credits,
		generator:  generator,
		quiet:      quiet,
		projectTTL: projectTTL,
	}
}

// Open creates a session, either empty or loaded from an existing project
// owned by the user.
func (s *SessionService) Open(userID uuid.UUID, projectID *uuid.UUID) (*SessionView, error) {
	sess := &Session{
		ID:     uuid.New(),
		UserID: userID,
	}

	var history []models.Message
	if projectID != nil {
		project, err := s.projects.GetOwned(*projectID, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load project: %w", err)
		}

		sess.projectID = project.ID
		sess.projectName = project.Name

		if len(project.Code) > 0 {
			var code models.GeneratedCode
			if err := json.Unmarshal(project.Code, &code); err != nil {
				return nil, fmt.Errorf("corrupt code snapshot: %w", err)
			}
			sess.code = &code
		}
		if len(project.Messages) > 0 {
			if err := json.Unmarshal(project.Messages, &history); err != nil {
				return nil, fmt.Errorf("corrupt message snapshot: %w", err)
			}
		}
	}

	sess.saver = NewAutosaver(s.quiet, func() error {
		return s.saveSession(sess)
	})
	sess.log = NewConversationLog(history, sess.saver.MarkDirty)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return s.view(sess), nil
}

// Get returns the current view of an open session.
func (s *SessionService) Get(sessionID, userID uuid.UUID) (*SessionView, error) {
	sess, err := s.lookup(sessionID, userID)
	if err != nil {
		return nil, err
	}
	return s.view(sess), nil
}

// Close flushes unsaved changes and discards the session.
func (s *SessionService) Close(sessionID, userID uuid.UUID) error {
	sess, err := s.lookup(sessionID, userID)
	if err != nil {
		return err
	}

	sess.saver.Flush()
	sess.saver.Stop()

	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}

// Generate runs one generation request for the session. At most one request
// is in flight per session; a second one is rejected.
func (s *SessionService) Generate(ctx context.Context, sessionID, userID uuid.UUID, email, prompt string, attachment *models.Attachment) (*GenerateResult, error) {
	sess, err := s.lookup(sessionID, userID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if sess.generating {
		sess.mu.Unlock()
		return nil, ErrGenerationInFlight
	}
	if prompt == "" && attachment == nil {
		sess.mu.Unlock()
		return nil, ErrEmptyPrompt
	}
	sess.generating = true
	sess.mu.Unlock()

	defer func() {
		sess.mu.Lock()
		sess.generating = false
		sess.mu.Unlock()
	}()

	// Daily grant is applied before the balance check so a stale balance
	// never blocks generation past a day boundary.
	profile, err := s.credits.LoadProfile(userID, email)
	if err != nil {
		return nil, err
	}
	if !s.credits.CheckAndReserve(profile) {
		return nil, ErrInsufficientCredits
	}

	sess.mu.Lock()
	sess.log.AppendUser(prompt, attachment)
	pendingID := sess.log.AppendPending()
	existing := sess.code
	sess.mu.Unlock()

	req := &llm.GenerationRequest{
		Prompt:          prompt,
		Attachment:      attachment,
		ExistingCode:    existing,
		PersonalContext: BuildPersonalContext(profile),
	}

	code, genErr := s.generator.Generate(ctx, req)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if genErr != nil {
		if err := sess.log.ResolvePendingToError(pendingID, userFacingError(genErr)); err != nil {
			utils.LogError("failed to resolve pending entry", err, map[string]interface{}{
				"session_id": sess.ID.String(),
			})
		}
		return nil, genErr
	}

	planSteps := PlanSteps(code.Plan)
	files := code.FileNames()

	// Replace the code wholesale and charge only now that the generation
	// succeeded.
	sess.code = code
	if err := sess.log.ResolvePendingToResponse(pendingID, planSteps, files); err != nil {
		utils.LogError("failed to resolve pending entry", err, map[string]interface{}{
			"session_id": sess.ID.String(),
		})
	}

	if err := s.credits.Spend(profile); err != nil {
		utils.LogError("credit spend failed after generation", err, map[string]interface{}{
			"user_id": userID.String(),
		})
	}

	return &GenerateResult{
		Code:             code,
		PlanSteps:        planSteps,
		Files:            files,
		FreeCredits:      profile.FreeCredits,
		PurchasedCredits: profile.PurchasedCredits,
	}, nil
}

// UpdateCode applies a manual editor change and marks the session dirty.
func (s *SessionService) UpdateCode(sessionID, userID uuid.UUID, code *models.GeneratedCode) (*SessionView, error) {
	sess, err := s.lookup(sessionID, userID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	sess.code = code
	sess.mu.Unlock()
	sess.saver.MarkDirty()

	return s.view(sess), nil
}

// saveSession persists the latest snapshot of the session, establishing the
// project identity on the first save. Called by the autosaver after the
// quiet interval; snapshots are taken here, not when the timer was armed.
func (s *SessionService) saveSession(sess *Session) error {
	sess.mu.Lock()
	if sess.code == nil {
		// Nothing generated yet; a project is only created once code exists.
		sess.mu.Unlock()
		return nil
	}

	if sess.projectID == uuid.Nil {
		sess.projectID = uuid.New()
	}
	if sess.projectName == "" {
		sess.projectName = sess.code.Title
		if sess.projectName == "" {
			sess.projectName = "Untitled project"
		}
	}

	codeJSON, err := json.Marshal(sess.code)
	if err != nil {
		sess.mu.Unlock()
		return fmt.Errorf("failed to serialize code: %w", err)
	}
	messagesJSON, err := json.Marshal(sess.log.Snapshot())
	if err != nil {
		sess.mu.Unlock()
		return fmt.Errorf("failed to serialize messages: %w", err)
	}

	project := &models.Project{
		ID:       sess.projectID,
		Name:     sess.projectName,
		UserID:   sess.UserID,
		Code:     codeJSON,
		Messages: messagesJSON,
	}
	sess.mu.Unlock()

	// Projects of users without linked durable storage auto-expire.
	if profile, err := s.profiles.GetByID(sess.UserID); err == nil && profile.HasLinkedStorage {
		project.ExpiresAt = nil
	} else {
		expires := time.Now().Add(s.projectTTL)
		project.ExpiresAt = &expires
	}

	if err := s.projects.Upsert(project); err != nil {
		sess.mu.Lock()
		sess.lastSaveErr = err
		sess.mu.Unlock()
		utils.LogError("autosave failed", err, map[string]interface{}{
			"session_id": sess.ID.String(),
			"project_id": project.ID.String(),
		})
		return err
	}

	sess.mu.Lock()
	sess.lastSaveErr = nil
	sess.mu.Unlock()
	return nil
}

func (s *SessionService) lookup(sessionID, userID uuid.UUID) (*Session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	s.mu.Unlock()

	if !ok || sess.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *SessionService) view(sess *Session) *SessionView {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	view := &SessionView{
		ID:         sess.ID,
		Name:       sess.projectName,
		Code:       sess.code,
		Messages:   sess.log.Snapshot(),
		SaveStatus: sess.saver.State(),
		Generating: sess.generating,
	}
	if sess.projectID != uuid.Nil {
		id := sess.projectID
		view.ProjectID = &id
	}
	if sess.lastSaveErr != nil {
		view.SaveError = "The last save attempt failed. Your changes are kept and will be retried."
	}
	return view
}

// userFacingError converts a generation failure into the inline message
// shown in the conversation.
func userFacingError(err error) string {
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		return "The AI backend is not configured. Please contact support."
	case errors.Is(err, llm.ErrMalformedResponse), errors.Is(err, llm.ErrSchemaViolation):
		return "The AI returned a response that could not be understood. Please try again."
	case errors.Is(err, context.DeadlineExceeded):
		return "The request timed out. Please try again."
	default:
		return fmt.Sprintf("Failed to generate code: %v", err)
	}
}
