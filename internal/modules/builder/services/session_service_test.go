package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doveable-ai/doveable-backend/internal/core/llm"
	"github.com/doveable-ai/doveable-backend/internal/modules/builder/models"
)

const validReply = `{
	"title": "Landing Page",
	"plan": "* Add a hero section\n* Style the call to action",
	"html_code": "<h1>Welcome</h1>",
	"css_code": "h1 { color: navy; }",
	"js_code": "console.log('ready');",
	"external_css_files": [],
	"external_js_files": []
}`

func newTestSessionService(provider llm.LLMProvider) (*SessionService, *fakeProjectRepo, *fakeProfileRepo) {
	projects := newFakeProjectRepo()
	profiles := newFakeProfileRepo()
	credits := NewCreditService(profiles, 1, 10)
	generator := NewGenerationService(provider, 5*time.Second)
	svc := NewSessionService(projects, profiles, credits, generator, 20*time.Millisecond, 48*time.Hour)
	return svc, projects, profiles
}

func TestGenerateChargesOnSuccess(t *testing.T) {
	svc, _, profiles := newTestSessionService(&fakeProvider{replies: []string{validReply}})
	userID := uuid.New()

	view, err := svc.Open(userID, nil)
	require.NoError(t, err)

	result, err := svc.Generate(context.Background(), view.ID, userID, "u@test.dev", "build a landing page", nil)
	require.NoError(t, err)

	assert.Equal(t, "Landing Page", result.Code.Title)
	assert.Equal(t, []string{"Add a hero section", "Style the call to action"}, result.PlanSteps)
	assert.Contains(t, result.Files, "index.html")
	assert.Equal(t, 9, result.FreeCredits, "one credit charged after success")

	stored, err := profiles.GetByID(userID)
	require.NoError(t, err)
	assert.Equal(t, 9, stored.FreeCredits)

	current, err := svc.Get(view.ID, userID)
	require.NoError(t, err)
	require.Len(t, current.Messages, 2)
	assert.Equal(t, models.MessageUser, current.Messages[0].Type)
	assert.Equal(t, models.MessageResponse, current.Messages[1].Type)
}

func TestGenerateProviderFailureDoesNotCharge(t *testing.T) {
	svc, _, profiles := newTestSessionService(&fakeProvider{err: errors.New("connection refused")})
	userID := uuid.New()

	view, err := svc.Open(userID, nil)
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), view.ID, userID, "u@test.dev", "build something", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrTransport)

	stored, err := profiles.GetByID(userID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.FreeCredits, "failed generation is free")

	current, err := svc.Get(view.ID, userID)
	require.NoError(t, err)
	require.Len(t, current.Messages, 2)
	assert.Equal(t, models.StatusError, current.Messages[1].Status)
	assert.NotEmpty(t, current.Messages[1].Error)
	assert.Nil(t, current.Code)
}

func TestGenerateMalformedReplyKeepsPriorCode(t *testing.T) {
	provider := &fakeProvider{replies: []string{validReply, "this is not json"}}
	svc, _, _ := newTestSessionService(provider)
	userID := uuid.New()

	view, err := svc.Open(userID, nil)
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), view.ID, userID, "u@test.dev", "build it", nil)
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), view.ID, userID, "u@test.dev", "now break", nil)
	assert.ErrorIs(t, err, llm.ErrMalformedResponse)

	current, err := svc.Get(view.ID, userID)
	require.NoError(t, err)
	require.NotNil(t, current.Code)
	assert.Equal(t, "Landing Page", current.Code.Title, "failed edit leaves the working code untouched")
}

func TestGenerateInsufficientCredits(t *testing.T) {
	svc, _, profiles := newTestSessionService(&fakeProvider{replies: []string{validReply}})
	userID := uuid.New()

	// Subscribed accounts never receive the daily grant, so a zero balance
	// stays zero.
	require.NoError(t, profiles.Save(&models.Profile{ID: userID, Email: "u@test.dev", Subscribed: true}))

	view, err := svc.Open(userID, nil)
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), view.ID, userID, "u@test.dev", "anything", nil)
	assert.ErrorIs(t, err, ErrInsufficientCredits)

	current, err := svc.Get(view.ID, userID)
	require.NoError(t, err)
	assert.Empty(t, current.Messages, "rejected requests leave no trace in the conversation")
}

func TestGenerateEmptyPrompt(t *testing.T) {
	svc, _, _ := newTestSessionService(&fakeProvider{replies: []string{validReply}})
	userID := uuid.New()

	view, err := svc.Open(userID, nil)
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), view.ID, userID, "u@test.dev", "", nil)
	assert.ErrorIs(t, err, ErrEmptyPrompt)
}

func TestFirstSaveEstablishesProject(t *testing.T) {
	svc, projects, _ := newTestSessionService(&fakeProvider{replies: []string{validReply}})
	userID := uuid.New()

	view, err := svc.Open(userID, nil)
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), view.ID, userID, "u@test.dev", "build it", nil)
	require.NoError(t, err)

	require.NoError(t, svc.Close(view.ID, userID))

	saved := projects.single()
	require.NotNil(t, saved)
	assert.NotEqual(t, uuid.Nil, saved.ID)
	assert.Equal(t, "Landing Page", saved.Name)
	assert.Equal(t, userID, saved.UserID)
	require.NotNil(t, saved.ExpiresAt, "projects without linked storage expire")
	assert.True(t, saved.ExpiresAt.After(time.Now()))
}

func TestLinkedStorageProjectsNeverExpire(t *testing.T) {
	svc, projects, profiles := newTestSessionService(&fakeProvider{replies: []string{validReply}})
	userID := uuid.New()
	require.NoError(t, profiles.Save(&models.Profile{ID: userID, Email: "u@test.dev", FreeCredits: 5, HasLinkedStorage: true}))

	view, err := svc.Open(userID, nil)
	require.NoError(t, err)

	_, err = svc.Generate(context.Background(), view.ID, userID, "u@test.dev", "build it", nil)
	require.NoError(t, err)
	require.NoError(t, svc.Close(view.ID, userID))

	saved := projects.single()
	require.NotNil(t, saved)
	assert.Nil(t, saved.ExpiresAt)
}

func TestAutosaveCoalescesEditsToOneUpsert(t *testing.T) {
	svc, projects, _ := newTestSessionService(&fakeProvider{})
	userID := uuid.New()

	view, err := svc.Open(userID, nil)
	require.NoError(t, err)

	first := &models.GeneratedCode{Title: "v1", HTML: "<p>1</p>"}
	second := &models.GeneratedCode{Title: "v2", HTML: "<p>2</p>"}

	_, err = svc.UpdateCode(view.ID, userID, first)
	require.NoError(t, err)
	_, err = svc.UpdateCode(view.ID, userID, second)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return projects.upsertCount() == 1
	}, time.Second, 10*time.Millisecond)

	saved := projects.single()
	require.NotNil(t, saved)

	var code models.GeneratedCode
	require.NoError(t, json.Unmarshal(saved.Code, &code))
	assert.Equal(t, "v2", code.Title, "the save persists the snapshot current when the timer fires")
}

func TestOpenLoadsExistingProject(t *testing.T) {
	svc, projects, _ := newTestSessionService(&fakeProvider{})
	userID := uuid.New()
	projectID := uuid.New()

	code := &models.GeneratedCode{Title: "Restored", HTML: "<p>hi</p>", ExternalCSS: []string{}, ExternalJS: []string{}}
	codeJSON, err := json.Marshal(code)
	require.NoError(t, err)
	messagesJSON, err := json.Marshal([]models.Message{
		{ID: uuid.New(), Type: models.MessageUser, Text: "original prompt"},
	})
	require.NoError(t, err)

	require.NoError(t, projects.Upsert(&models.Project{
		ID:       projectID,
		Name:     "Restored",
		UserID:   userID,
		Code:     codeJSON,
		Messages: messagesJSON,
	}))

	view, err := svc.Open(userID, &projectID)
	require.NoError(t, err)

	require.NotNil(t, view.Code)
	assert.Equal(t, "Restored", view.Code.Title)
	require.Len(t, view.Messages, 1)
	assert.Equal(t, "original prompt", view.Messages[0].Text)
	require.NotNil(t, view.ProjectID)
	assert.Equal(t, projectID, *view.ProjectID)
}

func TestSessionOwnership(t *testing.T) {
	svc, _, _ := newTestSessionService(&fakeProvider{})
	owner := uuid.New()

	view, err := svc.Open(owner, nil)
	require.NoError(t, err)

	_, err = svc.Get(view.ID, uuid.New())
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
