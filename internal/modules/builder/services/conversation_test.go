package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doveable-ai/doveable-backend/internal/modules/builder/models"
)

func TestResolvePreservesOrder(t *testing.T) {
	log := NewConversationLog(nil, nil)

	log.AppendUser("make a landing page", nil)
	id := log.AppendPending()
	require.True(t, log.HasPending())

	require.NoError(t, log.ResolvePendingToResponse(id, []string{"Add hero section"}, []string{"index.html"}))
	assert.False(t, log.HasPending())

	entries := log.Snapshot()
	require.Len(t, entries, 2)
	assert.Equal(t, models.MessageUser, entries[0].Type)
	assert.Equal(t, models.MessageResponse, entries[1].Type)
	assert.Equal(t, id, entries[1].ID, "resolution replaces the entry in place")
	assert.Equal(t, []string{"Add hero section"}, entries[1].Plan)
}

func TestResolvePendingToError(t *testing.T) {
	log := NewConversationLog(nil, nil)

	log.AppendUser("broken request", nil)
	id := log.AppendPending()

	require.NoError(t, log.ResolvePendingToError(id, "The request timed out. Please try again."))

	entries := log.Snapshot()
	require.Len(t, entries, 2)
	assert.Equal(t, models.MessageThought, entries[1].Type)
	assert.Equal(t, models.StatusError, entries[1].Status)
	assert.Equal(t, "The request timed out. Please try again.", entries[1].Error)
}

func TestResolveTwiceFails(t *testing.T) {
	log := NewConversationLog(nil, nil)

	id := log.AppendPending()
	require.NoError(t, log.ResolvePendingToResponse(id, nil, nil))
	assert.ErrorIs(t, log.ResolvePendingToResponse(id, nil, nil), ErrNoPendingEntry)
	assert.ErrorIs(t, log.ResolvePendingToError(id, "late"), ErrNoPendingEntry)
}

func TestRestoredPendingBecomesError(t *testing.T) {
	history := []models.Message{
		{Type: models.MessageUser, Text: "build a shop"},
		{Type: models.MessageThought, Status: models.StatusThinking},
	}

	log := NewConversationLog(history, nil)
	entries := log.Snapshot()
	require.Len(t, entries, 2)
	assert.Equal(t, models.StatusError, entries[1].Status)
	assert.NotEmpty(t, entries[1].Error)
	assert.False(t, log.HasPending())
}

func TestOnChangeFiresPerMutation(t *testing.T) {
	var changes int
	log := NewConversationLog(nil, func() { changes++ })

	log.AppendUser("hi", nil)
	id := log.AppendPending()
	require.NoError(t, log.ResolvePendingToResponse(id, nil, nil))

	assert.Equal(t, 3, changes)
}

func TestSnapshotIsACopy(t *testing.T) {
	log := NewConversationLog(nil, nil)
	log.AppendUser("one", nil)

	snap := log.Snapshot()
	snap[0].Text = "mutated"

	assert.Equal(t, "one", log.Snapshot()[0].Text)
}
