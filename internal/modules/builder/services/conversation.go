package services

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/doveable-ai/doveable-backend/internal/modules/builder/models"
)

// ErrNoPendingEntry means a resolve call targeted a pending entry that does
// not exist (already resolved, or never appended).
var ErrNoPendingEntry = errors.New("conversation has no pending entry")

// ConversationLog is the ordered, append-only interaction history of one
// builder session. At most one entry is pending at a time; resolution
// replaces that entry in place and never reorders the log.
//
// Not safe for concurrent use on its own; the owning session serializes
// access.
type ConversationLog struct {
	entries   []models.Message
	pendingID uuid.UUID
	onChange  func()
}

// NewConversationLog builds a log seeded with existing history (nil for a
// fresh session). onChange fires after every mutation and feeds the
// project's dirty flag; it may be nil.
func NewConversationLog(history []models.Message, onChange func()) *ConversationLog {
	log := &ConversationLog{
		entries:  append([]models.Message(nil), history...),
		onChange: onChange,
	}
	// A pending entry restored from a snapshot can never resolve; convert it
	// to an error so it is not left dangling.
	for i := range log.entries {
		e := &log.entries[i]
		if e.Type == models.MessageThought && e.Status == models.StatusThinking {
			e.Status = models.StatusError
			e.Error = "The request was interrupted before it completed."
		}
	}
	return log
}

// AppendUser appends a user turn with the current timestamp.
func (l *ConversationLog) AppendUser(text string, attachment *models.Attachment) {
	l.entries = append(l.entries, models.Message{
		ID:         uuid.New(),
		Type:       models.MessageUser,
		Text:       text,
		Attachment: attachment,
		Timestamp:  time.Now(),
	})
	l.notify()
}

// AppendPending appends a thinking entry and returns its identifier for
// later resolution. The previous pending entry, if any, is superseded.
func (l *ConversationLog) AppendPending() uuid.UUID {
	id := uuid.New()
	l.entries = append(l.entries, models.Message{
		ID:        id,
		Type:      models.MessageThought,
		Status:    models.StatusThinking,
		Timestamp: time.Now(),
	})
	l.pendingID = id
	l.notify()
	return id
}

// HasPending reports whether an unresolved entry exists.
func (l *ConversationLog) HasPending() bool {
	return l.pendingID != uuid.Nil
}

// ResolvePendingToResponse replaces the pending entry with an assistant
// response, preserving its position in the sequence.
func (l *ConversationLog) ResolvePendingToResponse(id uuid.UUID, planSteps, fileNames []string) error {
	idx, err := l.pendingIndex(id)
	if err != nil {
		return err
	}

	l.entries[idx] = models.Message{
		ID:        id,
		Type:      models.MessageResponse,
		Plan:      planSteps,
		Files:     fileNames,
		Timestamp: time.Now(),
	}
	l.pendingID = uuid.Nil
	l.notify()
	return nil
}

// ResolvePendingToError converts the pending entry to an error entry in
// place.
func (l *ConversationLog) ResolvePendingToError(id uuid.UUID, message string) error {
	idx, err := l.pendingIndex(id)
	if err != nil {
		return err
	}

	l.entries[idx].Status = models.StatusError
	l.entries[idx].Error = message
	l.pendingID = uuid.Nil
	l.notify()
	return nil
}

// Snapshot returns a copy of the log for persistence or display.
func (l *ConversationLog) Snapshot() []models.Message {
	return append([]models.Message(nil), l.entries...)
}

// Len returns the number of entries.
func (l *ConversationLog) Len() int {
	return len(l.entries)
}

func (l *ConversationLog) pendingIndex(id uuid.UUID) (int, error) {
	if l.pendingID == uuid.Nil || l.pendingID != id {
		return 0, ErrNoPendingEntry
	}
	for i := range l.entries {
		if l.entries[i].ID == id {
			return i, nil
		}
	}
	return 0, ErrNoPendingEntry
}

func (l *ConversationLog) notify() {
	if l.onChange != nil {
		l.onChange()
	}
}
