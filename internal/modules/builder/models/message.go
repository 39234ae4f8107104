package models

import (
	"time"

	"github.com/google/uuid"
)

// MessageType discriminates the chat history record variants.
type MessageType string

const (
	MessageUser     MessageType = "user"
	MessageThought  MessageType = "ai-thought"
	MessageResponse MessageType = "ai-response"
)

// ThoughtStatus is the state of an ai-thought entry.
type ThoughtStatus string

const (
	StatusThinking ThoughtStatus = "thinking"
	StatusError    ThoughtStatus = "error"
)

// Message is one record in a conversation log. Which fields are populated
// depends on Type:
//   - user: Text, optional Attachment
//   - ai-thought: Status, optional Error
//   - ai-response: Plan, Files
type Message struct {
	ID         uuid.UUID     `json:"id"`
	Type       MessageType   `json:"type"`
	Text       string        `json:"text,omitempty"`
	Attachment *Attachment   `json:"attachment,omitempty"`
	Status     ThoughtStatus `json:"status,omitempty"`
	Error      string        `json:"error,omitempty"`
	Plan       []string      `json:"plan,omitempty"`
	Files      []string      `json:"files,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
}
