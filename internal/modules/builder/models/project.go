package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Project is a persisted unit combining the current code bundle and the
// conversation history, owned by a profile. Code and Messages are JSONB
// snapshots of GeneratedCode and []Message.
type Project struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name   string    `gorm:"type:text;not null" json:"name"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	Code     datatypes.JSON `gorm:"type:jsonb" json:"code"`
	Messages datatypes.JSON `gorm:"type:jsonb" json:"messages"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
	ExpiresAt *time.Time `gorm:"index" json:"expires_at,omitempty"`

	// Relationship
	Owner Profile `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name
func (Project) TableName() string {
	return "projects"
}

// BeforeCreate sets UUID before creating
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProjectSummary is the listing shape for the dashboard, without the code
// and message payloads.
type ProjectSummary struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	UserID    uuid.UUID  `json:"user_id"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
