package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Profile represents a builder user account with its coin balance and
// personalization preferences. The ID doubles as the owner reference on
// projects.
type Profile struct {
	ID    uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Email string    `gorm:"type:text;unique;not null" json:"email"`

	// Coin balance. Free coins reset daily for non-subscribed accounts,
	// purchased coins never expire.
	FreeCredits      int       `gorm:"default:0" json:"free_credits"`
	PurchasedCredits int       `gorm:"default:0" json:"purchased_credits"`
	LastGrantAt      time.Time `gorm:"autoCreateTime" json:"last_grant_at"`
	Subscribed       bool      `gorm:"default:false" json:"subscribed"`

	// Whether the user linked their own durable storage backend. Projects of
	// users without one auto-expire.
	HasLinkedStorage bool `gorm:"default:false" json:"has_linked_storage"`

	IsAdmin bool `gorm:"default:false" json:"is_admin"`

	// Personalization preferences fed into the prompt builder.
	PreferredTechStack pq.StringArray `gorm:"type:text[]" json:"preferred_tech_stack"`
	ProjectTypes       pq.StringArray `gorm:"type:text[]" json:"project_types"`
	LearningFocus      pq.StringArray `gorm:"type:text[]" json:"learning_focus"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name
func (Profile) TableName() string {
	return "profiles"
}

// BeforeCreate sets UUID before creating
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TotalCredits is the spendable balance.
func (p *Profile) TotalCredits() int {
	return p.FreeCredits + p.PurchasedCredits
}
