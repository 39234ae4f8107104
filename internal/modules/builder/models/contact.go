package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactMessage is a message submitted through the contact form.
type ContactMessage struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Name    string    `gorm:"type:text;not null" json:"name"`
	Email   string    `gorm:"type:text" json:"email,omitempty"`
	Message string    `gorm:"type:text;not null" json:"message"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name
func (ContactMessage) TableName() string {
	return "contact_messages"
}

// BeforeCreate sets UUID before creating
func (m *ContactMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// CoinPlan is a purchasable coin bundle shown on the upgrade screen.
type CoinPlan struct {
	ID       int     `json:"id"`
	Coins    int     `json:"coins"`
	PriceUSD float64 `json:"price_usd"`
	PriceID  string  `json:"price_id"`
}

// CoinPlans is the static purchase catalog.
var CoinPlans = []CoinPlan{
	{ID: 1, Coins: 20, PriceUSD: 1, PriceID: "price_basic_20"},
	{ID: 2, Coins: 30, PriceUSD: 2, PriceID: "price_pro_30"},
}
