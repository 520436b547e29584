package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a single recorded expense owned by a user.
type Expense struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"index;not null" json:"user_id"`
	Title     string          `gorm:"size:128;not null" json:"title"`
	Category  string          `gorm:"size:64;not null" json:"category"`
	Amount    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	CreatedAt time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt time.Time       `json:"-"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
