package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Balance holds the running account balance, one row per user.
// Absence of a row means the user has never funded the account; the
// row is materialized on first write.
type Balance struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    uint            `gorm:"uniqueIndex;not null" json:"user_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	CreatedAt time.Time       `json:"-"`
	UpdatedAt time.Time       `json:"-"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
