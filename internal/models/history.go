package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// HistoryEntry is one row of the append-only balance ledger.
// Rows are never updated or deleted. For every row
// new_balance == remaining_balance + added_balance.
type HistoryEntry struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	UserID           uint            `gorm:"index;not null" json:"user_id"`
	RemainingBalance decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"remaining_balance"`
	AddedBalance     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"added_balance"`
	NewBalance       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"new_balance"`
	CreatedAt        time.Time       `gorm:"index" json:"history_date"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
