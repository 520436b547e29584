package util

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var maxAmount = decimal.NewFromInt(10_000_000)

// ValidateAmount checks that an amount is positive and below the cap.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.Cmp(decimal.Zero) <= 0 {
		return fmt.Errorf("amount must be positive, got %s", amount)
	}
	if amount.Cmp(maxAmount) >= 0 {
		return fmt.Errorf("amount too large, got %s", amount)
	}
	return nil
}

// ValidateUsername checks the login handle (used as an email-like id).
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username is empty")
	}
	if len(username) < 3 || len(username) > 64 {
		return fmt.Errorf("username must be 3-64 characters")
	}
	if strings.ContainsAny(username, " \t\n") {
		return fmt.Errorf("username must not contain whitespace")
	}
	return nil
}

// ValidateCategory checks an expense category label.
func ValidateCategory(category string) error {
	if category == "" {
		return fmt.Errorf("category is empty")
	}
	if len(category) > 64 {
		return fmt.Errorf("category too long, max 64 characters")
	}
	return nil
}
