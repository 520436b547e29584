package util

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateAmount(t *testing.T) {
	cases := []struct {
		name    string
		amount  string
		wantErr bool
	}{
		{"positive", "25.50", false},
		{"one cent", "0.01", false},
		{"just below cap", "9999999.99", false},
		{"zero", "0", true},
		{"negative", "-5", true},
		{"at cap", "10000000", true},
		{"above cap", "10000001", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			amount, err := decimal.NewFromString(tc.amount)
			if err != nil {
				t.Fatalf("bad test amount %q: %v", tc.amount, err)
			}
			err = ValidateAmount(amount)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateAmount(%s) error = %v, wantErr %v", tc.amount, err, tc.wantErr)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	cases := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"plain handle", "cristian", false},
		{"email-like", "user@example.com", false},
		{"minimum length", "abc", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"too short", "ab", true},
		{"too long", strings.Repeat("a", 65), true},
		{"inner space", "john doe", true},
		{"tab", "john\tdoe", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateUsername(tc.username)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateUsername(%q) error = %v, wantErr %v", tc.username, err, tc.wantErr)
			}
		})
	}
}

func TestValidateCategory(t *testing.T) {
	cases := []struct {
		name     string
		category string
		wantErr  bool
	}{
		{"plain", "Food", false},
		{"with space", "Personal Care", false},
		{"empty", "", true},
		{"too long", strings.Repeat("x", 65), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateCategory(tc.category)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateCategory(%q) error = %v, wantErr %v", tc.category, err, tc.wantErr)
			}
		})
	}
}
