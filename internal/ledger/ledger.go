package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/CristianAmparoSynermaxx/ExpenseTracker/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service keeps the per-user balance and the append-only history ledger
// mutually consistent with the expense table. Every mutating operation runs
// in a single database transaction; partial application is never observable.
type Service struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// ---------- balance ----------

// GetBalance returns the current balance. A user without a Balance row
// has never funded the account and reads as ErrNotFound.
func (s *Service) GetBalance(userID uint) (decimal.Decimal, error) {
	var bal models.Balance
	if err := s.DB.Where("user_id = ?", userID).First(&bal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, fmt.Errorf("%w for user %d", ErrBalanceNotFound, userID)
		}
		return decimal.Zero, serviceErr("get balance", err)
	}
	return bal.Amount, nil
}

// AdjustBalance credits delta to the user's balance, creating the Balance
// row when absent, and appends a HistoryEntry. The addition happens inside
// the UPDATE expression so concurrent increments for the same user cannot
// lose each other.
func (s *Service) AdjustBalance(userID uint, delta decimal.Decimal) (decimal.Decimal, error) {
	if delta.Cmp(decimal.Zero) <= 0 {
		return decimal.Zero, fmt.Errorf("%w: added balance must be positive", ErrInvalidArgument)
	}

	var newAmount decimal.Decimal
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.creditBalance(tx, userID, delta); err != nil {
			return err
		}
		var err error
		newAmount, err = s.appendHistory(tx, userID, delta)
		return err
	})
	if err != nil {
		return decimal.Zero, serviceErr("adjust balance", err)
	}
	return newAmount, nil
}

// SetBalance overwrites the balance with newAmount and records the implied
// delta in the history ledger. Fails when the Balance row does not exist.
func (s *Service) SetBalance(userID uint, newAmount decimal.Decimal) (decimal.Decimal, error) {
	if newAmount.Cmp(decimal.Zero) < 0 {
		return decimal.Zero, fmt.Errorf("%w: new balance must not be negative", ErrInvalidArgument)
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var bal models.Balance
		if err := tx.Where("user_id = ?", userID).First(&bal).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w for user %d", ErrBalanceNotFound, userID)
			}
			return err
		}

		current := bal.Amount
		if err := tx.Model(&models.Balance{}).
			Where("user_id = ?", userID).
			Update("amount", newAmount).Error; err != nil {
			return err
		}

		entry := models.HistoryEntry{
			UserID:           userID,
			RemainingBalance: current,
			AddedBalance:     newAmount.Sub(current),
			NewBalance:       newAmount,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return decimal.Zero, serviceErr("set balance", err)
	}
	return newAmount, nil
}

// ListHistory returns history rows newest first. An empty page is a valid
// result, not an error.
func (s *Service) ListHistory(userID uint, page, pageSize int) ([]models.HistoryEntry, int64, error) {
	if page <= 0 {
		return nil, 0, fmt.Errorf("%w: invalid page number", ErrInvalidArgument)
	}
	if pageSize <= 0 {
		return nil, 0, fmt.Errorf("%w: invalid limit", ErrInvalidArgument)
	}

	base := s.DB.Model(&models.HistoryEntry{}).Where("user_id = ?", userID)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, serviceErr("count history", err)
	}

	var entries []models.HistoryEntry
	if err := base.Session(&gorm.Session{}).
		Order("created_at DESC, id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&entries).Error; err != nil {
		return nil, 0, serviceErr("list history", err)
	}
	return entries, total, nil
}

// ---------- expenses ----------

// AddExpense records a new expense and debits the balance by its amount in
// one transaction. A user without a Balance row gets one materialized at
// -amount, so the first expense is never silently dropped from the balance.
func (s *Service) AddExpense(userID uint, title, category string, amount decimal.Decimal) (decimal.Decimal, error) {
	title = strings.TrimSpace(title)
	category = strings.TrimSpace(category)
	if title == "" {
		return decimal.Zero, fmt.Errorf("%w: title is required", ErrInvalidArgument)
	}
	if category == "" {
		return decimal.Zero, fmt.Errorf("%w: category is required", ErrInvalidArgument)
	}
	if amount.Cmp(decimal.Zero) <= 0 {
		return decimal.Zero, fmt.Errorf("%w: amount must be positive", ErrInvalidArgument)
	}

	var newAmount decimal.Decimal
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		expense := models.Expense{
			UserID:   userID,
			Title:    title,
			Category: category,
			Amount:   amount,
		}
		if err := tx.Create(&expense).Error; err != nil {
			return err
		}

		if err := s.creditBalance(tx, userID, amount.Neg()); err != nil {
			return err
		}
		var err error
		newAmount, err = s.appendHistory(tx, userID, amount.Neg())
		return err
	})
	if err != nil {
		return decimal.Zero, serviceErr("add expense", err)
	}
	return newAmount, nil
}

// UpdateExpense rewrites an expense's fields and moves the balance by the
// difference between the old and new amounts.
func (s *Service) UpdateExpense(expenseID, userID uint, title, category string, amount decimal.Decimal) (decimal.Decimal, error) {
	title = strings.TrimSpace(title)
	category = strings.TrimSpace(category)
	if title == "" {
		return decimal.Zero, fmt.Errorf("%w: title is required", ErrInvalidArgument)
	}
	if category == "" {
		return decimal.Zero, fmt.Errorf("%w: category is required", ErrInvalidArgument)
	}
	if amount.Cmp(decimal.Zero) <= 0 {
		return decimal.Zero, fmt.Errorf("%w: amount must be positive", ErrInvalidArgument)
	}

	var newAmount decimal.Decimal
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var expense models.Expense
		if err := tx.Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: expense %d", ErrNotFound, expenseID)
			}
			return err
		}

		difference := amount.Sub(expense.Amount)
		if err := s.addToExistingBalance(tx, userID, difference.Neg()); err != nil {
			return err
		}

		if err := tx.Model(&expense).Updates(models.Expense{
			Title:    title,
			Category: category,
			Amount:   amount,
		}).Error; err != nil {
			return err
		}

		if difference.IsZero() {
			// amount unchanged, nothing moved on the ledger
			var bal models.Balance
			if err := tx.Where("user_id = ?", userID).First(&bal).Error; err != nil {
				return err
			}
			newAmount = bal.Amount
			return nil
		}
		var err error
		newAmount, err = s.appendHistory(tx, userID, difference.Neg())
		return err
	})
	if err != nil {
		return decimal.Zero, serviceErr("update expense", err)
	}
	return newAmount, nil
}

// DeleteExpense removes the expense and credits its amount back to the
// owner's balance. When the owning Balance row is missing the refund has
// nowhere to land, so the whole operation aborts and the expense stays.
func (s *Service) DeleteExpense(expenseID uint) (decimal.Decimal, error) {
	var newAmount decimal.Decimal
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var expense models.Expense
		if err := tx.Where("id = ?", expenseID).First(&expense).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: expense %d", ErrNotFound, expenseID)
			}
			return err
		}

		if err := tx.Delete(&expense).Error; err != nil {
			return err
		}

		if err := s.addToExistingBalance(tx, expense.UserID, expense.Amount); err != nil {
			return err
		}
		var err error
		newAmount, err = s.appendHistory(tx, expense.UserID, expense.Amount)
		return err
	})
	if err != nil {
		return decimal.Zero, serviceErr("delete expense", err)
	}
	return newAmount, nil
}

// ListExpenses returns one page of a user's expenses newest first, the total
// row count, and the summed amount over the whole (optionally filtered) set.
func (s *Service) ListExpenses(userID uint, page, pageSize int, filterBy string) ([]models.Expense, int64, decimal.Decimal, error) {
	if page <= 0 {
		return nil, 0, decimal.Zero, fmt.Errorf("%w: invalid page number", ErrInvalidArgument)
	}
	if pageSize <= 0 {
		return nil, 0, decimal.Zero, fmt.Errorf("%w: invalid limit", ErrInvalidArgument)
	}

	base := s.DB.Model(&models.Expense{}).Where("user_id = ?", userID)
	if filterBy != "" {
		base = base.Where("title LIKE ?", "%"+filterBy+"%")
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, decimal.Zero, serviceErr("count expenses", err)
	}

	var sum decimal.Decimal
	row := base.Session(&gorm.Session{}).Select("COALESCE(SUM(amount), 0)").Row()
	if err := row.Scan(&sum); err != nil {
		return nil, 0, decimal.Zero, serviceErr("sum expenses", err)
	}

	var expenses []models.Expense
	if err := base.Session(&gorm.Session{}).
		Order("created_at DESC, id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&expenses).Error; err != nil {
		return nil, 0, decimal.Zero, serviceErr("list expenses", err)
	}
	return expenses, total, sum, nil
}

// ---------- internals ----------

// creditBalance applies delta inside the UPDATE expression, inserting the
// row when the user has no balance yet. Must run inside a transaction.
func (s *Service) creditBalance(tx *gorm.DB, userID uint, delta decimal.Decimal) error {
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"amount": gorm.Expr("amount + ?", delta),
		}),
	}).Create(&models.Balance{UserID: userID, Amount: delta}).Error
}

// addToExistingBalance applies delta to an existing Balance row only.
// ErrNotFound when the row is absent; callers rely on the surrounding
// transaction to roll their own writes back in that case.
func (s *Service) addToExistingBalance(tx *gorm.DB, userID uint, delta decimal.Decimal) error {
	res := tx.Model(&models.Balance{}).
		Where("user_id = ?", userID).
		Update("amount", gorm.Expr("amount + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w for user %d", ErrBalanceNotFound, userID)
	}
	return nil
}

// appendHistory re-reads the balance written earlier in the same transaction
// and appends the ledger row for delta. Returns the post-change amount.
func (s *Service) appendHistory(tx *gorm.DB, userID uint, delta decimal.Decimal) (decimal.Decimal, error) {
	var bal models.Balance
	if err := tx.Where("user_id = ?", userID).First(&bal).Error; err != nil {
		return decimal.Zero, err
	}

	entry := models.HistoryEntry{
		UserID:           userID,
		RemainingBalance: bal.Amount.Sub(delta),
		AddedBalance:     delta,
		NewBalance:       bal.Amount,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return decimal.Zero, err
	}
	return bal.Amount, nil
}
