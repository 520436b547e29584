package ledger

import (
	"errors"
	"fmt"
)

// Sentinel errors for caller-facing failure classes. Handlers map these
// to 404 / 400; anything else is a ServiceError and maps to 500.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrBalanceNotFound matches ErrNotFound too; it exists so callers can
	// tell a missing Balance row apart from a missing Expense row.
	ErrBalanceNotFound = fmt.Errorf("balance %w", ErrNotFound)
)

// ServiceError wraps a persistence failure with the operation that hit it.
// The transaction has already been rolled back by the time one is returned.
type ServiceError struct {
	Op  string
	Err error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("ledger: %s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// serviceErr keeps sentinel errors untouched so errors.Is still matches,
// and wraps everything else.
func serviceErr(op string, err error) error {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidArgument) {
		return err
	}
	return &ServiceError{Op: op, Err: err}
}
