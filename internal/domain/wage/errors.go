package wage

import (
	"errors"
	"fmt"
)

var (
	ErrWageEntryNotFound  = errors.New("wage entry not found")
	ErrDailyEntryConflict = errors.New("worker already has an entry of this type on that date")
	ErrBonusNotFound      = errors.New("bonus not found")
	ErrPaymentNotFound    = errors.New("payment mark not found")
)

// PersistenceError wraps a failure reported by the database, keeping its message.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError returns nil when err is nil.
func NewPersistenceError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}
