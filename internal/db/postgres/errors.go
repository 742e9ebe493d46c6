package postgres

import (
	"errors"
	"fmt"
)

// StoreError wraps any failure to connect to or execute against the database.
type StoreError struct {
	Err error
	Op  string
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsStoreError returns true if err is or wraps a *StoreError.
func IsStoreError(err error) bool {
	var storeErr *StoreError
	return errors.As(err, &storeErr)
}
