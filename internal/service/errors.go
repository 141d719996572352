package service

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks caller supplied data that violates a precondition.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks an id that is not in the expected list.
	ErrNotFound = errors.New("task not found")
	// ErrStorage marks a failed key-value store read or write.
	ErrStorage = errors.New("storage failure")
)

// Warning is a non-fatal problem that was logged and worked around.
type Warning struct {
	Op  string
	Err error
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s: %v", w.Op, w.Err)
}

func (w Warning) Unwrap() error {
	return w.Err
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
