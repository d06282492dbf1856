package catalog

import (
	"errors"
	"fmt"
)

// Domain errors surfaced by every catalog operation. Handlers translate them
// to HTTP statuses with errors.Is, so services wrap them with context via
// fmt.Errorf("...: %w", Err...).
var (
	// ErrValidation marks malformed or out-of-range input, e.g. a grade
	// outside [1,5] or a product referencing a missing category.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound marks a referenced entity that is absent or inactive.
	ErrNotFound = errors.New("not found")

	// ErrForbidden marks an authenticated caller that is not allowed to
	// perform this mutation.
	ErrForbidden = errors.New("forbidden")
)

// StoreError wraps a persistence failure. It is always surfaced to the
// caller, never swallowed; the transport boundary logs it and reports a
// generic failure.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store: %s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
