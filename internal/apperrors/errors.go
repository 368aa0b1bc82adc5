package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the requested change contradicts the current state
// of the ledger (cycles, incompatible merges, duplicate codes).
var ErrConflict = errors.New("conflict")

// ErrConcurrency indicates that the operation collided with another in-flight
// structural change and may be retried.
var ErrConcurrency = errors.New("concurrent modification")

// ErrInternal indicates a broken invariant or infrastructure failure.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish code and a caller-facing message alongside the cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError wraps err with a code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// IsConflict reports whether err is a conflict of any flavour, duplicates included.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrDuplicate)
}
