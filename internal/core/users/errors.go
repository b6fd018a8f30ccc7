package users

import (
	"errors"
	"fmt"
)

// Sentinel errors for account operations
var (
	// ErrUserExists is returned when registering with an email that is
	// already taken
	ErrUserExists = errors.New("user already exists")

	// ErrUserNotFound is returned when no account matches the given email
	ErrUserNotFound = errors.New("user does not exist")

	// ErrInvalidPassword is returned when login credentials do not match
	ErrInvalidPassword = errors.New("invalid password")
)

// ValidationError represents a malformed-input error with field context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
