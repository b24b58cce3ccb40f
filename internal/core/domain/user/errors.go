package user

import (
	"errors"
	"fmt"
)

var (
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrUserDoesNotExist      = errors.New("user does not exist")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidHashFormat     = errors.New("stored password hash is not a valid bcrypt hash")
)

type ValidationError struct {
	Field  string
	Reason error
}

func NewValidationError(field string, reason error) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}
