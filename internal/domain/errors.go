package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("incorrect username or password")
)

// ValidationError reports input rejected before it reaches a store.
type ValidationError struct {
	error
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{fmt.Errorf(format, args...)}
}

func (e *ValidationError) Unwrap() error {
	return e.error
}
