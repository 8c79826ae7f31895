package main

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both records that do not exist and records the
	// caller is not allowed to see, so responses cannot leak which one it was.
	ErrNotFound = errors.New("not found")

	// ErrForbidden means the record is visible to the caller but the
	// requested change is not allowed.
	ErrForbidden = errors.New("access forbidden")

	// ErrUsernameTaken is returned when a username collides with an
	// existing account.
	ErrUsernameTaken = errors.New("username already exists")
)

// ValidationError reports a malformed input field by name
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Msg)
}

func invalidField(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Msg: msg}
}
