// Package domain holds the validated value objects, the User and Session
// entities, and the error taxonomy shared by repositories, services and
// handlers. Constructing a value object validates it; once an entity exists
// the rest of the code can assume its fields are well formed.
package domain

import (
	"errors"
	"fmt"
)

// Expected, recoverable-by-caller outcomes.
var (
	ErrUserAlreadyExists   = errors.New("user already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrSessionDoesNotExist = errors.New("session does not exist")
)

// Authentication failures. Handlers collapse all of these into a single
// generic 401 so a caller cannot tell which check failed.
var (
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrInvalidToken         = errors.New("invalid token")
	ErrExpiredToken         = errors.New("token expired")
)

// ValidationError reports the first rule a value object constructor found
// violated. It always fires before any I/O happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func validation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// SessionStorageError wraps a cache-layer I/O failure. It is distinct from
// ErrSessionDoesNotExist, which is a normal not-found outcome.
type SessionStorageError struct {
	Op  string
	Err error
}

func (e *SessionStorageError) Error() string {
	return fmt.Sprintf("session storage: %s: %v", e.Op, e.Err)
}

func (e *SessionStorageError) Unwrap() error { return e.Err }
