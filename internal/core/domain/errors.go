package domain

import "errors"

// Auth error taxonomy. The service layer collapses every lower-level failure
// into one of these before it reaches the HTTP layer; the error handler maps
// them to status codes in exactly one place.
var (
	ErrValidation         = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountInactive    = errors.New("account inactive")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)
