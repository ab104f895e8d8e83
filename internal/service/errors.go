package service

import "errors"

// Error taxonomy surfaced to the UI shell. All of these are recoverable:
// the shell re-prompts or shows a message, the operation is a no-op.
// Anything else bubbling out of a service is a persistence failure.
var (
	// ErrValidation covers empty or malformed user input
	ErrValidation = errors.New("validation error")

	// ErrDuplicateUser is returned when a username is already registered
	ErrDuplicateUser = errors.New("username already exists")

	// ErrAuth is returned on bad credentials. The message is deliberately
	// generic so callers cannot distinguish unknown users from wrong
	// passwords.
	ErrAuth = errors.New("incorrect username or password")

	// ErrNotFound is returned for an unknown id on update or delete
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock is returned when a purchase asks for more units
	// than are on hand
	ErrInsufficientStock = errors.New("insufficient stock")
)
