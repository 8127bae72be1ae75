package repositories

import "errors"

// Sentinel errors mapped to HTTP statuses by the controllers.
var (
	ErrNotFound          = errors.New("document not found")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrAlreadyRegistered = errors.New("user already registered for event")
	ErrEventFull         = errors.New("event is full")
	ErrDuplicateSignup   = errors.New("volunteer record already exists for user and event")
)
