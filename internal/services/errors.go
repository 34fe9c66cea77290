package services

import "errors"

// Domain errors returned by the services. Handlers map each one to a single
// HTTP status code.
var (
	ErrDuplicateUsername  = errors.New("username already taken")
	ErrWeakPassword       = errors.New("password must be at least 4 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidTitle       = errors.New("title must not be empty")
	ErrNotFound           = errors.New("task not found")
)
