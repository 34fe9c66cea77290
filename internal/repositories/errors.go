package repositories

import "errors"

var (
	// ErrNotFound is returned when a record does not exist or is not visible
	// to the requesting owner.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateUsername is returned when a user with the same username
	// already exists.
	ErrDuplicateUsername = errors.New("username already exists")
)
