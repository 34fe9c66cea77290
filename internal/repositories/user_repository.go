package repositories

import "taskapi/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	// Create assigns an id to user and stores it. It fails with
	// ErrDuplicateUsername if the username is taken.
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	// Clear removes every user. Intended for test isolation only.
	Clear() error
}
