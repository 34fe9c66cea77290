package repositories

import "taskapi/internal/models"

// TaskRepository defines the interface for task data access. Every method
// except Create and Clear is scoped to an owner: a task belonging to someone
// else is reported as ErrNotFound, exactly like a missing one.
type TaskRepository interface {
	// Create assigns a fresh id to task and stores it.
	Create(task *models.Task) error
	GetByID(ownerID, id uint) (*models.Task, error)
	// List returns the owner's tasks matching filter in creation order.
	List(ownerID uint, filter models.TaskFilter) ([]models.Task, error)
	// Update applies patch atomically and returns the updated task.
	Update(ownerID, id uint, patch models.TaskPatch) (*models.Task, error)
	Delete(ownerID, id uint) error
	// Clear removes every task. Intended for test isolation only.
	Clear() error
}
