package repositories

import (
	"errors"
	"fmt"

	"taskapi/internal/models"

	"gorm.io/gorm"
)

// GORMTaskRepository is a GORM implementation of TaskRepository.
//
// Title search uses SQLite's instr(), which unlike LIKE is case-sensitive.
type GORMTaskRepository struct {
	db *gorm.DB
}

// NewGORMTaskRepository creates a new instance of GORMTaskRepository.
func NewGORMTaskRepository(db *gorm.DB) *GORMTaskRepository {
	return &GORMTaskRepository{
		db: db,
	}
}

// Create creates a new task in the database.
func (r *GORMTaskRepository) Create(task *models.Task) error {
	task.ID = 0
	if err := r.db.Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

// GetByID retrieves a task owned by ownerID from the database.
func (r *GORMTaskRepository) GetByID(ownerID, id uint) (*models.Task, error) {
	var task models.Task
	if err := r.db.Where("id = ? AND owner_id = ?", id, ownerID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("task with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get task by ID %d: %w", id, err)
	}
	return &task, nil
}

// List retrieves the owner's tasks that match filter, oldest first.
func (r *GORMTaskRepository) List(ownerID uint, filter models.TaskFilter) ([]models.Task, error) {
	query := r.db.Where("owner_id = ?", ownerID)
	if filter.Completed != nil {
		query = query.Where("completed = ?", *filter.Completed)
	}
	if filter.Search != "" {
		query = query.Where("instr(title, ?) > 0", filter.Search)
	}

	tasks := make([]models.Task, 0)
	if err := query.Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks for owner %d: %w", ownerID, err)
	}
	return tasks, nil
}

// Update applies patch to a task owned by ownerID inside a transaction.
func (r *GORMTaskRepository) Update(ownerID, id uint, patch models.TaskPatch) (*models.Task, error) {
	var task models.Task
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND owner_id = ?", id, ownerID).First(&task).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("task with ID %d not found for update: %w", id, ErrNotFound)
			}
			return fmt.Errorf("failed to load task %d for update: %w", id, err)
		}
		if patch.IsEmpty() {
			return nil
		}

		// A map keeps zero values such as completed=false in the UPDATE.
		updates := make(map[string]interface{}, 3)
		if patch.Title != nil {
			updates["title"] = *patch.Title
		}
		if patch.Description != nil {
			updates["description"] = *patch.Description
		}
		if patch.Completed != nil {
			updates["completed"] = *patch.Completed
		}
		if err := tx.Model(&task).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update task %d: %w", id, err)
		}
		return tx.First(&task, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Delete soft-deletes a task owned by ownerID.
func (r *GORMTaskRepository) Delete(ownerID, id uint) error {
	res := r.db.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Task{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("task with ID %d not found for deletion: %w", id, ErrNotFound)
	}
	return nil
}

// Clear soft-deletes every task. The rows stay behind so ids are never reused.
func (r *GORMTaskRepository) Clear() error {
	if err := r.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Task{}).Error; err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}
	return nil
}
