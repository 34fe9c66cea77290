package services

import (
	"errors"
	"fmt"
	"strings"

	"taskapi/internal/models"
	"taskapi/internal/repositories"
)

// TaskService handles business logic related to tasks. Every operation is
// scoped to the calling owner.
type TaskService struct {
	repo      repositories.TaskRepository
	publisher EventPublisher
}

// NewTaskService creates a new TaskService. publisher may be nil.
func NewTaskService(repo repositories.TaskRepository, publisher EventPublisher) *TaskService {
	return &TaskService{
		repo:      repo,
		publisher: publisher,
	}
}

// CreateTask creates a new, not yet completed task for ownerID.
func (s *TaskService) CreateTask(ownerID uint, title, description string) (*models.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrInvalidTitle
	}

	task := &models.Task{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Completed:   false,
	}
	if err := s.repo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	publish(s.publisher, models.TaskCreated, *task)
	return task, nil
}

// GetTask retrieves one of the owner's tasks.
func (s *TaskService) GetTask(ownerID, id uint) (*models.Task, error) {
	task, err := s.repo.GetByID(ownerID, id)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return task, nil
}

// ListTasks retrieves the owner's tasks matching filter in creation order.
func (s *TaskService) ListTasks(ownerID uint, filter models.TaskFilter) ([]models.Task, error) {
	tasks, err := s.repo.List(ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask applies a partial update to one of the owner's tasks.
func (s *TaskService) UpdateTask(ownerID, id uint, patch models.TaskPatch) (*models.Task, error) {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return nil, ErrInvalidTitle
	}

	task, err := s.repo.Update(ownerID, id, patch)
	if err != nil {
		return nil, translateNotFound(err)
	}

	if !patch.IsEmpty() {
		publish(s.publisher, models.TaskUpdated, *task)
	}
	return task, nil
}

// DeleteTask removes one of the owner's tasks.
func (s *TaskService) DeleteTask(ownerID, id uint) error {
	task, err := s.repo.GetByID(ownerID, id)
	if err != nil {
		return translateNotFound(err)
	}
	if err := s.repo.Delete(ownerID, id); err != nil {
		return translateNotFound(err)
	}

	publish(s.publisher, models.TaskDeleted, *task)
	return nil
}

func translateNotFound(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
