package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"taskapi/internal/models"
)

// MemoryTaskRepository is an in-memory implementation of TaskRepository.
type MemoryTaskRepository struct {
	tasks  map[uint]models.Task
	nextID uint
	mu     sync.RWMutex
}

// NewMemoryTaskRepository creates a new instance of MemoryTaskRepository.
func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{
		tasks:  make(map[uint]models.Task),
		nextID: 1,
	}
}

// Create adds a new task.
func (r *MemoryTaskRepository) Create(task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task.ID = r.nextID
	r.nextID++
	task.CreatedAt = time.Now()
	task.UpdatedAt = task.CreatedAt
	r.tasks[task.ID] = *task
	return nil
}

// GetByID returns a task owned by ownerID.
func (r *MemoryTaskRepository) GetByID(ownerID, id uint) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.lookup(ownerID, id)
	if !ok {
		return nil, fmt.Errorf("task with ID %d: %w", id, ErrNotFound)
	}
	return &task, nil
}

// List returns the owner's tasks that match filter, oldest first.
func (r *MemoryTaskRepository) List(ownerID uint, filter models.TaskFilter) ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	taskList := make([]models.Task, 0)
	for _, task := range r.tasks {
		if task.OwnerID == ownerID && filter.Matches(task) {
			taskList = append(taskList, task)
		}
	}
	// Ids are handed out in increasing order, so id order is creation order.
	sort.Slice(taskList, func(i, j int) bool { return taskList[i].ID < taskList[j].ID })
	return taskList, nil
}

// Update applies patch to a task owned by ownerID.
func (r *MemoryTaskRepository) Update(ownerID, id uint, patch models.TaskPatch) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.lookup(ownerID, id)
	if !ok {
		return nil, fmt.Errorf("task with ID %d not found for update: %w", id, ErrNotFound)
	}
	if !patch.IsEmpty() {
		patch.Apply(&task)
		task.UpdatedAt = time.Now()
		r.tasks[id] = task
	}
	return &task, nil
}

// Delete removes a task owned by ownerID.
func (r *MemoryTaskRepository) Delete(ownerID, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.lookup(ownerID, id); !ok {
		return fmt.Errorf("task with ID %d not found for deletion: %w", id, ErrNotFound)
	}
	delete(r.tasks, id)
	return nil
}

// Clear removes every task. The id sequence keeps counting so ids are never reused.
func (r *MemoryTaskRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tasks = make(map[uint]models.Task)
	return nil
}

// lookup must be called with r.mu held.
func (r *MemoryTaskRepository) lookup(ownerID, id uint) (models.Task, bool) {
	task, ok := r.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return models.Task{}, false
	}
	return task, true
}
