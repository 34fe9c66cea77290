package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Task represents a to-do item owned by a single user.
type Task struct {
	ID          uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	OwnerID     uint           `json:"owner_id" gorm:"index;not null"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description"`
	Completed   bool           `json:"completed" gorm:"not null;default:false"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"` // Soft delete keeps ids from being reused
}

// TaskFilter narrows a task listing. Zero values impose no restriction.
type TaskFilter struct {
	Completed *bool
	Search    string // Case-sensitive substring of the title
}

// Matches reports whether task satisfies the filter.
func (f TaskFilter) Matches(task Task) bool {
	if f.Completed != nil && task.Completed != *f.Completed {
		return false
	}
	return f.Search == "" || strings.Contains(task.Title, f.Search)
}

// TaskPatch is a partial update; nil fields keep their current value.
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}

// Apply writes the non-nil fields of the patch onto task.
func (p TaskPatch) Apply(task *Task) {
	if p.Title != nil {
		task.Title = *p.Title
	}
	if p.Description != nil {
		task.Description = *p.Description
	}
	if p.Completed != nil {
		task.Completed = *p.Completed
	}
}
