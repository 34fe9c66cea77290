package models

import "time"

// Task lifecycle event types.
const (
	TaskCreated = "task.created"
	TaskUpdated = "task.updated"
	TaskDeleted = "task.deleted"
)

// TaskEvent describes a change to a task, published to the message broker.
type TaskEvent struct {
	Type       string    `json:"type"`
	TaskID     uint      `json:"task_id"`
	OwnerID    uint      `json:"owner_id"`
	Title      string    `json:"title,omitempty"`
	Completed  bool      `json:"completed"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewTaskEvent builds an event of the given type for task.
func NewTaskEvent(eventType string, task Task) TaskEvent {
	return TaskEvent{
		Type:       eventType,
		TaskID:     task.ID,
		OwnerID:    task.OwnerID,
		Title:      task.Title,
		Completed:  task.Completed,
		OccurredAt: time.Now().UTC(),
	}
}
