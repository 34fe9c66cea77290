package services

import (
	"log"

	"taskapi/internal/models"
)

// EventPublisher delivers task lifecycle events to interested consumers.
type EventPublisher interface {
	PublishTaskEvent(event models.TaskEvent) error
}

// publish sends an event if a publisher is configured. Failures are logged and
// never surface to the caller.
func publish(publisher EventPublisher, eventType string, task models.Task) {
	if publisher == nil {
		return
	}
	if err := publisher.PublishTaskEvent(models.NewTaskEvent(eventType, task)); err != nil {
		log.Printf("Warning: Failed to publish %s event for task %d: %v", eventType, task.ID, err)
	}
}
